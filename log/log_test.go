package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestLogging(t *testing.T) {
	Convey("Given a configured logger", t, func() {
		var buf bytes.Buffer

		Convey("Entries carry the component field in JSON mode", func() {
			Configure(&buf, "debug", true)
			For("compositor").Warn("staging map failed")

			var entry map[string]any
			So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)
			So(entry["component"], ShouldEqual, "compositor")
			So(entry["level"], ShouldEqual, "warning")
			So(entry["msg"], ShouldEqual, "staging map failed")
		})

		Convey("Levels below the threshold are filtered", func() {
			Configure(&buf, "error", false)
			Infof("drained %d events", 3)
			So(buf.Len(), ShouldEqual, 0)

			Errorf("engine gone: %s", "eof")
			So(buf.String(), ShouldContainSubstring, "engine gone: eof")
		})

		Convey("Unknown levels fall back to info", func() {
			Configure(&buf, "chatty", false)
			Debugf("hidden")
			Info("shown")
			So(buf.String(), ShouldNotContainSubstring, "hidden")
			So(buf.String(), ShouldContainSubstring, "shown")
		})
	})

	Convey("Setup with logs.write creates a daily file", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		t.Setenv(where.EnvConfigPath, "/glint-log-test")

		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "info")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)
		Info("hello")

		entries, err := filesystem.API().ReadDir(where.Logs())
		So(err, ShouldBeNil)
		So(entries, ShouldHaveLength, 1)
	})
}
