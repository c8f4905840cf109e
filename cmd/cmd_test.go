package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/glint-player/glint/config"
	"github.com/glint-player/glint/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func execute(args ...string) string {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	So(rootCmd.Execute(), ShouldBeNil)
	return out.String()
}

func TestCommands(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()
	t.Setenv("GLINT_CONFIG_PATH", "/glint-cmd-test")
	if err := config.Setup(); err != nil {
		t.Fatal(err)
	}

	Convey("Given the command tree", t, func() {
		Convey("props lists registry entries as JSON", func() {
			propsCmd.SetOut(nil)
			var entries []map[string]string
			So(json.Unmarshal([]byte(execute("props", "--kind", "bool", "--json", "pause")), &entries), ShouldBeNil)
			So(entries, ShouldNotBeEmpty)
			So(entries[0], ShouldResemble, map[string]string{"name": "pause", "kind": "bool"})
		})

		Convey("ipc schema describes requests", func() {
			ipcSchemaCmd.SetOut(nil)
			var schema map[string]any
			So(json.Unmarshal([]byte(execute("ipc", "schema")), &schema), ShouldBeNil)
			So(schema["properties"], ShouldContainKey, "args")
		})

		Convey("version --short prints the version", func() {
			versionCmd.SetOut(nil)
			So(execute("version", "--short"), ShouldNotBeEmpty)
		})

		Convey("config get prints the current value", func() {
			So(execute("config", "get", "compositor.batch"), ShouldEqual, "8\n")
		})
	})
}
