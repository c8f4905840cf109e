package where

import (
	"path/filepath"
	"testing"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/tmp/glint-test-config")
			So(Config(), ShouldEqual, "/tmp/glint-test-config")
			So(lo.Must(filesystem.API().IsDir(Config())), ShouldBeTrue)
		})

		Convey("Logs lives under Config", func() {
			t.Setenv(EnvConfigPath, "/tmp/glint-test-config")
			So(Logs(), ShouldEqual, filepath.Join("/tmp/glint-test-config", "logs"))
		})

		Convey("Cache is created on demand", func() {
			So(lo.Must(filesystem.API().IsDir(Cache())), ShouldBeTrue)
			So(filepath.Base(Cache()), ShouldEqual, constant.App)
		})

		Convey("Runtime prefers XDG_RUNTIME_DIR", func() {
			t.Setenv("XDG_RUNTIME_DIR", "/run/user/4242")
			So(Runtime(), ShouldEqual, filepath.Join("/run/user/4242", constant.App))
			So(lo.Must(filesystem.API().IsDir(Runtime())), ShouldBeTrue)
		})
	})
}
