package config

import (
	"testing"

	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		t.Setenv(where.EnvConfigPath, "/glint-config-test")

		Convey("Without a file, defaults are populated", func() {
			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.CompositorBatch), ShouldEqual, 8)
			So(viper.GetInt(key.CompositorParallelThreshold), ShouldEqual, 4*1024*1024)
			So(viper.GetString(key.PlayerBinary), ShouldEqual, "mpv")
		})

		Convey("A toml file overrides defaults", func() {
			So(filesystem.API().WriteFile(Path(), []byte("[compositor]\nbatch = 3\n"), 0o644), ShouldBeNil)
			So(Setup(), ShouldBeNil)
			So(viper.GetInt(key.CompositorBatch), ShouldEqual, 3)
			viper.Set(key.CompositorBatch, 8)
		})

		Convey("Environment variables override the file", func() {
			t.Setenv("GLINT_IPC_LISTEN", "127.0.0.1:9999")
			So(Setup(), ShouldBeNil)
			So(viper.GetString(key.IPCListen), ShouldEqual, "127.0.0.1:9999")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.CompositorBatch]

		Convey("Env uses the app prefix", func() {
			So(field.Env(), ShouldEqual, "GLINT_COMPOSITOR_BATCH")
		})

		Convey("Parse follows the default's type", func() {
			v, err := field.Parse([]string{"12"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 12)

			_, err = field.Parse([]string{"twelve"})
			So(err, ShouldNotBeNil)

			b := Default[key.WindowVsync]
			v, err = b.Parse([]string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)
		})

		Convey("EnvKeyReplacer converts dots to underscores", func() {
			So(EnvKeyReplacer.Replace("player.drain_limit"), ShouldEqual, "player_drain_limit")
		})

		Convey("TypeName reports the value type", func() {
			listen := Default[key.IPCListen]
			So(listen.TypeName(), ShouldEqual, "string")
			tuiEnable := Default[key.TUIEnable]
			So(tuiEnable.TypeName(), ShouldEqual, "bool")
		})
	})
}
