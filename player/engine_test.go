package player

import (
	"testing"

	"github.com/glint-player/glint/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestEngineSelection(t *testing.T) {
	Convey("An unknown engine name is rejected before anything starts", t, func() {
		viper.Set(key.PlayerEngine, "vlc")
		defer viper.Set(key.PlayerEngine, EngineLibMPV)

		_, err := StartEngine("")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, `unknown engine "vlc"`)
	})
}

func TestEmbeddedOptions(t *testing.T) {
	Convey("Given the embedded engine options", t, func() {
		viper.Set(key.PlayerHwdec, "vaapi")
		viper.Set(key.PlayerCache, true)
		opts := embeddedOptions()

		Convey("Video goes through the render API", func() {
			So(opts[0], ShouldResemble, [2]string{"vo", "libmpv"})
			So(opts, ShouldContain, [2]string{"idle", "yes"})
		})

		Convey("Shared options follow", func() {
			So(opts, ShouldContain, [2]string{"hwdec", "vaapi"})
			So(opts, ShouldContain, [2]string{"cache", "yes"})
		})
	})
}

func TestCommandArg(t *testing.T) {
	Convey("Command arguments are rendered as mpv strings", t, func() {
		So(commandArg("a.mkv"), ShouldEqual, "a.mkv")
		So(commandArg(true), ShouldEqual, "yes")
		So(commandArg(12.5), ShouldEqual, "12.5")
		So(commandArg(10.0), ShouldEqual, "10")
		So(commandArg(3), ShouldEqual, "3")
		So(commandArg(nil), ShouldEqual, "")
	})
}
