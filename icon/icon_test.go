package icon

import (
	"testing"

	"github.com/glint-player/glint/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the playback icons", t, func() {
		Convey("Every variant renders something", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				for _, i := range []Icon{Playing, Paused, Stopped, Fail} {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("An unknown variant renders nothing", func() {
			viper.Set(key.IconsVariant, "kaomoji")
			So(Get(Playing), ShouldBeEmpty)
		})

		Convey("An unregistered icon renders nothing", func() {
			viper.Set(key.IconsVariant, plain)
			So(Get(Icon(99)), ShouldBeEmpty)
		})
	})
}
