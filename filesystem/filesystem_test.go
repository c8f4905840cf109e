package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackendSwap(t *testing.T) {
	Convey("Given the in-memory backend", t, func() {
		SetMemMapFs()
		defer SetOsFs()

		Convey("Files written through API are readable through API", func() {
			So(API().WriteFile("/glint/probe.toml", []byte("a = 1"), 0o644), ShouldBeNil)

			data, err := API().ReadFile("/glint/probe.toml")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "a = 1")
		})

		Convey("Switching back to the OS backend drops in-memory files", func() {
			So(API().WriteFile("/glint-mem-only", []byte("x"), 0o644), ShouldBeNil)
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")

			exists, _ := API().Exists("/glint-mem-only")
			So(exists, ShouldBeFalse)
		})
	})
}
