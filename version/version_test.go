package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Releases are ordered numerically", t, func() {
		cmp := func(a, b string) int {
			c, err := Compare(a, b)
			So(err, ShouldBeNil)
			return c
		}

		So(cmp("0.35.0", "0.35.0"), ShouldEqual, 0)
		So(cmp("0.36.0", "0.35.1"), ShouldEqual, 1)
		So(cmp("v0.9.1", "0.10.0"), ShouldEqual, -1)
		So(cmp("0.38.0-437-g1f2d3c4", "0.38.0"), ShouldEqual, 0)
		So(cmp("0.37", "0.37.0"), ShouldEqual, 0)

		_, err := Compare("git-master", "0.35.0")
		So(err, ShouldNotBeNil)
	})
}

func TestParseEngine(t *testing.T) {
	Convey("Given mpv --version output", t, func() {
		Convey("A release build", func() {
			v, err := ParseEngine("mpv 0.37.0 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects\n built on Sat Nov 25 2023\n")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.37.0")
			So(Supported(v), ShouldBeTrue)
		})

		Convey("A git build", func() {
			v, err := ParseEngine("mpv v0.38.0-437-g1f2d3c4 Copyright © 2000-2024 mpv/MPlayer/mplayer2 projects\n")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.38.0-437-g1f2d3c4")
			So(Supported(v), ShouldBeTrue)
		})

		Convey("An old release", func() {
			v, err := ParseEngine("mpv 0.32.0 Copyright © 2000-2020 mpv/MPlayer/mplayer2 projects\n")
			So(err, ShouldBeNil)
			So(Supported(v), ShouldBeFalse)
		})

		Convey("Unrelated output", func() {
			_, err := ParseEngine("command not found")
			So(err, ShouldEqual, ErrNoVersion)
		})
	})
}
