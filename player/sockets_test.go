package player

import (
	"path/filepath"
	"testing"

	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCollectStaleSockets(t *testing.T) {
	Convey("Given leftovers in the runtime directory", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		t.Setenv("XDG_RUNTIME_DIR", "/run/user/glint-test")

		dir := where.Runtime()
		fs := filesystem.API()
		lo.Must0(fs.WriteFile(filepath.Join(dir, "mpv-deadbeef.sock"), nil, 0o600))
		lo.Must0(fs.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600))

		Convey("Unreachable engine sockets are removed", func() {
			So(CollectStaleSockets(), ShouldEqual, 1)
			So(lo.Must(fs.Exists(filepath.Join(dir, "mpv-deadbeef.sock"))), ShouldBeFalse)
			So(lo.Must(fs.Exists(filepath.Join(dir, "notes.txt"))), ShouldBeTrue)
		})
	})
}
