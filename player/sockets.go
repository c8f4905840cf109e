package player

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/where"
)

// CollectStaleSockets removes IPC sockets left behind by engines that are no longer running.
// A socket is stale when nothing accepts a connection on it. It returns the number removed.
func CollectStaleSockets() int {
	dir := where.Runtime()
	fs := filesystem.API()

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return 0
	}

	var removed int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "mpv-") || !strings.HasSuffix(name, ".sock") {
			continue
		}

		path := filepath.Join(dir, name)
		if conn, err := net.DialTimeout("unix", path, 100*time.Millisecond); err == nil {
			_ = conn.Close()
			continue
		}

		if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
			log.For("player").Warnf("remove stale socket %s: %s", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.For("player").Infof("removed %d stale sockets", removed)
	}
	return removed
}
