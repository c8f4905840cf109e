// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "GLINT_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the application configuration directory.
// The GLINT_CONFIG_PATH environment variable takes precedence over the platform default.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Cache resolves the directory for probe results that can be recomputed.
func Cache() string {
	base := lo.Must(os.UserCacheDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Runtime resolves a per-user volatile directory for sockets.
// XDG_RUNTIME_DIR is preferred; the system temp directory is the fallback.
func Runtime() string {
	base, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if !ok || base == "" {
		base = os.TempDir()
	}
	return ensureDir(filepath.Join(base, constant.App))
}
