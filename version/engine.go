package version

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/where"
	"github.com/metafates/gache"
)

// MinEngine is the oldest mpv release whose JSON IPC has everything the proxy relies on.
const MinEngine = "0.35.0"

var ErrNoVersion = errors.New("could not find a version in engine output")

var engineVersion = regexp.MustCompile(`(?m)^mpv\s+v?(\d+\.\d+(?:\.\d+)?\S*)`)

type probe struct {
	Binary  string `json:"binary"`
	Version string `json:"version"`
}

var probeCacher = gache.New[probe](&gache.Options{
	Path:       filepath.Join(where.Cache(), "engine.json"),
	Lifetime:   time.Hour * 24,
	FileSystem: &filesystem.GacheFs{},
})

// ParseEngine extracts the release from `mpv --version` output.
func ParseEngine(output string) (string, error) {
	match := engineVersion.FindStringSubmatch(output)
	if match == nil {
		return "", ErrNoVersion
	}
	return match[1], nil
}

// Engine returns the release of binary. Results are cached for a day per resolved path.
func Engine(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}

	if cached, expired, err := probeCacher.Get(); err == nil && !expired && cached.Binary == path && cached.Version != "" {
		return cached.Version, nil
	}

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", binary, err)
	}

	v, err := ParseEngine(string(out))
	if err != nil {
		return "", err
	}

	_ = probeCacher.Set(probe{Binary: path, Version: v})
	return v, nil
}

// Supported reports whether v is at least MinEngine.
func Supported(v string) bool {
	cmp, err := Compare(v, MinEngine)
	return err == nil && cmp >= 0
}
