// Package open hands links to the desktop's default handler.
package open

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/glint-player/glint/constant"
)

var ErrUnsupportedScheme = errors.New("only http and https links can be opened")

// External opens a web link requested by the UI. Anything but http(s) is refused.
func External(link string) error {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return fmt.Errorf("parse link: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	return Start(u.String())
}

// Start launches the default handler for input without waiting for it.
func Start(input string) error {
	cmd, ok := command(input)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

func command(input string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), true
	case constant.Darwin:
		return exec.Command("open", input), true
	case constant.Linux:
		return exec.Command("xdg-open", input), true
	default:
		return nil, false
	}
}
