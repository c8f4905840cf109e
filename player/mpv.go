package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/property"
	"github.com/glint-player/glint/where"
	"github.com/spf13/viper"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 150 * time.Millisecond
	quitGrace         = 3 * time.Second
)

// MPV is an Engine backed by an mpv process and its JSON-IPC socket.
// It has no render API: mpv draws into its own window. LibMPV is the embedded alternative.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	conn       *conn

	observeID atomic.Int64
	closeOnce sync.Once
	closeErr  error
}

// Args builds the mpv command line from the configuration.
func Args(socketPath, media string) ([]string, error) {
	args := []string{
		"--no-terminal",
		"--idle=yes",
		"--force-window=yes",
		"--input-ipc-server=" + socketPath,
		"--title=" + viper.GetString(key.WindowTitle),
	}
	for _, option := range options() {
		args = append(args, "--"+option[0]+"="+option[1])
	}

	if media != "" {
		target, err := sanitizeMediaTarget(media)
		if err != nil {
			return nil, fmt.Errorf("invalid media target: %w", err)
		}
		args = append(args, "--", target)
	}

	return args, nil
}

// StartMPV spawns mpv idle (or playing media) and connects to its IPC socket.
func StartMPV(media string) (*MPV, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return nil, fmt.Errorf("generate socket name: %w", err)
	}
	socketPath := filepath.Join(where.Runtime(), fmt.Sprintf("mpv-%x.sock", suffix))

	args, err := Args(socketPath, media)
	if err != nil {
		return nil, err
	}

	m := &MPV{
		socketPath: socketPath,
		exited:     make(chan struct{}),
	}

	m.cmd = exec.Command(viper.GetString(key.PlayerBinary), args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdin, m.cmd.Stdout, m.cmd.Stderr = nil, nil, nil

	if err := m.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}
	log.Infof("started %s (pid %d) on %s", m.cmd.Path, m.cmd.Process.Pid, socketPath)

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	raw, err := m.waitForSocket()
	if err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.conn = newConn(raw, socketTimeout())
	return m, nil
}

// DialMPV attaches to an already running mpv IPC socket. Close does not stop that process.
func DialMPV(socketPath string) (*MPV, error) {
	raw, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial mpv: %w", err)
	}
	return &MPV{conn: newConn(raw, socketTimeout())}, nil
}

func socketTimeout() time.Duration {
	ms := viper.GetInt(key.PlayerSocketTimeout)
	if ms <= 0 {
		ms = 3000
	}
	return time.Duration(ms) * time.Millisecond
}

func (m *MPV) waitForSocket() (net.Conn, error) {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return nil, fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		raw, err := net.Dial("unix", m.socketPath)
		if err == nil {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// SetWakeup registers f to be called from the reader goroutine whenever an event arrives.
func (m *MPV) SetWakeup(f func()) {
	m.conn.wakeup.Store(&f)
}

// Socket returns the IPC socket path, empty for dialed instances.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Exited is closed when a spawned mpv process ends. It is nil for dialed instances.
func (m *MPV) Exited() <-chan struct{} {
	return m.exited
}

func (m *MPV) Command(name string, args ...any) error {
	_, err := m.conn.call(append([]any{name}, args...)...)
	return err
}

func (m *MPV) SetProperty(name string, value any) error {
	_, err := m.conn.call("set_property", name, value)
	return err
}

func (m *MPV) GetProperty(name string, kind property.Kind) (any, error) {
	if kind == property.KindString {
		return m.conn.call("get_property_string", name)
	}
	return m.conn.call("get_property", name)
}

func (m *MPV) ObserveProperty(name string, kind property.Kind) error {
	id := m.observeID.Add(1)
	command := "observe_property"
	if kind == property.KindString {
		command = "observe_property_string"
	}
	_, err := m.conn.call(command, id, name)
	return err
}

func (m *MPV) PollEvent(timeout time.Duration) (*NativeEvent, error) {
	return m.conn.poll(timeout)
}

func (m *MPV) NewRenderContext(Surface, func()) (RenderContext, error) {
	return nil, ErrRenderUnsupported
}

// Close quits mpv, waiting briefly before killing it, and removes the socket.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		if m.cmd != nil {
			_, _ = m.conn.call("quit")
		}
		m.closeErr = m.conn.close()

		if m.cmd == nil {
			return
		}

		select {
		case <-m.exited:
		case <-time.After(quitGrace):
			_ = killProcess(m.cmd)
		}
		_ = os.Remove(m.socketPath)
	})
	return m.closeErr
}

// sanitizeMediaTarget rejects targets that mpv could read as options.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty target")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("target must not start with '-'")
	}

	if strings.Contains(l, "://") || strings.HasPrefix(l, "magnet:") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file", "magnet", "rtmp", "rtsp":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

var _ Engine = (*MPV)(nil)

var _ Process = (*MPV)(nil)
