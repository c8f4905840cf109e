package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/log"
	"github.com/spf13/viper"
)

// ErrLibMPVUnavailable is returned when the binary was built without libmpv.
var ErrLibMPVUnavailable = errors.New("built without libmpv")

// Process is an Engine whose lifetime the host watches.
type Process interface {
	Engine
	// SetWakeup registers f to be called from an engine thread whenever an event is pending.
	SetWakeup(f func())
	// Exited is closed once the engine has shut down on its own.
	Exited() <-chan struct{}
}

// Engine names accepted by player.engine.
const (
	EngineLibMPV = "libmpv"
	EngineIPC    = "ipc"
)

// StartEngine starts the configured engine. libmpv falls back to the IPC engine when unavailable.
func StartEngine(media string) (Process, error) {
	switch name := strings.ToLower(viper.GetString(key.PlayerEngine)); name {
	case EngineLibMPV, "":
		engine, err := StartLibMPV(media)
		if err == nil {
			return engine, nil
		}
		if !errors.Is(err, ErrLibMPVUnavailable) {
			return nil, err
		}
		log.Warnf("%s, driving %s over IPC", err, viper.GetString(key.PlayerBinary))
		return StartMPV(media)
	case EngineIPC:
		return StartMPV(media)
	default:
		return nil, fmt.Errorf("unknown engine %q, expected %s or %s", name, EngineLibMPV, EngineIPC)
	}
}

// options are the mpv options shared by both engines, in order.
func options() [][2]string {
	return [][2]string{
		{"hwdec", viper.GetString(key.PlayerHwdec)},
		{"msg-level", viper.GetString(key.PlayerMsgLevel)},
		{"cache", yesNo(viper.GetBool(key.PlayerCache))},
		{"demuxer-max-bytes", strconv.Itoa(viper.GetInt(key.PlayerDemuxerMaxBytes))},
		{"demuxer-readahead-secs", strconv.Itoa(viper.GetInt(key.PlayerDemuxerReadaheadSecs))},
	}
}

// embeddedOptions configure mpv to render through the render API instead of its own window.
func embeddedOptions() [][2]string {
	return append([][2]string{
		{"vo", "libmpv"},
		{"idle", "yes"},
		{"terminal", "no"},
		{"vd-lavc-dr", "yes"},
		{"video-timing-offset", "0"},
	}, options()...)
}

// commandArg renders a command argument the way mpv's string command interface expects.
func commandArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case bool:
		return yesNo(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
