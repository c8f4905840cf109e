package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes both the current and the default value.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.TypeName(),
	})
}

// TypeName returns the name of the field's value type.
func (f *Field) TypeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Parse converts raw CLI input into a value of the field's type.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no value given for %s", f.Key)
	}

	switch f.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		v, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		return v, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported type for %s", f.Key)
	}
}

// Default holds every configuration field keyed by name.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.WindowWidth, 1280, "Initial window width in pixels")
	register(key.WindowHeight, 720, "Initial window height in pixels")
	register(key.WindowTitle, "glint", "Window title")
	register(key.WindowVsync, true, "Synchronize buffer swaps with the display refresh")

	register(key.PlayerEngine, "libmpv", "Playback engine: libmpv renders into the window, ipc drives an external mpv process.\nlibmpv falls back to ipc when the binary was built without it")
	register(key.PlayerBinary, "mpv", "Path or name of the mpv executable")
	register(key.PlayerHwdec, "auto-safe", "Hardware decoding mode passed to mpv.\nFalls back to software decoding when unsupported")
	register(key.PlayerMsgLevel, "all=no", "mpv --msg-level value")
	register(key.PlayerCache, true, "Enable the mpv demuxer cache")
	register(key.PlayerDemuxerMaxBytes, 100000000, "Maximum demuxer cache size in bytes")
	register(key.PlayerDemuxerReadaheadSecs, 20, "Seconds of media the demuxer reads ahead")
	register(key.PlayerDrainLimit, 256, "Maximum engine events converted per loop tick.\nRemaining events are drained on the next tick")
	register(key.PlayerSocketTimeout, 3000, "Milliseconds to wait for an mpv IPC reply")

	register(key.IdleInhibit, true, "Suspend the screensaver while media plays")

	register(key.CompositorParallelThreshold, 4*1024*1024, "Updates larger than this many bytes are staged by multiple workers")
	register(key.CompositorTaskBytes, 32*1024, "Target bytes copied per worker task on the parallel path")
	register(key.CompositorBatch, 8, "Maximum UI pixel rectangles applied per paint")

	register(key.IPCEnable, true, "Serve the UI websocket transport")
	register(key.IPCListen, "127.0.0.1:11471", "Address of the UI websocket transport")

	register(key.TUIEnable, false, "Show the terminal playback panel while the window is open")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")

	register(key.CliColored, true, "Enable colored CLI output")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(style.Mauve),
	"blue":     style.Fg(style.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(style.Green)(b)
			}
			return style.Fg(style.Red)(b)
		case string:
			return style.Fg(style.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
