// Package property classifies playback engine properties into fixed value kinds and marshals typed values.
//
// The registry is the single source of truth for which properties may be observed or set.
// Every registered name maps to exactly one Kind; a value whose kind disagrees is a conversion
// error rather than a panic.
package property

import (
	"sort"
)

// Kind is the value domain of a registered property.
type Kind int

const (
	KindFloat Kind = iota + 1
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "float":
		return KindFloat, true
	case "bool":
		return KindBool, true
	case "string":
		return KindString, true
	default:
		return 0, false
	}
}

var registry = map[string]Kind{
	"time-pos":              KindFloat,
	"duration":              KindFloat,
	"volume":                KindFloat,
	"speed":                 KindFloat,
	"sub-scale":             KindFloat,
	"sub-pos":               KindFloat,
	"sub-delay":             KindFloat,
	"audio-delay":           KindFloat,
	"cache-buffering-state": KindFloat,
	"demuxer-cache-time":    KindFloat,
	"video-zoom":            KindFloat,
	"panscan":               KindFloat,

	"pause":            KindBool,
	"buffering":        KindBool,
	"paused-for-cache": KindBool,
	"seeking":          KindBool,
	"eof-reached":      KindBool,
	"idle-active":      KindBool,
	"mute":             KindBool,
	"core-idle":        KindBool,

	"aid":                    KindString,
	"vid":                    KindString,
	"sid":                    KindString,
	"hwdec":                  KindString,
	"hwdec-current":          KindString,
	"media-title":            KindString,
	"path":                   KindString,
	"metadata":               KindString,
	"track-list":             KindString,
	"video-params":           KindString,
	"sub-color":              KindString,
	"sub-back-color":         KindString,
	"sub-border-color":       KindString,
	"sub-font":               KindString,
	"mpv-version":            KindString,
	"ffmpeg-version":         KindString,
	"input-default-bindings": KindString,
	"input-vo-keyboard":      KindString,
	"loop-file":              KindString,
	"vo":                     KindString,
}

// Lookup returns the registered kind of name.
func Lookup(name string) (Kind, bool) {
	k, ok := registry[name]
	return k, ok
}

// Names returns the sorted names registered with kind. A zero kind returns every name.
func Names(kind Kind) []string {
	names := make([]string, 0, len(registry))
	for name, k := range registry {
		if kind == 0 || k == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
