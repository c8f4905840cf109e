// Package icon renders UI symbols in the variant chosen by the icons.variant setting.
package icon

import (
	"github.com/glint-player/glint/key"
	"github.com/spf13/viper"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns every supported icon style.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Warn
	Playing
	Paused
	Stopped
)

type iconDef struct {
	emoji, nerd, plain string
}

var icons = map[Icon]*iconDef{
	Fail:    {emoji: "💥", nerd: "\uf00d", plain: "x"},
	Success: {emoji: "🎉", nerd: "\uf00c", plain: "ok"},
	Warn:    {emoji: "⚠️", nerd: "\uf071", plain: "!"},
	Playing: {emoji: "▶️", nerd: "\uf04b", plain: ">"},
	Paused:  {emoji: "⏸️", nerd: "\uf04c", plain: "||"},
	Stopped: {emoji: "⏹️", nerd: "\uf04d", plain: "[]"},
}

func (d *iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Get returns the rendered symbol for i.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.get()
}
