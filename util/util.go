// Package util provides domain-agnostic helpers shared by the CLI, the host loop and the status panel.
package util

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Quantify returns a pluralized count.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalSize returns the width and height of the terminal on stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatSeconds renders a playback position as h:mm:ss or m:ss.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
