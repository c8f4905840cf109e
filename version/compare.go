// Package version detects the installed playback engine and checks it against the minimum supported release.
package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Compare orders two dotted release strings. A leading "v" and any "-suffix" (git builds) are ignored.
// It returns 1 if a > b, -1 if a < b and 0 if they are equal.
func Compare(a, b string) (int, error) {
	parse := func(s string) ([3]int, error) {
		var v [3]int
		s = strings.TrimPrefix(strings.TrimSpace(s), "v")
		s, _, _ = strings.Cut(s, "-")
		s, _, _ = strings.Cut(s, "+")

		parts := strings.Split(s, ".")
		if len(parts) < 2 || len(parts) > 3 {
			return v, fmt.Errorf("malformed version %q", s)
		}
		for i, p := range parts {
			if _, err := fmt.Sscanf(p, "%d", &v[i]); err != nil {
				return v, fmt.Errorf("malformed version %q", s)
			}
		}
		return v, nil
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range lo.Zip2(av[:], bv[:]) {
		if pair.A > pair.B {
			return 1, nil
		}
		if pair.A < pair.B {
			return -1, nil
		}
	}

	return 0, nil
}
