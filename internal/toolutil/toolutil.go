// Package toolutil provides shared input helpers for obscura MCP tools.
package toolutil

import (
	"fmt"
	"strings"
	"time"
)

// ParseDay parses a tool date argument: YYYY-MM-DD or RFC3339. Empty returns nil.
func ParseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// Clamp returns v limited to [lo, hi], with def substituted for non-positive v.
func Clamp(v, def, lo, hi int) int {
	if v <= 0 {
		v = def
	}
	return max(lo, min(v, hi))
}

// Wants reports whether name is selected; an empty selection means everything.
func Wants(selected []string, name string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}
