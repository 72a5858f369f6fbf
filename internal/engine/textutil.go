package engine

import (
	"github.com/anatolykoptev/go-kit/strutil"
)

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// Brief returns a copy of v with the description cut to limit runes, for listings.
func Brief(v Video, limit int) Video {
	v.Description = TruncateRunes(v.Description, limit, "…")
	v.Tags = append([]string(nil), v.Tags...)
	return v
}
