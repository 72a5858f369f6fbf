package patterns

import (
	"sort"
	"strings"
	"unicode"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// DuplicateGroup is a set of videos whose titles normalize to the same text.
type DuplicateGroup struct {
	Normalized string   `json:"normalized"`
	Titles     []string `json:"titles"`
	VideoIDs   []string `json:"video_ids"`
	Channels   []string `json:"channels"`
}

// normalizeTitle lowercases and keeps only letters, digits and single spaces.
func normalizeTitle(s string) string {
	var b strings.Builder
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
		} else if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// FindDuplicateTitles groups videos sharing a normalized title, largest groups first.
func FindDuplicateTitles(videos []engine.Video) []DuplicateGroup {
	groups := make(map[string]*DuplicateGroup)
	var order []string
	for i := range videos {
		v := &videos[i]
		key := normalizeTitle(v.Title)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &DuplicateGroup{Normalized: key}
			groups[key] = g
			order = append(order, key)
		}
		g.Titles = append(g.Titles, v.Title)
		g.VideoIDs = append(g.VideoIDs, v.ID)
		g.Channels = append(g.Channels, v.Channel)
	}

	var out []DuplicateGroup
	for _, key := range order {
		if g := groups[key]; len(g.VideoIDs) > 1 {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].VideoIDs) > len(out[j].VideoIDs) })
	return out
}
