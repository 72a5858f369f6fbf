package queries

import "strings"

// DefaultQuery is used when nothing else produces a query.
const DefaultQuery = "IMG_"

// BuildQueries assembles the query list for a scan: the bare keywords, each pattern
// and booster combined with the keywords, and a custom query. Duplicates are dropped
// case-insensitively, keeping the first spelling.
func BuildQueries(keywords string, patternKeys []string, custom string, boosters []string) []string {
	keywords = strings.TrimSpace(keywords)
	withKeywords := func(prefix string) string {
		if keywords == "" {
			return prefix
		}
		return prefix + " " + keywords
	}

	var raw []string
	if keywords != "" {
		raw = append(raw, keywords)
	}
	for _, k := range patternKeys {
		raw = append(raw, withKeywords(PatternQuery(k)))
	}
	if c := strings.TrimSpace(custom); c != "" {
		raw = append(raw, c)
	}
	for _, b := range boosters {
		raw = append(raw, withKeywords(b))
	}

	out := Dedup(raw)
	if len(out) == 0 {
		return []string{DefaultQuery}
	}
	return out
}

// Dedup trims queries and removes empty and case-insensitive duplicates.
func Dedup(qs []string) []string {
	seen := make(map[string]bool, len(qs))
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}
