package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

const (
	ytInitialDataMarker  = "var ytInitialData = "
	ytPlayerRespMarker   = "var ytInitialPlayerResponse = "
	ytSearchFilterVideos = "EgIQAQ%3D%3D" // videos only
	ytSearchFilterNewest = "CAISAhAB"     // videos only, newest first
)

// searchParam picks the results-page filter for the requested order.
func searchParam(f engine.SearchFilters) string {
	if f.Order == "date" {
		return ytSearchFilterNewest
	}
	return ytSearchFilterVideos
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr, escaped := false, false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// scriptJSON finds the first inline <script> assigning marker and returns the object after it.
func scriptJSON(page []byte, marker string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	var found []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, marker)
		if idx < 0 {
			return true
		}
		found = extractJSON([]byte(text[idx+len(marker):]))
		return found == nil
	})
	if found == nil {
		return nil, fmt.Errorf("%s not found", strings.TrimSuffix(strings.TrimPrefix(marker, "var "), " = "))
	}
	return found, nil
}

// parseSearchResults walks ytInitialData or a continuation response for videoRenderer
// entries and the first continuation token. Object keys are visited in sorted order
// so hit order is stable.
func parseSearchResults(data []byte) ([]engine.SearchHit, string, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, "", fmt.Errorf("decode search results: %w", err)
	}

	var hits []engine.SearchHit
	seen := make(map[string]bool)
	next := ""
	var walk func(v any)
	walk = func(v any) {
		switch n := v.(type) {
		case map[string]any:
			if vr, ok := n["videoRenderer"].(map[string]any); ok {
				if hit, ok := rendererHit(vr); ok && !seen[hit.VideoID] {
					seen[hit.VideoID] = true
					hits = append(hits, hit)
				}
				return
			}
			if cc, ok := n["continuationCommand"].(map[string]any); ok && next == "" {
				if tok, _ := cc["token"].(string); tok != "" {
					next = tok
				}
			}
			keys := make([]string, 0, len(n))
			for k := range n {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(n[k])
			}
		case []any:
			for _, item := range n {
				walk(item)
			}
		}
	}
	walk(root)
	return hits, next, nil
}

// rendererHit converts one videoRenderer object.
func rendererHit(vr map[string]any) (engine.SearchHit, bool) {
	id, _ := vr["videoId"].(string)
	if id == "" {
		return engine.SearchHit{}, false
	}
	return engine.SearchHit{
		VideoID: id,
		Source:  SourceScraper,
		Title:   textOf(vr["title"]),
		Channel: textOf(vr["ownerText"]),
		Payload: scrapedSummary{
			Length:    textOf(vr["lengthText"]),
			ViewText:  textOf(vr["viewCountText"]),
			Published: textOf(vr["publishedTimeText"]),
		},
	}, true
}

// scrapedSummary keeps the display strings a results page shows next to each hit.
type scrapedSummary struct {
	Length    string
	ViewText  string
	Published string
}

// textOf reads a {"simpleText": ...} or {"runs": [{"text": ...}]} node.
func textOf(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := m["simpleText"].(string); ok {
		return s
	}
	runs, _ := m["runs"].([]any)
	var b strings.Builder
	for _, r := range runs {
		if rm, ok := r.(map[string]any); ok {
			s, _ := rm["text"].(string)
			b.WriteString(s)
		}
	}
	return b.String()
}
