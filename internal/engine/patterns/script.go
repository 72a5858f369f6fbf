package patterns

import (
	"unicode"

	"github.com/RadhiFadlillah/whatlanggo"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// scriptFamily is a named writing system and the Unicode tables that make it up.
type scriptFamily struct {
	Name   string
	Tables []*unicode.RangeTable
}

// scriptFamilies are checked in this order; results keep it.
var scriptFamilies = []scriptFamily{
	{"latin", []*unicode.RangeTable{unicode.Latin}},
	{"cjk", []*unicode.RangeTable{unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul}},
	{"arabic", []*unicode.RangeTable{unicode.Arabic}},
	{"cyrillic", []*unicode.RangeTable{unicode.Cyrillic}},
	{"devanagari", []*unicode.RangeTable{unicode.Devanagari}},
	{"thai", []*unicode.RangeTable{unicode.Thai}},
	{"hebrew", []*unicode.RangeTable{unicode.Hebrew}},
}

// DetectScripts returns the script families present in s, in fixed family order.
func DetectScripts(s string) []string {
	found := make([]bool, len(scriptFamilies))
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		for i, fam := range scriptFamilies {
			if !found[i] && unicode.IsOneOf(fam.Tables, r) {
				found[i] = true
				break
			}
		}
	}
	var out []string
	for i, ok := range found {
		if ok {
			out = append(out, scriptFamilies[i].Name)
		}
	}
	return out
}

// ScriptReport describes the scripts used in one video's title.
type ScriptReport struct {
	VideoID    string   `json:"video_id"`
	Title      string   `json:"title"`
	Scripts    []string `json:"scripts"`
	Mixed      bool     `json:"mixed"`
	NonLatin   bool     `json:"non_latin"`
	Language   string   `json:"language,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// AnalyzeScript classifies a title: mixed when two or more families occur,
// non-Latin when there are letters but none of them Latin.
func AnalyzeScript(id, title string) ScriptReport {
	scripts := DetectScripts(title)
	rep := ScriptReport{VideoID: id, Title: title, Scripts: scripts, Mixed: len(scripts) >= 2}
	if len(scripts) > 0 && scripts[0] != "latin" {
		rep.NonLatin = true
	}
	if len(scripts) > 0 {
		info := whatlanggo.Detect(title)
		rep.Language = info.Lang.String()
		rep.Confidence = info.Confidence
	}
	return rep
}

// FindScriptMismatches returns reports for titles that are mixed-script or non-Latin.
func FindScriptMismatches(videos []engine.Video) []ScriptReport {
	var out []ScriptReport
	for i := range videos {
		rep := AnalyzeScript(videos[i].ID, videos[i].Title)
		if rep.Mixed || rep.NonLatin {
			out = append(out, rep)
		}
	}
	return out
}
