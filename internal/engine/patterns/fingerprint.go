package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// Fingerprint labels.
const (
	PatternBot   = "bot_automated"
	PatternSemi  = "semi_automated"
	PatternHuman = "human"
	PatternNone  = "unknown"
)

var digitRunRE = regexp.MustCompile(`\d{3,}`)

// ChannelFingerprint scores how automated a channel's uploads look.
type ChannelFingerprint struct {
	Channel     string   `json:"channel"`
	ChannelID   string   `json:"channel_id,omitempty"`
	TotalVideos int      `json:"total_videos"`
	Score       int      `json:"score"`
	Pattern     string   `json:"pattern"`
	Flags       []string `json:"flags"`
}

// fingerprintSignal adds Points when Test fires; Test returns the flag text or "".
type fingerprintSignal struct {
	Points int
	Test   func(g []*engine.Video) string
}

var fingerprintSignals = []fingerprintSignal{
	{25, repeatedTitle},
	{20, numberedTitles},
	{15, shortTitles},
	{20, fixedDurations},
	{15, scheduledHour},
	{15, defaultFilenames},
}

// Fingerprint scores one channel's videos. Score is clamped to 100;
// 60+ is bot-like, 30+ semi-automated, anything lower human.
func Fingerprint(videos []engine.Video) ChannelFingerprint {
	g := make([]*engine.Video, len(videos))
	for i := range videos {
		g[i] = &videos[i]
	}
	return fingerprint(g)
}

func fingerprint(g []*engine.Video) ChannelFingerprint {
	fp := ChannelFingerprint{TotalVideos: len(g), Pattern: PatternNone, Flags: []string{}}
	if len(g) == 0 {
		return fp
	}
	fp.Channel, fp.ChannelID = g[0].Channel, g[0].ChannelID

	for _, sig := range fingerprintSignals {
		if flag := sig.Test(g); flag != "" {
			fp.Score += sig.Points
			fp.Flags = append(fp.Flags, flag)
		}
	}
	fp.Score = min(fp.Score, 100)

	switch {
	case fp.Score >= 60:
		fp.Pattern = PatternBot
	case fp.Score >= 30:
		fp.Pattern = PatternSemi
	default:
		fp.Pattern = PatternHuman
	}
	return fp
}

// FingerprintChannels fingerprints every channel present, most automated first.
func FingerprintChannels(videos []engine.Video) []ChannelFingerprint {
	groups, order := groupByChannel(videos)
	out := make([]ChannelFingerprint, 0, len(order))
	for _, key := range order {
		out = append(out, fingerprint(groups[key]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func repeatedTitle(g []*engine.Video) string {
	counts := make(map[string]int)
	best, bestN := "", 0
	for _, v := range g {
		counts[v.Title]++
		if n := counts[v.Title]; n > bestN {
			best, bestN = v.Title, n
		}
	}
	if bestN > 3 {
		return fmt.Sprintf("repeated_title:%q x%d", best, bestN)
	}
	return ""
}

func numberedTitles(g []*engine.Video) string {
	n := 0
	for _, v := range g {
		if digitRunRE.MatchString(v.Title) {
			n++
		}
	}
	if 2*n >= len(g) {
		return fmt.Sprintf("numbered_titles:%d/%d", n, len(g))
	}
	return ""
}

func shortTitles(g []*engine.Video) string {
	n := 0
	for _, v := range g {
		if utf8.RuneCountInString(v.Title) < 5 {
			n++
		}
	}
	if 2*n >= len(g) {
		return fmt.Sprintf("short_titles:%d/%d", n, len(g))
	}
	return ""
}

func fixedDurations(g []*engine.Video) string {
	if len(g) <= 5 {
		return ""
	}
	distinct := make(map[int]bool)
	for _, v := range g {
		distinct[v.DurationSeconds] = true
	}
	if len(distinct) <= 3 {
		return fmt.Sprintf("fixed_durations:%d_distinct", len(distinct))
	}
	return ""
}

func scheduledHour(g []*engine.Video) string {
	counts := make(map[int]int)
	known, top, topHour := 0, 0, -1
	for _, v := range g {
		if v.UploadHour < 0 {
			continue
		}
		known++
		counts[v.UploadHour]++
		if c := counts[v.UploadHour]; c > top || (c == top && v.UploadHour < topHour) {
			top, topHour = c, v.UploadHour
		}
	}
	if known > 0 && float64(top) > 0.8*float64(known) {
		return fmt.Sprintf("scheduled_hour:%02d:00", topHour)
	}
	return ""
}

func defaultFilenames(g []*engine.Video) string {
	n := 0
	for _, v := range g {
		if v.IsDefaultFilename {
			n++
		}
	}
	if float64(n) > 0.8*float64(len(g)) {
		return fmt.Sprintf("default_filenames:%d/%d", n, len(g))
	}
	return ""
}
