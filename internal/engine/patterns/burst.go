// Package patterns finds upload patterns and metadata anomalies in enriched videos:
// same-day bursts, dead channels, automation fingerprints, script mixing and
// out-of-place metadata.
package patterns

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// Burst kinds.
const (
	BurstCameraDump      = "camera_dump"
	BurstBot             = "bot_auto"
	BurstScreenRecording = "screen_recording"
	BurstBulk            = "bulk_upload"
)

// DefaultBurstThreshold is the minimum same-day upload count that counts as a burst.
const DefaultBurstThreshold = 3

// BurstEvent is a group of uploads by one channel on one calendar day.
type BurstEvent struct {
	Channel      string   `json:"channel"`
	ChannelID    string   `json:"channel_id,omitempty"`
	Date         string   `json:"date"`
	Count        int      `json:"count"`
	Kind         string   `json:"kind"`
	VideoIDs     []string `json:"video_ids"`
	Titles       []string `json:"titles"`
	TotalViews   int64    `json:"total_views"`
	AvgWeirdness float64  `json:"avg_weirdness"`
}

// channelKey groups by channel id when known, else by display name.
func channelKey(v *engine.Video) string {
	if v.ChannelID != "" {
		return v.ChannelID
	}
	return v.Channel
}

// DetectBursts groups videos by (channel, UTC date) and reports groups of at least
// threshold uploads, largest first. Videos without a publish time are ignored.
func DetectBursts(videos []engine.Video, threshold int) []BurstEvent {
	if threshold <= 0 {
		threshold = DefaultBurstThreshold
	}
	type groupKey struct{ channel, date string }
	groups := make(map[groupKey][]*engine.Video)
	var order []groupKey
	for i := range videos {
		v := &videos[i]
		if v.PublishedAt == nil {
			continue
		}
		k := groupKey{channelKey(v), v.PublishedAt.UTC().Format("2006-01-02")}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], v)
	}

	var events []BurstEvent
	for _, k := range order {
		g := groups[k]
		if len(g) < threshold {
			continue
		}
		ev := BurstEvent{Channel: g[0].Channel, ChannelID: g[0].ChannelID, Date: k.date, Count: len(g)}
		var weird float64
		for _, v := range g {
			ev.VideoIDs = append(ev.VideoIDs, v.ID)
			ev.Titles = append(ev.Titles, v.Title)
			ev.TotalViews += v.Views
			weird += v.WeirdnessScore
		}
		ev.AvgWeirdness = round1(weird / float64(len(g)))
		ev.Kind = classifyBurst(g)
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Count != events[j].Count {
			return events[i].Count > events[j].Count
		}
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Channel < events[j].Channel
	})
	return events
}

// classifyBurst checks, in order: mostly default filenames, all tiny titles,
// screen-capture wording, else a plain bulk upload.
func classifyBurst(g []*engine.Video) string {
	defaults, tiny := 0, 0
	screen := false
	for _, v := range g {
		if v.IsDefaultFilename {
			defaults++
		}
		if utf8.RuneCountInString(v.Title) < 5 {
			tiny++
		}
		lt := strings.ToLower(v.Title)
		if strings.Contains(lt, "screen") || strings.Contains(lt, "rec") {
			screen = true
		}
	}
	switch {
	case float64(defaults) >= 0.7*float64(len(g)):
		return BurstCameraDump
	case tiny == len(g):
		return BurstBot
	case screen:
		return BurstScreenRecording
	}
	return BurstBulk
}

func round1(x float64) float64 {
	return float64(int64(x*10+0.5)) / 10
}
