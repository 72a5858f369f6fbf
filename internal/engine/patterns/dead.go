package patterns

import (
	"sort"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// Dead-channel defaults: at most this many uploads, the oldest at least this old.
const (
	DefaultDeadMaxVideos  = 3
	DefaultDeadMinAgeDays = 365
)

// DeadChannel is a channel with very few uploads, all of them old.
type DeadChannel struct {
	Channel      string   `json:"channel"`
	ChannelID    string   `json:"channel_id,omitempty"`
	VideoCount   int      `json:"video_count"`
	OldestDays   int      `json:"oldest_days"`
	NewestDays   int      `json:"newest_days"`
	TotalViews   int64    `json:"total_views"`
	VideoIDs     []string `json:"video_ids"`
	TopTitle     string   `json:"top_title"`
	MaxWeirdness float64  `json:"max_weirdness"`
}

// FindDeadChannels reports channels with at most maxVideos uploads in the collection
// whose oldest upload is at least minAgeDays old, oldest first.
func FindDeadChannels(videos []engine.Video, maxVideos, minAgeDays int) []DeadChannel {
	if maxVideos <= 0 {
		maxVideos = DefaultDeadMaxVideos
	}
	if minAgeDays <= 0 {
		minAgeDays = DefaultDeadMinAgeDays
	}

	byChannel, order := groupByChannel(videos)
	var out []DeadChannel
	for _, key := range order {
		g := byChannel[key]
		if len(g) > maxVideos {
			continue
		}
		dc := DeadChannel{
			Channel: g[0].Channel, ChannelID: g[0].ChannelID, VideoCount: len(g),
			NewestDays: g[0].AgeDays, TopTitle: g[0].Title, MaxWeirdness: g[0].WeirdnessScore,
		}
		for _, v := range g {
			dc.VideoIDs = append(dc.VideoIDs, v.ID)
			dc.TotalViews += v.Views
			dc.OldestDays = max(dc.OldestDays, v.AgeDays)
			dc.NewestDays = min(dc.NewestDays, v.AgeDays)
			if v.WeirdnessScore > dc.MaxWeirdness {
				dc.MaxWeirdness = v.WeirdnessScore
				dc.TopTitle = v.Title
			}
		}
		if dc.OldestDays < minAgeDays {
			continue
		}
		out = append(out, dc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OldestDays != out[j].OldestDays {
			return out[i].OldestDays > out[j].OldestDays
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

// groupByChannel returns videos per channel key and the keys in first-seen order.
// Videos with neither channel id nor name are skipped.
func groupByChannel(videos []engine.Video) (map[string][]*engine.Video, []string) {
	groups := make(map[string][]*engine.Video)
	var order []string
	for i := range videos {
		v := &videos[i]
		key := channelKey(v)
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}
	return groups, order
}
