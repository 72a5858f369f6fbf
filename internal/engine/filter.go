package engine

import (
	"log/slog"
	"regexp"
	"strings"
)

// HourRange is an inclusive upload-hour window, 0-23.
type HourRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// FilterConfig selects which videos survive the post-enrichment pipeline.
// Every field's zero value disables its stage.
type FilterConfig struct {
	MaxViews            *int64     `json:"max_views,omitempty" jsonschema:"Keep videos with at most this many views"`
	MinViews            int64      `json:"min_views,omitempty"`
	MinDuration         int        `json:"min_duration,omitempty" jsonschema:"Minimum duration in seconds"`
	MaxDuration         int        `json:"max_duration,omitempty" jsonschema:"Maximum duration in seconds"`
	DefaultFilenameOnly bool       `json:"default_filename_only,omitempty"`
	MinWeirdness        float64    `json:"min_weirdness,omitempty"`
	NoEngagementOnly    bool       `json:"no_engagement_only,omitempty" jsonschema:"Only videos with zero likes and zero comments"`
	HasGeoOnly          bool       `json:"has_geo_only,omitempty"`
	TitleContains       string     `json:"title_contains,omitempty"`
	TitleRegex          string     `json:"title_regex,omitempty"`
	ShortTitleOnly      bool       `json:"short_title_only,omitempty" jsonschema:"Only titles of 15 characters or fewer"`
	AllCapsOnly         bool       `json:"all_caps_only,omitempty"`
	NoDescriptionOnly   bool       `json:"no_description_only,omitempty"`
	NoTagsOnly          bool       `json:"no_tags_only,omitempty"`
	NoLinksOnly         bool       `json:"no_links_only,omitempty"`
	SDOnly              bool       `json:"sd_only,omitempty"`
	ExcludeLicensed     bool       `json:"exclude_licensed,omitempty"`
	MaxViewsPerDay      *float64   `json:"max_views_per_day,omitempty"`
	MinAgeDays          int        `json:"min_age_days,omitempty"`
	MaxAgeDays          int        `json:"max_age_days,omitempty"`
	UploadHours         *HourRange `json:"upload_hours,omitempty"`
	DescriptionContains string     `json:"description_contains,omitempty"`
	ChannelContains     string     `json:"channel_contains,omitempty"`
	HasEmojiOnly        bool       `json:"has_emoji_only,omitempty"`
}

const (
	shortTitleMax      = 15
	noDescriptionUnder = 10
)

type filterStage struct {
	name string
	keep func(v *Video) bool
}

// stages returns the active stages in their fixed order.
func (fc FilterConfig) stages() []filterStage {
	var st []filterStage
	add := func(active bool, name string, keep func(v *Video) bool) {
		if active {
			st = append(st, filterStage{name, keep})
		}
	}

	add(fc.MaxViews != nil, "max_views", func(v *Video) bool { return v.Views <= *fc.MaxViews })
	add(fc.MinViews > 0, "min_views", func(v *Video) bool { return v.Views >= fc.MinViews })
	add(fc.MinDuration > 0 || fc.MaxDuration > 0, "duration", func(v *Video) bool {
		if v.DurationSeconds < fc.MinDuration {
			return false
		}
		return fc.MaxDuration <= 0 || v.DurationSeconds <= fc.MaxDuration
	})
	add(fc.DefaultFilenameOnly, "default_filename", func(v *Video) bool { return v.IsDefaultFilename })
	add(fc.MinWeirdness > 0, "min_weirdness", func(v *Video) bool { return v.WeirdnessScore >= fc.MinWeirdness })
	add(fc.NoEngagementOnly, "no_engagement", func(v *Video) bool { return v.Likes == 0 && v.Comments == 0 })
	add(fc.HasGeoOnly, "has_geo", func(v *Video) bool { return v.HasGeo() })
	if s := strings.ToLower(fc.TitleContains); s != "" {
		add(true, "title_contains", func(v *Video) bool { return strings.Contains(strings.ToLower(v.Title), s) })
	}
	if fc.TitleRegex != "" {
		re, err := regexp.Compile("(?i)" + fc.TitleRegex)
		if err != nil {
			slog.Warn("filter: invalid title regex, stage skipped",
				slog.String("regex", fc.TitleRegex), slog.Any("error", err))
		} else {
			add(true, "title_regex", func(v *Video) bool { return re.MatchString(v.Title) })
		}
	}
	add(fc.ShortTitleOnly, "short_title", func(v *Video) bool { return v.TitleLength <= shortTitleMax })
	add(fc.AllCapsOnly, "all_caps", func(v *Video) bool { return v.AllCapsTitle })
	add(fc.NoDescriptionOnly, "no_description", func(v *Video) bool { return v.DescLength < noDescriptionUnder })
	add(fc.NoTagsOnly, "no_tags", func(v *Video) bool { return v.TagCount == 0 })
	add(fc.NoLinksOnly, "no_links", func(v *Video) bool { return !v.HasLinksInDesc })
	add(fc.SDOnly, "sd_only", func(v *Video) bool { return v.Definition == "sd" })
	add(fc.ExcludeLicensed, "exclude_licensed", func(v *Video) bool { return !v.LicensedContent })
	add(fc.MaxViewsPerDay != nil, "max_views_per_day", func(v *Video) bool { return v.ViewsPerDay <= *fc.MaxViewsPerDay })
	add(fc.MinAgeDays > 0 || fc.MaxAgeDays > 0, "age", func(v *Video) bool {
		if v.AgeDays < fc.MinAgeDays {
			return false
		}
		return fc.MaxAgeDays <= 0 || v.AgeDays <= fc.MaxAgeDays
	})
	if h := fc.UploadHours; h != nil && !(h.From <= 0 && h.To >= 23) {
		add(true, "upload_hours", func(v *Video) bool { return v.UploadHour >= h.From && v.UploadHour <= h.To })
	}
	if s := strings.ToLower(fc.DescriptionContains); s != "" {
		add(true, "description_contains", func(v *Video) bool { return strings.Contains(strings.ToLower(v.Description), s) })
	}
	if s := strings.ToLower(fc.ChannelContains); s != "" {
		add(true, "channel_contains", func(v *Video) bool { return strings.Contains(strings.ToLower(v.Channel), s) })
	}
	add(fc.HasEmojiOnly, "has_emoji", func(v *Video) bool { return v.HasEmoji })
	return st
}

// ActiveStages lists the names of the stages fc enables, in application order.
func (fc FilterConfig) ActiveStages() []string {
	st := fc.stages()
	names := make([]string, len(st))
	for i, s := range st {
		names[i] = s.name
	}
	return names
}

// ApplyFilters runs the pipeline and returns a new slice; videos is not modified.
func ApplyFilters(videos []Video, fc FilterConfig) []Video {
	out := make([]Video, len(videos))
	copy(out, videos)
	for _, s := range fc.stages() {
		kept := out[:0:0]
		for i := range out {
			if s.keep(&out[i]) {
				kept = append(kept, out[i])
			}
		}
		slog.Debug("filter: stage applied", slog.String("stage", s.name), slog.Int("in", len(out)), slog.Int("out", len(kept)))
		out = kept
	}
	return out
}
