package engine

import "math"

// ScoreBand is one additive component of the obscurity score.
// Its contribution is Fn(v) clamped to [0, Cap].
type ScoreBand struct {
	Name string
	Cap  float64
	Fn   func(v Video) float64
}

// ScoreBands is the ordered band table. The caps sum to 101; the total is clamped to 100.
var ScoreBands = []ScoreBand{
	{"views", 30, viewsBand},
	{"temporal", 18, temporalBand},
	{"title", 18, titleBand},
	{"description", 8, descriptionBand},
	{"duration", 6, durationBand},
	{"engagement", 10, engagementBand},
	{"views_per_day", 4, viewsPerDayBand},
	{"geo", 3, geoBand},
	{"keywords", 4, keywordBand},
}

// BandScore is one band's clamped contribution.
type BandScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Cap   float64 `json:"cap"`
}

// Score computes the 0-100 obscurity score, rounded to one decimal.
func Score(v Video) float64 {
	var total float64
	for _, b := range ScoreBands {
		total += clampBand(b.Fn(v), b.Cap)
	}
	return round(math.Max(0, math.Min(100, total)), 1)
}

// ScoreBreakdown returns each band's clamped contribution in table order.
func ScoreBreakdown(v Video) []BandScore {
	out := make([]BandScore, len(ScoreBands))
	for i, b := range ScoreBands {
		out[i] = BandScore{Name: b.Name, Score: clampBand(b.Fn(v), b.Cap), Cap: b.Cap}
	}
	return out
}

func clampBand(x, cap float64) float64 {
	return math.Max(0, math.Min(cap, x))
}

func viewsBand(v Video) float64 {
	switch {
	case v.Views == 0:
		return 30
	case v.Views <= 3:
		return 27
	case v.Views <= 10:
		return 22
	case v.Views <= 50:
		return 15
	case v.Views <= 200:
		return 10
	case v.Views <= 1000:
		return 5
	}
	return 0
}

// temporalBand rewards old uploads that nobody watched.
func temporalBand(v Video) float64 {
	age, views := v.AgeDays, v.Views
	switch {
	case age > 5475 && views <= 10:
		return 18
	case age > 3650 && views <= 10:
		return 15
	case age > 1825 && views <= 10:
		return 12
	case age > 730 && views <= 10:
		return 8
	case age > 365 && views <= 5:
		return 5
	}
	return 0
}

func titleBand(v Video) float64 {
	var s float64
	if v.IsDefaultFilename {
		s += 10
	}
	if v.NumbersOnlyTitle {
		s += 5
	}
	if v.AllCapsTitle && v.TitleLength > 5 {
		s += 3
	}
	if v.TitleEntropy < 2.0 && v.TitleLength > 3 {
		s += 3
	} else if v.TitleEntropy > 4.5 {
		s += 2
	}
	return s
}

func descriptionBand(v Video) float64 {
	var s float64
	switch {
	case v.DescLength < 5:
		s += 5
	case v.DescLength < 20:
		s += 3
	}
	if v.TagCount == 0 {
		s += 3
	}
	return s
}

func durationBand(v Video) float64 {
	d := v.DurationSeconds
	switch {
	case d > 0 && d < 3:
		return 4
	case d > 0 && d < 10:
		return 3
	case d > 7200:
		return 4
	case d > 3600:
		return 3
	}
	return 0
}

// engagementBand flags "ghost" videos: zero likes and zero comments at low views.
func engagementBand(v Video) float64 {
	if v.Likes != 0 || v.Comments != 0 {
		return 0
	}
	switch {
	case v.Views <= 10:
		return 10
	case v.Views <= 100:
		return 5
	}
	return 0
}

func viewsPerDayBand(v Video) float64 {
	if v.AgeDays <= 365 {
		return 0
	}
	switch {
	case v.ViewsPerDay < 0.01:
		return 4
	case v.ViewsPerDay < 0.05:
		return 2
	}
	return 0
}

func geoBand(v Video) float64 {
	if v.HasGeo() {
		return 3
	}
	return 0
}

func keywordBand(v Video) float64 {
	return float64(CountBoosters(v.Title+" "+v.Description) * 2)
}
