package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func bandScore(v Video, name string) float64 {
	for _, b := range ScoreBreakdown(v) {
		if b.Name == name {
			return b.Score
		}
	}
	return -1
}

func TestViewsBand(t *testing.T) {
	tests := []struct {
		views int64
		want  float64
	}{
		{0, 30}, {3, 27}, {10, 22}, {50, 15}, {200, 10}, {500, 5}, {1000, 5}, {1001, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bandScore(Video{Views: tt.views}, "views"), "views=%d", tt.views)
	}
}

func TestTemporalBand(t *testing.T) {
	tests := []struct {
		age   int
		views int64
		want  float64
	}{
		{6000, 10, 18}, {4000, 10, 15}, {2000, 0, 12}, {800, 10, 8},
		{400, 5, 5}, {400, 6, 0}, {6000, 11, 0}, {100, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bandScore(Video{AgeDays: tt.age, Views: tt.views}, "temporal"))
	}
}

func TestBandCaps(t *testing.T) {
	v := Video{
		IsDefaultFilename: true, NumbersOnlyTitle: true, AllCapsTitle: true,
		TitleLength: 10, TitleEntropy: 1.0,
		Title: "abandoned cursed vhs glitch",
	}
	assert.Equal(t, 18.0, bandScore(v, "title"), "21 raw points clamp to 18")
	assert.Equal(t, 4.0, bandScore(v, "keywords"), "four hits clamp to 4")
}

func TestDescriptionAndDurationBands(t *testing.T) {
	assert.Equal(t, 8.0, bandScore(Video{}, "description"))
	assert.Equal(t, 3.0, bandScore(Video{DescLength: 12, TagCount: 2}, "description"))
	assert.Equal(t, 0.0, bandScore(Video{DescLength: 40, TagCount: 2}, "description"))

	assert.Equal(t, 0.0, bandScore(Video{DurationSeconds: 0}, "duration"))
	assert.Equal(t, 4.0, bandScore(Video{DurationSeconds: 1}, "duration"))
	assert.Equal(t, 3.0, bandScore(Video{DurationSeconds: 9}, "duration"))
	assert.Equal(t, 3.0, bandScore(Video{DurationSeconds: 3601}, "duration"))
	assert.Equal(t, 4.0, bandScore(Video{DurationSeconds: 7201}, "duration"))
}

func TestEngagementAndGeoBands(t *testing.T) {
	assert.Equal(t, 10.0, bandScore(Video{Views: 10}, "engagement"))
	assert.Equal(t, 5.0, bandScore(Video{Views: 100}, "engagement"))
	assert.Equal(t, 0.0, bandScore(Video{Views: 5, Likes: 1}, "engagement"))
	assert.Equal(t, 3.0, bandScore(Video{Geo: &GeoPoint{Lat: 1, Lng: 2}}, "geo"))
	assert.Equal(t, 4.0, bandScore(Video{AgeDays: 400, ViewsPerDay: 0.001}, "views_per_day"))
	assert.Equal(t, 2.0, bandScore(Video{AgeDays: 400, ViewsPerDay: 0.02}, "views_per_day"))
	assert.Equal(t, 0.0, bandScore(Video{AgeDays: 300, ViewsPerDay: 0}, "views_per_day"))
}

func TestScoreClampedAndRounded(t *testing.T) {
	maxed := Video{
		AgeDays: 9000, IsDefaultFilename: true, NumbersOnlyTitle: true,
		AllCapsTitle: true, TitleLength: 10, TitleEntropy: 1,
		DurationSeconds: 1, Geo: &GeoPoint{},
		Title: "abandoned cursed vhs",
	}
	// Duration tops out at 4 of its 6 points, so 99 is the real ceiling.
	assert.Equal(t, 99.0, Score(maxed))

	popular := Video{Views: 1_000_000, Likes: 10, TagCount: 5, DescLength: 300, TitleLength: 20, TitleEntropy: 3.5}
	assert.Equal(t, 0.0, Score(popular))
}

func TestScore_DeterministicAndBounded(t *testing.T) {
	at := time.Date(2009, 6, 1, 4, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		v    Video
	}{
		{"zero value", Video{}},
		{"camera dump", Video{Title: "IMG_0001", IsDefaultFilename: true, AllCapsTitle: true, AgeDays: 5000, DurationSeconds: 3, UploadHour: 3, PublishedAt: &at}},
		{"popular", Video{Title: "Official Music Video", Views: 50_000_000, Likes: 900_000, Comments: 40_000, ViewsPerDay: 20_000, DescLength: 3000, DescWordCount: 500, TagCount: 30, DurationSeconds: 240}},
		{"geo and nothing else", Video{Geo: &GeoPoint{Lat: -80, Lng: 0}, UploadHour: -1}},
		{"negative counts", Video{Views: -5, AgeDays: -1, DurationSeconds: -10}},
		{"marathon", Video{Title: "x", DurationSeconds: 100_000, AgeDays: 7000, NumbersOnlyTitle: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Score(tt.v)
			assert.Equal(t, first, Score(tt.v))
			assert.GreaterOrEqual(t, first, 0.0)
			assert.LessOrEqual(t, first, 100.0)
		})
	}
}
