package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestEnrich_CameraDumpVideo(t *testing.T) {
	v, err := Enrich(DetailRecord{
		ID:          "abcdefghijk",
		Title:       "IMG_0001",
		PublishedAt: "2008-03-04T03:15:00Z",
		Duration:    "PT2S",
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 5843, v.AgeDays)
	assert.Equal(t, 3, v.UploadHour)
	assert.Equal(t, 2, v.DurationSeconds)
	assert.Equal(t, "0:02", v.DurationFmt)
	assert.True(t, v.IsDefaultFilename)
	assert.True(t, v.AllCapsTitle)
	assert.False(t, v.NumbersOnlyTitle)
	assert.Equal(t, 2.41, v.TitleEntropy)
	assert.Equal(t, "sd", v.Definition)
	assert.True(t, v.AutoThumbnail)
	assert.Equal(t, 0.0, v.ViewsPerDay)
	assert.Equal(t, "https://www.youtube.com/watch?v=abcdefghijk", v.URL)
	assert.Equal(t, 87.0, v.WeirdnessScore)
}

func TestEnrich_MissingFieldsAreNeutral(t *testing.T) {
	v, err := Enrich(DetailRecord{ID: "xyz", PublishedAt: "not a date", ViewCount: 20}, testNow)
	require.NoError(t, err)
	assert.Nil(t, v.PublishedAt)
	assert.Zero(t, v.AgeDays)
	assert.Equal(t, -1, v.UploadHour)
	assert.Equal(t, 20.0, v.ViewsPerDay, "age floor of one day")
	assert.Zero(t, v.TitleEntropy)
	assert.False(t, v.AllCapsTitle)
}

func TestEnrich_Malformed(t *testing.T) {
	_, err := Enrich(DetailRecord{Title: "no id"}, testNow)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	videos, bad := EnrichAll([]DetailRecord{{ID: "ok"}, {ID: ""}, {ID: "also ok?"}}, testNow)
	assert.Len(t, videos, 1)
	assert.Equal(t, 2, bad)
}

func TestEnrich_TextSignals(t *testing.T) {
	v, err := Enrich(DetailRecord{
		ID:           "a1",
		Title:        "found this 🎥",
		Description:  "see https://example.com #vhs tape",
		Tags:         []string{"a", "b"},
		LikeCount:    5,
		CommentCount: 1,
		ViewCount:    100,
		ThumbnailURL: "https://i.ytimg.com/vi/a1/maxresdefault.jpg",
		Definition:   "hd",
	}, testNow)
	require.NoError(t, err)
	assert.True(t, v.HasEmoji)
	assert.True(t, v.HasLinksInDesc)
	assert.True(t, v.HasHashtags)
	assert.Equal(t, 4, v.DescWordCount)
	assert.Equal(t, 2, v.TagCount)
	assert.Equal(t, 0.05, v.LikeRatio)
	assert.Equal(t, 0.01, v.CommentRatio)
	assert.False(t, v.AutoThumbnail)
	assert.Equal(t, "hd", v.Definition)
}

func TestEnrich_DefinitionFromHeight(t *testing.T) {
	v, _ := Enrich(DetailRecord{ID: "a", Height: 1080}, testNow)
	assert.Equal(t, "hd", v.Definition)
	v, _ = Enrich(DetailRecord{ID: "a", Height: 480}, testNow)
	assert.Equal(t, "sd", v.Definition)
}

func TestIsDefaultFilename(t *testing.T) {
	yes := []string{
		"IMG_1234", "img 0042", "DSCN0001", "DSC_4412", "MOV_0921", "VID_20140512_1230",
		"MVI_0001", "GOPR0012", "GX010034", "DJI_0042", "P1000123", "2012-03-04 10.22.11",
		"video 12", "clip 3", "trim.ABCD", "Untitled", "Movie on 3-4-12 at 10.22",
		"Screen Recording 2020-01-01", "vlcsnap-2014", "OBS 2021", "FullSizeRender",
		"RPReplay_Final1612", "test", "new video", "copy of my clip", "1234567890",
		"deadbeefcafe", "ABC-12345", "  IMG_0001  ",
	}
	no := []string{"", "My trip to Paris", "Vacation IMG_0001", "video about cats", "testing 123"}
	for _, s := range yes {
		assert.True(t, IsDefaultFilename(s), s)
	}
	for _, s := range no {
		assert.False(t, IsDefaultFilename(s), s)
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"PT1H2M3S", 3723, true},
		{"PT45S", 45, true},
		{"PT10M", 600, true},
		{"P1DT1S", 86401, true},
		{"PT0S", 0, true},
		{"1:23", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseISODuration(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestShannonEntropy(t *testing.T) {
	assert.Zero(t, ShannonEntropy(""))
	assert.Zero(t, ShannonEntropy("aaaa"))
	assert.Equal(t, 1.0, ShannonEntropy("abAB"))
	assert.Equal(t, 2.0, ShannonEntropy("abcd"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "1:05", FormatDuration(65))
	assert.Equal(t, "1:01:01", FormatDuration(3661))
}

func TestEnrich_Deterministic(t *testing.T) {
	rec := DetailRecord{
		ID:           "abcdefghijk",
		Title:        "DSC_0042 🎥 backyard",
		Description:  "filmed at night http://example.com #vhs",
		ChannelTitle: "someone",
		PublishedAt:  "2011-07-09T23:05:00Z",
		Duration:     "PT1H2M3S",
		ViewCount:    12,
		LikeCount:    1,
		Tags:         []string{"night", "vhs"},
		Location:     &GeoPoint{Lat: 10, Lng: -30},
		Height:       1080,
	}
	a, err := Enrich(rec, testNow)
	require.NoError(t, err)
	b, err := Enrich(rec, testNow)
	require.NoError(t, err)
	assert.True(t, reflect.DeepEqual(a, b))
}

func TestEnrich_UploadHourIsUTC(t *testing.T) {
	v, err := Enrich(DetailRecord{ID: "abcdefghijk", PublishedAt: "2008-03-04T05:15:00+02:00"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, v.UploadHour)
	assert.Equal(t, time.UTC, v.PublishedAt.Location())
}
