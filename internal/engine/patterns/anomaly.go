package patterns

import (
	"fmt"
	"unicode/utf8"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// geoBox is a named lat/lng rectangle where uploads are unexpected.
type geoBox struct {
	Name           string
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

var remoteRegions = []geoBox{
	{"mid_atlantic", -30, 30, -50, -20},
	{"mid_pacific", -30, 30, -170, -130},
	{"indian_ocean", -30, 0, 60, 90},
	{"antarctica", -90, -60, -180, 180},
	{"arctic", 75, 90, -180, 180},
	{"sahara", 18, 30, -5, 30},
}

// RemoteRegion returns the name of the first remote region containing p, or "".
func RemoteRegion(p engine.GeoPoint) string {
	for _, b := range remoteRegions {
		if p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng {
			return b.Name
		}
	}
	return ""
}

// HD was not a consumer upload option before roughly fifteen years ago.
const hdEraDays = 5475

// AnomalyReport lists every anomaly tag raised for one video.
type AnomalyReport struct {
	VideoID        string   `json:"video_id"`
	Title          string   `json:"title"`
	Views          int64    `json:"views"`
	WeirdnessScore float64  `json:"weirdness_score"`
	Tags           []string `json:"tags"`
}

// AnomalyTags returns the anomaly tags for one video, in a fixed order.
func AnomalyTags(v *engine.Video) []string {
	var tags []string
	if v.Geo != nil {
		if region := RemoteRegion(*v.Geo); region != "" {
			tags = append(tags, "geo_anomaly:"+region)
		}
	}
	if v.AgeDays > hdEraDays && v.Definition == "hd" {
		tags = append(tags, "era_mismatch:hd_before_hd_era")
	}
	if v.UploadHour >= 3 && v.UploadHour <= 5 {
		tags = append(tags, "time_anomaly:uploaded_3_5am")
	}
	if n := utf8.RuneCountInString(v.Title); n > 200 {
		tags = append(tags, fmt.Sprintf("title_anomaly:very_long(%d)", n))
	}
	if v.DescWordCount > 500 && v.Views < 10 {
		tags = append(tags, "desc_anomaly:huge_desc_no_views")
	}
	if v.TagCount > 20 && v.Views < 5 {
		tags = append(tags, "tag_anomaly:many_tags_no_views")
	}
	switch {
	case v.DurationSeconds == 1:
		tags = append(tags, "dur_anomaly:1_second")
	case v.DurationSeconds > 43200:
		tags = append(tags, fmt.Sprintf("dur_anomaly:marathon(%dh)", v.DurationSeconds/3600))
	}
	return tags
}

// FindAnomalies returns a report for every video with at least one anomaly tag.
func FindAnomalies(videos []engine.Video) []AnomalyReport {
	var out []AnomalyReport
	for i := range videos {
		v := &videos[i]
		if tags := AnomalyTags(v); len(tags) > 0 {
			out = append(out, AnomalyReport{VideoID: v.ID, Title: v.Title, Views: v.Views, WeirdnessScore: v.WeirdnessScore, Tags: tags})
		}
	}
	return out
}

// LocationAnomaly is a geotagged video placed in a remote region.
type LocationAnomaly struct {
	VideoID string          `json:"video_id"`
	Title   string          `json:"title"`
	Region  string          `json:"region"`
	Geo     engine.GeoPoint `json:"geo"`
}

// DetectLocationAnomalies lists geotagged videos that fall inside a remote region.
func DetectLocationAnomalies(videos []engine.Video) []LocationAnomaly {
	var out []LocationAnomaly
	for i := range videos {
		v := &videos[i]
		if v.Geo == nil {
			continue
		}
		if region := RemoteRegion(*v.Geo); region != "" {
			out = append(out, LocationAnomaly{VideoID: v.ID, Title: v.Title, Region: region, Geo: *v.Geo})
		}
	}
	return out
}
