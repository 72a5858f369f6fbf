package engine

import (
	"fmt"
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
)

var (
	isoDurationRE  = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	numbersOnlyRE  = regexp.MustCompile(`^[\d\s._-]+$`)
	linkRE         = regexp.MustCompile(`https?://`)
	hashtagRE      = regexp.MustCompile(`#\w+`)
	publishLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "20060102"}
)

// Enrich turns a raw detail record into a scored Video as of now.
// Records without an id are rejected with ErrMalformedRecord; any other missing
// field falls back to a neutral value.
func Enrich(rec DetailRecord, now time.Time) (Video, error) {
	id := NormalizeVideoID(rec.ID)
	if id == "" {
		return Video{}, fmt.Errorf("%w: id %q", ErrMalformedRecord, rec.ID)
	}

	v := Video{
		ID:              id,
		URL:             "https://www.youtube.com/watch?v=" + id,
		Title:           rec.Title,
		Description:     rec.Description,
		Channel:         rec.ChannelTitle,
		ChannelID:       rec.ChannelID,
		Views:           max(rec.ViewCount, 0),
		Likes:           max(rec.LikeCount, 0),
		Comments:        max(rec.CommentCount, 0),
		Favorites:       max(rec.FavoriteCount, 0),
		Tags:            rec.Tags,
		ThumbnailURL:    rec.ThumbnailURL,
		Geo:             rec.Location,
		Caption:         rec.Caption,
		LicensedContent: rec.LicensedContent,
		Privacy:         rec.PrivacyStatus,
		TopicCategories: rec.TopicCategories,
		Source:          rec.Source,
		UploadHour:      -1,
	}

	v.DurationSeconds = rec.DurationSeconds
	if rec.Duration != "" {
		if secs, ok := ParseISODuration(rec.Duration); ok {
			v.DurationSeconds = secs
		}
	}
	v.DurationFmt = FormatDuration(v.DurationSeconds)
	v.Definition = definitionClass(rec.Definition, rec.Height)

	if pub, ok := parsePublished(rec.PublishedAt); ok {
		v.PublishedAt = &pub
		v.AgeDays = max(int(now.Sub(pub).Hours()/24), 0)
		v.UploadHour = pub.Hour()
		v.UploadWeekday = pub.Weekday().String()
	}
	v.ViewsPerDay = round(float64(v.Views)/float64(max(v.AgeDays, 1)), 4)

	title := strings.TrimSpace(rec.Title)
	v.TitleLength = utf8.RuneCountInString(rec.Title)
	v.TitleEntropy = round(ShannonEntropy(rec.Title), 2)
	v.IsDefaultFilename = IsDefaultFilename(title)
	v.AllCapsTitle = isAllCaps(rec.Title) && v.TitleLength > 3
	v.NumbersOnlyTitle = numbersOnlyRE.MatchString(title)
	v.HasEmoji = gomoji.ContainsEmoji(rec.Title + " " + rec.Description)

	v.DescLength = utf8.RuneCountInString(rec.Description)
	v.DescWordCount = len(strings.Fields(rec.Description))
	v.HasLinksInDesc = linkRE.MatchString(rec.Description)
	v.HasHashtags = hashtagRE.MatchString(rec.Description + " " + rec.Title)
	v.TagCount = len(rec.Tags)

	viewsDenom := float64(max(v.Views, 1))
	v.LikeRatio = round(float64(v.Likes)/viewsDenom, 4)
	v.CommentRatio = round(float64(v.Comments)/viewsDenom, 4)
	v.AutoThumbnail = isAutoThumbnail(rec.ThumbnailURL)

	v.WeirdnessScore = Score(v)
	return v, nil
}

// EnrichAll enriches every record, skipping malformed ones.
func EnrichAll(recs []DetailRecord, now time.Time) (videos []Video, malformed int) {
	videos = make([]Video, 0, len(recs))
	for _, r := range recs {
		v, err := Enrich(r, now)
		if err != nil {
			malformed++
			metrics.MalformedRecords.Add(1)
			continue
		}
		videos = append(videos, v)
	}
	return videos, malformed
}

func parsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseISODuration parses an ISO-8601 duration like PT1H2M3S or P1DT2H into seconds.
func ParseISODuration(s string) (int, bool) {
	m := isoDurationRE.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}
	atoi := func(x string) int {
		n, _ := strconv.Atoi(x)
		return n
	}
	secs := 0.0
	if m[4] != "" {
		secs, _ = strconv.ParseFloat(m[4], 64)
	}
	total := atoi(m[1])*86400 + atoi(m[2])*3600 + atoi(m[3])*60 + int(secs)
	return total, true
}

// FormatDuration renders seconds as M:SS or H:MM:SS.
func FormatDuration(secs int) string {
	if secs <= 0 {
		return "0:00"
	}
	h, m, s := secs/3600, secs%3600/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ShannonEntropy is the base-2 entropy of the lowercased character distribution of s.
func ShannonEntropy(s string) float64 {
	s = strings.ToLower(s)
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}
	var h float64
	for _, c := range freq {
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// isAllCaps reports whether s has at least one cased letter and no lowercase ones.
func isAllCaps(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func definitionClass(def string, height int) string {
	switch strings.ToLower(def) {
	case "hd":
		return "hd"
	case "sd":
		return "sd"
	}
	if height >= 720 {
		return "hd"
	}
	return "sd"
}

// isAutoThumbnail reports a missing thumbnail or one of the platform's generated frames.
func isAutoThumbnail(u string) bool {
	if u == "" {
		return true
	}
	lower := strings.ToLower(u)
	for _, name := range []string{"hqdefault", "mqdefault", "sddefault"} {
		if strings.Contains(lower, name) {
			return true
		}
	}
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	return path.Base(lower) == "default.jpg"
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
