package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// ytPlayerResp is the subset of ytInitialPlayerResponse the scraper reads.
type ytPlayerResp struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *struct {
		VideoID          string   `json:"videoId"`
		Title            string   `json:"title"`
		LengthSeconds    string   `json:"lengthSeconds"`
		Keywords         []string `json:"keywords"`
		ChannelID        string   `json:"channelId"`
		ShortDescription string   `json:"shortDescription"`
		ViewCount        string   `json:"viewCount"`
		Author           string   `json:"author"`
		IsPrivate        bool     `json:"isPrivate"`
		Thumbnail        struct {
			Thumbnails []ytThumb `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	Microformat *struct {
		Renderer struct {
			PublishDate string `json:"publishDate"`
			UploadDate  string `json:"uploadDate"`
			IsUnlisted  bool   `json:"isUnlisted"`
			Category    string `json:"category"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
	StreamingData *struct {
		Formats         []ytFormat `json:"formats"`
		AdaptiveFormats []ytFormat `json:"adaptiveFormats"`
	} `json:"streamingData"`
	Captions json.RawMessage `json:"captions"`
}

type ytThumb struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ytFormat struct {
	Height int `json:"height"`
}

// errUnavailable marks a watch page without playable video details.
var errUnavailable = errors.New("video unavailable")

// parsePlayerResponse maps a watch page's player response to a detail record.
// Likes and comments are not in the player response and stay zero.
func parsePlayerResponse(data []byte) (engine.DetailRecord, error) {
	var pr ytPlayerResp
	if err := json.Unmarshal(data, &pr); err != nil {
		return engine.DetailRecord{}, fmt.Errorf("decode player response: %w", err)
	}
	vd := pr.VideoDetails
	if vd == nil || vd.VideoID == "" {
		reason := ""
		if pr.PlayabilityStatus != nil {
			reason = pr.PlayabilityStatus.Status + " " + pr.PlayabilityStatus.Reason
		}
		return engine.DetailRecord{}, fmt.Errorf("%w: %s", errUnavailable, reason)
	}

	rec := engine.DetailRecord{
		ID:           vd.VideoID,
		Title:        vd.Title,
		Description:  vd.ShortDescription,
		ChannelTitle: vd.Author,
		ChannelID:    vd.ChannelID,
		Tags:         vd.Keywords,
		ThumbnailURL: mediumThumb(vd.Thumbnail.Thumbnails),
		Caption:      len(pr.Captions) > 0 && string(pr.Captions) != "null",
		Source:       SourceScraper,
	}
	rec.DurationSeconds, _ = strconv.Atoi(vd.LengthSeconds)
	rec.ViewCount, _ = strconv.ParseInt(vd.ViewCount, 10, 64)

	rec.PrivacyStatus = "public"
	if mf := pr.Microformat; mf != nil {
		rec.PublishedAt = mf.Renderer.PublishDate
		if rec.PublishedAt == "" {
			rec.PublishedAt = mf.Renderer.UploadDate
		}
		if mf.Renderer.IsUnlisted {
			rec.PrivacyStatus = "unlisted"
		}
	}
	if vd.IsPrivate {
		rec.PrivacyStatus = "private"
	}

	if sd := pr.StreamingData; sd != nil {
		for _, f := range append(sd.Formats, sd.AdaptiveFormats...) {
			rec.Height = max(rec.Height, f.Height)
		}
	}
	return rec, nil
}

// mediumThumb picks the first thumbnail at least 300px wide, else the last one.
func mediumThumb(ts []ytThumb) string {
	for _, t := range ts {
		if t.Width >= 300 {
			return t.URL
		}
	}
	if len(ts) > 0 {
		return ts[len(ts)-1].URL
	}
	return ""
}
