package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// SourceAPI tags hits and records that came from the Data API.
const SourceAPI = "api"

var detailParts = []string{"snippet", "statistics", "contentDetails", "recordingDetails", "status", "topicDetails"}

// DataAPI searches and resolves details through the YouTube Data API v3.
// One service is built per API key and reused.
type DataAPI struct {
	HTTPClient *http.Client // base transport; nil uses http.DefaultTransport
	Endpoint   string       // override for tests

	mu       sync.Mutex
	services map[string]*youtube.Service
}

// NewDataAPI returns a DataAPI over the given HTTP client.
func NewDataAPI(hc *http.Client) *DataAPI {
	return &DataAPI{HTTPClient: hc}
}

func (d *DataAPI) service(ctx context.Context, key string) (*youtube.Service, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if svc, ok := d.services[key]; ok {
		return svc, nil
	}

	base := http.DefaultTransport
	timeout := 30 * time.Second
	if d.HTTPClient != nil {
		if d.HTTPClient.Transport != nil {
			base = d.HTTPClient.Transport
		}
		if d.HTTPClient.Timeout > 0 {
			timeout = d.HTTPClient.Timeout
		}
	}
	// WithHTTPClient bypasses WithAPIKey, so the key rides on the transport.
	hc := &http.Client{Timeout: timeout, Transport: &transport.APIKey{Key: key, Transport: base}}
	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if d.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(d.Endpoint))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	if d.services == nil {
		d.services = make(map[string]*youtube.Service)
	}
	d.services[key] = svc
	return svc, nil
}

// Search runs one search.list page.
func (d *DataAPI) Search(ctx context.Context, cred engine.Credential, req engine.SearchRequest) (engine.SearchPage, error) {
	svc, err := d.service(ctx, cred.Key)
	if err != nil {
		return engine.SearchPage{}, err
	}

	call := svc.Search.List([]string{"snippet"}).
		Q(req.Query).
		Type("video").
		MaxResults(int64(req.PageSize)).
		Context(ctx)
	if req.Cursor != "" {
		call = call.PageToken(req.Cursor)
	}
	applyFilters(call, req.Filters)

	resp, err := call.Do()
	if err != nil {
		return engine.SearchPage{}, fmt.Errorf("youtube search %q: %w", req.Query, err)
	}

	page := engine.SearchPage{NextCursor: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		hit := engine.SearchHit{VideoID: item.Id.VideoId, Source: SourceAPI, Payload: item}
		if item.Snippet != nil {
			hit.Title = item.Snippet.Title
			hit.Channel = item.Snippet.ChannelTitle
		}
		page.Hits = append(page.Hits, hit)
	}
	slog.Debug("youtube: search page",
		slog.String("query", req.Query),
		slog.Int("hits", len(page.Hits)),
		slog.Bool("more", page.NextCursor != ""))
	return page, nil
}

// applyFilters copies every set filter onto the search call.
func applyFilters(call *youtube.SearchListCall, f engine.SearchFilters) {
	if f.PublishedAfter != nil {
		call.PublishedAfter(f.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if f.PublishedBefore != nil {
		call.PublishedBefore(f.PublishedBefore.UTC().Format(time.RFC3339))
	}
	setters := []struct {
		val string
		set func(string) *youtube.SearchListCall
	}{
		{f.Order, call.Order},
		{f.VideoDuration, call.VideoDuration},
		{f.RegionCode, call.RegionCode},
		{f.RelevanceLanguage, call.RelevanceLanguage},
		{f.VideoCategoryID, call.VideoCategoryId},
		{f.VideoDefinition, call.VideoDefinition},
		{f.VideoLicense, call.VideoLicense},
		{f.VideoType, call.VideoType},
		{f.VideoEmbeddable, call.VideoEmbeddable},
		{f.VideoSyndicated, call.VideoSyndicated},
		{f.SafeSearch, call.SafeSearch},
		{f.EventType, call.EventType},
		{f.ChannelID, call.ChannelId},
		{f.TopicID, call.TopicId},
	}
	for _, s := range setters {
		if s.val != "" {
			s.set(s.val)
		}
	}
	if f.Location != nil {
		call.Location(strconv.FormatFloat(f.Location.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(f.Location.Lng, 'f', -1, 64))
		radius := f.LocationRadius
		if radius == "" {
			radius = "50km"
		}
		call.LocationRadius(radius)
	}
}

// FetchDetails runs one videos.list call for up to 50 ids.
func (d *DataAPI) FetchDetails(ctx context.Context, cred engine.Credential, ids []string) ([]engine.DetailRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	svc, err := d.service(ctx, cred.Key)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Videos.List(detailParts).Id(ids...).MaxResults(int64(len(ids))).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list (%d ids): %w", len(ids), err)
	}
	recs := make([]engine.DetailRecord, 0, len(resp.Items))
	for _, v := range resp.Items {
		recs = append(recs, videoToRecord(v))
	}
	return recs, nil
}

// videoToRecord maps an API video resource to the provider-neutral record.
func videoToRecord(v *youtube.Video) engine.DetailRecord {
	rec := engine.DetailRecord{ID: v.Id, Source: SourceAPI}
	if s := v.Snippet; s != nil {
		rec.Title = s.Title
		rec.Description = s.Description
		rec.ChannelTitle = s.ChannelTitle
		rec.ChannelID = s.ChannelId
		rec.PublishedAt = s.PublishedAt
		rec.Tags = s.Tags
		rec.ThumbnailURL = pickThumbnail(s.Thumbnails)
	}
	if st := v.Statistics; st != nil {
		rec.ViewCount = int64(st.ViewCount)
		rec.LikeCount = int64(st.LikeCount)
		rec.CommentCount = int64(st.CommentCount)
		rec.FavoriteCount = int64(st.FavoriteCount)
	}
	if cd := v.ContentDetails; cd != nil {
		rec.Duration = cd.Duration
		rec.Definition = cd.Definition
		rec.Caption = cd.Caption == "true"
		rec.LicensedContent = cd.LicensedContent
	}
	if rd := v.RecordingDetails; rd != nil && rd.Location != nil {
		rec.Location = &engine.GeoPoint{Lat: rd.Location.Latitude, Lng: rd.Location.Longitude}
	}
	if v.Status != nil {
		rec.PrivacyStatus = v.Status.PrivacyStatus
	}
	if v.TopicDetails != nil {
		rec.TopicCategories = v.TopicDetails.TopicCategories
	}
	return rec
}

// pickThumbnail prefers the medium frame, falling back through the other sizes.
func pickThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Medium, t.High, t.Default, t.Standard, t.Maxres} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
