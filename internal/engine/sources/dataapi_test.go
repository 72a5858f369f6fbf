package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

const searchResp = `{"nextPageToken":"P2","items":[
{"id":{"kind":"youtube#video","videoId":"abc"},"snippet":{"title":"IMG_1","channelTitle":"Dad"}},
{"id":{"kind":"youtube#channel","channelId":"UCx"},"snippet":{"title":"a channel"}}
]}`

const videosResp = `{"items":[{"id":"abc",
"snippet":{"title":"IMG_1","description":"d","channelTitle":"Dad","channelId":"UC1","publishedAt":"2012-03-04T05:06:07Z","tags":["a"],
 "thumbnails":{"default":{"url":"https://i.ytimg.com/vi/abc/default.jpg"},"medium":{"url":"https://i.ytimg.com/vi/abc/mqdefault.jpg"}}},
"statistics":{"viewCount":"12","likeCount":"1","commentCount":"0","favoriteCount":"0"},
"contentDetails":{"duration":"PT1M3S","definition":"sd","caption":"true","licensedContent":false},
"recordingDetails":{"location":{"latitude":1.5,"longitude":-30}},
"status":{"privacyStatus":"public"},
"topicDetails":{"topicCategories":["https://en.wikipedia.org/wiki/Lifestyle"]}}]}`

const quotaResp = `{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.","errors":[{"reason":"quotaExceeded","domain":"youtube.quota"}]}}`

func newTestDataAPI(t *testing.T, handler http.HandlerFunc) *DataAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	d := NewDataAPI(srv.Client())
	d.Endpoint = srv.URL + "/"
	return d
}

func TestDataAPISearch(t *testing.T) {
	after := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	d := newTestDataAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "k1", q.Get("key"))
		assert.Equal(t, "IMG_", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "25", q.Get("maxResults"))
		assert.Equal(t, "P1", q.Get("pageToken"))
		assert.Equal(t, "date", q.Get("order"))
		assert.Equal(t, "2010-01-01T00:00:00Z", q.Get("publishedAfter"))
		assert.Equal(t, "1.5,-30", q.Get("location"))
		assert.Equal(t, "50km", q.Get("locationRadius"))
		assert.Empty(t, q.Get("regionCode"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResp))
	})

	page, err := d.Search(context.Background(), engine.Credential{Index: 0, Key: "k1"}, engine.SearchRequest{
		Query:    "IMG_",
		PageSize: 25,
		Cursor:   "P1",
		Filters: engine.SearchFilters{
			Order:          "date",
			PublishedAfter: &after,
			Location:       &engine.GeoPoint{Lat: 1.5, Lng: -30},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "P2", page.NextCursor)
	require.Len(t, page.Hits, 1)
	assert.Equal(t, "abc", page.Hits[0].VideoID)
	assert.Equal(t, "Dad", page.Hits[0].Channel)
	assert.Equal(t, SourceAPI, page.Hits[0].Source)
}

func TestDataAPISearch_QuotaError(t *testing.T) {
	d := newTestDataAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(quotaResp))
	})
	_, err := d.Search(context.Background(), engine.Credential{Key: "k1"}, engine.SearchRequest{Query: "x", PageSize: 5})
	require.Error(t, err)
	assert.True(t, engine.IsQuotaError(err))
}

func TestDataAPISearch_HardError(t *testing.T) {
	d := newTestDataAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Invalid value"}}`))
	})
	_, err := d.Search(context.Background(), engine.Credential{Key: "k1"}, engine.SearchRequest{Query: "x", PageSize: 5})
	require.Error(t, err)
	assert.False(t, engine.IsQuotaError(err))
}

func TestDataAPIFetchDetails(t *testing.T) {
	d := newTestDataAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		assert.Equal(t, "k2", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(videosResp))
	})
	recs, err := d.FetchDetails(context.Background(), engine.Credential{Index: 1, Key: "k2"}, []string{"abc", "missing"})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, "UC1", rec.ChannelID)
	assert.Equal(t, "PT1M3S", rec.Duration)
	assert.Equal(t, int64(12), rec.ViewCount)
	assert.Equal(t, int64(1), rec.LikeCount)
	assert.True(t, rec.Caption)
	assert.Equal(t, "https://i.ytimg.com/vi/abc/mqdefault.jpg", rec.ThumbnailURL)
	require.NotNil(t, rec.Location)
	assert.Equal(t, -30.0, rec.Location.Lng)
	assert.Equal(t, "public", rec.PrivacyStatus)
	assert.Len(t, rec.TopicCategories, 1)
	assert.Equal(t, SourceAPI, rec.Source)
}

func TestDataAPIFetchDetails_Empty(t *testing.T) {
	d := NewDataAPI(nil)
	recs, err := d.FetchDetails(context.Background(), engine.Credential{Key: "k"}, nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDataAPI_ServicePerKey(t *testing.T) {
	d := NewDataAPI(nil)
	a, err := d.service(context.Background(), "k1")
	require.NoError(t, err)
	b, err := d.service(context.Background(), "k1")
	require.NoError(t, err)
	c, err := d.service(context.Background(), "k2")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
