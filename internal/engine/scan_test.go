package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return testNow }

func detailsEcho(source string) *scriptedDetails {
	return &scriptedDetails{fn: func(_ int, _ Credential, ids []string) ([]DetailRecord, error) {
		recs := recordsFor(ids)
		for i := range recs {
			recs[i].Source = source
			recs[i].PublishedAt = "2010-01-01T00:00:00Z"
		}
		return recs, nil
	}}
}

func TestScan_NoProvider(t *testing.T) {
	s := &Scanner{Credentials: NewCredentialPool(nil)}
	_, err := s.Scan(context.Background(), ScanOptions{Queries: []string{"IMG_"}})
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestScan_APIOnly(t *testing.T) {
	api := &Providers{
		Name: "api",
		Search: &scriptedSearch{fn: func(_ int, _ Credential, req SearchRequest) (SearchPage, error) {
			return SearchPage{Hits: []SearchHit{{VideoID: "shared"}, {VideoID: req.Query + "only"}}}, nil
		}},
		Details: detailsEcho("api"),
	}
	coll := NewCollection()
	s := &Scanner{API: api, Credentials: NewCredentialPool([]string{"k"}), Now: fixedNow}

	rep, err := s.Scan(context.Background(), ScanOptions{Queries: []string{"a", "b"}, Into: coll})
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, []string{"api"}, rep.Sources)
	assert.Equal(t, 4, rep.Stats.RawHits)
	assert.Equal(t, 3, rep.Stats.UniqueIDs)
	assert.Equal(t, 3, rep.Stats.Resolved)
	assert.Len(t, rep.Videos, 3)
	assert.Equal(t, 3, coll.Len())
}

func TestScan_FallsBackToScraperWhenNoCapacity(t *testing.T) {
	scraperSearch := &scriptedSearch{fn: func(_ int, cred Credential, req SearchRequest) (SearchPage, error) {
		return SearchPage{Hits: []SearchHit{{VideoID: req.Query + "x"}}}, nil
	}}
	s := &Scanner{
		API:         &Providers{Name: "api", Search: &scriptedSearch{}, Details: detailsEcho("api")},
		Credentials: NewCredentialPool(nil),
		Scraper:     &Providers{Name: "scraper", Search: scraperSearch, Details: detailsEcho("scraper")},
		Now:         fixedNow,
	}

	rep, err := s.Scan(context.Background(), ScanOptions{Queries: []string{"q1", "q2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"scraper"}, rep.Sources)
	assert.Len(t, rep.Videos, 2)
	assert.Len(t, scraperSearch.calls, 2)
	assert.Empty(t, scraperSearch.calls[0].cred.Key, "scraper runs keyless")
}

func TestScan_RoutesRemainingQueriesAfterExhaustion(t *testing.T) {
	apiSearch := &scriptedSearch{fn: func(_ int, _ Credential, req SearchRequest) (SearchPage, error) {
		if req.Query == "q1" {
			return SearchPage{Hits: []SearchHit{{VideoID: "fromapi"}}}, nil
		}
		return SearchPage{}, quotaErr()
	}}
	apiDetails := &scriptedDetails{fn: func(_ int, _ Credential, ids []string) ([]DetailRecord, error) {
		return nil, quotaErr()
	}}
	scraperSearch := &scriptedSearch{fn: func(_ int, _ Credential, req SearchRequest) (SearchPage, error) {
		return SearchPage{Hits: []SearchHit{{VideoID: req.Query + "scraped"}}}, nil
	}}
	s := &Scanner{
		API:         &Providers{Name: "api", Search: apiSearch, Details: apiDetails},
		Credentials: NewCredentialPool([]string{"k"}),
		Scraper:     &Providers{Name: "scraper", Search: scraperSearch, Details: detailsEcho("scraper")},
		Now:         fixedNow,
	}

	rep, err := s.Scan(context.Background(), ScanOptions{Queries: []string{"q1", "q2", "q3"}})
	require.NoError(t, err)

	assert.True(t, rep.CapacityExhausted)
	assert.Equal(t, []string{"api", "scraper"}, rep.Sources)
	assert.Equal(t, []string{"q3"}, []string{scraperSearch.calls[0].query})
	got := map[string]bool{}
	for _, v := range rep.Videos {
		got[v.ID] = true
	}
	assert.True(t, got["fromapi"], "API hit resolved through the scraper once details ran dry")
	assert.True(t, got["q3scraped"])
}

func TestScan_AppliesFiltersAndRanks(t *testing.T) {
	api := &Providers{
		Name: "api",
		Search: &scriptedSearch{fn: func(int, Credential, SearchRequest) (SearchPage, error) {
			return SearchPage{Hits: []SearchHit{{VideoID: "popular"}, {VideoID: "obscure"}}}, nil
		}},
		Details: &scriptedDetails{fn: func(int, Credential, []string) ([]DetailRecord, error) {
			return []DetailRecord{
				{ID: "popular", Title: "Official trailer", ViewCount: 5_000_000, LikeCount: 1000},
				{ID: "obscure", Title: "IMG_4411", PublishedAt: "2009-06-01T04:00:00Z"},
			}, nil
		}},
	}
	s := &Scanner{API: api, Credentials: NewCredentialPool([]string{"k"}), Now: fixedNow}
	ceiling := int64(100)

	rep, err := s.Scan(context.Background(), ScanOptions{Queries: []string{"q"}, Filter: FilterConfig{MaxViews: &ceiling}})
	require.NoError(t, err)
	require.Len(t, rep.Videos, 1)
	assert.Equal(t, "obscure", rep.Videos[0].ID)
	assert.Equal(t, 1, rep.Stats.Kept)
	assert.Equal(t, 2, rep.Stats.Resolved)
}

func TestScan_ProviderTimeoutDoesNotCancel(t *testing.T) {
	api := &Providers{
		Name: "api",
		Search: &scriptedSearch{fn: func(_ int, _ Credential, req SearchRequest) (SearchPage, error) {
			if req.Query == "slow" {
				return SearchPage{}, fmt.Errorf("search: %w", context.DeadlineExceeded)
			}
			return SearchPage{Hits: []SearchHit{{VideoID: req.Query + "id"}}}, nil
		}},
		Details: detailsEcho("api"),
	}
	s := &Scanner{API: api, Credentials: NewCredentialPool([]string{"k"}), Now: fixedNow}

	rep, err := s.Scan(context.Background(), ScanOptions{Queries: []string{"slow", "fast"}})
	require.NoError(t, err)

	assert.False(t, rep.Canceled)
	assert.Equal(t, 1, rep.Stats.Resolved)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "slow")
}
