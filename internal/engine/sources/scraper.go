package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// SourceScraper tags hits and records that came from page scraping.
const SourceScraper = "scraper"

const maxPageBytes = 4 << 20

// Scraper is a keyless search and detail provider that reads public pages.
// Search loads the results page, then follows Innertube continuations.
// Details come from each watch page's player response.
type Scraper struct {
	BaseURL    string
	HTTPClient *http.Client
	Browser    *engine.BrowserClient // preferred when set
	Limiter    *rate.Limiter         // nil = unthrottled
	MaxTries   uint
	RetryWait  time.Duration
}

// NewScraper returns a scraper throttled to rps requests per second.
func NewScraper(hc *http.Client, bc *engine.BrowserClient, rps float64) *Scraper {
	s := &Scraper{HTTPClient: hc, Browser: bc, MaxTries: 3, RetryWait: time.Second}
	if rps > 0 {
		s.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return s
}

func (s *Scraper) base() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return ytDefaultBase
}

// Search returns one page of results. The credential and req.PageSize are ignored.
func (s *Scraper) Search(ctx context.Context, _ engine.Credential, req engine.SearchRequest) (engine.SearchPage, error) {
	var data []byte
	if req.Cursor == "" {
		u := s.base() + "/results?search_query=" + url.QueryEscape(req.Query) + "&sp=" + searchParam(req.Filters)
		page, err := s.fetch(ctx, http.MethodGet, u, pageHeaders(), nil)
		if err != nil {
			return engine.SearchPage{}, fmt.Errorf("scraper search %q: %w", req.Query, err)
		}
		if data, err = scriptJSON(page, ytInitialDataMarker); err != nil {
			return engine.SearchPage{}, fmt.Errorf("scraper search %q: %w", req.Query, err)
		}
	} else {
		visitor := generateVisitorData()
		body, err := json.Marshal(ytSearchContinuation{Context: ytWebContext(visitor), Continuation: req.Cursor})
		if err != nil {
			return engine.SearchPage{}, err
		}
		u := s.base() + ytSearchPath + "?prettyPrint=false"
		if data, err = s.fetch(ctx, http.MethodPost, u, innertubeHeaders(s.base(), visitor), body); err != nil {
			return engine.SearchPage{}, fmt.Errorf("scraper continuation %q: %w", req.Query, err)
		}
	}

	hits, next, err := parseSearchResults(data)
	if err != nil {
		return engine.SearchPage{}, err
	}
	return engine.SearchPage{Hits: hits, NextCursor: next}, nil
}

// FetchDetails loads each id's watch page. Unavailable or unparseable videos are
// skipped; a quota refusal or cancellation fails the whole call.
func (s *Scraper) FetchDetails(ctx context.Context, _ engine.Credential, ids []string) ([]engine.DetailRecord, error) {
	recs := make([]engine.DetailRecord, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.fetchWatch(ctx, id)
		if err != nil {
			if engine.IsQuotaError(err) || ctx.Err() != nil {
				return nil, err
			}
			slog.Debug("scraper: detail skipped", slog.String("id", id), slog.Any("error", err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Scraper) fetchWatch(ctx context.Context, id string) (engine.DetailRecord, error) {
	u := s.base() + "/watch?v=" + url.QueryEscape(id) + "&hl=en"
	page, err := s.fetch(ctx, http.MethodGet, u, pageHeaders(), nil)
	if err != nil {
		return engine.DetailRecord{}, fmt.Errorf("watch %s: %w", id, err)
	}
	data, err := scriptJSON(page, ytPlayerRespMarker)
	if err != nil {
		return engine.DetailRecord{}, fmt.Errorf("watch %s: %w", id, err)
	}
	return parsePlayerResponse(data)
}

// fetch performs one throttled request with exponential backoff on retryable statuses.
// Non-200 answers come back as *engine.StatusError.
func (s *Scraper) fetch(ctx context.Context, method, u string, headers map[string]string, body []byte) ([]byte, error) {
	operation := func() ([]byte, error) {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				return nil, backoff.Permanent(err)
			}
		}
		engine.IncrScraperRequests()
		data, status, err := s.do(ctx, method, u, headers, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			if !engine.IsTransient(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if status == http.StatusOK {
			return data, nil
		}
		serr := &engine.StatusError{Code: status, Body: snippet(data, 200)}
		if engine.IsRetryableStatus(status) {
			return nil, serr
		}
		return nil, backoff.Permanent(serr)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.RetryWait
	if bo.InitialInterval <= 0 {
		bo.InitialInterval = time.Second
	}
	bo.MaxInterval = 10 * bo.InitialInterval
	tries := s.MaxTries
	if tries == 0 {
		tries = 3
	}
	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(tries), backoff.WithMaxElapsedTime(30*time.Second))
}

// do sends one request through the browser client when configured, else plain HTTP.
func (s *Scraper) do(ctx context.Context, method, u string, headers map[string]string, body []byte) ([]byte, int, error) {
	if s.Browser != nil {
		var r io.Reader
		if body != nil {
			r = bytes.NewReader(body)
		}
		// The browser client takes no context; a cancel lands once the call returns.
		data, _, status, err := s.Browser.Do(method, u, headers, r)
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return data, status, err
	}

	hc := s.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
