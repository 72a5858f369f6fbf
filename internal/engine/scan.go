package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Providers pairs a search and a detail provider that share credentials.
type Providers struct {
	Name    string
	Search  SearchProvider
	Details DetailProvider
}

// Scanner runs full discovery scans: search, dedup, detail resolution,
// enrichment, scoring and filtering.
type Scanner struct {
	API         *Providers      // nil = API disabled
	Credentials *CredentialPool // shared by API search and details
	Scraper     *Providers      // nil = no quota-free fallback
	Now         func() time.Time
}

// ScanOptions configures one scan.
type ScanOptions struct {
	Queries    []string
	PerQuery   int
	PageSize   int
	ChunkSize  int
	Filters    SearchFilters
	Filter     FilterConfig
	Into       *Collection // optional; receives every enriched video
	OnProgress ProgressFunc
}

// ScanStats counts what happened at each stage.
type ScanStats struct {
	Queries      int `json:"queries"`
	RawHits      int `json:"raw_hits"`
	UniqueIDs    int `json:"unique_ids"`
	Resolved     int `json:"resolved"`
	Malformed    int `json:"malformed"`
	FailedChunks int `json:"failed_chunks"`
	Kept         int `json:"kept"`
}

// ScanReport is the outcome of one scan. Videos are filtered and ranked by score.
type ScanReport struct {
	RunID             string    `json:"run_id"`
	Sources           []string  `json:"sources"`
	Videos            []Video   `json:"videos"`
	Stats             ScanStats `json:"stats"`
	CapacityExhausted bool      `json:"capacity_exhausted,omitempty"`
	Canceled          bool      `json:"canceled,omitempty"`
	Errors            []string  `json:"errors,omitempty"`
}

type scanState struct {
	opts     ScanOptions
	rep      *ScanReport
	now      time.Time
	seen     map[string]bool
	resolved map[string]bool
	videos   []Video
}

// Scan runs queries through the API while credentials last and routes the rest to the
// scraper. Only a total lack of providers is an error; every other failure is contained
// and reflected in the report.
func (s *Scanner) Scan(ctx context.Context, opts ScanOptions) (ScanReport, error) {
	metrics.Scans.Add(1)
	rep := ScanReport{RunID: uuid.NewString(), Stats: ScanStats{Queries: len(opts.Queries)}}
	if len(opts.Queries) == 0 {
		return rep, nil
	}
	apiReady := s.API != nil && s.Credentials != nil && s.Credentials.Len() > 0
	if !apiReady && s.Scraper == nil {
		return rep, ErrNoProvider
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	st := &scanState{opts: opts, rep: &rep, now: now, seen: map[string]bool{}, resolved: map[string]bool{}}

	err := TrackOperation(ctx, "scan", func(ctx context.Context) error {
		pending := opts.Queries
		var unresolved []string

		if apiReady {
			res, err := RunBatch(ctx, s.API.Search, s.Credentials, pending, st.batchOptions(s.API.Name))
			switch {
			case errors.Is(err, ErrNoCredential):
				slog.Info("scan: no API capacity, using scraper", slog.Int("queries", len(pending)))
			case err != nil:
				return err
			default:
				rep.Sources = append(rep.Sources, s.API.Name)
				st.collectBatch(res)
				pending = res.Remaining
				rep.CapacityExhausted = res.CapacityExhausted

				ids := st.newIDs(res.Hits)
				rr := ResolveDetails(ctx, s.API.Details, s.Credentials, ids, st.resolveOptions(res.LastCredential))
				st.absorb(rr)
				if rr.FailedChunks > 0 {
					unresolved = st.missing(ids)
				}
			}
		}

		if ctx.Err() != nil {
			rep.Canceled = true
			return nil
		}
		if len(pending) == 0 && len(unresolved) == 0 {
			return nil
		}
		if s.Scraper == nil {
			slog.Warn("scan: queries left without a fallback provider", slog.Int("queries", len(pending)))
			return nil
		}

		metrics.ScraperFallbacks.Add(1)
		rep.Sources = append(rep.Sources, s.Scraper.Name)
		ids := unresolved
		if len(pending) > 0 {
			res, err := RunBatch(ctx, s.Scraper.Search, NewKeylessPool(), pending, st.batchOptions(s.Scraper.Name))
			if err != nil {
				return err
			}
			st.collectBatch(res)
			ids = append(ids, st.newIDs(res.Hits)...)
		}
		rr := ResolveDetails(ctx, s.Scraper.Details, NewKeylessPool(), ids, st.resolveOptions(0))
		st.absorb(rr)
		return nil
	})
	if err != nil {
		return rep, err
	}

	if opts.Into != nil {
		opts.Into.Merge(st.videos...)
	}
	rep.Videos = RankByScore(ApplyFilters(st.videos, opts.Filter))
	rep.Stats.Kept = len(rep.Videos)

	slog.Info("scan: done",
		slog.String("run_id", rep.RunID),
		slog.Int("raw_hits", rep.Stats.RawHits),
		slog.Int("unique", rep.Stats.UniqueIDs),
		slog.Int("resolved", rep.Stats.Resolved),
		slog.Int("kept", rep.Stats.Kept),
		slog.Bool("capacity_exhausted", rep.CapacityExhausted))
	return rep, nil
}

func (st *scanState) batchOptions(source string) BatchOptions {
	return BatchOptions{
		PerQuery:   st.opts.PerQuery,
		PageSize:   st.opts.PageSize,
		Filters:    st.opts.Filters,
		Source:     source,
		OnProgress: st.opts.OnProgress,
	}
}

func (st *scanState) resolveOptions(start int) ResolveOptions {
	return ResolveOptions{ChunkSize: st.opts.ChunkSize, StartIndex: max(start, 0), OnProgress: st.opts.OnProgress}
}

func (st *scanState) collectBatch(res BatchResult) {
	st.rep.Stats.RawHits += len(res.Hits)
	if res.Canceled {
		st.rep.Canceled = true
	}
	for _, out := range res.Outcomes {
		if out.Err != nil {
			st.rep.Errors = append(st.rep.Errors, out.Query+": "+out.Err.Error())
		}
	}
}

// newIDs dedups hits and drops ids already seen earlier in this scan.
func (st *scanState) newIDs(hits []SearchHit) []string {
	var ids []string
	for _, id := range DedupHits(hits) {
		if st.seen[id] {
			continue
		}
		st.seen[id] = true
		ids = append(ids, id)
	}
	st.rep.Stats.UniqueIDs += len(ids)
	return ids
}

func (st *scanState) absorb(rr ResolveResult) {
	st.rep.Stats.FailedChunks += rr.FailedChunks
	if rr.Canceled {
		st.rep.Canceled = true
	}
	videos, bad := EnrichAll(rr.Records, st.now)
	st.rep.Stats.Malformed += bad
	for _, v := range videos {
		if !st.resolved[v.ID] {
			st.rep.Stats.Resolved++
		}
		st.resolved[v.ID] = true
	}
	st.videos = append(st.videos, videos...)
}

func (st *scanState) missing(ids []string) []string {
	var out []string
	for _, id := range ids {
		if !st.resolved[id] {
			out = append(out, id)
		}
	}
	return out
}
