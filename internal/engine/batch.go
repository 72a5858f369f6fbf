package engine

import (
	"context"
	"log/slog"
)

// BatchOptions controls a sequential multi-query run.
type BatchOptions struct {
	PerQuery   int
	PageSize   int
	Filters    SearchFilters
	Source     string
	OnProgress ProgressFunc
}

// BatchResult aggregates a batch. Hits are NOT deduplicated.
type BatchResult struct {
	Hits              []SearchHit
	Outcomes          []QueryOutcome
	Remaining         []string // queries never attempted because capacity ran out
	CapacityExhausted bool
	Canceled          bool
	LastCredential    int
}

// RunBatch runs queries one after another against a shared credential pool,
// carrying the last good credential forward so later queries skip dead keys.
//
// If no credential is available at the start it returns ErrNoCredential and the
// caller should route the whole batch to the scraper.
func RunBatch(ctx context.Context, sp SearchProvider, creds CredentialSource, queries []string, opts BatchOptions) (BatchResult, error) {
	res := BatchResult{LastCredential: -1}
	start, err := creds.Next(-1)
	if err != nil {
		return res, ErrNoCredential
	}
	res.LastCredential = start.Index

	for i, q := range queries {
		if ctx.Err() != nil {
			res.Canceled = true
			res.Remaining = append(res.Remaining, queries[i:]...)
			break
		}

		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Stage: "search", Query: q, QueryIndex: i + 1, QueryTotal: len(queries)})
		}

		out := ExecuteQuery(ctx, sp, creds, q, ExecOptions{
			Target:     opts.PerQuery,
			PageSize:   opts.PageSize,
			Filters:    opts.Filters,
			StartIndex: res.LastCredential,
			Source:     opts.Source,
			OnPage:     opts.OnProgress,
			QueryIndex: i + 1,
			QueryTotal: len(queries),
		})
		res.Outcomes = append(res.Outcomes, out)
		res.Hits = append(res.Hits, out.Hits...)
		if out.LastCredential >= 0 {
			res.LastCredential = out.LastCredential
		}

		slog.Debug("batch: query done",
			slog.String("query", q),
			slog.Int("hits", len(out.Hits)),
			slog.Int("pages", out.Pages),
			slog.Int("calls", out.Calls))

		if out.Canceled {
			res.Canceled = true
			res.Remaining = append(res.Remaining, queries[i+1:]...)
			break
		}
		if out.CapacityExhausted {
			res.CapacityExhausted = true
			res.Remaining = append(res.Remaining, queries[i+1:]...)
			slog.Warn("batch: all credentials exhausted",
				slog.Int("done", i+1),
				slog.Int("remaining", len(queries)-i-1))
			break
		}
	}
	return res, nil
}
