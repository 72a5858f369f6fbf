package engine

import (
	"context"
	"log/slog"
)

// Progress is reported to callers while a scan runs.
type Progress struct {
	Stage      string `json:"stage"` // search | details
	Query      string `json:"query,omitempty"`
	QueryIndex int    `json:"query_index"`
	QueryTotal int    `json:"query_total"`
	Page       int    `json:"page,omitempty"`
	Hits       int    `json:"hits,omitempty"`
	Chunk      int    `json:"chunk,omitempty"`
	ChunkTotal int    `json:"chunk_total,omitempty"`
}

// ProgressFunc receives progress updates. It must not block.
type ProgressFunc func(Progress)

// ExecOptions controls one paginated query.
type ExecOptions struct {
	Target     int // desired hit count
	PageSize   int // capped at MaxPageSize
	Filters    SearchFilters
	StartIndex int // first credential index to try
	Source     string
	OnPage     ProgressFunc
	QueryIndex int
	QueryTotal int
}

// QueryOutcome is the result of running one query to completion.
type QueryOutcome struct {
	Query             string
	Hits              []SearchHit
	Pages             int
	Calls             int
	CapacityExhausted bool
	Canceled          bool
	Err               error // hard failure that ended the query early
	LastCredential    int   // last credential index that served a page, -1 if none
}

// ExecuteQuery pages through results for q until the target is reached, the provider
// runs dry, a hard failure occurs, credentials run out, or ctx is canceled.
// Accumulated hits are returned in every case.
//
// Quota failures exhaust the current credential and retry the same page with the next
// one. Each page gets at most creds.Len()+1 attempts.
func ExecuteQuery(ctx context.Context, sp SearchProvider, creds CredentialSource, q string, opts ExecOptions) QueryOutcome {
	out := QueryOutcome{Query: q, LastCredential: -1}
	target := opts.Target
	if target <= 0 {
		target = DefaultResultsPerQuery
	}
	pageSize := clampPositive(opts.PageSize, MaxPageSize)

	cred, err := creds.Next(opts.StartIndex - 1)
	if err != nil {
		out.CapacityExhausted = true
		return out
	}

	cursor := ""
	for len(out.Hits) < target {
		if ctx.Err() != nil {
			out.Canceled = true
			return out
		}

		req := SearchRequest{
			Query:    q,
			PageSize: min(pageSize, target-len(out.Hits)),
			Cursor:   cursor,
			Filters:  opts.Filters,
		}

		page, ok := fetchPage(ctx, sp, creds, &cred, req, &out)
		if !ok {
			return out
		}

		out.Pages++
		out.LastCredential = cred.Index
		for i := range page.Hits {
			page.Hits[i].Query = q
			if page.Hits[i].Source == "" {
				page.Hits[i].Source = opts.Source
			}
		}
		out.Hits = append(out.Hits, page.Hits...)
		if opts.OnPage != nil {
			opts.OnPage(Progress{
				Stage: "search", Query: q,
				QueryIndex: opts.QueryIndex, QueryTotal: opts.QueryTotal,
				Page: out.Pages, Hits: len(out.Hits),
			})
		}

		if len(page.Hits) == 0 || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return out
}

// fetchPage runs the per-page quota-rotation loop. On false the outcome is final.
func fetchPage(ctx context.Context, sp SearchProvider, creds CredentialSource, cred *Credential, req SearchRequest, out *QueryOutcome) (SearchPage, bool) {
	maxAttempts := creds.Len() + 1
	for attempt := 1; ; attempt++ {
		out.Calls++
		metrics.SearchCalls.Add(1)
		page, err := sp.Search(ctx, *cred, req)
		if err == nil {
			return page, true
		}

		// A client timeout also wraps DeadlineExceeded; only the caller's ctx cancels.
		if ctx.Err() != nil {
			out.Canceled = true
			return SearchPage{}, false
		}

		if !IsQuotaError(err) {
			metrics.HardFailures.Add(1)
			slog.Warn("search: hard failure",
				slog.String("query", req.Query),
				slog.Int("page", out.Pages+1),
				slog.Any("error", err))
			out.Err = err
			return SearchPage{}, false
		}

		metrics.QuotaErrors.Add(1)
		creds.MarkExhausted(cred.Index)
		slog.Info("search: credential exhausted",
			slog.Int("credential", cred.Index),
			slog.String("query", req.Query))

		next, nerr := creds.Next(cred.Index)
		if nerr != nil || attempt >= maxAttempts {
			out.CapacityExhausted = true
			return SearchPage{}, false
		}
		metrics.CredentialRotations.Add(1)
		*cred = next
	}
}
