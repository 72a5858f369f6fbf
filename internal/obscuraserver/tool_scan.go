package obscuraserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_obscura/internal/engine"
	"github.com/anatolykoptev/go_obscura/internal/toolutil"
)

const briefDescription = 300

func registerScan(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "obscura_scan",
		Description: "Search for obscure, near-zero-view videos. Builds queries from keywords, default camera filename patterns, weirdness boosters or a random strategy, searches the Data API while keys last and falls back to scraping, then enriches, scores (0-100 weirdness), filters and ranks the results. Every scanned video is kept in the session for obscura_analyze.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ScanInput) (*mcp.CallToolResult, ScanOutput, error) {
		out, err := h.scan(ctx, input)
		if err != nil {
			return nil, ScanOutput{}, err
		}
		return nil, out, nil
	})
}

func (h *handlers) scan(ctx context.Context, in ScanInput) (ScanOutput, error) {
	if h.Scanner == nil {
		return ScanOutput{}, engine.ErrNoProvider
	}
	qs, win, err := h.buildQueries(ctx, in.QueryInput)
	if err != nil {
		return ScanOutput{}, err
	}
	filters, err := searchFilters(in.SearchInput)
	if err != nil {
		return ScanOutput{}, err
	}
	if win != nil && filters.PublishedAfter == nil && filters.PublishedBefore == nil {
		filters.PublishedAfter, filters.PublishedBefore = &win.after, &win.before
	}

	perQuery := in.PerQuery
	if perQuery <= 0 {
		perQuery = engine.Cfg.ResultsPerQuery
	}
	rep, err := h.Scanner.Scan(ctx, engine.ScanOptions{
		Queries:    qs,
		PerQuery:   perQuery,
		PageSize:   engine.Cfg.PageSize,
		ChunkSize:  engine.Cfg.DetailChunkSize,
		Filters:    filters,
		Filter:     in.Filter,
		Into:       h.Session,
		OnProgress: logProgress,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoProvider) {
			return ScanOutput{}, errors.New("no search provider: set YOUTUBE_API_KEYS or enable the scraper")
		}
		return ScanOutput{}, err
	}

	out := ScanOutput{
		RunID:             rep.RunID,
		Queries:           qs,
		Sources:           rep.Sources,
		Stats:             rep.Stats,
		CapacityExhausted: rep.CapacityExhausted,
		Canceled:          rep.Canceled,
		Errors:            rep.Errors,
		SessionSize:       h.Session.Len(),
		Videos:            []engine.Video{},
	}
	limit := toolutil.Clamp(in.Limit, 50, 1, 500)
	for i := 0; i < len(rep.Videos) && i < limit; i++ {
		out.Videos = append(out.Videos, engine.Brief(rep.Videos[i], briefDescription))
	}
	return out, nil
}
