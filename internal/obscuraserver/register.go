// Package obscuraserver exposes the discovery engine as MCP tools:
// obscura_scan, obscura_analyze, obscura_queries and obscura_session.
package obscuraserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_obscura/internal/engine"
	"github.com/anatolykoptev/go_obscura/internal/engine/queries"
	"github.com/anatolykoptev/go_obscura/internal/toolutil"
)

// Deps are the services shared by every tool.
type Deps struct {
	Scanner *engine.Scanner
	Session *engine.Collection // every scanned video accumulates here
	LLM     queries.Completer  // nil disables the llm strategy
	Now     func() time.Time
}

type handlers struct {
	Deps
	seq atomic.Uint64
}

func newHandlers(d Deps) *handlers {
	if d.Session == nil {
		d.Session = engine.NewCollection()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return &handlers{Deps: d}
}

// RegisterTools registers every obscura tool on server and returns how many.
func RegisterTools(server *mcp.Server, d Deps) int {
	h := newHandlers(d)
	registerScan(server, h)
	registerAnalyze(server, h)
	registerQueries(server, h)
	registerSession(server, h)
	return 4
}

// newRand gives each call its own generator; handlers may run concurrently.
func (h *handlers) newRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), h.seq.Add(1)))
}

type window struct {
	after, before time.Time
}

// buildQueries merges explicit queries, a strategy draw, a time-travel query and the
// keyword builder into one deduplicated list.
func (h *handlers) buildQueries(ctx context.Context, in QueryInput) ([]string, *window, error) {
	qs := append([]string(nil), in.Queries...)

	if in.Strategy != "" {
		gen, err := h.strategy(in)
		if err != nil {
			return nil, nil, err
		}
		drawn, err := gen.Queries(ctx, toolutil.Clamp(in.StrategyCount, 5, 1, 50))
		if err != nil {
			return nil, nil, fmt.Errorf("%s strategy: %w", in.Strategy, err)
		}
		qs = append(qs, drawn...)
	}

	var win *window
	if in.TimeTravel {
		q, after, before := queries.TimeTravel(h.newRand(), h.Now())
		qs = append(qs, q)
		win = &window{after: after, before: before}
	}

	keys := append([]string(nil), in.Patterns...)
	for _, c := range in.Categories {
		keys = append(keys, queries.PatternsIn(strings.ToLower(strings.TrimSpace(c)))...)
	}
	if in.Keywords != "" || len(keys) > 0 || in.Custom != "" || len(in.Boosters) > 0 || len(qs) == 0 {
		qs = append(qs, queries.BuildQueries(in.Keywords, keys, in.Custom, in.Boosters)...)
	}
	return queries.Dedup(qs), win, nil
}

func (h *handlers) strategy(in QueryInput) (queries.Strategy, error) {
	o := queries.Options{
		Rand:       h.newRand(),
		Now:        h.Now(),
		Categories: in.DeepTopics,
		Theme:      in.Theme,
	}
	if h.LLM != nil {
		o.Complete = h.cachedCompleter()
	}
	if in.SeedVideoID != "" {
		id := engine.NormalizeVideoID(in.SeedVideoID)
		v, ok := h.Session.Get(id)
		if !ok {
			return nil, fmt.Errorf("seed video %q is not in the session; scan it first", in.SeedVideoID)
		}
		o.Seed = &v
	}
	day, err := toolutil.ParseDay(in.Date)
	if err != nil {
		return nil, err
	}
	if day != nil {
		o.Date = *day
	}
	return queries.New(in.Strategy, o)
}

// cachedCompleter remembers model replies per prompt.
func (h *handlers) cachedCompleter() queries.Completer {
	return func(ctx context.Context, prompt string) (string, error) {
		key := engine.CacheKey("obscura_llm", prompt)
		if out, ok := engine.CacheLoadJSON[string](ctx, key); ok {
			return out, nil
		}
		out, err := h.LLM(ctx, prompt)
		if err != nil {
			return "", err
		}
		engine.CacheStoreJSON(ctx, key, out)
		return out, nil
	}
}

// searchFilters converts tool search input to provider filters.
func searchFilters(in SearchInput) (engine.SearchFilters, error) {
	after, err := toolutil.ParseDay(in.PublishedAfter)
	if err != nil {
		return engine.SearchFilters{}, fmt.Errorf("published_after: %w", err)
	}
	before, err := toolutil.ParseDay(in.PublishedBefore)
	if err != nil {
		return engine.SearchFilters{}, fmt.Errorf("published_before: %w", err)
	}
	if after != nil && before != nil && !after.Before(*before) {
		return engine.SearchFilters{}, errors.New("published_after must be before published_before")
	}
	f := engine.SearchFilters{
		PublishedAfter:    after,
		PublishedBefore:   before,
		Order:             in.Order,
		VideoDuration:     in.VideoDuration,
		RegionCode:        strings.ToUpper(in.RegionCode),
		RelevanceLanguage: in.RelevanceLanguage,
		VideoCategoryID:   in.CategoryID,
		VideoDefinition:   in.Definition,
		VideoLicense:      in.License,
		VideoType:         in.VideoType,
		VideoEmbeddable:   in.Embeddable,
		VideoSyndicated:   in.Syndicated,
		SafeSearch:        in.SafeSearch,
		EventType:         in.EventType,
		ChannelID:         in.ChannelID,
		TopicID:           in.TopicID,
		LocationRadius:    in.Radius,
	}
	if (in.Lat == nil) != (in.Lng == nil) {
		return engine.SearchFilters{}, errors.New("lat and lng must be given together")
	}
	if in.Lat != nil {
		f.Location = &engine.GeoPoint{Lat: *in.Lat, Lng: *in.Lng}
	}
	return f, nil
}

func logProgress(p engine.Progress) {
	slog.Debug("scan: progress",
		slog.String("stage", p.Stage),
		slog.String("query", p.Query),
		slog.Int("query_index", p.QueryIndex),
		slog.Int("query_total", p.QueryTotal),
		slog.Int("page", p.Page),
		slog.Int("hits", p.Hits),
		slog.Int("chunk", p.Chunk),
		slog.Int("chunk_total", p.ChunkTotal))
}
