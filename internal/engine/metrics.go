package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	Scans               atomic.Int64
	SearchCalls         atomic.Int64
	QuotaErrors         atomic.Int64
	HardFailures        atomic.Int64
	CredentialRotations atomic.Int64
	ScraperFallbacks    atomic.Int64
	DetailChunks        atomic.Int64
	DetailChunkRetries  atomic.Int64
	DetailChunkFailures atomic.Int64
	ScraperRequests     atomic.Int64
	MalformedRecords    atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
}

var metricKeys = []string{
	"scans", "search_calls", "quota_errors", "hard_failures",
	"credential_rotations", "scraper_fallbacks",
	"detail_chunks", "detail_chunk_retries", "detail_chunk_failures",
	"scraper_requests", "malformed_records",
	"llm_calls", "llm_errors",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"scans":                 metrics.Scans.Load(),
		"search_calls":          metrics.SearchCalls.Load(),
		"quota_errors":          metrics.QuotaErrors.Load(),
		"hard_failures":         metrics.HardFailures.Load(),
		"credential_rotations":  metrics.CredentialRotations.Load(),
		"scraper_fallbacks":     metrics.ScraperFallbacks.Load(),
		"detail_chunks":         metrics.DetailChunks.Load(),
		"detail_chunk_retries":  metrics.DetailChunkRetries.Load(),
		"detail_chunk_failures": metrics.DetailChunkFailures.Load(),
		"scraper_requests":      metrics.ScraperRequests.Load(),
		"malformed_records":     metrics.MalformedRecords.Load(),
		"llm_calls":             metrics.LLMCalls.Load(),
		"llm_errors":            metrics.LLMErrors.Load(),
		"cache_hits":            hits,
		"cache_misses":          misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and queries/ sub-packages.
func IncrScraperRequests() { metrics.ScraperRequests.Add(1) }
func IncrLLMCalls()        { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()       { metrics.LLMErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
