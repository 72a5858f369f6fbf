package engine

import (
	"net/http"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKeys     []string
	ScraperEnabled     bool
	ScraperRPS         float64
	PageSize           int // per provider call, capped at MaxPageSize
	DetailChunkSize    int // ids per detail call, capped at MaxDetailChunk
	ResultsPerQuery    int
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	CacheMaxEntries    int
	HTTPClient         *http.Client
	BrowserClient      *BrowserClient // nil = scraper uses HTTPClient
	LLMClient          *llm.Client    // nil = llm query strategy disabled
}

const (
	// MaxPageSize is the provider's per-call result ceiling.
	MaxPageSize = 50
	// MaxDetailChunk is the provider's per-call id ceiling for detail lookups.
	MaxDetailChunk = 50
	// DefaultResultsPerQuery is used when neither config nor caller set a target.
	DefaultResultsPerQuery = 50
)

var cfg = Config{
	PageSize:        MaxPageSize,
	DetailChunkSize: MaxDetailChunk,
	ResultsPerQuery: DefaultResultsPerQuery,
	HTTPClient:      http.DefaultClient,
}

// Cfg exposes the engine configuration for sub-packages (sources, queries).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	c.PageSize = clampPositive(c.PageSize, MaxPageSize)
	c.DetailChunkSize = clampPositive(c.DetailChunkSize, MaxDetailChunk)
	if c.ResultsPerQuery <= 0 {
		c.ResultsPerQuery = DefaultResultsPerQuery
	}
	cfg = c
	Cfg = &cfg
}

// clampPositive returns v limited to (0, max]; non-positive values become max.
func clampPositive(v, max int) int {
	if v <= 0 || v > max {
		return max
	}
	return v
}
