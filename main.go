// go_obscura: obscure video discovery MCP server.
//
// Exposes four MCP tools: obscura_scan, obscura_analyze, obscura_queries, obscura_session.
// Searches the YouTube Data API while key quota lasts and falls back to scraping.
package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_obscura/internal/engine"
	"github.com/anatolykoptev/go_obscura/internal/engine/queries"
	"github.com/anatolykoptev/go_obscura/internal/engine/sources"
	"github.com/anatolykoptev/go_obscura/internal/obscuraserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	initEngine()

	slog.Info("starting go_obscura",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_obscura",
		Version: version,
	}, nil)

	n := obscuraserver.RegisterTools(server, newDeps())
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_obscura",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKeys:     apiKeys(),
		ScraperEnabled:     env.Str("SCRAPER_ENABLED", "true") != "false",
		ScraperRPS:         env.Float("SCRAPER_RPS", 2),
		PageSize:           env.Int("PAGE_SIZE", engine.MaxPageSize),
		DetailChunkSize:    env.Int("DETAIL_CHUNK_SIZE", engine.MaxDetailChunk),
		ResultsPerQuery:    env.Int("RESULTS_PER_QUERY", engine.DefaultResultsPerQuery),
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:           env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.9),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 1024),
		CacheMaxEntries:    env.Int("CACHE_MAX_ENTRIES", 5000),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if c.ScraperEnabled {
		var opts []stealth.ClientOption
		opts = append(opts, stealth.WithTimeout(15))

		if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
			pool, err := proxypool.NewWebshare(apiKey)
			if err != nil {
				slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
			} else {
				opts = append(opts, stealth.WithProxyPool(pool))
				slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
			}
		}

		bc, err := stealth.NewClient(opts...)
		if err != nil {
			slog.Error("stealth client init failed, scraper uses plain HTTP", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 24*time.Hour)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries)
}

// apiKeys merges YOUTUBE_API_KEY and YOUTUBE_API_KEYS, keeping first occurrences.
func apiKeys() []string {
	raw := append([]string{env.Str("YOUTUBE_API_KEY", "")}, env.List("YOUTUBE_API_KEYS", "")...)
	seen := make(map[string]bool, len(raw))
	var keys []string
	for _, k := range raw {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

func newDeps() obscuraserver.Deps {
	c := engine.Cfg
	s := &engine.Scanner{Credentials: engine.NewCredentialPool(c.YouTubeAPIKeys)}

	if len(c.YouTubeAPIKeys) > 0 {
		api := sources.NewDataAPI(c.HTTPClient)
		s.API = &engine.Providers{
			Name:    sources.SourceAPI,
			Search:  api,
			Details: engine.CachedDetails{Next: api},
		}
	}
	if c.ScraperEnabled {
		sc := sources.NewScraper(c.HTTPClient, c.BrowserClient, c.ScraperRPS)
		s.Scraper = &engine.Providers{
			Name:    sources.SourceScraper,
			Search:  sc,
			Details: engine.CachedDetails{Next: sc},
		}
	}
	slog.Info("providers configured",
		slog.Int("api_keys", len(c.YouTubeAPIKeys)),
		slog.Bool("scraper", s.Scraper != nil),
		slog.Bool("llm", c.LLMClient != nil))

	d := obscuraserver.Deps{Scanner: s, Session: engine.NewCollection()}
	if c.LLMClient != nil {
		d.LLM = queries.ClientCompleter(c.LLMClient, c.LLMTemperature, c.LLMMaxTokens)
	}
	return d
}
