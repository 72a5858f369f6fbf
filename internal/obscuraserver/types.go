package obscuraserver

import (
	"time"

	"github.com/anatolykoptev/go_obscura/internal/engine"
	"github.com/anatolykoptev/go_obscura/internal/engine/patterns"
	"github.com/anatolykoptev/go_obscura/internal/engine/queries"
)

// QueryInput selects how search queries are produced. Explicit queries, a strategy
// and the keyword builder can be combined; with nothing set the builder's default applies.
type QueryInput struct {
	Queries       []string `json:"queries,omitempty" jsonschema:"Explicit search queries"`
	Keywords      string   `json:"keywords,omitempty" jsonschema:"Keywords combined with every pattern and booster"`
	Patterns      []string `json:"patterns,omitempty" jsonschema:"Filename pattern keys such as IMG_XXXX or DJI_XXXX"`
	Categories    []string `json:"pattern_categories,omitempty" jsonschema:"Add every pattern of these categories: camera, phone, action_drone, generic, screen_capture, webcam_call"`
	Custom        string   `json:"custom,omitempty" jsonschema:"One extra query used verbatim"`
	Boosters      []string `json:"boosters,omitempty" jsonschema:"Weirdness phrases such as found footage or liminal"`
	Strategy      string   `json:"strategy,omitempty" jsonschema:"Random generator: chaos, deep, rabbithole, timecapsule, llm"`
	StrategyCount int      `json:"strategy_count,omitempty" jsonschema:"Queries to draw from the strategy (default 5)"`
	DeepTopics    []string `json:"deep_topics,omitempty" jsonschema:"Deep strategy categories, e.g. analog_tape, surveillance"`
	SeedVideoID   string   `json:"seed_video_id,omitempty" jsonschema:"Rabbithole seed, a video already in the session"`
	Date          string   `json:"date,omitempty" jsonschema:"Timecapsule day, YYYY-MM-DD (default random)"`
	Theme         string   `json:"theme,omitempty" jsonschema:"Theme for the llm strategy"`
	TimeTravel    bool     `json:"time_travel,omitempty" jsonschema:"Add a random filename query limited to a random ten-day window"`
}

// SearchInput carries provider-side search filters.
type SearchInput struct {
	PublishedAfter    string   `json:"published_after,omitempty" jsonschema:"YYYY-MM-DD"`
	PublishedBefore   string   `json:"published_before,omitempty" jsonschema:"YYYY-MM-DD"`
	Order             string   `json:"order,omitempty" jsonschema:"date, rating, relevance, title or viewCount"`
	VideoDuration     string   `json:"video_duration,omitempty" jsonschema:"any, short, medium or long"`
	RegionCode        string   `json:"region_code,omitempty"`
	RelevanceLanguage string   `json:"relevance_language,omitempty"`
	CategoryID        string   `json:"category_id,omitempty"`
	Definition        string   `json:"definition,omitempty" jsonschema:"any, high or standard"`
	License           string   `json:"license,omitempty" jsonschema:"any, creativeCommon or youtube"`
	VideoType         string   `json:"video_type,omitempty"`
	Embeddable        string   `json:"embeddable,omitempty"`
	Syndicated        string   `json:"syndicated,omitempty"`
	SafeSearch        string   `json:"safe_search,omitempty" jsonschema:"none, moderate or strict"`
	EventType         string   `json:"event_type,omitempty"`
	ChannelID         string   `json:"channel_id,omitempty"`
	TopicID           string   `json:"topic_id,omitempty"`
	Lat               *float64 `json:"lat,omitempty"`
	Lng               *float64 `json:"lng,omitempty"`
	Radius            string   `json:"radius,omitempty" jsonschema:"Location radius such as 10km (default 50km)"`
}

// ScanInput is the obscura_scan tool input.
type ScanInput struct {
	QueryInput
	SearchInput
	PerQuery int                 `json:"per_query,omitempty" jsonschema:"Target hits per query (default from config)"`
	Filter   engine.FilterConfig `json:"filter,omitempty"`
	Limit    int                 `json:"limit,omitempty" jsonschema:"Max videos returned (default 50)"`
}

// ScanOutput is the obscura_scan tool output.
type ScanOutput struct {
	RunID             string           `json:"run_id"`
	Queries           []string         `json:"queries"`
	Sources           []string         `json:"sources"`
	Stats             engine.ScanStats `json:"stats"`
	CapacityExhausted bool             `json:"capacity_exhausted,omitempty"`
	Canceled          bool             `json:"canceled,omitempty"`
	Errors            []string         `json:"errors,omitempty"`
	SessionSize       int              `json:"session_size"`
	Videos            []engine.Video   `json:"videos"`
}

// Analysis names accepted by obscura_analyze.
const (
	AnalysisBursts       = "bursts"
	AnalysisDead         = "dead_channels"
	AnalysisFingerprints = "fingerprints"
	AnalysisScripts      = "scripts"
	AnalysisAnomalies    = "anomalies"
	AnalysisLocations    = "locations"
	AnalysisDuplicates   = "duplicates"
)

// AnalyzeInput is the obscura_analyze tool input.
type AnalyzeInput struct {
	Analyses       []string            `json:"analyses,omitempty" jsonschema:"Subset of bursts, dead_channels, fingerprints, scripts, anomalies, locations, duplicates (default all)"`
	Filter         engine.FilterConfig `json:"filter,omitempty" jsonschema:"Applied to the session before analysis"`
	BurstThreshold int                 `json:"burst_threshold,omitempty"`
	DeadMaxVideos  int                 `json:"dead_max_videos,omitempty"`
	DeadMinAgeDays int                 `json:"dead_min_age_days,omitempty"`
	Top            int                 `json:"top,omitempty" jsonschema:"Also return this many top-scored videos"`
}

// AnalyzeOutput is the obscura_analyze tool output.
type AnalyzeOutput struct {
	Videos            int                           `json:"videos"`
	Bursts            []patterns.BurstEvent         `json:"bursts,omitempty"`
	DeadChannels      []patterns.DeadChannel        `json:"dead_channels,omitempty"`
	Fingerprints      []patterns.ChannelFingerprint `json:"fingerprints,omitempty"`
	ScriptMismatches  []patterns.ScriptReport       `json:"script_mismatches,omitempty"`
	Anomalies         []patterns.AnomalyReport      `json:"anomalies,omitempty"`
	LocationAnomalies []patterns.LocationAnomaly    `json:"location_anomalies,omitempty"`
	Duplicates        []patterns.DuplicateGroup     `json:"duplicates,omitempty"`
	TopVideos         []engine.Video                `json:"top_videos,omitempty"`
}

// QueriesInput is the obscura_queries tool input.
type QueriesInput struct {
	QueryInput
	ListPatterns bool `json:"list_patterns,omitempty" jsonschema:"Also return the filename pattern catalog"`
}

// QueriesOutput is the obscura_queries tool output.
type QueriesOutput struct {
	Queries         []string                  `json:"queries"`
	PublishedAfter  *time.Time                `json:"published_after,omitempty"`
	PublishedBefore *time.Time                `json:"published_before,omitempty"`
	Patterns        []queries.FilenamePattern `json:"patterns,omitempty"`
	DeepTopics      []string                  `json:"deep_topics,omitempty"`
}

// SessionInput is the obscura_session tool input.
type SessionInput struct {
	Action string `json:"action" jsonschema:"stats or reset"`
}

// SessionOutput is the obscura_session tool output.
type SessionOutput struct {
	Videos      int              `json:"videos"`
	Cleared     int              `json:"cleared,omitempty"`
	Metrics     map[string]int64 `json:"metrics"`
	CacheHits   int64            `json:"cache_hits"`
	CacheMisses int64            `json:"cache_misses"`
}
