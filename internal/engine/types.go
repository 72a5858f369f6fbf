package engine

import (
	"context"
	"time"
)

// SearchHit is one raw search result: an identifier plus whatever the provider returned.
type SearchHit struct {
	VideoID string `json:"video_id"`
	Query   string `json:"query,omitempty"`
	Source  string `json:"source,omitempty"`
	Title   string `json:"title,omitempty"`
	Channel string `json:"channel,omitempty"`
	Payload any    `json:"-"`
}

// SearchFilters narrows a provider search. Zero values mean "not set".
type SearchFilters struct {
	PublishedAfter    *time.Time `json:"published_after,omitempty"`
	PublishedBefore   *time.Time `json:"published_before,omitempty"`
	Order             string     `json:"order,omitempty"`          // date|rating|relevance|title|viewCount
	VideoDuration     string     `json:"video_duration,omitempty"` // any|short|medium|long
	RegionCode        string     `json:"region_code,omitempty"`
	RelevanceLanguage string     `json:"relevance_language,omitempty"`
	VideoCategoryID   string     `json:"video_category_id,omitempty"`
	VideoDefinition   string     `json:"video_definition,omitempty"` // any|high|standard
	VideoLicense      string     `json:"video_license,omitempty"`    // any|creativeCommon|youtube
	VideoType         string     `json:"video_type,omitempty"`       // any|episode|movie
	VideoEmbeddable   string     `json:"video_embeddable,omitempty"`
	VideoSyndicated   string     `json:"video_syndicated,omitempty"`
	SafeSearch        string     `json:"safe_search,omitempty"` // none|moderate|strict
	EventType         string     `json:"event_type,omitempty"`  // completed|live|upcoming
	ChannelID         string     `json:"channel_id,omitempty"`
	TopicID           string     `json:"topic_id,omitempty"`
	Location          *GeoPoint  `json:"location,omitempty"`
	LocationRadius    string     `json:"location_radius,omitempty"` // e.g. "50km"
}

// SearchRequest is one page request to a SearchProvider.
type SearchRequest struct {
	Query    string
	PageSize int
	Cursor   string
	Filters  SearchFilters
}

// SearchPage is one page of hits plus the cursor for the next page ("" = last page).
type SearchPage struct {
	Hits       []SearchHit
	NextCursor string
}

// SearchProvider runs one page of a search with the given credential.
type SearchProvider interface {
	Search(ctx context.Context, cred Credential, req SearchRequest) (SearchPage, error)
}

// DetailProvider resolves up to MaxDetailChunk ids to full detail records.
// Ids it cannot find are simply absent from the result.
type DetailProvider interface {
	FetchDetails(ctx context.Context, cred Credential, ids []string) ([]DetailRecord, error)
}

// GeoPoint is a recording location.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DetailRecord is the provider-neutral raw detail for one video, before enrichment.
type DetailRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ChannelTitle    string    `json:"channel_title,omitempty"`
	ChannelID       string    `json:"channel_id,omitempty"`
	PublishedAt     string    `json:"published_at,omitempty"`
	Duration        string    `json:"duration,omitempty"` // ISO-8601, e.g. PT1M3S
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	FavoriteCount   int64     `json:"favorite_count,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	Location        *GeoPoint `json:"location,omitempty"`
	Definition      string    `json:"definition,omitempty"`
	Height          int       `json:"height,omitempty"` // used when Definition is empty
	Caption         bool      `json:"caption,omitempty"`
	LicensedContent bool      `json:"licensed_content,omitempty"`
	PrivacyStatus   string    `json:"privacy_status,omitempty"`
	TopicCategories []string  `json:"topic_categories,omitempty"`
	Source          string    `json:"source,omitempty"`
}

// Video is an enriched, scored record.
type Video struct {
	ID              string     `json:"id"`
	URL             string     `json:"url"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Channel         string     `json:"channel"`
	ChannelID       string     `json:"channel_id,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	DurationFmt     string     `json:"duration"`
	Views           int64      `json:"views"`
	Likes           int64      `json:"likes"`
	Comments        int64      `json:"comments"`
	Favorites       int64      `json:"favorites,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	Geo             *GeoPoint  `json:"geo,omitempty"`
	Definition      string     `json:"definition"`
	Caption         bool       `json:"caption,omitempty"`
	LicensedContent bool       `json:"licensed_content,omitempty"`
	Privacy         string     `json:"privacy,omitempty"`
	TopicCategories []string   `json:"topic_categories,omitempty"`
	Source          string     `json:"source,omitempty"`

	AgeDays           int     `json:"age_days"`
	ViewsPerDay       float64 `json:"views_per_day"`
	UploadHour        int     `json:"upload_hour"`
	UploadWeekday     string  `json:"upload_weekday,omitempty"`
	TitleLength       int     `json:"title_length"`
	TitleEntropy      float64 `json:"title_entropy"`
	IsDefaultFilename bool    `json:"is_default_filename"`
	AllCapsTitle      bool    `json:"all_caps_title"`
	NumbersOnlyTitle  bool    `json:"numbers_only_title"`
	HasEmoji          bool    `json:"has_emoji"`
	DescLength        int     `json:"desc_length"`
	DescWordCount     int     `json:"desc_word_count"`
	HasLinksInDesc    bool    `json:"has_links_in_desc"`
	HasHashtags       bool    `json:"has_hashtags"`
	TagCount          int     `json:"tag_count"`
	LikeRatio         float64 `json:"like_ratio"`
	CommentRatio      float64 `json:"comment_ratio"`
	AutoThumbnail     bool    `json:"auto_thumbnail"`
	WeirdnessScore    float64 `json:"weirdness_score"`
}

// HasGeo reports whether the video carries a recording location.
func (v *Video) HasGeo() bool { return v.Geo != nil }
