package sources

import (
	"math/rand/v2"

	"github.com/anatolykoptev/go_obscura/internal/engine"
)

// Innertube WEB client constants used by the search continuation endpoint.
const (
	ytSearchPath  = "/youtubei/v1/search"
	ytWebVersion  = "2.20250222.10.00"
	ytClientName  = "1" // WEB
	ytDefaultBase = "https://www.youtube.com"
)

type ytWebClientCtx struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	VisitorData   string `json:"visitorData,omitempty"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type ytWebUser struct {
	EnableSafetyMode bool `json:"enableSafetyMode"`
}

type ytWebReqCtx struct {
	UseSsl bool `json:"useSsl"`
}

// ytSearchContinuation is the body of a /youtubei/v1/search continuation request.
type ytSearchContinuation struct {
	Context      map[string]any `json:"context"`
	Continuation string         `json:"continuation"`
}

// generateVisitorData creates a random 11-char visitor ID for Innertube requests.
func generateVisitorData() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := make([]byte, 11)
	for i := range b {
		b[i] = chars[rand.IntN(len(chars))] //nolint:gosec // non-cryptographic use
	}
	return string(b)
}

// ytWebContext builds the standard WEB client context for Innertube payloads.
func ytWebContext(visitorData string) map[string]any {
	return map[string]any{
		"client": ytWebClientCtx{
			ClientName:    "WEB",
			ClientVersion: ytWebVersion,
			VisitorData:   visitorData,
			Hl:            "en",
			Gl:            "US",
		},
		"user":    ytWebUser{EnableSafetyMode: false},
		"request": ytWebReqCtx{UseSsl: true},
	}
}

// pageHeaders are sent with HTML page loads.
func pageHeaders() map[string]string {
	h := engine.ChromeHeaders()
	h["User-Agent"] = engine.RandomUserAgent()
	h["Accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	h["Accept-Language"] = "en-US,en;q=0.9"
	return h
}

// innertubeHeaders are sent with Innertube JSON POSTs.
func innertubeHeaders(base, visitorData string) map[string]string {
	return map[string]string{
		"Content-Type":             "application/json",
		"Accept":                   "*/*",
		"User-Agent":               engine.RandomUserAgent(),
		"X-Youtube-Client-Name":    ytClientName,
		"X-Youtube-Client-Version": ytWebVersion,
		"X-Goog-Visitor-Id":        visitorData,
		"Origin":                   base,
		"Referer":                  base + "/",
	}
}
