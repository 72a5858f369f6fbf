package engine

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

var (
	// ErrQuotaExceeded marks a provider refusal caused by exhausted quota or rate limits.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrNoCapacity is returned by a credential pool with no active credential left.
	ErrNoCapacity = errors.New("no active credential")
	// ErrNoCredential signals that a batch could not start; callers fall back to the scraper.
	ErrNoCredential = errors.New("no credential available")
	// ErrNoProvider is a run-level configuration error: neither API nor scraper is usable.
	ErrNoProvider = errors.New("no search provider configured")
	// ErrMalformedRecord marks a detail record that cannot be enriched.
	ErrMalformedRecord = errors.New("malformed detail record")
)

// StatusError is an HTTP status failure from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

var quotaTerms = []string{"quota", "ratelimitexceeded", "rate limit"}

// IsQuotaError reports whether err is a quota/rate-limit refusal rather than a hard failure.
// Two rules: a structured 403/429 status, or a quota term anywhere in the error text.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	if code := statusCode(err); code == http.StatusForbidden || code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, term := range quotaTerms {
		if strings.Contains(msg, term) {
			return true
		}
	}
	return false
}

// statusCode extracts an HTTP status from known structured error types, or 0.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return 0
}

// IsTransient reports whether err is worth retrying at the transport level:
// timeouts, DNS hiccups, connection errors, 5xx. Quota errors are never transient.
func IsTransient(err error) bool {
	if err == nil || IsQuotaError(err) {
		return false
	}
	if code := statusCode(err); code != 0 {
		return code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
