package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrQuotaExceeded, true},
		{"wrapped sentinel", fmt.Errorf("search: %w", ErrQuotaExceeded), true},
		{"googleapi 403", &googleapi.Error{Code: 403, Message: "forbidden"}, true},
		{"googleapi 429", &googleapi.Error{Code: 429}, true},
		{"googleapi 400", &googleapi.Error{Code: 400, Message: "invalid pageToken"}, false},
		{"googleapi 500", &googleapi.Error{Code: 500}, false},
		{"status 429", &StatusError{Code: 429}, true},
		{"wrapped status 403", fmt.Errorf("page: %w", &StatusError{Code: 403}), true},
		{"status 404", &StatusError{Code: 404}, false},
		{"quota in text", errors.New("The request cannot be completed because you have exceeded your Quota."), true},
		{"rate limit reason", errors.New("reason: rateLimitExceeded"), true},
		{"plain failure", errors.New("connection reset by peer"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota is not transient", &StatusError{Code: 429}, false},
		{"server error", &StatusError{Code: 503}, true},
		{"client error", &StatusError{Code: 404}, false},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid"}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"canceled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
