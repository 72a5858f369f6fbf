package engine

import (
	"context"
	"fmt"
	"sync"
)

// spyPool wraps a CredentialPool and counts MarkExhausted calls.
type spyPool struct {
	*CredentialPool
	mu        sync.Mutex
	exhausted []int
}

func newSpyPool(n int) *spyPool {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}
	return &spyPool{CredentialPool: NewCredentialPool(keys)}
}

func (s *spyPool) MarkExhausted(index int) {
	s.mu.Lock()
	s.exhausted = append(s.exhausted, index)
	s.mu.Unlock()
	s.CredentialPool.MarkExhausted(index)
}

// scriptedSearch answers Search calls from a function and records every call.
type scriptedSearch struct {
	fn    func(call int, cred Credential, req SearchRequest) (SearchPage, error)
	calls []searchCall
}

type searchCall struct {
	cred   Credential
	query  string
	cursor string
}

func (s *scriptedSearch) Search(_ context.Context, cred Credential, req SearchRequest) (SearchPage, error) {
	s.calls = append(s.calls, searchCall{cred: cred, query: req.Query, cursor: req.Cursor})
	return s.fn(len(s.calls), cred, req)
}

// pagedHits builds a page of n hits with ids prefixed by the query and cursor.
func pagedHits(req SearchRequest, n int) []SearchHit {
	hits := make([]SearchHit, n)
	for i := range hits {
		hits[i] = SearchHit{VideoID: fmt.Sprintf("%s-%s-%d", slug(req.Query), slug(req.Cursor), i)}
	}
	return hits
}

func slug(s string) string {
	if s == "" {
		return "p0"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		}
	}
	return string(out)
}

// scriptedDetails answers FetchDetails calls from a function.
type scriptedDetails struct {
	fn    func(call int, cred Credential, ids []string) ([]DetailRecord, error)
	calls int
	creds []int
}

func (d *scriptedDetails) FetchDetails(_ context.Context, cred Credential, ids []string) ([]DetailRecord, error) {
	d.calls++
	d.creds = append(d.creds, cred.Index)
	return d.fn(d.calls, cred, ids)
}

func recordsFor(ids []string) []DetailRecord {
	recs := make([]DetailRecord, len(ids))
	for i, id := range ids {
		recs[i] = DetailRecord{ID: id, Title: "title " + id}
	}
	return recs
}

func quotaErr() error {
	return &StatusError{Code: 403, Body: "quotaExceeded"}
}
