package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteQuery_Pagination(t *testing.T) {
	sp := &scriptedSearch{fn: func(call int, _ Credential, req SearchRequest) (SearchPage, error) {
		next := ""
		if call < 3 {
			next = "c" + string(rune('0'+call))
		}
		return SearchPage{Hits: pagedHits(req, req.PageSize), NextCursor: next}, nil
	}}
	pool := NewCredentialPool([]string{"k"})

	out := ExecuteQuery(context.Background(), sp, pool, "IMG_", ExecOptions{Target: 120, PageSize: 500})

	require.NoError(t, out.Err)
	assert.Equal(t, 3, out.Pages)
	assert.Len(t, out.Hits, 120)
	assert.False(t, out.CapacityExhausted)
	// 50, 50, then the remaining 20.
	assert.Equal(t, []string{"", "c1", "c2"}, []string{sp.calls[0].cursor, sp.calls[1].cursor, sp.calls[2].cursor})
	assert.Equal(t, "IMG_", out.Hits[0].Query)
}

func TestExecuteQuery_StopsWhenProviderRunsDry(t *testing.T) {
	sp := &scriptedSearch{fn: func(_ int, _ Credential, req SearchRequest) (SearchPage, error) {
		return SearchPage{Hits: pagedHits(req, 7)}, nil
	}}
	out := ExecuteQuery(context.Background(), sp, NewCredentialPool([]string{"k"}), "q", ExecOptions{Target: 50})
	assert.Equal(t, 1, out.Pages)
	assert.Len(t, out.Hits, 7)
}

func TestExecuteQuery_QuotaRotationKeepsCursor(t *testing.T) {
	sp := &scriptedSearch{fn: func(call int, cred Credential, req SearchRequest) (SearchPage, error) {
		switch {
		case call == 1:
			return SearchPage{Hits: pagedHits(req, 50), NextCursor: "page2"}, nil
		case cred.Index == 0:
			return SearchPage{}, quotaErr()
		default:
			return SearchPage{Hits: pagedHits(req, 50)}, nil
		}
	}}
	pool := newSpyPool(3)

	out := ExecuteQuery(context.Background(), sp, pool, "q", ExecOptions{Target: 100})

	require.NoError(t, out.Err)
	assert.Len(t, out.Hits, 100)
	assert.Equal(t, []int{0}, pool.exhausted)
	require.Len(t, sp.calls, 3)
	assert.Equal(t, "page2", sp.calls[1].cursor)
	assert.Equal(t, "page2", sp.calls[2].cursor, "retry must reuse the same page cursor")
	assert.Equal(t, 1, sp.calls[2].cred.Index)
	assert.Equal(t, 1, out.LastCredential)
}

func TestExecuteQuery_AllCredentialsExhausted(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		sp := &scriptedSearch{fn: func(int, Credential, SearchRequest) (SearchPage, error) {
			return SearchPage{}, quotaErr()
		}}
		pool := newSpyPool(n)

		out := ExecuteQuery(context.Background(), sp, pool, "q", ExecOptions{Target: 50})

		assert.True(t, out.CapacityExhausted)
		assert.Len(t, pool.exhausted, n, "each credential is exhausted exactly once")
		assert.Len(t, sp.calls, n)
		assert.Empty(t, out.Hits)
	}
}

func TestExecuteQuery_HardFailureKeepsAccumulated(t *testing.T) {
	boom := errors.New("backend exploded")
	sp := &scriptedSearch{fn: func(call int, _ Credential, req SearchRequest) (SearchPage, error) {
		if call == 1 {
			return SearchPage{Hits: pagedHits(req, 50), NextCursor: "next"}, nil
		}
		return SearchPage{}, boom
	}}
	pool := newSpyPool(2)

	out := ExecuteQuery(context.Background(), sp, pool, "q", ExecOptions{Target: 200})

	assert.ErrorIs(t, out.Err, boom)
	assert.Len(t, out.Hits, 50)
	assert.Len(t, sp.calls, 2, "hard failures are not retried")
	assert.Empty(t, pool.exhausted)
	assert.False(t, out.CapacityExhausted)
}

func TestExecuteQuery_CallBound(t *testing.T) {
	// Every other call is a quota error; calls stay within pages*(poolSize+1).
	const poolSize = 4
	sp := &scriptedSearch{fn: func(call int, _ Credential, req SearchRequest) (SearchPage, error) {
		if call%2 == 1 {
			return SearchPage{}, quotaErr()
		}
		return SearchPage{Hits: pagedHits(req, 10), NextCursor: "more"}, nil
	}}
	pool := newSpyPool(poolSize)

	out := ExecuteQuery(context.Background(), sp, pool, "q", ExecOptions{Target: 1000})

	assert.True(t, out.CapacityExhausted)
	assert.LessOrEqual(t, out.Calls, (out.Pages+1)*(poolSize+1))
}

func TestExecuteQuery_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sp := &scriptedSearch{fn: func(_ int, _ Credential, req SearchRequest) (SearchPage, error) {
		cancel()
		return SearchPage{Hits: pagedHits(req, 50), NextCursor: "next"}, nil
	}}

	out := ExecuteQuery(ctx, sp, NewCredentialPool([]string{"k"}), "q", ExecOptions{Target: 500})

	assert.True(t, out.Canceled)
	assert.Len(t, out.Hits, 50)
	assert.Len(t, sp.calls, 1)
}

func TestExecuteQuery_NoCapacityAtStart(t *testing.T) {
	sp := &scriptedSearch{fn: func(int, Credential, SearchRequest) (SearchPage, error) {
		t.Fatal("provider must not be called")
		return SearchPage{}, nil
	}}
	out := ExecuteQuery(context.Background(), sp, NewCredentialPool(nil), "q", ExecOptions{})
	assert.True(t, out.CapacityExhausted)
}

func TestExecuteQuery_ReportsPageProgress(t *testing.T) {
	sp := &scriptedSearch{fn: func(call int, _ Credential, req SearchRequest) (SearchPage, error) {
		next := ""
		if call == 1 {
			next = "n"
		}
		return SearchPage{Hits: pagedHits(req, 5), NextCursor: next}, nil
	}}
	var pages []int
	ExecuteQuery(context.Background(), sp, NewCredentialPool([]string{"k"}), "q", ExecOptions{
		Target: 50,
		OnPage: func(p Progress) { pages = append(pages, p.Page) },
	})
	assert.Equal(t, []int{1, 2}, pages)
}
