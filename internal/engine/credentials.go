package engine

import (
	"strings"
	"sync"
)

// Credential is one API key at a fixed position in its pool.
type Credential struct {
	Index int
	Key   string
}

// CredentialSource hands out credentials in order and accepts exhaustion reports.
type CredentialSource interface {
	// Next returns the first active credential with index > after, or ErrNoCapacity.
	Next(after int) (Credential, error)
	// MarkExhausted permanently removes a credential for the pool's lifetime.
	MarkExhausted(index int)
	// Len is the total number of credentials, active or not.
	Len() int
}

// CredentialPool is an ordered set of API keys with per-key exhaustion state.
// Exhaustion is permanent and the cursor only ever moves forward.
type CredentialPool struct {
	mu        sync.Mutex
	keys      []string
	exhausted []bool
	cursor    int
}

// NewCredentialPool builds a pool from keys, dropping blanks and duplicates.
func NewCredentialPool(keys []string) *CredentialPool {
	seen := make(map[string]bool, len(keys))
	var clean []string
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		clean = append(clean, k)
	}
	return &CredentialPool{keys: clean, exhausted: make([]bool, len(clean))}
}

// NewKeylessPool returns a pool with a single anonymous credential, for quota-free providers.
func NewKeylessPool() *CredentialPool {
	return &CredentialPool{keys: []string{""}, exhausted: make([]bool, 1)}
}

// Len returns the number of credentials in the pool.
func (p *CredentialPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// Next returns the first active credential with index > after.
// Indices below the cursor are never handed out again.
func (p *CredentialPool) Next(after int) (Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	start := after + 1
	if start < p.cursor {
		start = p.cursor
	}
	for i := start; i < len(p.keys); i++ {
		if !p.exhausted[i] {
			p.cursor = i
			return Credential{Index: i, Key: p.keys[i]}, nil
		}
	}
	return Credential{Index: -1}, ErrNoCapacity
}

// MarkExhausted flags a credential as spent. Safe to call repeatedly.
func (p *CredentialPool) MarkExhausted(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.keys) {
		return
	}
	p.exhausted[index] = true
}

// Active returns the number of credentials not yet exhausted.
func (p *CredentialPool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ex := range p.exhausted {
		if !ex {
			n++
		}
	}
	return n
}

// HasCapacity reports whether any credential at or after the cursor is still active.
func (p *CredentialPool) HasCapacity() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := p.cursor; i < len(p.keys); i++ {
		if !p.exhausted[i] {
			return true
		}
	}
	return false
}
