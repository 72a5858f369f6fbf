package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialPool_Construction(t *testing.T) {
	p := NewCredentialPool([]string{"a", " ", "b", "a", "", "c"})
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 3, p.Active())

	empty := NewCredentialPool(nil)
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.HasCapacity())
	_, err := empty.Next(-1)
	assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestCredentialPool_NextSkipsExhausted(t *testing.T) {
	p := NewCredentialPool([]string{"k0", "k1", "k2", "k3"})

	c, err := p.Next(-1)
	require.NoError(t, err)
	assert.Equal(t, Credential{Index: 0, Key: "k0"}, c)

	p.MarkExhausted(1)
	p.MarkExhausted(2)
	c, err = p.Next(0)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Index)

	p.MarkExhausted(3)
	_, err = p.Next(3)
	assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestCredentialPool_MarkExhaustedIdempotent(t *testing.T) {
	p := NewCredentialPool([]string{"k0", "k1"})
	p.MarkExhausted(0)
	p.MarkExhausted(0)
	p.MarkExhausted(7)
	p.MarkExhausted(-1)
	assert.Equal(t, 1, p.Active())
}

func TestCredentialPool_CursorNeverMovesBack(t *testing.T) {
	p := NewCredentialPool([]string{"k0", "k1", "k2"})
	c, err := p.Next(1)
	require.NoError(t, err)
	require.Equal(t, 2, c.Index)

	// k0 is still active, but it sits below the cursor.
	c, err = p.Next(-1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Index)

	p.MarkExhausted(2)
	assert.False(t, p.HasCapacity())
	_, err = p.Next(-1)
	assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestKeylessPool(t *testing.T) {
	p := NewKeylessPool()
	c, err := p.Next(-1)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Index)
	assert.Empty(t, c.Key)

	_, err = p.Next(0)
	assert.ErrorIs(t, err, ErrNoCapacity)
}
