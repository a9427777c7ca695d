package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpaque_LengthAndUniqueness(t *testing.T) {
	a, err := NewOpaque()
	require.NoError(t, err)
	b, err := NewOpaque()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestDigest_DeterministicAndOneWay(t *testing.T) {
	opaque := "abc123"
	assert.Equal(t, Digest(opaque), Digest(opaque))
	assert.NotEqual(t, opaque, Digest(opaque))
	assert.Len(t, Digest(opaque), 64)
}
