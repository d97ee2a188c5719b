package linkhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	hash, err := New()
	require.NoError(t, err)

	assert.Len(t, hash, Length)
	assert.Regexp(t, "^[0-9a-f]+$", hash)
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		hash, err := New()
		require.NoError(t, err)
		_, dup := seen[hash]
		require.False(t, dup, "duplicate hash %s", hash)
		seen[hash] = struct{}{}
	}
}
