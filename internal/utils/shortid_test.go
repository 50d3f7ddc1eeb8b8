package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShortId(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		id, err := GenerateShortId()
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Regexp(t, `^[0-9A-Za-z_-]+$`, id)

		_, duplicate := seen[id]
		require.False(t, duplicate, "short id %s generated twice", id)
		seen[id] = struct{}{}
	}
}
