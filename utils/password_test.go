package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "s3cret-pass"))
}

func TestUniqueUint(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 3}, UniqueUint([]uint{1, 2, 1, 3, 2}))
	assert.Equal(t, []uint{}, UniqueUint(nil))
}
