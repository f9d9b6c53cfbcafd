package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySessionFlags(t *testing.T) {
	flags := NewMemorySessionFlags()

	assert.False(t, flags.IsCounted("s1", testPage))
	flags.MarkCounted("s1", testPage)
	assert.True(t, flags.IsCounted("s1", testPage))

	// Flags are scoped per session and per page.
	assert.False(t, flags.IsCounted("s2", testPage))
	assert.False(t, flags.IsCounted("s1", "https://menus.example/shop/other/9"))
}
