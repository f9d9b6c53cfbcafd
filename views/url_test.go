package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalShopURL(t *testing.T) {
	assert.Equal(t,
		"https://menus.example/shop/thecoffeehouse/42",
		CanonicalShopURL("https://menus.example", "The Coffee House", 42))

	// Trailing slash on the origin does not double up.
	assert.Equal(t,
		"https://menus.example/shop/acme/7",
		CanonicalShopURL("https://menus.example/", "Acme", 7))
}

func TestTrailingID(t *testing.T) {
	id, ok := TrailingID("https://menus.example/shop/acme/42")
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	id, ok = TrailingID("https://menus.example/shop/acme/42/")
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	_, ok = TrailingID("https://menus.example/shop/acme")
	assert.False(t, ok)

	_, ok = TrailingID("")
	assert.False(t, ok)
}

func TestSameEntityRenamed(t *testing.T) {
	// Same id, different name: a rename.
	assert.True(t, SameEntityRenamed(
		"https://menus.example/shop/oldname/42",
		"https://menus.example/shop/newname/42"))

	// Same id, same name: nothing changed.
	assert.False(t, SameEntityRenamed(
		"https://menus.example/shop/acme/42",
		"https://menus.example/shop/acme/42"))

	// Different ids must never be merged even with matching names.
	assert.False(t, SameEntityRenamed(
		"https://menus.example/shop/acme/42",
		"https://menus.example/shop/acme/43"))
}
