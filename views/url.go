package views

import (
	"fmt"
	"strings"
)

// CanonicalShopURL builds the canonical page identity for a shop menu page:
// <origin>/shop/<normalizedName>/<shopID>. The name segment is lower-cased with
// all whitespace stripped, matching what the public frontend puts in the address bar.
func CanonicalShopURL(origin, name string, shopID uint) string {
	clean := strings.ToLower(name)
	clean = strings.Join(strings.Fields(clean), "")
	return fmt.Sprintf("%s/shop/%s/%d", strings.TrimRight(origin, "/"), clean, shopID)
}

// TrailingID extracts the trailing numeric path segment of a page URL. This is the
// stable identity of a countable page: the URL text before it embeds a mutable
// display name. ok is false when the last segment is empty or non-numeric.
func TrailingID(pageURL string) (string, bool) {
	trimmed := strings.TrimRight(pageURL, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx < 0 || idx == len(trimmed)-1 {
		return "", false
	}
	seg := trimmed[idx+1:]
	for _, r := range seg {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return seg, true
}

// SameEntityRenamed reports whether oldURL and newURL identify the same entity under
// different display names: same trailing id segment, different name segment. The
// rename migration must only fire in that case, otherwise two entities sharing a
// name prefix could be merged by accident.
func SameEntityRenamed(oldURL, newURL string) bool {
	oldParts := strings.Split(strings.TrimRight(oldURL, "/"), "/")
	newParts := strings.Split(strings.TrimRight(newURL, "/"), "/")
	if len(oldParts) < 2 || len(newParts) < 2 {
		return false
	}
	oldID := oldParts[len(oldParts)-1]
	newID := newParts[len(newParts)-1]
	oldName := oldParts[len(oldParts)-2]
	newName := newParts[len(newParts)-2]
	return oldID == newID && oldName != newName
}
