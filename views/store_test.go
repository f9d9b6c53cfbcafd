package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmenu/menulist/models"
)

func TestIncrementInsertsFreshRow(t *testing.T) {
	store := NewStore(newTestDB(t))

	count, err := store.Increment("https://menus.example/shop/acme/7", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rows := liveRows(t, store.DB())
	require.Len(t, rows, 1)
	assert.Equal(t, "https://menus.example/shop/acme/7", rows[0].PageURL)
	assert.Equal(t, int64(1), rows[0].ViewCount)
}

func TestIncrementBumpsAndHealsStaleURL(t *testing.T) {
	store := NewStore(newTestDB(t))
	require.NoError(t, store.DB().Create(&models.PageView{
		PageURL:   "https://menus.example/shop/oldname/7",
		ViewCount: 3,
	}).Error)

	count, err := store.Increment("https://menus.example/shop/newname/7", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	rows := liveRows(t, store.DB())
	require.Len(t, rows, 1)
	assert.Equal(t, "https://menus.example/shop/newname/7", rows[0].PageURL)
	assert.Equal(t, int64(4), rows[0].ViewCount)
}

func TestIncrementDoesNotCrossShops(t *testing.T) {
	store := NewStore(newTestDB(t))
	require.NoError(t, store.DB().Create(&models.PageView{
		PageURL:   "https://menus.example/shop/acme/21",
		ViewCount: 5,
	}).Error)

	// id 1 must not suffix-match the /21 row.
	count, err := store.Increment("https://menus.example/shop/other/1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, liveRows(t, store.DB()), 2)
}

func TestViewSumsAcrossRenamedHistory(t *testing.T) {
	store := NewStore(newTestDB(t))
	oldURL := "https://menus.example/shop/oldname/42"
	newURL := "https://menus.example/shop/newname/42"

	require.NoError(t, store.DB().Create(&models.PageView{PageURL: oldURL, ViewCount: 3}).Error)
	require.NoError(t, store.DB().Create(&models.DailyPageView{PageURL: oldURL, ViewCount: 2, ViewDate: "2026-08-01 23:59"}).Error)
	require.NoError(t, store.DB().Create(&models.DailyPageView{PageURL: oldURL, ViewCount: 4, ViewDate: "2026-08-02 23:59"}).Error)

	assert.Equal(t, int64(3), store.TodayViews(oldURL))
	assert.Equal(t, int64(3), store.TodayViewsByID(42))
	assert.Equal(t, int64(6), store.TotalViews(oldURL))
	assert.Equal(t, int64(6), store.TotalViewsByID(42))

	require.NoError(t, store.RenamePageURL(oldURL, newURL))

	// Identity-based sums are unchanged; exact-URL reads follow the new name.
	assert.Equal(t, int64(3), store.TodayViewsByID(42))
	assert.Equal(t, int64(6), store.TotalViewsByID(42))
	assert.Equal(t, int64(3), store.TodayViews(newURL))
	assert.Equal(t, int64(6), store.TotalViews(newURL))
	assert.Equal(t, int64(0), store.TodayViews(oldURL))
	assert.Equal(t, int64(0), store.TotalViews(oldURL))
}

func TestRenamePageURLGuards(t *testing.T) {
	store := NewStore(newTestDB(t))
	url := "https://menus.example/shop/acme/42"
	require.NoError(t, store.DB().Create(&models.PageView{PageURL: url, ViewCount: 1}).Error)

	// Same URL or different ids must leave rows untouched.
	require.NoError(t, store.RenamePageURL(url, url))
	require.NoError(t, store.RenamePageURL(url, "https://menus.example/shop/acme/43"))

	rows := liveRows(t, store.DB())
	require.Len(t, rows, 1)
	assert.Equal(t, url, rows[0].PageURL)
}

func TestViewsAbsentPageReturnsZero(t *testing.T) {
	store := NewStore(newTestDB(t))
	assert.Equal(t, int64(0), store.TodayViews("https://menus.example/shop/none/1"))
	assert.Equal(t, int64(0), store.TotalViews("https://menus.example/shop/none/1"))
	assert.Equal(t, int64(0), store.TodayViewsByID(1))
	assert.Equal(t, int64(0), store.TotalViewsByID(1))
}
