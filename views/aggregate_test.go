package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmenu/menulist/models"
)

func newAggregateStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	store := NewStore(newTestDB(t))
	clock := newFakeClock(time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local))
	store.SetClock(clock)
	return store, clock
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestAggregateRangeTodayOnlyLiveCounter(t *testing.T) {
	store, _ := newAggregateStore(t)
	require.NoError(t, store.DB().Create(&models.PageView{
		PageURL: "https://menus.example/shop/acme/42", ViewCount: 5,
	}).Error)

	report := store.AggregateRange(day(2026, 8, 28), day(2026, 8, 28), nil)
	assert.Equal(t, int64(5), report.Total)
	require.Len(t, report.Entities, 1)
	assert.Equal(t, "42", report.Entities[0].Identifier)
	assert.Equal(t, int64(5), report.Entities[0].Total)
}

func TestAggregateRangeIncludesLiveWhenRangeCoversToday(t *testing.T) {
	store, _ := newAggregateStore(t)
	require.NoError(t, store.DB().Create(&models.DailyPageView{
		PageURL: "https://menus.example/shop/acme/42", ViewCount: 4, ViewDate: "2026-08-27 23:59",
	}).Error)
	require.NoError(t, store.DB().Create(&models.PageView{
		PageURL: "https://menus.example/shop/acme/42", ViewCount: 5,
	}).Error)

	report := store.AggregateRange(day(2026, 8, 27), day(2026, 8, 28), nil)
	assert.Equal(t, int64(9), report.Total)
	require.Len(t, report.Entities, 1)
	assert.Equal(t, "42", report.Entities[0].Identifier)
	assert.Equal(t, int64(9), report.Entities[0].Total)
}

func TestAggregateRangeExcludesLiveForPastRanges(t *testing.T) {
	store, _ := newAggregateStore(t)
	require.NoError(t, store.DB().Create(&[]models.DailyPageView{
		{PageURL: "https://menus.example/shop/acme/42", ViewCount: 2, ViewDate: "2026-08-20 23:59"},
		{PageURL: "https://menus.example/shop/acme/42", ViewCount: 4, ViewDate: "2026-08-27 23:59"},
	}).Error)
	require.NoError(t, store.DB().Create(&models.PageView{
		PageURL: "https://menus.example/shop/acme/42", ViewCount: 5,
	}).Error)

	report := store.AggregateRange(day(2026, 8, 20), day(2026, 8, 27), nil)
	assert.Equal(t, int64(6), report.Total)

	// Outside the range entirely.
	report = store.AggregateRange(day(2026, 8, 1), day(2026, 8, 19), nil)
	assert.Equal(t, int64(0), report.Total)
	assert.Empty(t, report.Entities)
}

func TestAggregateRangeScopesByPrefix(t *testing.T) {
	store, _ := newAggregateStore(t)
	require.NoError(t, store.DB().Create(&[]models.DailyPageView{
		{PageURL: "https://menus.example/shop/acme/42", ViewCount: 4, ViewDate: "2026-08-27 23:59"},
		{PageURL: "https://menus.example/shop/burgers/7", ViewCount: 9, ViewDate: "2026-08-27 23:59"},
	}).Error)

	report := store.AggregateRange(day(2026, 8, 27), day(2026, 8, 27),
		[]string{"https://menus.example/shop/acme/42"})
	assert.Equal(t, int64(4), report.Total)
	require.Len(t, report.Entities, 1)
	assert.Equal(t, "42", report.Entities[0].Identifier)
}

func TestAggregateRangeFoldsRenamedVariants(t *testing.T) {
	store, _ := newAggregateStore(t)
	require.NoError(t, store.DB().Create(&[]models.DailyPageView{
		{PageURL: "https://menus.example/shop/oldname/42", ViewCount: 2, ViewDate: "2026-08-26 23:59"},
		{PageURL: "https://menus.example/shop/newname/42", ViewCount: 4, ViewDate: "2026-08-27 23:59"},
	}).Error)

	report := store.AggregateRange(day(2026, 8, 26), day(2026, 8, 27), nil)
	require.Len(t, report.Entities, 1)
	assert.Equal(t, "42", report.Entities[0].Identifier)
	assert.Equal(t, int64(6), report.Entities[0].Total)
	assert.Equal(t, 2, report.Entities[0].URLVariants)
}

func TestAggregateRangeSortsByTotalDescending(t *testing.T) {
	store, _ := newAggregateStore(t)
	require.NoError(t, store.DB().Create(&[]models.DailyPageView{
		{PageURL: "https://menus.example/shop/acme/1", ViewCount: 2, ViewDate: "2026-08-27 23:59"},
		{PageURL: "https://menus.example/shop/burgers/2", ViewCount: 8, ViewDate: "2026-08-27 23:59"},
		{PageURL: "https://menus.example/shop/cafe/3", ViewCount: 8, ViewDate: "2026-08-27 23:59"},
	}).Error)

	report := store.AggregateRange(day(2026, 8, 27), day(2026, 8, 27), nil)
	require.Len(t, report.Entities, 3)
	assert.Equal(t, "2", report.Entities[0].Identifier)
	assert.Equal(t, "3", report.Entities[1].Identifier)
	assert.Equal(t, "1", report.Entities[2].Identifier)
	assert.Equal(t, int64(18), report.Total)
}
