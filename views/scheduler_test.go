package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmenu/menulist/models"
)

func TestTransferMovesLiveCountersToLedger(t *testing.T) {
	store := NewStore(newTestDB(t))
	require.NoError(t, store.DB().Create(&[]models.PageView{
		{PageURL: "https://menus.example/shop/acme/1", ViewCount: 3},
		{PageURL: "https://menus.example/shop/burgers/2", ViewCount: 7},
	}).Error)

	clock := newFakeClock(time.Date(2026, 8, 28, 23, 59, 0, 0, time.Local))
	sched := NewTransferScheduler(store, 23, 59, time.Minute)
	sched.SetClock(clock)

	require.NoError(t, sched.TransferNow())

	assert.Empty(t, liveRows(t, store.DB()))
	ledger := ledgerRows(t, store.DB())
	require.Len(t, ledger, 2)
	for _, row := range ledger {
		assert.Equal(t, "2026-08-28 23:59", row.ViewDate)
	}
	assert.Equal(t, int64(3), ledger[0].ViewCount)
	assert.Equal(t, int64(7), ledger[1].ViewCount)
}

func TestTransferWithNoLiveRowsIsNoOp(t *testing.T) {
	store := NewStore(newTestDB(t))
	sched := NewTransferScheduler(store, 23, 59, time.Minute)

	require.NoError(t, sched.TransferNow())
	assert.Empty(t, ledgerRows(t, store.DB()))
}

func TestFireDeduplicatesWithinMinute(t *testing.T) {
	store := NewStore(newTestDB(t))
	clock := newFakeClock(time.Date(2026, 8, 28, 23, 59, 5, 0, time.Local))
	sched := NewTransferScheduler(store, 23, 59, time.Minute)
	sched.SetClock(clock)

	require.NoError(t, store.DB().Create(&models.PageView{
		PageURL: "https://menus.example/shop/acme/1", ViewCount: 2,
	}).Error)
	sched.fire()
	assert.Len(t, ledgerRows(t, store.DB()), 1)

	// New live traffic within the same minute must not transfer again.
	require.NoError(t, store.DB().Create(&models.PageView{
		PageURL: "https://menus.example/shop/acme/1", ViewCount: 1,
	}).Error)
	clock.Advance(30 * time.Second)
	sched.fire()
	assert.Len(t, ledgerRows(t, store.DB()), 1)
	assert.Len(t, liveRows(t, store.DB()), 1)

	// The next matching minute fires again.
	clock.Set(time.Date(2026, 8, 29, 23, 59, 0, 0, time.Local))
	sched.fire()
	assert.Len(t, ledgerRows(t, store.DB()), 2)
	assert.Empty(t, liveRows(t, store.DB()))
}

func TestShouldFireMatchesConfiguredMinute(t *testing.T) {
	sched := NewTransferScheduler(nil, 23, 59, time.Minute)

	assert.True(t, sched.shouldFire(time.Date(2026, 8, 28, 23, 59, 0, 0, time.Local)))
	assert.True(t, sched.shouldFire(time.Date(2026, 8, 28, 23, 59, 42, 0, time.Local)))
	assert.False(t, sched.shouldFire(time.Date(2026, 8, 28, 23, 58, 59, 0, time.Local)))
	assert.False(t, sched.shouldFire(time.Date(2026, 8, 28, 0, 59, 0, 0, time.Local)))
}

func TestUntilNextRun(t *testing.T) {
	sched := NewTransferScheduler(nil, 23, 59, time.Minute)

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	assert.Equal(t, 13*time.Hour+59*time.Minute, sched.untilNextRun(now))

	// Already past today's slot: roll to tomorrow.
	now = time.Date(2026, 8, 28, 23, 59, 30, 0, time.Local)
	assert.Equal(t, 23*time.Hour+59*time.Minute+30*time.Second, sched.untilNextRun(now))
}

func TestSchedulerDefaultsInvalidTime(t *testing.T) {
	sched := NewTransferScheduler(nil, 25, -3, 0)
	assert.Equal(t, 23, sched.hour)
	assert.Equal(t, 59, sched.minute)
	assert.Equal(t, defaultCheckInterval, sched.checkInterval)
}

func TestSchedulerStartStopIdempotent(t *testing.T) {
	store := NewStore(newTestDB(t))
	sched := NewTransferScheduler(store, 23, 59, time.Minute)

	sched.Start()
	sched.Start() // no-op while running
	sched.Stop()
	sched.Stop() // safe on a stopped scheduler

	// Can be restarted after a stop.
	sched.Start()
	sched.Stop()
}
