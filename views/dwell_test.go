package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testPage = "https://menus.example/shop/acme/42"

func newTestTracker(t *testing.T) (*DwellTracker, *countingIncrementer, *fakeClock) {
	t.Helper()
	inc := &countingIncrementer{}
	clock := newFakeClock(time.Date(2026, 8, 28, 12, 0, 0, 0, time.Local))
	tracker := NewDwellTracker(inc, NewMemorySessionFlags(), 10*time.Second)
	tracker.SetClock(clock)
	t.Cleanup(tracker.Stop)
	return tracker, inc, clock
}

func TestDwellBelowThresholdDoesNotCount(t *testing.T) {
	tracker, inc, clock := newTestTracker(t)

	for i := 0; i < 9; i++ {
		counted, fired := tracker.Observe("s1", testPage, 42, true)
		assert.False(t, counted)
		assert.False(t, fired)
		clock.Advance(time.Second)
	}
	// 8 seconds accrued over 9 heartbeats, still short of 10.
	assert.Equal(t, 0, inc.count())
}

func TestDwellCrossingThresholdFiresOnce(t *testing.T) {
	tracker, inc, clock := newTestTracker(t)

	var firedAt int
	for i := 0; i < 15; i++ {
		_, fired := tracker.Observe("s1", testPage, 42, true)
		if fired {
			firedAt = i
			break
		}
		clock.Advance(time.Second)
	}
	// First heartbeat only starts the mark, so the tenth accrued second lands
	// on the eleventh observation.
	assert.Equal(t, 10, firedAt)
	assert.Equal(t, 1, inc.count())

	// Further heartbeats report counted but never fire again.
	clock.Advance(time.Second)
	counted, fired := tracker.Observe("s1", testPage, 42, true)
	assert.True(t, counted)
	assert.False(t, fired)
	assert.Equal(t, 1, inc.count())
}

func TestDwellHiddenTimeDoesNotAccrue(t *testing.T) {
	tracker, inc, clock := newTestTracker(t)

	// 4 seconds visible.
	for i := 0; i < 5; i++ {
		tracker.Observe("s1", testPage, 42, true)
		clock.Advance(time.Second)
	}
	// Tab hidden for 100 seconds.
	tracker.Observe("s1", testPage, 42, false)
	clock.Advance(100 * time.Second)
	// 4 more seconds visible: 8 accrued in total, still below threshold.
	for i := 0; i < 5; i++ {
		counted, _ := tracker.Observe("s1", testPage, 42, true)
		assert.False(t, counted)
		clock.Advance(time.Second)
	}
	assert.Equal(t, 0, inc.count())

	// Two more visible seconds push it over.
	_, fired := tracker.Observe("s1", testPage, 42, true)
	assert.False(t, fired)
	clock.Advance(time.Second)
	_, fired = tracker.Observe("s1", testPage, 42, true)
	assert.True(t, fired)
	assert.Equal(t, 1, inc.count())
}

func TestDwellHeartbeatGapIsCapped(t *testing.T) {
	tracker, inc, clock := newTestTracker(t)

	tracker.Observe("s1", testPage, 42, true)
	// A client that goes silent for a minute gets at most 2 seconds credited.
	clock.Advance(time.Minute)
	counted, _ := tracker.Observe("s1", testPage, 42, true)
	assert.False(t, counted)
	assert.Equal(t, 0, inc.count())
}

func TestDwellSessionFlagSuppressesRemount(t *testing.T) {
	tracker, inc, clock := newTestTracker(t)

	for i := 0; i < 12; i++ {
		tracker.Observe("s1", testPage, 42, true)
		clock.Advance(time.Second)
	}
	assert.Equal(t, 1, inc.count())

	// Page unmounts and remounts within the same session.
	tracker.Forget("s1", testPage)
	counted, fired := tracker.Observe("s1", testPage, 42, true)
	assert.True(t, counted)
	assert.False(t, fired)

	for i := 0; i < 20; i++ {
		clock.Advance(time.Second)
		tracker.Observe("s1", testPage, 42, true)
	}
	assert.Equal(t, 1, inc.count())
}

func TestDwellSessionsCountIndependently(t *testing.T) {
	tracker, inc, clock := newTestTracker(t)

	for i := 0; i < 12; i++ {
		tracker.Observe("s1", testPage, 42, true)
		tracker.Observe("s2", testPage, 42, true)
		clock.Advance(time.Second)
	}
	assert.Equal(t, 2, inc.count())
}
