package views

import (
	"sync"
	"time"
)

const (
	// DefaultDwellThreshold is the accumulated visible time after which a visit
	// counts as a view.
	DefaultDwellThreshold = 10 * time.Second
	// defaultMaxSample caps the visible time credited for a single heartbeat gap,
	// so a client that stops reporting does not accrue the silence as dwell time.
	defaultMaxSample = 2 * time.Second
	// defaultStateTTL is how long an idle per-session accrual state is kept before
	// the janitor evicts it.
	defaultStateTTL = 30 * time.Minute
)

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SessionFlags persists the "already counted" marker per (session, canonical URL).
// It is the server-side analogue of the tab-scoped storage the public page uses:
// it survives reloads within a session and expires with it.
type SessionFlags interface {
	IsCounted(sessionID, pageURL string) bool
	MarkCounted(sessionID, pageURL string)
}

// Incrementer is the single write the tracker performs once a dwell threshold is
// crossed. *Store satisfies it.
type Incrementer interface {
	Increment(canonicalURL string, id uint) (int64, error)
}

// dwellState tracks one (session, page) pair.
type dwellState struct {
	accumulated  time.Duration
	visibleSince time.Time // zero while hidden
	counted      bool
	suppressed   bool
	lastSeen     time.Time
}

// DwellTracker decides whether a visit counts as a view. Browsers report visibility
// heartbeats; visible time accrues between consecutive visible samples and freezes
// while hidden. Crossing the threshold fires exactly one increment per session and
// canonical URL, with the session flag making the guarantee survive remounts.
type DwellTracker struct {
	store     Incrementer
	flags     SessionFlags
	clock     Clock
	threshold time.Duration
	maxSample time.Duration
	stateTTL  time.Duration

	mu       sync.Mutex
	sessions map[string]*dwellState

	janitor *time.Ticker
	done    chan struct{}
	stopped sync.Once
}

// NewDwellTracker builds a tracker with the given increment target and session flag
// store. A zero threshold falls back to DefaultDwellThreshold.
func NewDwellTracker(store Incrementer, flags SessionFlags, threshold time.Duration) *DwellTracker {
	if threshold <= 0 {
		threshold = DefaultDwellThreshold
	}
	t := &DwellTracker{
		store:     store,
		flags:     flags,
		clock:     systemClock{},
		threshold: threshold,
		maxSample: defaultMaxSample,
		stateTTL:  defaultStateTTL,
		sessions:  make(map[string]*dwellState),
		done:      make(chan struct{}),
	}
	t.janitor = time.NewTicker(t.stateTTL / 2)
	go t.runJanitor()
	return t
}

// SetClock replaces the clock; used by tests.
func (t *DwellTracker) SetClock(c Clock) {
	t.mu.Lock()
	t.clock = c
	t.mu.Unlock()
}

// Observe processes one visibility heartbeat for a session viewing a page.
// It returns whether this page has been counted for this session (including
// previously) and whether this particular call fired the increment.
func (t *DwellTracker) Observe(sessionID, canonicalURL string, pageID uint, visible bool) (counted, fired bool) {
	key := sessionID + "|" + canonicalURL

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	st, ok := t.sessions[key]
	if !ok {
		st = &dwellState{}
		// A session that already counted this URL stays suppressed for its lifetime,
		// even across remounts or reloads.
		if t.flags.IsCounted(sessionID, canonicalURL) {
			st.suppressed = true
			st.counted = true
		}
		t.sessions[key] = st
	}
	st.lastSeen = now

	if st.suppressed || st.counted {
		return true, false
	}

	if !visible {
		// Hidden: freeze accrual. Accumulated time is kept, only the running mark
		// is dropped so hidden time never counts.
		st.visibleSince = time.Time{}
		return false, false
	}

	if st.visibleSince.IsZero() {
		st.visibleSince = now
		return false, false
	}

	delta := now.Sub(st.visibleSince)
	if delta > t.maxSample {
		delta = t.maxSample
	}
	if delta > 0 {
		st.accumulated += delta
	}
	st.visibleSince = now

	if st.accumulated < t.threshold {
		return false, false
	}

	st.counted = true
	t.flags.MarkCounted(sessionID, canonicalURL)
	if _, err := t.store.Increment(canonicalURL, pageID); err != nil {
		// The session stays marked: never risk double counting over undercounting.
		logf("dwell increment failed url=%s err=%v", canonicalURL, err)
	}
	return true, true
}

// Forget drops the accrual state for one session and page, e.g. on unmount.
// Counted flags persist in the session store regardless.
func (t *DwellTracker) Forget(sessionID, canonicalURL string) {
	t.mu.Lock()
	delete(t.sessions, sessionID+"|"+canonicalURL)
	t.mu.Unlock()
}

// Stop tears the janitor down. Safe to call more than once.
func (t *DwellTracker) Stop() {
	t.stopped.Do(func() {
		t.janitor.Stop()
		close(t.done)
	})
}

func (t *DwellTracker) runJanitor() {
	for {
		select {
		case <-t.done:
			return
		case <-t.janitor.C:
			t.evictStale()
		}
	}
}

func (t *DwellTracker) evictStale() {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.clock.Now().Add(-t.stateTTL)
	for key, st := range t.sessions {
		if st.lastSeen.Before(cutoff) {
			delete(t.sessions, key)
		}
	}
}
