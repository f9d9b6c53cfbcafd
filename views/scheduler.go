package views

import (
	"sync"
	"time"
)

const defaultCheckInterval = time.Minute

// TransferScheduler runs the daily roll-up: at a configured time-of-day it drains
// all live counters into the historical ledger. It owns its timer handles; the
// application bootstrap starts it once and stops it on shutdown.
type TransferScheduler struct {
	store         *Store
	clock         Clock
	hour, minute  int
	checkInterval time.Duration

	mu         sync.Mutex
	armed      *time.Timer
	ticker     *time.Ticker
	tickerDone chan struct{}
	lastFired  string // "2006-01-02 15:04" of the last transfer minute
	running    bool
}

// NewTransferScheduler creates a scheduler firing daily at hour:minute local time.
// Out-of-range values fall back to the 23:59 default.
func NewTransferScheduler(store *Store, hour, minute int, checkInterval time.Duration) *TransferScheduler {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		hour, minute = 23, 59
	}
	if checkInterval <= 0 {
		checkInterval = defaultCheckInterval
	}
	return &TransferScheduler{
		store:         store,
		clock:         systemClock{},
		hour:          hour,
		minute:        minute,
		checkInterval: checkInterval,
	}
}

// SetClock replaces the clock; used by tests.
func (s *TransferScheduler) SetClock(c Clock) {
	s.mu.Lock()
	s.clock = c
	s.mu.Unlock()
}

// Start arms a one-shot timer for the next occurrence of the configured time-of-day.
// When it fires the scheduler transfers once, then re-checks every checkInterval and
// transfers again whenever the current minute matches, at most once per matching
// minute. Calling Start on a running scheduler is a no-op.
func (s *TransferScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	delay := s.untilNextRun(s.clock.Now())
	s.armed = time.AfterFunc(delay, func() {
		s.fire()
		s.startTickerLoop()
	})
	infof("daily view transfer scheduled in %s (at %02d:%02d)", delay.Round(time.Second), s.hour, s.minute)
}

// Stop clears any pending one-shot timer and the recurring check. Idempotent and
// safe when nothing is armed. A stopped scheduler can be started again.
func (s *TransferScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed != nil {
		s.armed.Stop()
		s.armed = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.tickerDone)
		s.ticker = nil
		s.tickerDone = nil
	}
	s.running = false
}

// TransferNow performs the four-step transfer synchronously, for administrative
// triggering or short test cycles. Same insert-before-delete ordering as the
// scheduled path.
func (s *TransferScheduler) TransferNow() error {
	s.mu.Lock()
	now := s.clock.Now()
	s.mu.Unlock()
	return s.store.Transfer(now)
}

// fire runs one scheduled transfer, deduplicated per wall-clock minute.
func (s *TransferScheduler) fire() {
	s.mu.Lock()
	now := s.clock.Now()
	minute := now.Format(ViewDateLayout)
	if minute == s.lastFired {
		s.mu.Unlock()
		return
	}
	s.lastFired = minute
	s.mu.Unlock()

	if err := s.store.Transfer(now); err != nil {
		logf("scheduled view transfer failed: %v", err)
	}
}

// shouldFire reports whether the given instant matches the configured time-of-day.
func (s *TransferScheduler) shouldFire(now time.Time) bool {
	return now.Hour() == s.hour && now.Minute() == s.minute
}

// untilNextRun computes the delay until the next occurrence of hour:minute.
func (s *TransferScheduler) untilNextRun(now time.Time) time.Duration {
	target := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now)
}

func (s *TransferScheduler) startTickerLoop() {
	s.mu.Lock()
	if !s.running || s.ticker != nil {
		s.mu.Unlock()
		return
	}
	s.armed = nil
	s.ticker = time.NewTicker(s.checkInterval)
	ticker := s.ticker
	done := make(chan struct{})
	s.tickerDone = done
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.mu.Lock()
				now := s.clock.Now()
				match := s.shouldFire(now)
				s.mu.Unlock()
				if match {
					s.fire()
				}
			}
		}
	}()
}
