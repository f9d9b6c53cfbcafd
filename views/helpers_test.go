package views

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openmenu/menulist/models"
)

// fakeClock is a manually advanced Clock for timing tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func (f *fakeClock) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// newTestDB opens an isolated in-memory sqlite database migrated with the counter
// tables.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.PageView{}, &models.DailyPageView{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func liveRows(t *testing.T, db *gorm.DB) []models.PageView {
	t.Helper()
	var rows []models.PageView
	if err := db.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("read live rows: %v", err)
	}
	return rows
}

func ledgerRows(t *testing.T, db *gorm.DB) []models.DailyPageView {
	t.Helper()
	var rows []models.DailyPageView
	if err := db.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("read ledger rows: %v", err)
	}
	return rows
}

// countingIncrementer records Increment calls for dwell tests.
type countingIncrementer struct {
	mu    sync.Mutex
	calls []string
}

func (c *countingIncrementer) Increment(canonicalURL string, id uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, canonicalURL)
	return int64(len(c.calls)), nil
}

func (c *countingIncrementer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
