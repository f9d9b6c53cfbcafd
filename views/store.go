package views

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
)

// ViewDateLayout is the minute-resolution timestamp format stored in
// daily_page_views.view_date. Zero-padded, so string range comparison is sortable.
const ViewDateLayout = "2006-01-02 15:04"

// Store performs all reads and writes against the live counter table (page_views)
// and the historical ledger (daily_page_views). View counts are a best-effort
// enhancement: every read degrades to zero and logs instead of failing the caller.
type Store struct {
	db    *gorm.DB
	clock Clock
}

// NewStore creates a Store on top of an initialized gorm DB.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, clock: systemClock{}}
}

// SetClock replaces the clock used to decide what "today" means; used by tests.
func (s *Store) SetClock(c Clock) {
	s.clock = c
}

// DB exposes the underlying handle for collaborators (scheduler, aggregator).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// TodayViews returns the live count for an exact page URL, 0 when absent.
func (s *Store) TodayViews(pageURL string) int64 {
	var count int64
	err := s.db.Model(&models.PageView{}).
		Where("page_url = ?", pageURL).
		Select("COALESCE(SUM(view_count),0)").
		Scan(&count).Error
	if err != nil {
		logf("today views query failed url=%s err=%v", pageURL, err)
		return 0
	}
	return count
}

// TotalViews sums historical counts for an exact page URL across all ledger rows.
func (s *Store) TotalViews(pageURL string) int64 {
	var total int64
	err := s.db.Model(&models.DailyPageView{}).
		Where("page_url = ?", pageURL).
		Select("COALESCE(SUM(view_count),0)").
		Scan(&total).Error
	if err != nil {
		logf("total views query failed url=%s err=%v", pageURL, err)
		return 0
	}
	return total
}

// TodayViewsByID sums live counts for every URL ending in /<id>. Used when the
// canonical URL text may have drifted after a rename; multiple matches are summed
// rather than treated as an error.
func (s *Store) TodayViewsByID(id uint) int64 {
	var count int64
	err := s.db.Model(&models.PageView{}).
		Where("page_url LIKE ?", suffixPattern(id)).
		Select("COALESCE(SUM(view_count),0)").
		Scan(&count).Error
	if err != nil {
		logf("today views by id query failed id=%d err=%v", id, err)
		return 0
	}
	return count
}

// TotalViewsByID sums historical counts for every URL ending in /<id>.
func (s *Store) TotalViewsByID(id uint) int64 {
	var total int64
	err := s.db.Model(&models.DailyPageView{}).
		Where("page_url LIKE ?", suffixPattern(id)).
		Select("COALESCE(SUM(view_count),0)").
		Scan(&total).Error
	if err != nil {
		logf("total views by id query failed id=%d err=%v", id, err)
		return 0
	}
	return total
}

// Increment records one qualifying view for a page. Any existing live row whose URL
// ends in /<id> is matched (not exact match, to tolerate stale names), bumped by one
// and its page_url rewritten to the latest canonical form. Absent a match a fresh row
// starts at 1. The lookup-then-write is not atomic against other sessions; the live
// count is an at-least-once-per-session figure, not an exact global one.
func (s *Store) Increment(canonicalURL string, id uint) (int64, error) {
	var existing models.PageView
	err := s.db.Where("page_url LIKE ?", suffixPattern(id)).
		Order("id").
		First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return 0, fmt.Errorf("lookup live counter: %w", err)
	}

	if err == gorm.ErrRecordNotFound {
		row := models.PageView{PageURL: canonicalURL, ViewCount: 1}
		if err := s.db.Create(&row).Error; err != nil {
			return 0, fmt.Errorf("insert live counter: %w", err)
		}
		return row.ViewCount, nil
	}

	updates := map[string]interface{}{
		"view_count": gorm.Expr("view_count + ?", 1),
		"page_url":   canonicalURL,
	}
	if err := s.db.Model(&models.PageView{}).Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return 0, fmt.Errorf("update live counter: %w", err)
	}
	return existing.ViewCount + 1, nil
}

// RenamePageURL migrates live and historical rows from an old canonical URL to a new
// one after a shop rename. It only fires when both URLs share the trailing id but
// differ in the name segment; anything else is a no-op.
func (s *Store) RenamePageURL(oldURL, newURL string) error {
	if !SameEntityRenamed(oldURL, newURL) {
		return nil
	}
	if err := s.db.Model(&models.PageView{}).
		Where("page_url = ?", oldURL).
		Update("page_url", newURL).Error; err != nil {
		return fmt.Errorf("rename live counters: %w", err)
	}
	if err := s.db.Model(&models.DailyPageView{}).
		Where("page_url = ?", oldURL).
		Update("page_url", newURL).Error; err != nil {
		return fmt.Errorf("rename ledger rows: %w", err)
	}
	return nil
}

// Transfer moves every live counter into the ledger stamped with the given time and
// resets live state to empty. Insert happens strictly before delete: a failed insert
// aborts with live rows intact, a failed delete after insert leaves duplicated
// historical totals, which the aggregator tolerates because it sums.
func (s *Store) Transfer(now time.Time) error {
	var live []models.PageView
	if err := s.db.Find(&live).Error; err != nil {
		return fmt.Errorf("read live counters: %w", err)
	}
	if len(live) == 0 {
		return nil
	}

	stamp := now.Format(ViewDateLayout)
	rows := make([]models.DailyPageView, 0, len(live))
	for _, v := range live {
		rows = append(rows, models.DailyPageView{
			PageURL:   v.PageURL,
			ViewCount: v.ViewCount,
			ViewDate:  stamp,
		})
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert ledger rows: %w", err)
	}

	if err := s.db.Where("id > ?", 0).Delete(&models.PageView{}).Error; err != nil {
		// Ledger rows are already written; next transfer would duplicate them.
		logf("live counter reset failed after ledger insert, totals may duplicate: %v", err)
		return fmt.Errorf("reset live counters: %w", err)
	}
	infof("transferred %d live counters to daily ledger at %s", len(rows), stamp)
	return nil
}

func suffixPattern(id uint) string {
	return fmt.Sprintf("%%/%d", id)
}

func logf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf(format, args...)
	}
}

func infof(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Infof(format, args...)
	}
}
