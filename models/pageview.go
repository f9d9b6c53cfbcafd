package models

// PageView is a live counter row: one row per page identity accruing views today.
// page_url is the canonical form <origin>/shop/<normalizedName>/<shopID>; the stable
// identity of a page is the trailing numeric id, not the full URL text, because shop
// display names can change.
type PageView struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PageURL   string `gorm:"column:page_url;size:512;index;not null" json:"page_url"`
	ViewCount int64  `gorm:"column:view_count;not null;default:0" json:"view_count"`
}

// TableName keeps the legacy table name.
func (PageView) TableName() string {
	return "page_views"
}

// DailyPageView is an append-only ledger entry written by the daily roll-up.
// ViewDate is a zero-padded minute-resolution timestamp ("2006-01-02 15:04") so
// lexicographic range comparison on the stored string is valid.
type DailyPageView struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PageURL   string `gorm:"column:page_url;size:512;index;not null" json:"page_url"`
	ViewCount int64  `gorm:"column:view_count;not null;default:0" json:"view_count"`
	ViewDate  string `gorm:"column:view_date;size:16;index;not null" json:"view_date"`
}

// TableName keeps the legacy table name.
func (DailyPageView) TableName() string {
	return "daily_page_views"
}
