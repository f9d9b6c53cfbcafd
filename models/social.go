package models

import "time"

// SocialContact is a social or contact link displayed on a shop's menu page.
type SocialContact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ShopID    uint      `gorm:"index;not null" json:"shop_id"`
	Platform  string    `gorm:"size:64;not null" json:"platform"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
