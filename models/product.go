package models

import "time"

// ProductType groups products on a shop menu (a menu category).
type ProductType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ShopID    uint      `gorm:"index;not null" json:"shop_id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is one catalog item shown on a shop's public menu.
type Product struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ShopID        uint        `gorm:"index;not null" json:"shop_id"`
	ProductTypeID uint        `gorm:"index" json:"product_type_id"`
	Name          string      `gorm:"size:255;not null" json:"name"`
	Description   string      `gorm:"type:text" json:"description"`
	Price         float64     `gorm:"not null;default:0" json:"price"`
	ImageURL      string      `gorm:"size:512" json:"image_url"`
	Available     bool        `gorm:"default:true" json:"available"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	ProductType   ProductType `json:"product_type"`
}
