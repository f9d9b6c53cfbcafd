package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/middleware"
	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
)

// StatsController provides dashboard statistics scoped to the caller's role.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetDashboard returns entity counts for the admin dashboard. Shop owners see only
// their own rows; super admins see everything. Each count falls back to 0 instead of
// failing the whole endpoint.
func (s *StatsController) GetDashboard(ctx *gin.Context) {
	isSuper := middleware.Role(ctx) == models.RoleSuperAdmin
	shopIDs, ok := ownedShopIDs(ctx, s.db)
	if !ok {
		shopIDs = []uint{}
	}

	scoped := func(model interface{}) *gorm.DB {
		q := s.db.Model(model)
		if !isSuper {
			q = q.Where("shop_id IN ?", shopIDs)
		}
		return q
	}

	var shopCount int64
	if isSuper {
		if err := s.db.Model(&models.Shop{}).Count(&shopCount).Error; err != nil {
			shopCount = 0
		}
	} else {
		shopCount = int64(len(shopIDs))
	}

	var productCount int64
	if err := scoped(&models.Product{}).Count(&productCount).Error; err != nil {
		productCount = 0
	}

	var categoryCount int64
	if err := scoped(&models.ProductType{}).Count(&categoryCount).Error; err != nil {
		categoryCount = 0
	}

	var contactCount int64
	if err := scoped(&models.SocialContact{}).Count(&contactCount).Error; err != nil {
		contactCount = 0
	}

	var industryCount int64
	if err := s.db.Model(&models.Industry{}).Count(&industryCount).Error; err != nil {
		industryCount = 0
	}

	payload := gin.H{
		"shop_count":     shopCount,
		"product_count":  productCount,
		"category_count": categoryCount,
		"contact_count":  contactCount,
		"industry_count": industryCount,
	}

	if isSuper {
		var userCount int64
		if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
			userCount = 0
		}
		payload["user_count"] = userCount

		// User status breakdown feeds the dashboard pie chart.
		type statusRow struct {
			Status int   `json:"status"`
			Count  int64 `json:"count"`
		}
		var statuses []statusRow
		if err := s.db.Model(&models.User{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&statuses).Error; err == nil {
			payload["user_statuses"] = statuses
		}
	}

	utils.Success(ctx, payload)
}
