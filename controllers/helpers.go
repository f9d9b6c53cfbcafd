package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/middleware"
	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// ownedShopIDs returns the shop ids the authenticated caller controls. Super admins
// control every shop (nil result means unrestricted).
func ownedShopIDs(ctx *gin.Context, db *gorm.DB) ([]uint, bool) {
	if middleware.Role(ctx) == models.RoleSuperAdmin {
		return nil, true
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return nil, false
	}
	var ids []uint
	if err := db.Model(&models.Shop{}).Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, false
	}
	return utils.UniqueUint(ids), true
}

// ownsShop reports whether the caller may act on the given shop.
func ownsShop(ctx *gin.Context, db *gorm.DB, shopID uint) bool {
	if middleware.Role(ctx) == models.RoleSuperAdmin {
		return true
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return false
	}
	var count int64
	if err := db.Model(&models.Shop{}).
		Where("id = ? AND user_id = ?", shopID, userID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}
