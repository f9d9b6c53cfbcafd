package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/config"
	"github.com/openmenu/menulist/middleware"
	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
	"github.com/openmenu/menulist/views"
)

// ShopController manages tenant shops. Shop renames propagate into the view-counter
// tables so page identity survives the URL text changing.
type ShopController struct {
	db    *gorm.DB
	store *views.Store
}

// NewShopController creates a new ShopController instance.
func NewShopController(db *gorm.DB, store *views.Store) *ShopController {
	return &ShopController{db: db, store: store}
}

// ListShops returns shops visible to the caller: all of them for super admins, the
// caller's own otherwise.
func (s *ShopController) ListShops(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	query := s.db.Model(&models.Shop{}).Preload("Industry").Order("created_at DESC")
	if middleware.Role(ctx) != models.RoleSuperAdmin {
		userID, ok := middleware.UserID(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
			return
		}
		query = query.Where("user_id = ?", userID)
	}
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count shops")
		return
	}

	var shops []models.Shop
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&shops).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list shops")
		return
	}

	utils.Success(ctx, gin.H{
		"items": shops,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// GetShop returns one shop the caller controls.
func (s *ShopController) GetShop(ctx *gin.Context) {
	shopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid shop id")
		return
	}
	if !ownsShop(ctx, s.db, uint(shopID)) {
		utils.Error(ctx, http.StatusForbidden, 40320, "not your shop")
		return
	}

	var shop models.Shop
	if err := s.db.Preload("Industry").First(&shop, shopID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "shop not found")
		return
	}
	utils.Success(ctx, gin.H{"shop": shop})
}

// CreateShop registers a new shop owned by the caller.
func (s *ShopController) CreateShop(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=1,max=128"`
		Description string `json:"description"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
		LogoURL     string `json:"logo_url"`
		IndustryID  uint   `json:"industry_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	shop := models.Shop{
		UserID:      userID,
		IndustryID:  req.IndustryID,
		Name:        strings.TrimSpace(req.Name),
		Description: utils.Sanitize(req.Description),
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		LogoURL:     strings.TrimSpace(req.LogoURL),
		Status:      1,
	}
	if shop.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "name cannot be empty")
		return
	}
	if err := s.db.Create(&shop).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to create shop")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, gin.H{"shop": shop})
}

// UpdateShop edits a shop. When the name changes, both view-counter tables are
// migrated from the old canonical URL to the new one.
func (s *ShopController) UpdateShop(ctx *gin.Context) {
	shopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid shop id")
		return
	}
	if !ownsShop(ctx, s.db, uint(shopID)) {
		utils.Error(ctx, http.StatusForbidden, 40320, "not your shop")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		Phone       *string `json:"phone"`
		LogoURL     *string `json:"logo_url"`
		IndustryID  *uint   `json:"industry_id"`
		Status      *int    `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	var shop models.Shop
	if err := s.db.First(&shop, shopID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "shop not found")
		return
	}
	oldName := shop.Name

	updates := map[string]interface{}{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = utils.Sanitize(*req.Description)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}
	if req.IndustryID != nil {
		updates["industry_id"] = *req.IndustryID
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		utils.Success(ctx, gin.H{"shop": shop})
		return
	}

	if err := s.db.Model(&shop).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update shop")
		return
	}

	if newName, ok := updates["name"].(string); ok && newName != oldName {
		origin := config.Get().PublicBaseURL
		oldURL := views.CanonicalShopURL(origin, oldName, shop.ID)
		newURL := views.CanonicalShopURL(origin, newName, shop.ID)
		if err := s.store.RenamePageURL(oldURL, newURL); err != nil {
			// Counts stay reachable by trailing id; log and move on.
			utils.Sugar.Warnf("view counter rename failed shop=%d err=%v", shop.ID, err)
		}
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, gin.H{"shop": shop})
}

// DeleteShop removes a shop and its catalog.
func (s *ShopController) DeleteShop(ctx *gin.Context) {
	shopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid shop id")
		return
	}
	if !ownsShop(ctx, s.db, uint(shopID)) {
		utils.Error(ctx, http.StatusForbidden, 40320, "not your shop")
		return
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ?", shopID).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", shopID).Delete(&models.ProductType{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", shopID).Delete(&models.SocialContact{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Shop{}, shopID).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to delete shop")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, nil)
}
