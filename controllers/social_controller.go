package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
)

// SocialController manages social/contact links shown on menu pages.
type SocialController struct {
	db *gorm.DB
}

// NewSocialController creates a new SocialController instance.
func NewSocialController(db *gorm.DB) *SocialController {
	return &SocialController{db: db}
}

// ListContacts returns social links of shops the caller controls.
func (s *SocialController) ListContacts(ctx *gin.Context) {
	shopIDs, ok := ownedShopIDs(ctx, s.db)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	query := s.db.Model(&models.SocialContact{}).Order("shop_id, platform")
	if shopIDs != nil {
		query = query.Where("shop_id IN ?", shopIDs)
	}
	if shopID := ctx.Query("shop_id"); shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}

	var contacts []models.SocialContact
	if err := query.Find(&contacts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list contacts")
		return
	}
	utils.Success(ctx, gin.H{"items": contacts})
}

// CreateContact adds a social link to a shop the caller controls.
func (s *SocialController) CreateContact(ctx *gin.Context) {
	var req struct {
		ShopID   uint   `json:"shop_id" binding:"required"`
		Platform string `json:"platform" binding:"required,min=1,max=64"`
		URL      string `json:"url" binding:"required,url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	if !ownsShop(ctx, s.db, req.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40360, "not your shop")
		return
	}

	contact := models.SocialContact{
		ShopID:   req.ShopID,
		Platform: strings.TrimSpace(req.Platform),
		URL:      strings.TrimSpace(req.URL),
	}
	if err := s.db.Create(&contact).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to create contact")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, gin.H{"contact": contact})
}

// UpdateContact edits a social link.
func (s *SocialController) UpdateContact(ctx *gin.Context) {
	var contact models.SocialContact
	if err := s.db.First(&contact, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40460, "contact not found")
		return
	}
	if !ownsShop(ctx, s.db, contact.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40360, "not your shop")
		return
	}

	var req struct {
		Platform *string `json:"platform"`
		URL      *string `json:"url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Platform != nil && strings.TrimSpace(*req.Platform) != "" {
		updates["platform"] = strings.TrimSpace(*req.Platform)
	}
	if req.URL != nil && strings.TrimSpace(*req.URL) != "" {
		updates["url"] = strings.TrimSpace(*req.URL)
	}
	if len(updates) > 0 {
		if err := s.db.Model(&contact).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to update contact")
			return
		}
		utils.InvalidateByPrefix("cache:menu:")
	}
	utils.Success(ctx, gin.H{"contact": contact})
}

// DeleteContact removes a social link.
func (s *SocialController) DeleteContact(ctx *gin.Context) {
	var contact models.SocialContact
	if err := s.db.First(&contact, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40460, "contact not found")
		return
	}
	if !ownsShop(ctx, s.db, contact.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40360, "not your shop")
		return
	}
	if err := s.db.Delete(&contact).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to delete contact")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, nil)
}
