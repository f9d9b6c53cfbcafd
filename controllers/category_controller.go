package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
)

// CategoryController manages product types (menu categories) per shop.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// ListCategories returns the product types of shops the caller controls.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	shopIDs, ok := ownedShopIDs(ctx, c.db)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}

	query := c.db.Model(&models.ProductType{}).Order("shop_id, sort_order, name")
	if shopIDs != nil {
		query = query.Where("shop_id IN ?", shopIDs)
	}

	var categories []models.ProductType
	if err := query.Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// CreateCategory adds a product type to a shop the caller controls.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req struct {
		ShopID    uint   `json:"shop_id" binding:"required"`
		Name      string `json:"name" binding:"required,min=1,max=128"`
		SortOrder int    `json:"sort_order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if !ownsShop(ctx, c.db, req.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40340, "not your shop")
		return
	}

	category := models.ProductType{
		ShopID:    req.ShopID,
		Name:      strings.TrimSpace(req.Name),
		SortOrder: req.SortOrder,
	}
	if err := c.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create category")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, gin.H{"category": category})
}

// UpdateCategory edits a product type.
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	var category models.ProductType
	if err := c.db.First(&category, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40440, "category not found")
		return
	}
	if !ownsShop(ctx, c.db, category.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40340, "not your shop")
		return
	}

	var req struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sort_order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) > 0 {
		if err := c.db.Model(&category).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to update category")
			return
		}
		utils.InvalidateByPrefix("cache:menu:")
	}
	utils.Success(ctx, gin.H{"category": category})
}

// DeleteCategory removes a product type; products in it become uncategorized.
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	var category models.ProductType
	if err := c.db.First(&category, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40440, "category not found")
		return
	}
	if !ownsShop(ctx, c.db, category.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40340, "not your shop")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("product_type_id = ?", category.ID).
			Update("product_type_id", 0).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to delete category")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, nil)
}
