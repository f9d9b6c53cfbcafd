package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
)

// ProductController manages catalog items per shop.
type ProductController struct {
	db *gorm.DB
}

// NewProductController creates a new ProductController instance.
func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{db: db}
}

// ListProducts returns paginated products of shops the caller controls, optionally
// filtered by shop, category or a name search.
func (p *ProductController) ListProducts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	shopIDs, ok := ownedShopIDs(ctx, p.db)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40150, "unauthorized")
		return
	}

	query := p.db.Model(&models.Product{}).Preload("ProductType").Order("created_at DESC")
	if shopIDs != nil {
		query = query.Where("shop_id IN ?", shopIDs)
	}
	if shopID := ctx.Query("shop_id"); shopID != "" {
		query = query.Where("shop_id = ?", shopID)
	}
	if typeID := ctx.Query("product_type_id"); typeID != "" {
		query = query.Where("product_type_id = ?", typeID)
	}
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to count products")
		return
	}

	var products []models.Product
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&products).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list products")
		return
	}

	utils.Success(ctx, gin.H{
		"items": products,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// CreateProduct adds a catalog item to a shop the caller controls.
func (p *ProductController) CreateProduct(ctx *gin.Context) {
	var req struct {
		ShopID        uint    `json:"shop_id" binding:"required"`
		ProductTypeID uint    `json:"product_type_id"`
		Name          string  `json:"name" binding:"required,min=1,max=255"`
		Description   string  `json:"description"`
		Price         float64 `json:"price" binding:"min=0"`
		ImageURL      string  `json:"image_url"`
		Available     *bool   `json:"available"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	if !ownsShop(ctx, p.db, req.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40350, "not your shop")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	product := models.Product{
		ShopID:        req.ShopID,
		ProductTypeID: req.ProductTypeID,
		Name:          strings.TrimSpace(req.Name),
		Description:   utils.Sanitize(req.Description),
		Price:         req.Price,
		ImageURL:      strings.TrimSpace(req.ImageURL),
		Available:     available,
	}
	if err := p.db.Create(&product).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to create product")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, gin.H{"product": product})
}

// UpdateProduct edits a catalog item.
func (p *ProductController) UpdateProduct(ctx *gin.Context) {
	var product models.Product
	if err := p.db.First(&product, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40450, "product not found")
		return
	}
	if !ownsShop(ctx, p.db, product.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40350, "not your shop")
		return
	}

	var req struct {
		ProductTypeID *uint    `json:"product_type_id"`
		Name          *string  `json:"name"`
		Description   *string  `json:"description"`
		Price         *float64 `json:"price"`
		ImageURL      *string  `json:"image_url"`
		Available     *bool    `json:"available"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.ProductTypeID != nil {
		updates["product_type_id"] = *req.ProductTypeID
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = utils.Sanitize(*req.Description)
	}
	if req.Price != nil && *req.Price >= 0 {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if len(updates) > 0 {
		if err := p.db.Model(&product).Updates(updates).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to update product")
			return
		}
		utils.InvalidateByPrefix("cache:menu:")
	}
	utils.Success(ctx, gin.H{"product": product})
}

// DeleteProduct removes a catalog item.
func (p *ProductController) DeleteProduct(ctx *gin.Context) {
	var product models.Product
	if err := p.db.First(&product, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40450, "product not found")
		return
	}
	if !ownsShop(ctx, p.db, product.ShopID) {
		utils.Error(ctx, http.StatusForbidden, 40350, "not your shop")
		return
	}
	if err := p.db.Delete(&product).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to delete product")
		return
	}

	utils.InvalidateByPrefix("cache:menu:")
	utils.Success(ctx, nil)
}
