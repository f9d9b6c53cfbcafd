package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/config"
	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
	"github.com/openmenu/menulist/views"
)

// MenuController serves the public, unauthenticated menu pages.
type MenuController struct {
	db *gorm.DB
}

// NewMenuController creates a new MenuController instance.
func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{db: db}
}

// menuSection groups products under their product type for the public payload.
type menuSection struct {
	Category models.ProductType `json:"category"`
	Products []models.Product   `json:"products"`
}

// GetMenu returns the full public menu for /:name/:shopId. The name segment is
// cosmetic; the shop is resolved by id. Responses are cached in Redis and
// invalidated on any catalog mutation.
func (m *MenuController) GetMenu(ctx *gin.Context) {
	shopID, err := strconv.ParseUint(ctx.Param("shopId"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid shop id")
		return
	}

	cacheKey := fmt.Sprintf("cache:menu:%d", shopID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var shop models.Shop
	if err := m.db.Preload("Industry").First(&shop, shopID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40470, "shop not found")
		return
	}
	if shop.Status != 1 {
		utils.Error(ctx, http.StatusNotFound, 40471, "shop not available")
		return
	}

	var categories []models.ProductType
	if err := m.db.Where("shop_id = ?", shop.ID).
		Order("sort_order, name").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load menu")
		return
	}
	var products []models.Product
	if err := m.db.Where("shop_id = ? AND available = ?", shop.ID, true).
		Order("name").Find(&products).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load menu")
		return
	}
	var contacts []models.SocialContact
	if err := m.db.Where("shop_id = ?", shop.ID).
		Order("platform").Find(&contacts).Error; err != nil {
		// Social links are decoration; serve the menu without them.
		contacts = nil
	}

	byType := make(map[uint][]models.Product)
	for _, p := range products {
		byType[p.ProductTypeID] = append(byType[p.ProductTypeID], p)
	}
	sections := make([]menuSection, 0, len(categories)+1)
	for _, c := range categories {
		if items := byType[c.ID]; len(items) > 0 {
			sections = append(sections, menuSection{Category: c, Products: items})
		}
	}
	if uncategorized := byType[0]; len(uncategorized) > 0 {
		sections = append(sections, menuSection{
			Category: models.ProductType{Name: "Other"},
			Products: uncategorized,
		})
	}

	payload := utils.JSONResponse{
		Code:    0,
		Message: "success",
		Data: gin.H{
			"shop":     shop,
			"sections": sections,
			"contacts": contacts,
		},
	}
	utils.CacheSetJSON(cacheKey, payload, 0)
	ctx.JSON(200, payload)
}

// GetMenuQRCode renders a PNG QR code pointing at a shop's public menu page.
func (m *MenuController) GetMenuQRCode(ctx *gin.Context) {
	shopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid shop id")
		return
	}
	var shop models.Shop
	if err := m.db.First(&shop, shopID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40470, "shop not found")
		return
	}

	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "256"))
	url := views.CanonicalShopURL(config.Get().PublicBaseURL, shop.Name, shop.ID)
	png, err := utils.QRCodePNG(url, size)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to render qr code")
		return
	}
	ctx.Data(200, "image/png", png)
}
