package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
)

// IndustryController manages the industry lookup table (super admin only for writes).
type IndustryController struct {
	db *gorm.DB
}

// NewIndustryController creates a new IndustryController instance.
func NewIndustryController(db *gorm.DB) *IndustryController {
	return &IndustryController{db: db}
}

// ListIndustries returns all industries.
func (i *IndustryController) ListIndustries(ctx *gin.Context) {
	var industries []models.Industry
	if err := i.db.Order("name").Find(&industries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list industries")
		return
	}
	utils.Success(ctx, gin.H{"items": industries})
}

// CreateIndustry adds a new industry.
func (i *IndustryController) CreateIndustry(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=128"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	industry := models.Industry{Name: strings.TrimSpace(req.Name)}
	if err := i.db.Create(&industry).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40930, "industry already exists")
		return
	}
	utils.Success(ctx, gin.H{"industry": industry})
}

// UpdateIndustry renames an industry.
func (i *IndustryController) UpdateIndustry(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=128"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	res := i.db.Model(&models.Industry{}).Where("id = ?", ctx.Param("id")).
		Update("name", strings.TrimSpace(req.Name))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update industry")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40430, "industry not found")
		return
	}
	utils.Success(ctx, nil)
}

// DeleteIndustry removes an industry that no shop references.
func (i *IndustryController) DeleteIndustry(ctx *gin.Context) {
	var inUse int64
	if err := i.db.Model(&models.Shop{}).Where("industry_id = ?", ctx.Param("id")).
		Count(&inUse).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to check industry usage")
		return
	}
	if inUse > 0 {
		utils.Error(ctx, http.StatusConflict, 40931, "industry is in use")
		return
	}
	if err := i.db.Delete(&models.Industry{}, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete industry")
		return
	}
	utils.Success(ctx, nil)
}
