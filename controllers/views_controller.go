package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/config"
	"github.com/openmenu/menulist/middleware"
	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/utils"
	"github.com/openmenu/menulist/views"
)

// ViewsController exposes the view-counting pipeline: visibility heartbeats feeding
// the dwell tracker, per-shop counts, scoped range reports and the manual roll-up
// trigger.
type ViewsController struct {
	db        *gorm.DB
	store     *views.Store
	tracker   *views.DwellTracker
	scheduler *views.TransferScheduler
}

// NewViewsController creates a new ViewsController instance.
func NewViewsController(db *gorm.DB, store *views.Store, tracker *views.DwellTracker, scheduler *views.TransferScheduler) *ViewsController {
	return &ViewsController{db: db, store: store, tracker: tracker, scheduler: scheduler}
}

// Heartbeat receives one visibility sample from a public menu page. The first call
// of a tab session omits session_id and gets one issued; subsequent calls echo it.
// Crossing ten seconds of accumulated visible time counts the view, once per session
// and page.
func (v *ViewsController) Heartbeat(ctx *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
		ShopID    uint   `json:"shop_id" binding:"required"`
		Name      string `json:"name" binding:"required"`
		Visible   bool   `json:"visible"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	pageURL := views.CanonicalShopURL(config.Get().PublicBaseURL, req.Name, req.ShopID)
	counted, _ := v.tracker.Observe(sessionID, pageURL, req.ShopID, req.Visible)

	utils.Success(ctx, gin.H{
		"session_id": sessionID,
		"counted":    counted,
		"today":      v.store.TodayViewsByID(req.ShopID),
	})
}

// ShopViews returns today's and total historical views for one shop, matched by the
// trailing id so rename drift never hides counts.
func (v *ViewsController) ShopViews(ctx *gin.Context) {
	shopID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid shop id")
		return
	}
	if !ownsShop(ctx, v.db, uint(shopID)) {
		utils.Error(ctx, http.StatusForbidden, 40380, "not your shop")
		return
	}

	utils.Success(ctx, gin.H{
		"shop_id": shopID,
		"today":   v.store.TodayViewsByID(uint(shopID)),
		"total":   v.store.TotalViewsByID(uint(shopID)),
	})
}

// Summary aggregates today's and total views across every shop the caller controls
// by summing the per-shop reads.
func (v *ViewsController) Summary(ctx *gin.Context) {
	query := v.db.Model(&models.Shop{}).Select("id, name")
	if middleware.Role(ctx) != models.RoleSuperAdmin {
		userID, ok := middleware.UserID(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40180, "unauthorized")
			return
		}
		query = query.Where("user_id = ?", userID)
	}

	var shops []models.Shop
	if err := query.Find(&shops).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to list shops")
		return
	}

	var today, total int64
	for _, shop := range shops {
		today += v.store.TodayViewsByID(shop.ID)
		total += v.store.TotalViewsByID(shop.ID)
	}

	utils.Success(ctx, gin.H{
		"shop_count": len(shops),
		"today":      today,
		"total":      total,
	})
}

// Report runs the range aggregation between from and to (YYYY-MM-DD, inclusive),
// scoped to the shops the caller controls. Super admins report over everything.
func (v *ViewsController) Report(ctx *gin.Context) {
	from, err := time.ParseInLocation("2006-01-02", ctx.Query("from"), time.Local)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid from date")
		return
	}
	to, err := time.ParseInLocation("2006-01-02", ctx.Query("to"), time.Local)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40083, "invalid to date")
		return
	}
	if to.Before(from) {
		utils.Error(ctx, http.StatusBadRequest, 40084, "to date before from date")
		return
	}

	var prefixes []string
	if middleware.Role(ctx) != models.RoleSuperAdmin {
		userID, ok := middleware.UserID(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40180, "unauthorized")
			return
		}
		var shops []models.Shop
		if err := v.db.Select("id, name").Where("user_id = ?", userID).
			Find(&shops).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to list shops")
			return
		}
		origin := config.Get().PublicBaseURL
		for _, shop := range shops {
			prefixes = append(prefixes, views.CanonicalShopURL(origin, shop.Name, shop.ID))
		}
		if len(prefixes) == 0 {
			// No shops means an empty, not unrestricted, scope.
			utils.Success(ctx, views.RangeReport{Entities: []views.EntityViews{}})
			return
		}
	}

	utils.Success(ctx, v.store.AggregateRange(from, to, prefixes))
}

// TransferNow drains live counters into the daily ledger immediately; super admin
// only. Same ordering guarantee as the scheduled roll-up.
func (v *ViewsController) TransferNow(ctx *gin.Context) {
	if err := v.scheduler.TransferNow(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "transfer failed")
		return
	}
	utils.Success(ctx, nil)
}
