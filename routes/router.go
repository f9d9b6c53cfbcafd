package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmenu/menulist/config"
	"github.com/openmenu/menulist/controllers"
	"github.com/openmenu/menulist/middleware"
	"github.com/openmenu/menulist/utils"
	"github.com/openmenu/menulist/views"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store *views.Store, tracker *views.DwellTracker, scheduler *views.TransferScheduler) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access and panic logs go to a dedicated rolling file, away from the app log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	shopController := controllers.NewShopController(db, store)
	industryController := controllers.NewIndustryController(db)
	categoryController := controllers.NewCategoryController(db)
	productController := controllers.NewProductController(db)
	socialController := controllers.NewSocialController(db)
	menuController := controllers.NewMenuController(db)
	viewsController := controllers.NewViewsController(db, store, tracker, scheduler)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/password", middleware.AuthRequired(), authController.UpdatePassword)

	// Public menu surface
	api.GET("/menu/:name/:shopId", menuController.GetMenu)
	api.POST("/views/heartbeat", middleware.RateLimitMiddleware(), viewsController.Heartbeat)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/shops", shopController.ListShops)
	protected.POST("/shops", shopController.CreateShop)
	protected.GET("/shops/:id", shopController.GetShop)
	protected.PUT("/shops/:id", shopController.UpdateShop)
	protected.DELETE("/shops/:id", shopController.DeleteShop)
	protected.GET("/shops/:id/views", viewsController.ShopViews)
	protected.GET("/shops/:id/qrcode", menuController.GetMenuQRCode)

	protected.GET("/categories", categoryController.ListCategories)
	protected.POST("/categories", categoryController.CreateCategory)
	protected.PUT("/categories/:id", categoryController.UpdateCategory)
	protected.DELETE("/categories/:id", categoryController.DeleteCategory)

	protected.GET("/products", productController.ListProducts)
	protected.POST("/products", productController.CreateProduct)
	protected.PUT("/products/:id", productController.UpdateProduct)
	protected.DELETE("/products/:id", productController.DeleteProduct)

	protected.GET("/contacts", socialController.ListContacts)
	protected.POST("/contacts", socialController.CreateContact)
	protected.PUT("/contacts/:id", socialController.UpdateContact)
	protected.DELETE("/contacts/:id", socialController.DeleteContact)

	protected.GET("/industries", industryController.ListIndustries)

	protected.GET("/stats/dashboard", statsController.GetDashboard)
	protected.GET("/views/summary", viewsController.Summary)
	protected.GET("/views/report", viewsController.Report)

	admin := api.Group("")
	admin.Use(middleware.AuthRequired(), middleware.SuperAdminRequired())
	admin.GET("/users", authController.ListUsers)
	admin.PATCH("/users/:id/status", authController.UpdateUserStatus)
	admin.POST("/industries", industryController.CreateIndustry)
	admin.PUT("/industries/:id", industryController.UpdateIndustry)
	admin.DELETE("/industries/:id", industryController.DeleteIndustry)
	admin.POST("/views/transfer", viewsController.TransferNow)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
