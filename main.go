package main

import (
	"time"

	"github.com/openmenu/menulist/config"
	"github.com/openmenu/menulist/models"
	"github.com/openmenu/menulist/routes"
	"github.com/openmenu/menulist/utils"
	"github.com/openmenu/menulist/views"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Industry{},
		&models.Shop{},
		&models.ProductType{},
		&models.Product{},
		&models.SocialContact{},
		&models.PageView{},
		&models.DailyPageView{},
	)

	store := views.NewStore(db)
	tracker := views.NewDwellTracker(
		store,
		views.NewRedisSessionFlags(utils.GetRedis()),
		time.Duration(cfg.ViewDwellThresholdMs)*time.Millisecond,
	)
	scheduler := views.NewTransferScheduler(
		store,
		cfg.ViewTransferHour,
		cfg.ViewTransferMinute,
		time.Duration(cfg.ViewTransferCheckSec)*time.Second,
	)
	scheduler.Start()

	r := routes.SetupRouter(db, store, tracker, scheduler)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, scheduler.Stop, tracker.Stop); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
