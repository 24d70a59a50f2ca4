package main

import (
	"time"

	"exhibits-dashboard/config"
	"exhibits-dashboard/database"
	routes "exhibits-dashboard/internal/app/http"
	"exhibits-dashboard/internal/app/http/middleware"
	"exhibits-dashboard/internal/gate"
	"exhibits-dashboard/internal/lifecycle"
	"exhibits-dashboard/internal/locks"
	"exhibits-dashboard/internal/mediastore"
	"exhibits-dashboard/internal/search"
	"exhibits-dashboard/internal/store"
	"exhibits-dashboard/internal/trash"
	"exhibits-dashboard/pkg/logger"
	"exhibits-dashboard/prometheus"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	prometheus.InitMetrics(cfg)

	media, err := mediastore.New(cfg.Media.Root)
	if err != nil {
		log.Fatal("media store init failed", zap.Error(err))
	}

	stores := store.NewSet(db, cfg.Database.QueryTimeout)
	indexer := search.NewFromConfig(cfg.Search)
	coordinator := lifecycle.New(stores, media, indexer, cfg.Search.Strict, log)
	lockManager := locks.New(db, cfg.Database.QueryTimeout)
	trashManager := trash.New(db, cfg.Database.QueryTimeout)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.Middleware(log))
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Cfg:         cfg,
		DB:          db,
		Stores:      stores,
		Coordinator: coordinator,
		Locks:       lockManager,
		Trash:       trashManager,
		Media:       media,
		Gate:        gate.RoleGate{},
	})

	log.Info("listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
