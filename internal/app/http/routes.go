package http

import (
	"net/http"

	"exhibits-dashboard/config"
	"exhibits-dashboard/internal/api/admin"
	"exhibits-dashboard/internal/api/auth"
	"exhibits-dashboard/internal/api/exhibits"
	"exhibits-dashboard/internal/api/records"
	trashapi "exhibits-dashboard/internal/api/trash"
	usersapi "exhibits-dashboard/internal/api/users"
	"exhibits-dashboard/internal/app/http/middleware"
	"exhibits-dashboard/internal/domain/users"
	"exhibits-dashboard/internal/gate"
	"exhibits-dashboard/internal/lifecycle"
	"exhibits-dashboard/internal/locks"
	"exhibits-dashboard/internal/mediastore"
	"exhibits-dashboard/internal/store"
	"exhibits-dashboard/internal/trash"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps carries everything route registration needs. Handlers receive their
// dependencies here instead of reaching for globals.
type Deps struct {
	Cfg         *config.Config
	DB          *gorm.DB
	Stores      *store.Set
	Coordinator *lifecycle.Coordinator
	Locks       *locks.Manager
	Trash       *trash.Manager
	Media       *mediastore.Store
	Gate        gate.Gate
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	authHandler := auth.NewHandler(deps.DB, deps.Cfg)
	exhibitHandler := exhibits.NewHandler(deps.Stores, deps.Coordinator, deps.Locks, deps.Gate)
	recordHandler := records.NewHandler(deps.Stores, deps.Locks, deps.Gate)
	trashHandler := trashapi.NewHandler(deps.Trash, deps.Media, deps.Gate)
	adminHandler := admin.NewHandler(deps.DB)
	userHandler := usersapi.NewHandler(deps.DB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")

	public := api.Group("")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Cfg))
	authed.Use(middleware.SanitizeAndCleanInputMiddleware())
	{
		authed.GET("/me", userHandler.Me)

		ex := authed.Group("/exhibits")
		ex.POST("", exhibitHandler.Create)
		ex.GET("", exhibitHandler.List)
		ex.GET("/:exhibit", exhibitHandler.Get)
		ex.PUT("/:exhibit", exhibitHandler.Update)
		ex.DELETE("/:exhibit", exhibitHandler.Delete)
		ex.POST("/:exhibit/publish", exhibitHandler.Publish)
		ex.POST("/:exhibit/suppress", exhibitHandler.Suppress)
		ex.POST("/:exhibit/preview", exhibitHandler.BuildPreview)
		ex.POST("/:exhibit/lock", exhibitHandler.Lock)
		ex.POST("/:exhibit/unlock", exhibitHandler.Unlock)

		recordHandler.RegisterRoutes(authed)

		authed.GET("/trash", trashHandler.List)
		authed.DELETE("/trash/:kind/:id", trashHandler.Purge)
		authed.POST("/trash/restore/:kind/:id", trashHandler.Restore)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(deps.Cfg))
	adminGroup.Use(middleware.RequireRole(users.RoleAdmin))
	{
		adminGroup.GET("/stats", adminHandler.Stats)
		adminGroup.DELETE("/trash", trashHandler.PurgeAll)
	}
}
