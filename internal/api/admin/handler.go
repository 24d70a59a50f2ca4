package admin

import (
	"net/http"

	"exhibits-dashboard/internal/api/respond"
	domain "exhibits-dashboard/internal/domain/exhibits"
	"exhibits-dashboard/internal/domain/users"
	"exhibits-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type kindStats struct {
	Live      int64 `json:"live"`
	Published int64 `json:"published"`
	Trashed   int64 `json:"trashed"`
}

// Stats reports per-kind record counts plus the user total for the admin
// dashboard.
func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := make(map[string]kindStats)
	for _, kind := range []string{
		domain.KindExhibit, domain.KindHeading, domain.KindItem,
		domain.KindGrid, domain.KindGridItem,
	} {
		table, _ := domain.TableFor(kind)
		var s kindStats

		err := h.db.WithContext(ctx).Table(table).
			Where("is_deleted = 0").Count(&s.Live).Error
		if err == nil {
			err = h.db.WithContext(ctx).Table(table).
				Where("is_deleted = 0 AND is_published = 1").Count(&s.Published).Error
		}
		if err == nil {
			err = h.db.WithContext(ctx).Table(table).
				Where("is_deleted = 1").Count(&s.Trashed).Error
		}
		if err != nil {
			logger.FromContext(c).Error("stats query failed",
				zap.String("kind", kind), zap.Error(err))
			respond.Error(c, http.StatusInternalServerError, "Internal error")
			return
		}
		stats[kind] = s
	}

	var userCount int64
	if err := h.db.WithContext(ctx).Model(&users.User{}).Count(&userCount).Error; err != nil {
		logger.FromContext(c).Error("user count failed", zap.Error(err))
		respond.Error(c, http.StatusInternalServerError, "Internal error")
		return
	}

	respond.JSON(c, http.StatusOK, "ok", gin.H{
		"records": stats,
		"users":   userCount,
	})
}
