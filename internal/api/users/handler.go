package users

import (
	"net/http"

	"exhibits-dashboard/internal/api/respond"
	"exhibits-dashboard/internal/domain/users"
	"exhibits-dashboard/internal/gate"
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

// Me returns the authenticated user's profile and the capabilities their
// role grants, so the frontend can hide actions the gate would deny anyway.
func (h *Handler) Me(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		respond.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user users.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		logger.FromContext(c).Warn("profile lookup failed",
			zap.String("email", email), zap.Error(err))
		respond.Error(c, http.StatusNotFound, "User not found")
		return
	}

	respond.JSON(c, http.StatusOK, "ok", gin.H{
		"user":         user,
		"capabilities": gate.CapabilitiesFor(user.Role),
	})
}
