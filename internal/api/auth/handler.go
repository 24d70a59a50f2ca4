package auth

import (
	"net/http"
	"regexp"
	"time"

	"exhibits-dashboard/config"
	"exhibits-dashboard/internal/api/respond"
	"exhibits-dashboard/internal/domain/users"
	"exhibits-dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Handler serves registration and login.
type Handler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{db: db, cfg: cfg}
}

// Register creates a dashboard account. New accounts start as viewers; an
// admin promotes them.
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if !isPasswordStrong(input.Password) {
		respond.Error(c, http.StatusBadRequest, "Password must be at least 8 characters long and contain both letters and numbers")
		return
	}
	if !emailPattern.MatchString(input.Email) {
		respond.Error(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := users.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     users.RoleViewer,
	}
	if err := h.db.Create(&user).Error; err != nil {
		logger.FromContext(c).Warn("user registration failed",
			zap.String("email", input.Email), zap.Error(err))
		respond.Error(c, http.StatusConflict, "Email may already exist")
		return
	}

	respond.JSON(c, http.StatusCreated, "registered", gin.H{"id": user.ID, "email": user.Email})
}

// Login verifies credentials and issues a signed token.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var user users.User
	if err := h.db.First(&user, "email = ?", input.Email).Error; err != nil {
		respond.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		respond.Error(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(h.cfg.JWT.Expiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWT.Secret))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to sign token")
		return
	}

	respond.JSON(c, http.StatusOK, "ok", gin.H{"token": signed, "role": user.Role})
}
