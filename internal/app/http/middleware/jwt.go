package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"exhibits-dashboard/config"
	"exhibits-dashboard/internal/api/respond"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token and places user_id, email, and
// role in the request context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtKey := []byte(cfg.JWT.Secret)

	return func(c *gin.Context) {
		if len(jwtKey) == 0 {
			respond.Error(c, http.StatusInternalServerError, "JWT secret not configured")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respond.Error(c, http.StatusUnauthorized, "Authorization header missing")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			respond.Error(c, http.StatusUnauthorized, "Bearer token malformed")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			respond.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}

		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		if userIDFloat, ok := claims["user_id"].(float64); ok {
			c.Set("user_id", uint(userIDFloat))
		}
		c.Next()
	}
}

// RequireRole aborts unless the authenticated user carries the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			respond.Error(c, http.StatusUnauthorized, "Role not found in token")
			c.Abort()
			return
		}
		if value != role {
			respond.Denied(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
