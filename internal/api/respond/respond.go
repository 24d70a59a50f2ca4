// Package respond writes the response envelope every endpoint shares:
// {status, message, data?}, with status echoed as the actual HTTP code.
package respond

import (
	"net/http"

	"exhibits-dashboard/internal/schema"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape existing clients depend on.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes the envelope with the given HTTP status.
func JSON(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Status: status, Message: message, Data: data})
}

// Error writes an envelope with no data.
func Error(c *gin.Context, status int, message string) {
	JSON(c, status, message, nil)
}

// Violations writes a 400 envelope carrying field-level validation failures.
func Violations(c *gin.Context, v schema.Violations) {
	JSON(c, http.StatusBadRequest, "validation failed", v)
}

// Denied writes the access-denied envelope.
func Denied(c *gin.Context) {
	Error(c, http.StatusForbidden, "access denied")
}
