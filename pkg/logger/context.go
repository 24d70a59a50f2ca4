package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDHeader is the header carrying the request correlation id.
const RequestIDHeader = "X-Request-ID"

const contextKey = "logger"

// FromContext retrieves the request-scoped logger from the gin context.
func FromContext(c *gin.Context) *zap.Logger {
	if logger, ok := c.Get(contextKey); ok {
		if l, ok := logger.(*zap.Logger); ok {
			return l
		}
	}

	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
