// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/variables-service/internal/domain/models"
	"github.com/unifiedui/variables-service/internal/pkg/requestctx"
)

// Request headers carrying correlation and identity.
const (
	HeaderRequestID = "X-Request-Id"
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
)

const loggerKey = "logger"

// LoggingMiddleware handles request logging.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware.
func NewLoggingMiddleware() *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: log.Logger,
	}
}

// NewLoggingMiddlewareWithLogger creates a new LoggingMiddleware with a custom logger.
func NewLoggingMiddlewareWithLogger(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// Logger returns a gin middleware that logs requests.
func (m *LoggingMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := m.logger.Info()
		if status >= 400 && status < 500 {
			event = m.logger.Warn()
		} else if status >= 500 {
			event = m.logger.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", requestctx.RequestID(c.Request.Context())).
			Int("body_size", c.Writer.Size()).
			Msg("request completed")
	}
}

// RequestContext puts the request id and the acting user into the request's
// context.Context, and attaches a request-scoped logger. A missing request id
// header is replaced with a fresh UUID and echoed back.
func (m *LoggingMiddleware) RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := requestctx.WithRequestID(c.Request.Context(), requestID)
		user := models.User{
			ID:       strings.TrimSpace(c.GetHeader(HeaderUserID)),
			Username: strings.TrimSpace(c.GetHeader(HeaderUserName)),
		}
		if user != (models.User{}) {
			ctx = requestctx.WithUser(ctx, user)
		}
		c.Request = c.Request.WithContext(ctx)

		requestLogger := m.logger.With().
			Str("request_id", requestID).
			Str("user_id", user.ID).
			Logger()
		c.Set(loggerKey, requestLogger)

		c.Next()
	}
}

// GetRequestLogger retrieves the request-scoped logger from context, falling
// back to the global logger.
func GetRequestLogger(c *gin.Context) *zerolog.Logger {
	if value, exists := c.Get(loggerKey); exists {
		if logger, ok := value.(zerolog.Logger); ok {
			return &logger
		}
	}
	return &log.Logger
}
