package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader   = "X-Request-ID"
	idempotencyHeader = "Idempotency-Key"
	requestIDKey      = "request_id"
)

// requestID keeps the caller's request id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func recoverer(logger *zap.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, rec any) {
		logger.Error("panic", zap.Any("panic", rec), zap.String("request_id", c.GetString(requestIDKey)))
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Message: "internal error"})
	}
}

// idempotent rejects a repeated Idempotency-Key within the store's retention. A key is
// released again when the request fails so the client may retry it.
func idempotent(store idempotencyStore, scope string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(idempotencyHeader))
		if store == nil || raw == "" {
			c.Next()
			return
		}
		key := store.Key(scope, raw)
		seen, err := store.Seen(c.Request.Context(), key)
		if err != nil {
			// Redis trouble should not block writes.
			logger.Warn("idempotency check", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if seen {
			c.AbortWithStatusJSON(http.StatusConflict, errorBody{Message: "duplicate request"})
			return
		}
		c.Next()
		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(c.Request.Context(), key); err != nil {
				logger.Warn("idempotency release", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
