package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hms/billing/internal/domain/shared"
	"github.com/hms/billing/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the request header carrying the client-chosen key
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects replays of mutating requests that carry an
// Idempotency-Key header. The first request with a given key is let through
// and the key is recorded for cfg.TTL; a repeat within the window gets 409.
// Requests without the header pass through untouched. Store failures fail
// open: dropping replay protection is preferable to refusing writes.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Scope the key per route so the same key may be reused across
		// different operations
		scoped := c.Request.Method + ":" + c.FullPath() + ":" + key

		first, err := store.MarkProcessed(c.Request.Context(), scoped, cfg.TTL)
		if err != nil {
			log.Warn("Idempotency store unavailable, skipping replay check",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !first {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeIdempotencyConflict,
				"Request with this idempotency key was already processed",
				c.GetString(RequestIDKey),
			))
			return
		}

		c.Next()
	}
}
