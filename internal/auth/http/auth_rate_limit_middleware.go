package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dapnet/dbgateway/internal/httputil"
)

// AuthRateLimitMiddleware enforces per-IP rate limiting in front of credential verification.
//
// Mounted before AuthenticationMiddleware to slow down credential stuffing and brute
// force attacks: every request costs one token whether its credentials are valid or not.
// Each IP address gets an independent limiter.
//
// Uses c.ClientIP() which automatically handles:
//   - X-Forwarded-For header (takes first IP)
//   - X-Real-IP header
//   - Direct connection remote address
//
// Returns:
//   - 429 Too Many Requests: Rate limit exceeded (includes Retry-After header)
//   - Continues: Request allowed within rate limit
func AuthRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(ctx, rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if retryAfter, allowed := store.allow(clientIP); !allowed {
			logger.Debug("auth rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Duration("retry_after", retryAfter))

			httputil.HandleRateLimitedGin(c, retryAfter,
				"Too many requests from this IP. Please retry after the specified delay.")
			c.Abort()
			return
		}

		c.Next()
	}
}
