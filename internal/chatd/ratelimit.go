package chatd

import (
	"github.com/gin-gonic/gin"

	infraMiddleware "github.com/kart-io/sentinel-x/pkg/infra/middleware"
	"github.com/kart-io/sentinel-x/pkg/errors"
	"github.com/kart-io/sentinel-x/pkg/response"
	httptransport "github.com/kart-io/sentinel-x/pkg/server/transport/http"
)

// PerUserRateLimit throttles authenticated requests with a Redis-backed
// sliding window keyed by the authenticated subject, so one user's bursts
// never starve another's quota. Must run after RequireAuth.
func PerUserRateLimit(limiter *infraMiddleware.RedisRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), claims.Subject)
		if err != nil {
			// Fail open: a rate limiter outage should not take down chat.
			c.Next()
			return
		}
		if !allowed {
			rc := httptransport.NewRequestContext(c.Request, c.Writer)
			response.Fail(rc, errors.ErrTooManyRequests.WithMessage("rate limit exceeded"))
			c.Abort()
			return
		}

		c.Next()
	}
}
