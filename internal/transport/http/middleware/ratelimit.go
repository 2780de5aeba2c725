package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visaguide/internal/ratelimit"
	"visaguide/internal/transport/http/response"
)

const tooManyRequestsMessage = "Too many requests, please try again later."

// RateLimit admits requests per client IP within scope. Limiter errors let
// the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("rate limiter unavailable, admitting request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.ResetAfter.Seconds()))))
			response.ChatError(c, http.StatusTooManyRequests, tooManyRequestsMessage)
			c.Abort()
			return
		}
		c.Next()
	}
}
