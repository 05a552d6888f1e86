package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"beatbloom/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware enforces the rate limit bucket matching the request route
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusInternalServerError,
				"Rate limit check failed", nil, nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType maps a route to its limit bucket. OTP verification gets the
// tightest bucket so a stolen booking id cannot be brute-forced against the
// 6-digit code space.
func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.Contains(path, "/otp"):
		return RateLimitTypeOTP
	case strings.Contains(path, "/admin"):
		return RateLimitTypeAdmin
	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/payments"):
		return RateLimitTypeBooking
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.Contains(path, "/packages"),
		strings.Contains(path, "/vendors"):
		return RateLimitTypePublic
	default:
		return RateLimitTypeDefault
	}
}
