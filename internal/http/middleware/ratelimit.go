package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdfshare/internal/ratelimit"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// RateLimit admits at most the limiter's quota per client IP for the named endpoint.
// A failing counter store lets the request through and logs the failure.
func RateLimit(l *ratelimit.Limiter, name string, metrics *PrometheusMiddleware, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := l.Allow(c.UserContext(), ratelimit.Key(name, c.IP()))
		if err != nil {
			log.Warn("rate_limit_store_failed",
				zap.String("request_id", GetRequestID(c)),
				zap.String("endpoint", name),
				zap.Error(err),
			)
			return c.Next()
		}

		c.Set(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
		c.Set(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
		if !res.Allowed {
			metrics.RateLimited(name)
			log.Info("rate_limited",
				zap.String("request_id", GetRequestID(c)),
				zap.String("endpoint", name),
				zap.String("ip", c.IP()),
			)
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, try again later")
		}
		return c.Next()
	}
}
