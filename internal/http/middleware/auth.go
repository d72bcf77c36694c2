package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdfshare/internal/token"
)

const (
	// UserIDLocalKey holds the authenticated user's id.
	UserIDLocalKey = "user_id"
	// UserEmailLocalKey holds the authenticated user's email.
	UserEmailLocalKey = "user_email"
)

// UserTokenParser verifies bearer tokens.
type UserTokenParser interface {
	ParseUser(raw string) (*token.UserClaims, error)
}

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the caller in locals.
// Failures end the request with 401 through the global error handler.
func Auth(parser UserTokenParser, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization header is required")
		}

		claims, err := parser.ParseUser(strings.TrimSpace(raw))
		if err != nil || claims.Subject == "" {
			log.Debug("bearer_rejected", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(UserIDLocalKey, claims.Subject)
		c.Locals(UserEmailLocalKey, claims.Email)
		return c.Next()
	}
}

// UserID returns the id stored by Auth, or "" on unauthenticated routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}
