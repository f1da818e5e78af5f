package middleware

import (
	"context"
	"strings"

	"fintrack/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Locals keys set by AuthMiddleware on success.
const (
	LocalUserID = "userID"
	LocalToken  = "token"
)

// TokenChecker reports whether a token has been revoked.
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware is the auth gate: it rejects requests with a missing,
// blacklisted, or invalid/expired bearer token and otherwise stores the
// caller's identity in Locals. The token is read from the "token" cookie or
// the Authorization header.
func AuthMiddleware(jwtManager *auth.JWTManager, tokens TokenChecker, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return unauthorized(c)
		}

		blacklisted, err := tokens.IsBlacklisted(c.Context(), token)
		if err != nil {
			logger.Error("Blacklist lookup failed", zap.Error(err))
			return unauthorized(c)
		}
		if blacklisted {
			return unauthorized(c)
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return unauthorized(c)
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalToken, token)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies("token"); cookie != "" {
		return cookie
	}
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthorized",
	})
}
