package middleware

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/apperror"
	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const accountKey = "account"

// Authenticator resolves a bearer token to the account it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Gate guards routes that need a signed-in account or an administrator.
type Gate struct {
	auth Authenticator
}

// NewGate creates a Gate backed by auth.
func NewGate(auth Authenticator) *Gate {
	return &Gate{auth: auth}
}

// Authenticate requires an "Authorization: Bearer <token>" header naming an
// existing account and stores that account for downstream handlers.
func (g *Gate) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || scheme != "Bearer" || strings.TrimSpace(tokenString) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}

		account, err := g.auth.Authenticate(c.UserContext(), strings.TrimSpace(tokenString))
		if err != nil {
			switch {
			case errors.Is(err, apperror.ErrUnauthenticated):
				log.WithError(err).Debug("JWT validation failed")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Not authorized, token failed or expired",
				})
			case errors.Is(err, apperror.ErrAccountMissing):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"message": "User not found.",
				})
			default:
				log.WithError(err).Error("Account lookup failed")
				return c.Status(apperror.Status(err)).JSON(fiber.Map{
					"message": "Error loading account.",
					"error":   err.Error(),
				})
			}
		}

		c.Locals(accountKey, *account)
		return c.Next()
	}
}

// RequireAdmin must run after Authenticate. Non-admin accounts get 403.
func (g *Gate) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, ok := CurrentAccount(c)
		if !ok || !account.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden: Not an administrator",
			})
		}
		return c.Next()
	}
}

// CurrentAccount returns the account attached by Authenticate.
func CurrentAccount(c *fiber.Ctx) (models.User, bool) {
	account, ok := c.Locals(accountKey).(models.User)
	return account, ok
}
