package middleware

import (
	"context"
	"strings"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuthContextKey string

const (
	PrincipalKey      AuthContextKey = "principal"
	UserKey           AuthContextKey = "user"
	PrincipalKeyFiber string         = "Principal"
	UserKeyFiber      string         = "User"
)

// RequireAuth resolves the bearer token to an active user and stores the
// principal for the handlers.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Fields(authHeader)
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		principal, user, err := m.identity.Resolve(c.UserContext(), tokenParts[1])
		if err != nil {
			if lifecycle.Kind(err) == lifecycle.ErrForbidden {
				log.Info("token rejected", "error", err.Error())
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token",
				})
			}
			_ = log.Err("failed to resolve principal", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		c.Locals(PrincipalKeyFiber, principal)
		c.Locals(UserKeyFiber, user)

		ctx := context.WithValue(c.UserContext(), PrincipalKey, principal)
		ctx = context.WithValue(ctx, UserKey, user)
		c.SetUserContext(ctx)

		log.Debug("user authenticated", "userID", principal.ID, "role", principal.Role)
		return c.Next()
	}
}

// GetPrincipal returns the zero principal when the request is anonymous.
func GetPrincipal(c *fiber.Ctx) lifecycle.Principal {
	principal, ok := c.Locals(PrincipalKeyFiber).(lifecycle.Principal)
	if !ok {
		return lifecycle.Principal{}
	}
	return principal
}

func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
