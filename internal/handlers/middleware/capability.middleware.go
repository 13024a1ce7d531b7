package middleware

import (
	"fieldops/internal/lifecycle"

	"github.com/gofiber/fiber/v2"
)

// RequireCapability must run after RequireAuth.
func (m *Middleware) RequireCapability(capability lifecycle.Capability) fiber.Handler {
	log := m.log.Function("RequireCapability")

	return func(c *fiber.Ctx) error {
		principal := GetPrincipal(c)
		if principal.ID == 0 {
			log.Info("principal not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !principal.Can(capability) {
			log.Info("capability denied", "userID", principal.ID, "role", principal.Role, "capability", capability)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		return c.Next()
	}
}
