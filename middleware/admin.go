package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin allows only admin sessions through. Must run after
// UserContext. 403 is the server-side PermissionDenied of the mutation
// contract; hiding the buttons client-side is not a security boundary.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "permission_denied",
			})
		}
		return c.Next()
	}
}
