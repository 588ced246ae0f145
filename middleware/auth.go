package middleware

import (
	"strings"

	"gwc-community-system/services"
	"gwc-community-system/utils"

	"github.com/gofiber/fiber/v2"
)

// UserContext validates the Bearer session token and attaches the resolved
// session snapshot to the request. The admin flag set here is the
// authoritative authorization input for every mutation; UI-side gating is a
// convenience on top of it, never a substitute.
func UserContext(secret string, sessions *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		if claims.IssuedAt != nil && sessions.Revoked(claims.UserID, claims.IssuedAt.Time) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session signed out"})
		}

		snap := sessions.Resolve(claims)
		c.Locals("user_id", snap.UserID)
		c.Locals("is_admin", snap.IsAdmin)
		c.Locals("display_name", snap.DisplayName)
		return c.Next()
	}
}

// OptionalUserContext attaches a session when a valid token is present and
// continues anonymously otherwise. Used on public reads where an admin
// session widens visibility (unpublished blog posts).
func OptionalUserContext(secret string, sessions *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}
		claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			return c.Next()
		}
		if claims.IssuedAt != nil && sessions.Revoked(claims.UserID, claims.IssuedAt.Time) {
			return c.Next()
		}
		snap := sessions.Resolve(claims)
		c.Locals("user_id", snap.UserID)
		c.Locals("is_admin", snap.IsAdmin)
		c.Locals("display_name", snap.DisplayName)
		return c.Next()
	}
}

// IsAdmin reads the admin flag set by UserContext.
func IsAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals("is_admin").(bool)
	return admin
}

// UserID reads the user id set by UserContext ("" when anonymous).
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
