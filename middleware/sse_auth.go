// middleware/sse_auth.go
package middleware

import (
	"strings"

	"gwc-community-system/services"
	"gwc-community-system/utils"

	"github.com/gofiber/fiber/v2"
)

// SSEAuth reads the session token from the `token` query parameter, because
// EventSource cannot set an Authorization header. The token is optional: the
// live streams are public reads, a valid session only widens visibility.
//
// Usage:
//
//	app.Get("/live/blog/posts", middleware.SSEAuth(secret, sessions), live.StreamBlogPosts)
func SSEAuth(secret string, sessions *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			return c.Next()
		}

		claims, err := utils.ValidateJWT(token, secret)
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
