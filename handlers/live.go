package handlers

import (
	"gwc-community-system/middleware"
	"gwc-community-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLiveRoutes wires the SSE snapshot streams plus the small session-bound
// surfaces (cart, media upload) that ride along with them.
func SetupLiveRoutes(app *fiber.App, liveService *services.LiveService, cartService *services.CartService, mediaService *services.MediaService, secret string, sessions *services.SessionStore) {
	// 📡 Live snapshot streams. EventSource cannot set headers, so the token
	// rides in ?token= and is optional for public topics.
	live := app.Group("/live", middleware.SSEAuth(secret, sessions))
	live.Get("/tournaments", liveService.StreamTournaments)
	live.Get("/scoreboards", liveService.StreamScoreboards)
	live.Get("/rankings", liveService.StreamRankings)
	live.Get("/blog/posts", liveService.StreamBlogPosts)
	live.Get("/blog/posts/:id/comments", liveService.StreamBlogComments)

	// 🔐 Per-session cart
	cart := app.Group("/cart", middleware.UserContext(secret, sessions))
	cart.Get("/", cartService.GetCart)
	cart.Post("/items", cartService.AddItem)
	cart.Patch("/items/:name", cartService.AdjustItem)
	cart.Delete("/items/:name", cartService.RemoveItem)

	// 🔐 Admin media uploads
	media := app.Group("/media", middleware.UserContext(secret, sessions), middleware.RequireAdmin())
	media.Post("/upload", mediaService.Upload)
}
