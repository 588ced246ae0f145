package handlers

import (
	"gwc-community-system/middleware"
	"gwc-community-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBlogRoutes(app *fiber.App, blogService *services.BlogService, secret string, sessions *services.SessionStore) {
	// 🔓 Public reads. The optional session lets admins see unpublished posts
	// on the same endpoints.
	public := app.Group("/blog", middleware.OptionalUserContext(secret, sessions))
	public.Get("/posts", blogService.GetAllPosts)
	public.Get("/posts/:id", blogService.GetPostByID)
	public.Get("/posts/:id/comments", blogService.GetComments)

	// 🔐 Signed-in community actions
	secured := app.Group("/blog", middleware.UserContext(secret, sessions))
	secured.Post("/posts/:id/comments", blogService.CreateComment)
	secured.Delete("/comments/:comment_id", blogService.DeleteComment)

	// 🔐 Admin-only authoring
	admin := app.Group("/blog", middleware.UserContext(secret, sessions), middleware.RequireAdmin())
	admin.Post("/posts", blogService.CreatePost)
	admin.Put("/posts/:id", blogService.UpdatePost)
	admin.Delete("/posts/:id", blogService.DeletePost)
}
