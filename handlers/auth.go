package handlers

import (
	"gwc-community-system/middleware"
	"gwc-community-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, secret string, sessions *services.SessionStore) {
	// 🔓 Public auth endpoints
	app.Post("/auth/register", authService.Register)
	app.Post("/auth/login", authService.Login)
	app.Post("/auth/password-reset/request", authService.RequestPasswordReset)
	app.Post("/auth/password-reset/confirm", authService.ConfirmPasswordReset)

	// 🔐 Session-holder endpoints
	secured := app.Group("/auth", middleware.UserContext(secret, sessions))
	secured.Post("/logout", authService.Logout)
	secured.Get("/me", authService.Me)
	secured.Post("/reauthenticate", authService.Reauthenticate)
	secured.Post("/change-password", authService.ChangePassword)
	secured.Delete("/account", authService.DeleteAccount)
}
