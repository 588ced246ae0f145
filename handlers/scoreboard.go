package handlers

import (
	"gwc-community-system/middleware"
	"gwc-community-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupScoreboardRoutes(app *fiber.App, scoreboardService *services.ScoreboardService, rankingService *services.RankingService, secret string, sessions *services.SessionStore) {
	authed := middleware.UserContext(secret, sessions)
	adminOnly := middleware.RequireAdmin()

	// 🔓 Public reads
	app.Get("/scoreboards", scoreboardService.GetAllScoreboards)
	app.Get("/rankings", rankingService.GetAllRankings)

	// 🔐 Admin-only score and ranking management, guarded per route
	app.Post("/scoreboards", authed, adminOnly, scoreboardService.CreateScoreboard)
	app.Patch("/scoreboards/:id/teams/:index/score", authed, adminOnly, scoreboardService.UpdateTeamScore)
	app.Delete("/scoreboards/:id", authed, adminOnly, scoreboardService.DeleteScoreboard)

	app.Post("/rankings", authed, adminOnly, rankingService.CreateRanking)
	app.Patch("/rankings/:id/entries/:index", authed, adminOnly, rankingService.UpdateRankingEntry)
	app.Delete("/rankings/:id", authed, adminOnly, rankingService.DeleteRanking)
}
