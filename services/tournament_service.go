package services

import (
	"errors"
	"strings"

	"gwc-community-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TournamentService struct {
	DB  *gorm.DB
	Hub *LiveHub
}

func NewTournamentService(db *gorm.DB, hub *LiveHub) *TournamentService {
	return &TournamentService{DB: db, Hub: hub}
}

// userID / isAdmin read the locals set by the auth middleware. Kept local to
// the package to avoid an import cycle with middleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func isAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals("is_admin").(bool)
	return admin
}

// requireConfirm enforces the explicit confirmation step before destructive
// calls: the client must resend with ?confirm=true after prompting the user.
func requireConfirm(c *fiber.Ctx) error {
	if strings.ToLower(c.Query("confirm")) != "true" {
		return c.Status(400).JSON(fiber.Map{
			"error": "destructive action requires confirm=true",
		})
	}
	return nil
}

type tournamentRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Prize       string `json:"prize"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var req tournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}

	tournament := models.Tournament{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Date:        req.Date,
		Prize:       req.Prize,
		Image:       req.Image,
		Description: req.Description,
		Status:      models.TournamentStatusUpcoming,
		CreatedBy:   userID(c),
	}

	if err := s.DB.Create(&tournament).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament"})
	}

	s.Hub.Notify(TopicTournaments)
	return c.Status(201).JSON(tournament)
}

// GetAllTournaments lists tournaments newest first, optionally filtered by
// ?status=.
func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && !models.ValidTournamentStatus(status) {
		return c.Status(400).JSON(fiber.Map{"error": "invalid status filter"})
	}

	var tournaments []models.Tournament
	q := s.DB.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&tournaments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list tournaments"})
	}
	return c.JSON(tournaments)
}

func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load tournament"})
	}
	return c.JSON(tournament)
}

func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load tournament"})
	}

	var req tournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}

	tournament.Title = req.Title
	tournament.Date = req.Date
	tournament.Prize = req.Prize
	tournament.Image = req.Image
	tournament.Description = req.Description

	if err := s.DB.Save(&tournament).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update tournament"})
	}

	s.Hub.Notify(TopicTournaments)
	return c.JSON(tournament)
}

// UpdateTournamentStatus moves a tournament to any member of the status enum.
// There is deliberately no transition table: upcoming, ongoing and completed
// are all reachable from each other.
func (s *TournamentService) UpdateTournamentStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !models.ValidTournamentStatus(req.Status) {
		return c.Status(400).JSON(fiber.Map{"error": "status must be upcoming, ongoing or completed"})
	}

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load tournament"})
	}

	tournament.Status = req.Status
	if err := s.DB.Save(&tournament).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update status"})
	}

	s.Hub.Notify(TopicTournaments)
	return c.JSON(tournament)
}

func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return err
	}

	result := s.DB.Delete(&models.Tournament{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete tournament"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}

	s.Hub.Notify(TopicTournaments)
	return c.JSON(fiber.Map{"deleted": true})
}
