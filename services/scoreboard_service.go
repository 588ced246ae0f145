package services

import (
	"errors"
	"strings"

	"gwc-community-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreboardService struct {
	DB  *gorm.DB
	Hub *LiveHub
}

func NewScoreboardService(db *gorm.DB, hub *LiveHub) *ScoreboardService {
	return &ScoreboardService{DB: db, Hub: hub}
}

// clampDelta applies a delta to a counter that can never go negative.
func clampDelta(value, delta int64) int64 {
	result := value + delta
	if result < 0 {
		return 0
	}
	return result
}

type scoreboardRequest struct {
	Title string        `json:"title"`
	Teams []models.Team `json:"teams"`
}

func (s *ScoreboardService) CreateScoreboard(c *fiber.Ctx) error {
	var req scoreboardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}
	if len(req.Teams) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "at least one team is required"})
	}
	for _, team := range req.Teams {
		if strings.TrimSpace(team.Name) == "" {
			return c.Status(400).JSON(fiber.Map{"error": "every team needs a name"})
		}
		if team.Score < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "scores must be non-negative"})
		}
	}

	board := models.Scoreboard{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Teams:     req.Teams,
		CreatedBy: userID(c),
	}
	if err := s.DB.Create(&board).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create scoreboard"})
	}

	s.Hub.Notify(TopicScoreboards)
	return c.Status(201).JSON(board)
}

func (s *ScoreboardService) GetAllScoreboards(c *fiber.Ctx) error {
	var boards []models.Scoreboard
	if err := s.DB.Order("created_at DESC").Find(&boards).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list scoreboards"})
	}
	return c.JSON(boards)
}

// UpdateTeamScore applies a delta to one team's score, clamped at zero. The
// read-modify-write runs under a row lock so two concurrent deltas serialize
// instead of one silently overwriting the other.
func (s *ScoreboardService) UpdateTeamScore(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil || index < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid team index"})
	}

	var req struct {
		Delta int64 `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var board models.Scoreboard
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&board, "id = ?", c.Params("id")).Error; err != nil {
			return err
		}
		if index >= len(board.Teams) {
			return errTeamIndex
		}
		board.Teams[index].Score = clampDelta(board.Teams[index].Score, req.Delta)
		return tx.Save(&board).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "scoreboard not found"})
		}
		if errors.Is(err, errTeamIndex) {
			return c.Status(400).JSON(fiber.Map{"error": "team index out of range"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to update score"})
	}

	s.Hub.Notify(TopicScoreboards)
	return c.JSON(board)
}

var errTeamIndex = errors.New("team index out of range")

func (s *ScoreboardService) DeleteScoreboard(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return err
	}

	result := s.DB.Delete(&models.Scoreboard{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete scoreboard"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "scoreboard not found"})
	}

	s.Hub.Notify(TopicScoreboards)
	return c.JSON(fiber.Map{"deleted": true})
}
