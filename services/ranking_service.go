package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"gwc-community-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RankingService struct {
	DB  *gorm.DB
	Hub *LiveHub
}

func NewRankingService(db *gorm.DB, hub *LiveHub) *RankingService {
	return &RankingService{DB: db, Hub: hub}
}

// SortRankingEntries returns the display order: points descending, ties
// broken by wins descending, equal lines keeping their stored order. The
// input slice is never mutated; stored order is insertion order and stays
// that way across any number of reads.
func SortRankingEntries(entries []models.RankingEntry) []models.RankingEntry {
	display := make([]models.RankingEntry, len(entries))
	copy(display, entries)
	sort.SliceStable(display, func(i, j int) bool {
		if display[i].Points != display[j].Points {
			return display[i].Points > display[j].Points
		}
		return display[i].Wins > display[j].Wins
	})
	return display
}

// rankingView is a ranking plus its derived display order, recomputed on
// every read, never cached.
type rankingView struct {
	models.TournamentRanking
	Display []models.RankingEntry `json:"display"`
}

func presentRankings(rankings []models.TournamentRanking) []rankingView {
	views := make([]rankingView, len(rankings))
	for i, r := range rankings {
		views[i] = rankingView{TournamentRanking: r, Display: SortRankingEntries(r.Entries)}
	}
	return views
}

type rankingRequest struct {
	Title        string                `json:"title"`
	TournamentID string                `json:"tournament_id"`
	Entries      []models.RankingEntry `json:"entries"`
}

func (s *RankingService) CreateRanking(c *fiber.Ctx) error {
	var req rankingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}
	for _, e := range req.Entries {
		if strings.TrimSpace(e.TeamName) == "" {
			return c.Status(400).JSON(fiber.Map{"error": "every entry needs a team name"})
		}
		if e.Points < 0 || e.Wins < 0 || e.Losses < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "points, wins and losses must be non-negative"})
		}
	}

	ranking := models.TournamentRanking{
		ID:           uuid.NewString(),
		Title:        req.Title,
		TournamentID: req.TournamentID,
		Entries:      req.Entries,
		LastUpdated:  time.Now(),
		CreatedBy:    userID(c),
	}
	if err := s.DB.Create(&ranking).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create ranking"})
	}

	s.Hub.Notify(TopicRankings)
	return c.Status(201).JSON(rankingView{TournamentRanking: ranking, Display: SortRankingEntries(ranking.Entries)})
}

func (s *RankingService) GetAllRankings(c *fiber.Ctx) error {
	var rankings []models.TournamentRanking
	if err := s.DB.Order("created_at DESC").Find(&rankings).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list rankings"})
	}
	return c.JSON(presentRankings(rankings))
}

// UpdateRankingEntry applies a delta to one numeric field of one entry,
// clamped at zero, and bumps last_updated. Same row-lock discipline as
// scoreboard scores.
func (s *RankingService) UpdateRankingEntry(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil || index < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid entry index"})
	}

	var req struct {
		Field string `json:"field"`
		Delta int64  `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Field != "points" && req.Field != "wins" && req.Field != "losses" {
		return c.Status(400).JSON(fiber.Map{"error": "field must be points, wins or losses"})
	}

	var ranking models.TournamentRanking
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ranking, "id = ?", c.Params("id")).Error; err != nil {
			return err
		}
		if index >= len(ranking.Entries) {
			return errEntryIndex
		}
		entry := &ranking.Entries[index]
		switch req.Field {
		case "points":
			entry.Points = clampDelta(entry.Points, req.Delta)
		case "wins":
			entry.Wins = clampDelta(entry.Wins, req.Delta)
		case "losses":
			entry.Losses = clampDelta(entry.Losses, req.Delta)
		}
		ranking.LastUpdated = time.Now()
		return tx.Save(&ranking).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "ranking not found"})
		}
		if errors.Is(err, errEntryIndex) {
			return c.Status(400).JSON(fiber.Map{"error": "entry index out of range"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to update ranking"})
	}

	s.Hub.Notify(TopicRankings)
	return c.JSON(rankingView{TournamentRanking: ranking, Display: SortRankingEntries(ranking.Entries)})
}

var errEntryIndex = errors.New("entry index out of range")

func (s *RankingService) DeleteRanking(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return err
	}

	result := s.DB.Delete(&models.TournamentRanking{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete ranking"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "ranking not found"})
	}

	s.Hub.Notify(TopicRankings)
	return c.JSON(fiber.Map{"deleted": true})
}
