package services

import (
	"errors"
	"log"

	"gwc-community-system/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration outcomes. Persisting and notifying are separate phases; a
// notify failure never rolls the registration back, and the caller can tell
// the two results apart instead of the failure being swallowed.
const (
	OutcomeNotified     = "persisted_notified"
	OutcomeNotifyFailed = "persisted_notify_failed"
)

type RegistrationService struct {
	DB       *gorm.DB
	Notifier RegistrationNotifier
	validate *validator.Validate
}

func NewRegistrationService(db *gorm.DB, notifier RegistrationNotifier) *RegistrationService {
	return &RegistrationService{
		DB:       db,
		Notifier: notifier,
		validate: validator.New(),
	}
}

// registrationRequest is the public form payload. All-or-nothing: any
// missing field blocks the whole submission before a single write.
type registrationRequest struct {
	TeamName        string              `json:"team_name" validate:"required"`
	CaptainName     string              `json:"captain_name" validate:"required"`
	CaptainEmail    string              `json:"captain_email" validate:"required,email"`
	CaptainPhone    string              `json:"captain_phone" validate:"required"`
	TeamMembers     []models.TeamMember `json:"team_members" validate:"required,min=1,dive"`
	AdditionalNotes string              `json:"additional_notes"`
}

// validationMessages flattens validator errors into user-facing strings.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"invalid registration payload"}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "min":
			msgs = append(msgs, "at least one team member is required")
		default:
			msgs = append(msgs, fe.Field()+" is required")
		}
	}
	return msgs
}

// RegisterTeam handles the public registration form for one tournament:
// validate, persist with status pending, then best-effort notify by email.
func (s *RegistrationService) RegisterTeam(c *fiber.Ctx) error {
	var req registrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":    "please fill in all required fields",
			"messages": validationMessages(err),
		})
	}

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load tournament"})
	}

	registration := models.TournamentRegistration{
		ID:              uuid.NewString(),
		TournamentID:    tournament.ID,
		TournamentTitle: tournament.Title,
		TeamName:        req.TeamName,
		CaptainName:     req.CaptainName,
		CaptainEmail:    req.CaptainEmail,
		CaptainPhone:    req.CaptainPhone,
		TeamMembers:     req.TeamMembers,
		AdditionalNotes: req.AdditionalNotes,
		Status:          models.RegistrationStatusPending,
	}
	if err := s.DB.Create(&registration).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to save registration"})
	}

	// The registration is committed from here on. Notification is a side
	// effect whose failure we report but never roll back.
	outcome := OutcomeNotified
	if err := s.Notifier.SendRegistrationEmails(RegistrationEmailData{
		TournamentTitle: tournament.Title,
		TournamentDate:  tournament.Date,
		TournamentPrize: tournament.Prize,
		TeamName:        req.TeamName,
		CaptainName:     req.CaptainName,
		CaptainEmail:    req.CaptainEmail,
		CaptainPhone:    req.CaptainPhone,
		TeamMembers:     req.TeamMembers,
		AdditionalNotes: req.AdditionalNotes,
	}); err != nil {
		log.Printf("❌ registration %s saved but notification failed: %v", registration.ID, err)
		outcome = OutcomeNotifyFailed
	}

	return c.Status(201).JSON(fiber.Map{
		"registration": registration,
		"outcome":      outcome,
	})
}

// SendRegistrationEmail is the standalone notifier endpoint: it renders and
// sends the two registration emails for an already-assembled payload without
// touching the database.
func (s *RegistrationService) SendRegistrationEmail(c *fiber.Ctx) error {
	var data RegistrationEmailData
	if err := c.BodyParser(&data); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}

	if err := s.Notifier.SendRegistrationEmails(data); err != nil {
		log.Printf("Error sending email: %v", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to send email"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Emails sent successfully"})
}

// ListRegistrations is the admin review view, optionally filtered by
// ?status= and ?tournament_id=.
func (s *RegistrationService) ListRegistrations(c *fiber.Ctx) error {
	q := s.DB.Order("registered_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if tid := c.Query("tournament_id"); tid != "" {
		q = q.Where("tournament_id = ?", tid)
	}

	var registrations []models.TournamentRegistration
	if err := q.Find(&registrations).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list registrations"})
	}
	return c.JSON(registrations)
}

// UpdateRegistrationStatus is the admin review action: pending registrations
// get approved or rejected.
func (s *RegistrationService) UpdateRegistrationStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Status != models.RegistrationStatusApproved && req.Status != models.RegistrationStatusRejected {
		return c.Status(400).JSON(fiber.Map{"error": "status must be approved or rejected"})
	}

	var registration models.TournamentRegistration
	if err := s.DB.First(&registration, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "registration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to load registration"})
	}

	registration.Status = req.Status
	if err := s.DB.Save(&registration).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update registration"})
	}
	return c.JSON(registration)
}
