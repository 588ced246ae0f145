package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gwc-community-system/models"
	"gwc-community-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type AuthService struct {
	DB       *gorm.DB
	Sessions *SessionStore
	Mailer   *Mailer // nil when email is not configured; resets still work via logs
	Secret   string
	TokenTTL time.Duration
	BaseURL  string // public app URL used in password reset links
}

func NewAuthService(db *gorm.DB, sessions *SessionStore, mailer *Mailer, secret, baseURL string) *AuthService {
	return &AuthService{
		DB:       db,
		Sessions: sessions,
		Mailer:   mailer,
		Secret:   secret,
		TokenTTL: 24 * time.Hour,
		BaseURL:  baseURL,
	}
}

// issueToken builds the session response: token plus the non-authoritative
// client cache mirror (display name, photo, admin flag).
func (s *AuthService) issueToken(c *fiber.Ctx, user *models.User, status int) error {
	admin := user.Role == models.RoleAdmin
	token, err := utils.GenerateJWT(user.ID, user.DisplayName, admin, s.Secret, s.TokenTTL)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to issue token"})
	}
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user":  user,
		"cache": fiber.Map{
			"display_name": user.DisplayName,
			"photo_url":    user.PhotoURL,
			"is_admin":     admin,
		},
	})
}

// isDuplicate reports a unique-constraint violation. Needs TranslateError on
// the gorm config so the driver error surfaces as ErrDuplicatedKey.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// uniqueUsername derives a username from the display name, falling back to
// the email local part, suffixing a short id on collision.
func (s *AuthService) uniqueUsername(displayName, email string) string {
	base := slug.Make(displayName)
	if base == "" {
		base = slug.Make(strings.SplitN(email, "@", 2)[0])
	}
	if base == "" {
		base = "player"
	}
	var count int64
	s.DB.Model(&models.User{}).Where("username = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return base + "-" + uuid.NewString()[:8]
}

func (s *AuthService) Register(c *fiber.Ctx) error {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		PhotoURL    string `json:"photo_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.Status(400).JSON(fiber.Map{"error": "a valid email is required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "password must be at least 8 characters"})
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "display_name is required"})
	}

	var existing models.User
	if err := s.DB.Where("email = ?", req.Email).First(&existing).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(409).JSON(fiber.Map{"error": "an account with this email already exists"})
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to hash password"})
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     s.uniqueUsername(req.DisplayName, req.Email),
		DisplayName:  req.DisplayName,
		PhotoURL:     req.PhotoURL,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		// The read check above races with concurrent registers; the unique
		// index is the arbiter, so its violation is still a 409.
		if isDuplicate(err) {
			return c.Status(409).JSON(fiber.Map{"error": "an account with this email already exists"})
		}
		log.Printf("❌ user create failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create account"})
	}

	return s.issueToken(c, &user, 201)
}

func (s *AuthService) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var user models.User
	if err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		// Same message for unknown email and wrong password.
		return c.Status(401).JSON(fiber.Map{"error": "invalid email or password"})
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(401).JSON(fiber.Map{"error": "invalid email or password"})
	}

	// A fresh login supersedes any earlier sign-out and re-resolves the role.
	s.Sessions.Invalidate(user.ID)
	return s.issueToken(c, &user, 200)
}

// Logout revokes the caller's tokens and clears the cached session snapshot,
// so no admin capability survives into the next request.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	s.Sessions.SignOut(userID(c))
	return c.JSON(fiber.Map{"signed_out": true})
}

// Me returns the resolved session snapshot for the current token.
func (s *AuthService) Me(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID(c)).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(fiber.Map{
		"user":     user,
		"is_admin": isAdmin(c),
	})
}

// RequestPasswordReset creates a single-use 24h reset code and emails the
// link. Always answers 200 so the endpoint cannot be used to probe which
// emails have accounts.
func (s *AuthService) RequestPasswordReset(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	ok := fiber.Map{"message": "if that email has an account, a reset link is on its way"}

	var user models.User
	if err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		return c.JSON(ok)
	}

	reset := models.PasswordReset{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Code:      uuid.NewString(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := s.DB.Create(&reset).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create reset code"})
	}

	link := fmt.Sprintf("%s/reset-password?code=%s", s.BaseURL, reset.Code)
	if s.Mailer != nil {
		if err := s.Mailer.SendPasswordResetEmail(user.Email, link); err != nil {
			log.Printf("❌ failed to send reset email to %s: %v", user.Email, err)
		}
	} else {
		log.Printf("⚠️  mailer not configured, reset link for %s: %s", user.Email, link)
	}
	return c.JSON(ok)
}

func (s *AuthService) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req struct {
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "password must be at least 8 characters"})
	}

	var reset models.PasswordReset
	if err := s.DB.Where("code = ?", req.Code).First(&reset).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid or expired reset code"})
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return c.Status(400).JSON(fiber.Map{"error": "invalid or expired reset code"})
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to hash password"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&reset).Update("used_at", &now).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to reset password"})
	}

	// Old sessions die with the old password.
	s.Sessions.SignOut(reset.UserID)
	return c.JSON(fiber.Map{"message": "password updated, please sign in again"})
}

// Reauthenticate proves password freshness before sensitive actions. The
// elevation it grants expires after a few minutes.
func (s *AuthService) Reauthenticate(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID(c)).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(401).JSON(fiber.Map{"error": "invalid password"})
	}

	s.Sessions.Elevate(user.ID)
	return c.JSON(fiber.Map{"reauthenticated": true})
}

func (s *AuthService) ChangePassword(c *fiber.Ctx) error {
	if !s.Sessions.Elevated(userID(c)) {
		return c.Status(403).JSON(fiber.Map{"error": "recent authentication required"})
	}

	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "password must be at least 8 characters"})
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to hash password"})
	}
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID(c)).
		Update("password_hash", hash).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to change password"})
	}

	s.Sessions.SignOut(userID(c))
	return c.JSON(fiber.Map{"message": "password updated, please sign in again"})
}

// DeleteAccount removes the user record after a confirmed, recently
// re-authenticated request. Their comments stay, attributed to the stored
// name, matching how the community pages render departed authors.
func (s *AuthService) DeleteAccount(c *fiber.Ctx) error {
	if err := requireConfirm(c); err != nil {
		return err
	}
	if !s.Sessions.Elevated(userID(c)) {
		return c.Status(403).JSON(fiber.Map{"error": "recent authentication required"})
	}

	uid := userID(c)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PasswordReset{}, "user_id = ?", uid).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", uid).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete account"})
	}

	s.Sessions.SignOut(uid)
	return c.JSON(fiber.Map{"deleted": true})
}
