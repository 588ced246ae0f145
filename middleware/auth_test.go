package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"gwc-community-system/services"
	"gwc-community-system/utils"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

func newAuthedApp(sessions *services.SessionStore) *fiber.App {
	app := fiber.New()
	app.Get("/secure", UserContext(testSecret, sessions), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c), "is_admin": IsAdmin(c)})
	})
	app.Get("/admin", UserContext(testSecret, sessions), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/optional", OptionalUserContext(testSecret, sessions), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	return app
}

func TestUserContextRejectsMissingHeader(t *testing.T) {
	t.Parallel()

	app := newAuthedApp(services.NewSessionStore(nil, services.RoleSourceClaim))

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestUserContextRejectsInvalidToken(t *testing.T) {
	t.Parallel()

	app := newAuthedApp(services.NewSessionStore(nil, services.RoleSourceClaim))

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestUserContextAcceptsValidToken(t *testing.T) {
	t.Parallel()

	app := newAuthedApp(services.NewSessionStore(nil, services.RoleSourceClaim))

	token, err := utils.GenerateJWT("u1", "Ava", false, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, fiber.StatusOK)
	}
}

func TestUserContextRejectsSignedOutSession(t *testing.T) {
	t.Parallel()

	sessions := services.NewSessionStore(nil, services.RoleSourceClaim)
	app := newAuthedApp(sessions)

	token, err := utils.GenerateJWT("u1", "Ava", true, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	sessions.SignOut("u1")

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestRequireAdminBlocksNonAdmin(t *testing.T) {
	t.Parallel()

	app := newAuthedApp(services.NewSessionStore(nil, services.RoleSourceClaim))

	token, err := utils.GenerateJWT("u1", "Ava", false, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, fiber.StatusForbidden)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	t.Parallel()

	app := newAuthedApp(services.NewSessionStore(nil, services.RoleSourceClaim))

	token, err := utils.GenerateJWT("u1", "Ava", true, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, fiber.StatusOK)
	}
}

func TestOptionalUserContextContinuesAnonymously(t *testing.T) {
	t.Parallel()

	app := newAuthedApp(services.NewSessionStore(nil, services.RoleSourceClaim))

	resp, err := app.Test(httptest.NewRequest("GET", "/optional", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, fiber.StatusOK)
	}
}
