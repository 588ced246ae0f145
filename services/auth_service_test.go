package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TestIsDuplicate(t *testing.T) {
	t.Parallel()

	if !isDuplicate(gorm.ErrDuplicatedKey) {
		t.Fatal("duplicated key error not recognized")
	}
	if !isDuplicate(fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey)) {
		t.Fatal("wrapped duplicated key error not recognized")
	}
	if isDuplicate(errors.New("connection refused")) {
		t.Fatal("unrelated error treated as duplicate")
	}
	if isDuplicate(nil) {
		t.Fatal("nil error treated as duplicate")
	}
}

func TestRegisterRejectsBadPayloadBeforeAnyWrite(t *testing.T) {
	t.Parallel()

	// Nil DB: these requests must all fail validation before persistence.
	svc := NewAuthService(nil, newTestStore(RoleSourceClaim, nil), nil, "secret", "")

	app := fiber.New()
	app.Post("/auth/register", svc.Register)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "longenough", "display_name": "Ava"}},
		{"malformed email", map[string]string{"email": "nope", "password": "longenough", "display_name": "Ava"}},
		{"short password", map[string]string{"email": "a@b.co", "password": "short", "display_name": "Ava"}},
		{"missing display name", map[string]string{"email": "a@b.co", "password": "longenough"}},
	}
	for _, tc := range cases {
		body, err := json.Marshal(tc.body)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s: got=%d want=%d", tc.name, resp.StatusCode, fiber.StatusBadRequest)
		}
	}
}
