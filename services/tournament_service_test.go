package services

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// The nil DB doubles as the no-side-effect assertion: a delete that slipped
// past the guard would dereference it and panic the test.
func newDeleteApp() *fiber.App {
	hub := NewLiveHub()
	app := fiber.New()
	app.Delete("/tournaments/:id", NewTournamentService(nil, hub).DeleteTournament)
	app.Delete("/scoreboards/:id", NewScoreboardService(nil, hub).DeleteScoreboard)
	app.Delete("/rankings/:id", NewRankingService(nil, hub).DeleteRanking)
	app.Delete("/blog/posts/:id", NewBlogService(nil, hub).DeletePost)
	app.Delete("/blog/comments/:comment_id", NewBlogService(nil, hub).DeleteComment)
	return app
}

func TestDeleteRequiresExplicitConfirm(t *testing.T) {
	t.Parallel()

	app := newDeleteApp()
	paths := []string{
		"/tournaments/t1",
		"/scoreboards/s1",
		"/rankings/r1",
		"/blog/posts/p1",
		"/blog/comments/c1",
	}

	for _, path := range paths {
		for _, query := range []string{"", "?confirm=false", "?confirm=1", "?confirm=yes"} {
			resp, err := app.Test(httptest.NewRequest("DELETE", path+query, nil))
			if err != nil {
				t.Fatalf("%s%s: unexpected error: %v", path, query, err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("%s%s: got=%d want=%d", path, query, resp.StatusCode, fiber.StatusBadRequest)
			}

			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("%s%s: unexpected error: %v", path, query, err)
			}
			var out struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(raw, &out); err != nil {
				t.Fatalf("%s%s: unexpected body: %s", path, query, raw)
			}
			if !strings.Contains(out.Error, "confirm=true") {
				t.Fatalf("%s%s: error does not name the confirm step: %q", path, query, out.Error)
			}
		}
	}
}

func TestConfirmIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Delete("/x/:id", func(c *fiber.Ctx) error {
		if err := requireConfirm(c); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"confirmed": true})
	})

	for _, query := range []string{"?confirm=true", "?confirm=TRUE", "?confirm=True"} {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/x/1"+query, nil))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", query, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: got=%d want=%d", query, resp.StatusCode, fiber.StatusOK)
		}
	}
}
