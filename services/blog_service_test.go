package services

import (
	"strings"
	"testing"
)

func TestUniqueSlugFromTitle(t *testing.T) {
	t.Parallel()

	got := uniqueSlug("Road to the Summer Showdown!", func(string) bool { return false })
	if got != "road-to-the-summer-showdown" {
		t.Fatalf("unexpected slug: got=%q want=%q", got, "road-to-the-summer-showdown")
	}
}

func TestUniqueSlugSuffixesOnCollision(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{"road-to-the-summer-showdown": true}
	got := uniqueSlug("Road to the Summer Showdown!", func(s string) bool { return taken[s] })

	if !strings.HasPrefix(got, "road-to-the-summer-showdown-") {
		t.Fatalf("unexpected slug prefix: got=%q", got)
	}
	if len(got) <= len("road-to-the-summer-showdown-") {
		t.Fatalf("collision slug missing suffix: got=%q", got)
	}
}
