package services

import (
	"strings"
	"testing"

	"gwc-community-system/models"
)

func sampleEmailData() RegistrationEmailData {
	return RegistrationEmailData{
		TournamentTitle: "Summer Showdown",
		TournamentDate:  "July 12-14, 2026",
		TournamentPrize: "$5,000",
		TeamName:        "Night Owls",
		CaptainName:     "Rin",
		CaptainEmail:    "rin@example.com",
		CaptainPhone:    "+1 555 0100",
		TeamMembers: []models.TeamMember{
			{Name: "Kai", Email: "kai@example.com", GameTag: "kai#001"},
			{Name: "Mona", Email: "mona@example.com", GameTag: "mona#007"},
		},
		AdditionalNotes: "We need an extra table.",
	}
}

func TestRenderAdminEmail(t *testing.T) {
	t.Parallel()

	body, err := renderAdminEmail(sampleEmailData())
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}

	for _, want := range []string{
		"Summer Showdown",
		"July 12-14, 2026",
		"$5,000",
		"Night Owls",
		"rin@example.com",
		"+1 555 0100",
		"Member 1:",
		"Member 2:",
		"mona#007",
		"We need an extra table.",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("admin email missing %q", want)
		}
	}
}

func TestRenderAdminEmailOmitsEmptyNotes(t *testing.T) {
	t.Parallel()

	data := sampleEmailData()
	data.AdditionalNotes = ""
	body, err := renderAdminEmail(data)
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if strings.Contains(body, "Additional Notes") {
		t.Fatal("admin email shows the notes section with no notes")
	}
}

func TestRenderCaptainEmail(t *testing.T) {
	t.Parallel()

	body, err := renderCaptainEmail(sampleEmailData())
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}

	for _, want := range []string{
		"Dear Rin,",
		"Night Owls",
		"Summer Showdown",
		"pending review",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("captain email missing %q", want)
		}
	}
	// The captain confirmation never leaks the roster back out.
	if strings.Contains(body, "kai@example.com") {
		t.Fatal("captain email leaks member emails")
	}
}

func TestRenderResetEmail(t *testing.T) {
	t.Parallel()

	body, err := renderTemplate(resetTemplate, struct{ ResetLink string }{"https://gwc.example/reset-password?code=abc"})
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	if !strings.Contains(body, "https://gwc.example/reset-password?code=abc") {
		t.Fatal("reset email missing the reset link")
	}
}
