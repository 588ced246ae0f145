package models

import (
	"time"
)

const (
	RegistrationStatusPending  = "pending"
	RegistrationStatusApproved = "approved"
	RegistrationStatusRejected = "rejected"
)

// TeamMember is one roster line on a registration.
type TeamMember struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	GameTag string `json:"game_tag" validate:"required"`
}

// TournamentRegistration is created once by the public registration form and
// only its status is mutated afterwards, through the admin review path.
type TournamentRegistration struct {
	ID              string       `json:"id" gorm:"primaryKey"`
	TournamentID    string       `json:"tournament_id" gorm:"not null;index"`
	TournamentTitle string       `json:"tournament_title"`
	TeamName        string       `json:"team_name" gorm:"not null"`
	CaptainName     string       `json:"captain_name" gorm:"not null"`
	CaptainEmail    string       `json:"captain_email" gorm:"not null"`
	CaptainPhone    string       `json:"captain_phone" gorm:"not null"`
	TeamMembers     []TeamMember `json:"team_members" gorm:"serializer:json"`
	AdditionalNotes string       `json:"additional_notes" gorm:"type:text"`
	Status          string       `json:"status" gorm:"default:'pending';index"`
	RegisteredAt    time.Time    `json:"registered_at" gorm:"autoCreateTime"`
}
