package models

import (
	"time"
)

const (
	TournamentStatusUpcoming  = "upcoming"
	TournamentStatusOngoing   = "ongoing"
	TournamentStatusCompleted = "completed"
)

// ValidTournamentStatus reports whether s is a member of the status enum.
// Transitions themselves are unconstrained: any status may follow any other.
func ValidTournamentStatus(s string) bool {
	switch s {
	case TournamentStatusUpcoming, TournamentStatusOngoing, TournamentStatusCompleted:
		return true
	}
	return false
}

// Tournament is a listed community tournament. Date and Prize are free-text
// display fields, not parsed.
type Tournament struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Date        string    `json:"date"`
	Prize       string    `json:"prize"`
	Image       string    `json:"image"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"default:'upcoming';index"`
	CreatedBy   string    `json:"created_by" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
