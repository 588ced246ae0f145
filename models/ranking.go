package models

import (
	"time"
)

// RankingEntry is one team's standing line. Stored order is insertion order;
// display position is derived at read time (points desc, wins desc).
type RankingEntry struct {
	TeamName string `json:"team_name"`
	Points   int64  `json:"points"`
	Wins     int64  `json:"wins"`
	Losses   int64  `json:"losses"`
}

// TournamentRanking is a standings table for one tournament.
type TournamentRanking struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"not null"`
	TournamentID string         `json:"tournament_id" gorm:"index"`
	Entries      []RankingEntry `json:"entries" gorm:"serializer:json"`
	LastUpdated  time.Time      `json:"last_updated"`
	CreatedBy    string         `json:"created_by" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
}
