package models

import (
	"time"
)

// Team is one row on a scoreboard. Score never goes below zero.
type Team struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Scoreboard holds an ordered list of teams, stored as a JSON column.
type Scoreboard struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Teams     []Team    `json:"teams" gorm:"serializer:json"`
	CreatedBy string    `json:"created_by" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
