package models

import (
	"time"
)

// BlogCategories is the closed category enum.
var BlogCategories = []string{"News", "Updates", "Tournaments", "Community", "Tips & Tricks", "Events"}

// ValidBlogCategory reports whether c is a member of the category enum.
func ValidBlogCategory(c string) bool {
	for _, v := range BlogCategories {
		if v == c {
			return true
		}
	}
	return false
}

// BlogPost is a community article. Unpublished posts are visible to admins
// only. PublishAt, when set on an unpublished post, is picked up by the
// publish scheduler.
type BlogPost struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	Title      string     `json:"title" gorm:"not null"`
	Slug       string     `json:"slug" gorm:"uniqueIndex;not null"`
	Content    string     `json:"content" gorm:"type:text"`
	Excerpt    string     `json:"excerpt" gorm:"type:text"`
	CoverImage string     `json:"cover_image"`
	Category   string     `json:"category" gorm:"index"`
	Tags       []string   `json:"tags" gorm:"serializer:json"`
	Author     string     `json:"author"`
	AuthorID   string     `json:"author_id" gorm:"index"`
	Published  bool       `json:"published" gorm:"default:false;index"`
	PublishAt  *time.Time `json:"publish_at,omitempty" gorm:"index"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// BlogComment belongs to one post. Deletable by its author or any admin.
type BlogComment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;index"`
	UserID    string    `json:"user_id" gorm:"index"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
