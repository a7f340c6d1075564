// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post is a mirrored wall post. PostID is the remote-assigned id and the
// sole natural key; rows are upserted on it, never duplicated.
type Post struct {
	PostID           int64       `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Date             time.Time   `gorm:"not null;index" json:"date"`
	Text             *string     `gorm:"type:text" json:"text"`
	RepostSourceName *string     `json:"repost_source_name"`
	Images           []PostImage `gorm:"foreignKey:PostID;references:PostID;constraint:OnDelete:CASCADE" json:"images"`
	Audio            []PostAudio `gorm:"foreignKey:PostID;references:PostID;constraint:OnDelete:CASCADE" json:"audio"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// PostImage is one side-loaded image belonging to a post. The URL is the
// locally servable one, not the remote origin. The image set for a post is
// fully replaced on every sync pass.
type PostImage struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PostID int64  `gorm:"not null;index" json:"post_id"`
	URL    string `gorm:"not null" json:"url"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
}

// PostAudio is one audio attachment belonging to a post. Unlike images,
// audio rows are appended per sync pass and never cleared first.
type PostAudio struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	PostID int64   `gorm:"not null;index" json:"post_id"`
	URL    string  `gorm:"not null" json:"url"`
	Title  *string `json:"title,omitempty"`
	Artist *string `json:"artist,omitempty"`
}
