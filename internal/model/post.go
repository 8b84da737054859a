package model

import "time"

type Post struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	AuthorID   int64     `json:"author_id"`
	Content    string    `json:"content"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	Tags       *string   `json:"tags,omitempty"` // comma-delimited
	CreatedAt  time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	LocationID int64   `json:"location_id" validate:"required"`
	Content    string  `json:"content" validate:"required"`
	PhotoURL   *string `json:"photo_url,omitempty"`
	Tags       *string `json:"tags,omitempty" validate:"omitempty,tags"`
}
