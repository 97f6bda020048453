package dto

import "time"

// CreateTagRequest represents the payload for creating a tag
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=30"`
}

// UpdateTagRequest represents a partial update of a tag
type UpdateTagRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=30"`
}

// TagDTO represents tag data for API responses
type TagDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
