package dto

import "time"

// CreatePostRequest represents the payload for creating a post
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=100"`
	Content string   `json:"content" validate:"required,min=1,max=5000"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// UpdatePostRequest represents a partial update of a post. A nil Tags field
// leaves the attachments alone; an empty slice detaches every tag.
type UpdatePostRequest struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Content *string   `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// PostDTO represents post data for API responses
type PostDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    uint      `json:"user_id"`
	Author    *UserDTO  `json:"author,omitempty"`
	Tags      []TagDTO  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
