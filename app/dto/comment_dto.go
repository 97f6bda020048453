package dto

import "time"

// CreateCommentRequest represents the payload for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// UpdateCommentRequest represents a partial update of a comment
type UpdateCommentRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1,max=1000"`
}

// CommentDTO represents comment data for API responses
type CommentDTO struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	UserID    uint      `json:"user_id"`
	PostID    uint      `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
