package models

import "time"

// Comment represents a user's comment on a post.
// Table: comment. Owning user and post ids are enforced by foreign keys at
// the storage layer and are not re-validated here.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"size:1000;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID;references:ID" json:"-"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	Post    Post   `gorm:"foreignKey:PostID;references:ID" json:"-"`

	Lifecycle
}

func (Comment) TableName() string { return "comment" }

// CommentFilter represents filter criteria for comment queries
type CommentFilter struct {
	ID            *uint
	UserID        *uint
	PostID        *uint
	Active        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// CommentPatch holds the optional fields of a partial comment update.
type CommentPatch struct {
	Content *string
}

// Apply merges the supplied fields of the patch into the comment.
func (c *Comment) Apply(patch CommentPatch) {
	if patch.Content != nil {
		c.Content = *patch.Content
	}
}
