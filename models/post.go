package models

import "time"

// Post represents a piece of user-authored content.
// Table: post; tags attach through the post_tag join table keyed by
// (post_id, tag_id).
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:100;not null" json:"title"`
	Content string `gorm:"size:5000;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	Lifecycle

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
	Tags     []Tag     `gorm:"many2many:post_tag" json:"tags,omitempty"`
}

func (Post) TableName() string { return "post" }

// PostFilter represents filter criteria for post queries
type PostFilter struct {
	ID            *uint
	UserID        *uint
	TagName       *string
	Active        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// PostPatch holds the optional fields of a partial post update.
type PostPatch struct {
	Title   *string
	Content *string
}

// Apply merges the supplied fields of the patch into the post.
func (p *Post) Apply(patch PostPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
}
