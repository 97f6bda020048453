package models

import "time"

// Tag represents a label attachable to posts.
// Table: tag. Name is unique among raw rows; the creating user owns the tag.
type Tag struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:30;not null;uniqueIndex:uk_tag_name" json:"name"`
	UserID uint   `gorm:"not null;index" json:"user_id"`

	Lifecycle

	Posts []Post `gorm:"many2many:post_tag" json:"-"`
}

func (Tag) TableName() string { return "tag" }

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID            *uint
	Name          *string
	UserID        *uint
	Active        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// TagPatch holds the optional fields of a partial tag update.
type TagPatch struct {
	Name *string
}

// Apply merges the supplied fields of the patch into the tag.
func (t *Tag) Apply(patch TagPatch) {
	if patch.Name != nil {
		t.Name = *patch.Name
	}
}
