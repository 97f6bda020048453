package models

import "time"

// User represents an account holder.
// Table: user_account (kept singular to match the original schema).
// Username and email are unique among raw rows; a soft-deleted row with a
// reused username or email still collides at the constraint level.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"size:30;not null;uniqueIndex:uk_user_account_username" json:"username"`
	Fullname     string  `gorm:"size:30;not null" json:"fullname"`
	Email        string  `gorm:"size:255;not null;uniqueIndex:uk_user_account_email" json:"email"`
	Bio          *string `gorm:"size:500" json:"bio,omitempty"`
	Avatar       *string `gorm:"size:200" json:"avatar,omitempty"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	Lifecycle

	Posts    []Post    `gorm:"foreignKey:UserID" json:"-"`
	Comments []Comment `gorm:"foreignKey:UserID" json:"-"`
	Tags     []Tag     `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "user_account" }

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint
	Username      *string
	Email         *string
	Active        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// UserPatch holds the optional fields of a partial user update. Only fields
// that are non-nil are applied; everything else keeps its prior value.
type UserPatch struct {
	Username     *string
	Fullname     *string
	Email        *string
	Bio          *string
	Avatar       *string
	PasswordHash *string
}

// Apply merges the supplied fields of the patch into the user.
func (u *User) Apply(p UserPatch) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Fullname != nil {
		u.Fullname = *p.Fullname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
	if p.Avatar != nil {
		u.Avatar = p.Avatar
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}
