// Package models contains domain entities and business models for the content service
package models

import "time"

// Lifecycle carries the timestamps shared by every entity: creation time,
// last-modified time, and the soft-delete marker. A row is "active" while
// DeletedAt is unset; default read paths must exclude non-active rows.
//
// DeletedAt is a plain nullable timestamp rather than gorm.DeletedAt so that
// active-row filtering stays explicit in queries and restore is expressible.
type Lifecycle struct {
	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// SoftDelete marks the entity unavailable. No-op if already deleted.
func (l *Lifecycle) SoftDelete(now time.Time) {
	if l.DeletedAt == nil {
		l.DeletedAt = &now
	}
}

// Restore clears the soft-delete marker. No-op if already active.
func (l *Lifecycle) Restore() {
	l.DeletedAt = nil
}

// IsActive reports whether the entity is visible to default read paths.
func (l *Lifecycle) IsActive() bool {
	return l.DeletedAt == nil
}
