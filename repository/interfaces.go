// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/quillhub/quillhub/models"
)

// contextKey for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// Sentinel errors returned by every repository implementation. Callers map
// these to the HTTP taxonomy at the boundary.
var (
	// ErrNotFound covers absent, soft-deleted, and not-owned rows alike.
	// Ownership failures deliberately surface as not-found so mutation
	// endpoints never leak whether a row exists.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate signals a natural-key uniqueness violation.
	ErrDuplicate = errors.New("record already exists")
)

// Repository defines the operations shared by every entity store.
// All default read paths exclude soft-deleted rows.
type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ListActive(ctx context.Context) ([]*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Count(ctx context.Context, filter F) (int64, error)
	Save(ctx context.Context, entity *T) error
	Restore(ctx context.Context, id uint) error
}

// UserRepository defines operations for user accounts. Users are only ever
// mutated by themselves, so update/delete take no separate owner id.
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error)
	SoftDelete(ctx context.Context, id uint) error
}

// PostRepository defines operations for posts. Mutations are scoped to the
// owning user; list operations paginate with a consistent total.
type PostRepository interface {
	Repository[models.Post, models.PostFilter]
	ByIDWithRelations(ctx context.Context, id uint) (*models.Post, error)
	ListPage(ctx context.Context, filter models.PostFilter, page PageRequest) ([]*models.Post, int64, error)
	Update(ctx context.Context, id, ownerID uint, patch models.PostPatch) (*models.Post, error)
	ReplaceTags(ctx context.Context, post *models.Post, tags []*models.Tag) error
	SoftDelete(ctx context.Context, id, ownerID uint) error
}

// CommentRepository defines operations for comments.
type CommentRepository interface {
	Repository[models.Comment, models.CommentFilter]
	ListByPostPage(ctx context.Context, postID uint, page PageRequest) ([]*models.Comment, int64, error)
	Update(ctx context.Context, id, ownerID uint, patch models.CommentPatch) (*models.Comment, error)
	SoftDelete(ctx context.Context, id, ownerID uint) error
}

// TagRepository defines operations for tags, including name resolution for
// post attachment.
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	ByName(ctx context.Context, name string) (*models.Tag, error)
	ResolveNames(ctx context.Context, ownerID uint, names []string) ([]*models.Tag, error)
	Update(ctx context.Context, id, ownerID uint, patch models.TagPatch) (*models.Tag, error)
	SoftDelete(ctx context.Context, id, ownerID uint) error
}

// UnitOfWork groups repository calls into a single atomic unit. The GORM
// implementation opens a database transaction; the in-memory store is
// already serialized by its own lock and uses a no-op implementation.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
