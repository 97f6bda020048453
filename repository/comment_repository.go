package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillhub/quillhub/models"
	"gorm.io/gorm"
)

// CommentRepositoryImpl implements CommentRepository over GORM
type CommentRepositoryImpl struct {
	*BaseRepository[models.Comment, models.CommentFilter]
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &CommentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Comment, models.CommentFilter](db),
	}
}

// ListByPostPage retrieves one page of active comments on the given post plus
// the unbounded total, newest first.
func (r *CommentRepositoryImpl) ListByPostPage(ctx context.Context, postID uint, page PageRequest) ([]*models.Comment, int64, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Comment{}).
		Where("post_id = ? AND deleted_at IS NULL", postID)

	return paginate[models.Comment](query, "created_at DESC", page)
}

// Update applies the supplied patch fields to the active comment matching id
// and owned by ownerID. Comment ownership, not post ownership, gates the
// mutation.
func (r *CommentRepositoryImpl) Update(ctx context.Context, id, ownerID uint, patch models.CommentPatch) (*models.Comment, error) {
	db := r.getDB(ctx)

	var comment models.Comment
	err := db.Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, ownerID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find comment %d for user %d: %w", id, ownerID, err)
	}

	comment.Apply(patch)
	if err := r.update(ctx, &comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

// SoftDelete marks the active comment matching id and owned by ownerID as deleted.
func (r *CommentRepositoryImpl) SoftDelete(ctx context.Context, id, ownerID uint) error {
	return r.softDelete(ctx, "id = ? AND deleted_at IS NULL AND user_id = ?", id, ownerID)
}

// applyFilter applies filter criteria to a GORM query
func (r *CommentRepositoryImpl) applyFilter(query *gorm.DB, filter models.CommentFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PostID != nil {
		query = query.Where("post_id = ?", *filter.PostID)
	}
	if filter.Active != nil {
		if *filter.Active {
			query = query.Where("deleted_at IS NULL")
		} else {
			query = query.Where("deleted_at IS NOT NULL")
		}
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves comments based on filter criteria
func (r *CommentRepositoryImpl) ByFilter(ctx context.Context, filter models.CommentFilter, orderBy string, limit, offset int) ([]*models.Comment, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Comment{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Comment
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of comments matching the filter
func (r *CommentRepositoryImpl) Count(ctx context.Context, filter models.CommentFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Comment{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
