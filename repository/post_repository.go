package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillhub/quillhub/models"
	"gorm.io/gorm"
)

// PostRepositoryImpl implements PostRepository over GORM
type PostRepositoryImpl struct {
	*BaseRepository[models.Post, models.PostFilter]
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &PostRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Post, models.PostFilter](db),
	}
}

// ByIDWithRelations retrieves the active post matching id with its owner and
// tags preloaded.
func (r *PostRepositoryImpl) ByIDWithRelations(ctx context.Context, id uint) (*models.Post, error) {
	db := r.getDB(ctx)

	var post models.Post
	err := db.Preload("User").Preload("Tags").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find post by ID %d: %w", id, err)
	}

	return &post, nil
}

// ListPage retrieves one page of active posts matching the filter plus the
// unbounded total for the same filter, newest first.
func (r *PostRepositoryImpl) ListPage(ctx context.Context, filter models.PostFilter, page PageRequest) ([]*models.Post, int64, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Post{}), filter).
		Where("post.deleted_at IS NULL").
		Preload("User").Preload("Tags")

	return paginate[models.Post](query, "post.created_at DESC", page)
}

// Update applies the supplied patch fields to the active post matching id
// and owned by ownerID. A non-owning caller observes the same not-found as
// an absent row.
func (r *PostRepositoryImpl) Update(ctx context.Context, id, ownerID uint, patch models.PostPatch) (*models.Post, error) {
	post, err := r.ownedByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	post.Apply(patch)
	if err := r.update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// ReplaceTags swaps the post's tag attachments for the given set.
func (r *PostRepositoryImpl) ReplaceTags(ctx context.Context, post *models.Post, tags []*models.Tag) error {
	db := r.getDB(ctx)

	if err := db.Model(post).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to replace post tags: %w", err)
	}
	return nil
}

// SoftDelete marks the active post matching id and owned by ownerID as deleted.
func (r *PostRepositoryImpl) SoftDelete(ctx context.Context, id, ownerID uint) error {
	return r.softDelete(ctx, "id = ? AND deleted_at IS NULL AND user_id = ?", id, ownerID)
}

func (r *PostRepositoryImpl) ownedByID(ctx context.Context, id, ownerID uint) (*models.Post, error) {
	db := r.getDB(ctx)

	var post models.Post
	err := db.Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, ownerID).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find post %d for user %d: %w", id, ownerID, err)
	}

	return &post, nil
}

// applyFilter applies filter criteria to a GORM query. Filtering by tag name
// joins through the post_tag association.
func (r *PostRepositoryImpl) applyFilter(query *gorm.DB, filter models.PostFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("post.id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("post.user_id = ?", *filter.UserID)
	}
	if filter.TagName != nil {
		query = query.
			Joins("JOIN post_tag ON post_tag.post_id = post.id").
			Joins("JOIN tag ON tag.id = post_tag.tag_id").
			Where("tag.name = ?", *filter.TagName)
	}
	if filter.Active != nil {
		if *filter.Active {
			query = query.Where("post.deleted_at IS NULL")
		} else {
			query = query.Where("post.deleted_at IS NOT NULL")
		}
	}
	if filter.CreatedAfter != nil {
		query = query.Where("post.created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("post.created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves posts based on filter criteria
func (r *PostRepositoryImpl) ByFilter(ctx context.Context, filter models.PostFilter, orderBy string, limit, offset int) ([]*models.Post, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Post{}), filter)

	if orderBy == "" {
		orderBy = "post.id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Post
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of posts matching the filter
func (r *PostRepositoryImpl) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Post{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
