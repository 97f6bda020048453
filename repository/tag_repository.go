package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillhub/quillhub/models"
	"gorm.io/gorm"
)

// TagRepositoryImpl implements TagRepository over GORM
type TagRepositoryImpl struct {
	*BaseRepository[models.Tag, models.TagFilter]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tag, models.TagFilter](db),
	}
}

// ByName retrieves the active tag with the given name.
func (r *TagRepositoryImpl) ByName(ctx context.Context, name string) (*models.Tag, error) {
	db := r.getDB(ctx)

	var tag models.Tag
	err := db.Where("name = ? AND deleted_at IS NULL", name).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tag by name: %w", err)
	}

	return &tag, nil
}

// byNameAnyState looks a tag up by exact name regardless of its soft-delete
// state. Resolution deliberately observes soft-deleted rows: a reattached
// name revives the existing tag instead of colliding with its unique index.
func (r *TagRepositoryImpl) byNameAnyState(ctx context.Context, name string) (*models.Tag, error) {
	db := r.getDB(ctx)

	var tag models.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tag by name: %w", err)
	}

	return &tag, nil
}

// ResolveNames maps the requested tag names to persisted tags, creating
// missing ones owned by ownerID. Duplicated input names collapse to one tag,
// soft-deleted matches are revived, and a concurrent-create uniqueness
// violation is settled by re-reading the row the other writer won with.
// The race is the only retried storage operation in the system.
func (r *TagRepositoryImpl) ResolveNames(ctx context.Context, ownerID uint, names []string) ([]*models.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	resolved := make([]*models.Tag, 0, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag, err := r.byNameAnyState(ctx, name)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		if tag != nil {
			if !tag.IsActive() {
				if err := r.Restore(ctx, tag.ID); err != nil {
					return nil, err
				}
				tag.Lifecycle.Restore()
			}
			resolved = append(resolved, tag)
			continue
		}

		tag = &models.Tag{Name: name, UserID: ownerID}
		err = r.saveSpeculative(ctx, tag)
		if errors.Is(err, ErrDuplicate) {
			// Lost the create race; the winner's row is authoritative.
			tag, err = r.byNameAnyState(ctx, name)
		}
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, tag)
	}

	return resolved, nil
}

// saveSpeculative inserts a tag that may lose a concurrent-create race. The
// insert runs in a nested transaction: on PostgreSQL a failed INSERT aborts
// the surrounding transaction, and the savepoint rollback keeps the
// compensating re-read runnable when resolution happens inside a caller's
// unit of work.
func (r *TagRepositoryImpl) saveSpeculative(ctx context.Context, tag *models.Tag) error {
	db := r.getDB(ctx)

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(tag).Error
	})
	if err != nil {
		return translateError(err)
	}

	return nil
}

// Update applies the supplied patch fields to the active tag matching id and
// owned by ownerID.
func (r *TagRepositoryImpl) Update(ctx context.Context, id, ownerID uint, patch models.TagPatch) (*models.Tag, error) {
	db := r.getDB(ctx)

	var tag models.Tag
	err := db.Where("id = ? AND deleted_at IS NULL AND user_id = ?", id, ownerID).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tag %d for user %d: %w", id, ownerID, err)
	}

	tag.Apply(patch)
	if err := r.update(ctx, &tag); err != nil {
		return nil, err
	}

	return &tag, nil
}

// SoftDelete marks the active tag matching id and owned by ownerID as deleted.
func (r *TagRepositoryImpl) SoftDelete(ctx context.Context, id, ownerID uint) error {
	return r.softDelete(ctx, "id = ? AND deleted_at IS NULL AND user_id = ?", id, ownerID)
}

// applyFilter applies filter criteria to a GORM query
func (r *TagRepositoryImpl) applyFilter(query *gorm.DB, filter models.TagFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
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

// ByFilter retrieves tags based on filter criteria
func (r *TagRepositoryImpl) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

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

	var rows []*models.Tag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tags matching the filter
func (r *TagRepositoryImpl) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
