// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quillhub/quillhub/utils"
	"gorm.io/gorm"
)

// BaseRepository provides common soft-delete-aware repository functionality
// with transaction support
type BaseRepository[T any, F any] struct {
	DB *gorm.DB
}

// NewBaseRepository creates a new base repository instance
func NewBaseRepository[T any, F any](db *gorm.DB) *BaseRepository[T, F] {
	return &BaseRepository[T, F]{DB: db}
}

// getDB returns the appropriate database connection (with or without transaction)
func (r *BaseRepository[T, F]) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// getDBForWrite returns database connection with transaction for write operations
func (r *BaseRepository[T, F]) getDBForWrite(ctx context.Context) (*gorm.DB, bool, error) {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx, false, nil // Transaction already exists, don't commit
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	return tx, true, nil // New transaction, should commit
}

// ByID retrieves the active entity matching id
func (r *BaseRepository[T, F]) ByID(ctx context.Context, id uint) (*T, error) {
	db := r.getDB(ctx)

	var entity T
	err := db.Where("id = ? AND deleted_at IS NULL", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entity by ID %d: %w", id, err)
	}

	return &entity, nil
}

// ListActive retrieves all rows whose soft-delete marker is unset, newest first.
// An empty result is valid for every entity type.
func (r *BaseRepository[T, F]) ListActive(ctx context.Context) ([]*T, error) {
	db := r.getDB(ctx)

	var entities []*T
	err := db.Where("deleted_at IS NULL").Order("created_at DESC").Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active entities: %w", err)
	}

	return entities, nil
}

// Save inserts a new entity
func (r *BaseRepository[T, F]) Save(ctx context.Context, entity *T) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if err = db.Create(entity).Error; err != nil {
		return translateError(err)
	}

	return nil
}

// softDelete stamps deleted_at on rows matching conds. UpdateColumn skips the
// automatic updated_at touch: soft delete mutates deleted_at only.
func (r *BaseRepository[T, F]) softDelete(ctx context.Context, conds string, args ...any) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	res := db.Model(new(T)).Where(conds, args...).UpdateColumn("deleted_at", utils.UTCNow())
	if res.Error != nil {
		err = fmt.Errorf("failed to soft delete entity: %w", res.Error)
		return err
	}
	if res.RowsAffected == 0 {
		err = ErrNotFound
		return err
	}

	return nil
}

// Restore clears the soft-delete marker. Idempotent no-op if already active.
func (r *BaseRepository[T, F]) Restore(ctx context.Context, id uint) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	res := db.Model(new(T)).Where("id = ?", id).UpdateColumn("deleted_at", nil)
	if res.Error != nil {
		err = fmt.Errorf("failed to restore entity: %w", res.Error)
		return err
	}
	if res.RowsAffected == 0 {
		err = ErrNotFound
		return err
	}

	return nil
}

// update persists a previously fetched and patched entity.
func (r *BaseRepository[T, F]) update(ctx context.Context, entity *T) (err error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if err = db.Omit("Posts", "Comments", "Tags", "User", "Post").Save(entity).Error; err != nil {
		return translateError(err)
	}

	return nil
}

// translateError maps storage engine constraint signals onto the repository
// error taxonomy. The string fallback covers drivers that predate GORM's
// error translation.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") {
		return ErrDuplicate
	}
	return err
}

// WithTransaction executes a function within a database transaction
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(context.Context) error) (err error) {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", r)
		}
	}()

	ctx = context.WithValue(ctx, TxContextKey, tx)

	if err := fn(ctx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GormUnitOfWork runs a group of repository calls inside one transaction.
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, u.db, fn)
}

// NoopUnitOfWork satisfies UnitOfWork for stores that serialize internally,
// such as the in-memory variant used in tests.
type NoopUnitOfWork struct{}

func (NoopUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
