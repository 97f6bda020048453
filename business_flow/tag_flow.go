package businessflow

import (
	"context"
	"errors"

	"github.com/quillhub/quillhub/app/dto"
	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
)

// TagFlow handles tag management.
type TagFlow interface {
	Create(ctx context.Context, userID uint, request *dto.CreateTagRequest) (*dto.TagDTO, error)
	Get(ctx context.Context, tagID uint) (*dto.TagDTO, error)
	List(ctx context.Context) ([]dto.TagDTO, error)
	Update(ctx context.Context, tagID, userID uint, request *dto.UpdateTagRequest) (*dto.TagDTO, error)
	Delete(ctx context.Context, tagID, userID uint) error
}

// TagFlowImpl implements the tag business flow
type TagFlowImpl struct {
	tagRepo repository.TagRepository
}

// NewTagFlow creates a new tag flow instance
func NewTagFlow(tagRepo repository.TagRepository) TagFlow {
	return &TagFlowImpl{tagRepo: tagRepo}
}

// Create resolves the named tag to a persisted row owned by userID. An
// existing active tag with the same name is a conflict; a soft-deleted one
// is revived through the same resolution posts use.
func (f *TagFlowImpl) Create(ctx context.Context, userID uint, request *dto.CreateTagRequest) (*dto.TagDTO, error) {
	if _, err := f.tagRepo.ByName(ctx, request.Name); err == nil {
		return nil, NewBusinessError("TAG_TAKEN", "Tag already exists", ErrTagAlreadyExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, NewBusinessError("TAG_LOOKUP_FAILED", "Failed to check tag", err)
	}

	tags, err := f.tagRepo.ResolveNames(ctx, userID, []string{request.Name})
	if err != nil {
		return nil, NewBusinessError("TAG_CREATE_FAILED", "Failed to create tag", err)
	}

	out := ToTagDTO(tags[0])
	return &out, nil
}

// Get fetches an active tag by ID.
func (f *TagFlowImpl) Get(ctx context.Context, tagID uint) (*dto.TagDTO, error) {
	tag, err := f.tagRepo.ByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("TAG_NOT_FOUND", "Tag not found", ErrTagNotFound)
		}
		return nil, NewBusinessError("TAG_FETCH_FAILED", "Failed to fetch tag", err)
	}

	out := ToTagDTO(tag)
	return &out, nil
}

// List returns every active tag, newest first. No tags is a valid empty set.
func (f *TagFlowImpl) List(ctx context.Context) ([]dto.TagDTO, error) {
	tags, err := f.tagRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("TAG_LIST_FAILED", "Failed to list tags", err)
	}

	out := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, ToTagDTO(tag))
	}
	return out, nil
}

// Update renames the tag when userID owns it.
func (f *TagFlowImpl) Update(ctx context.Context, tagID, userID uint, request *dto.UpdateTagRequest) (*dto.TagDTO, error) {
	patch := models.TagPatch{Name: request.Name}

	tag, err := f.tagRepo.Update(ctx, tagID, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewBusinessError("TAG_NOT_FOUND", "Tag not found", ErrTagNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, NewBusinessError("TAG_TAKEN", "Tag already exists", ErrTagAlreadyExists)
		}
		return nil, NewBusinessError("TAG_UPDATE_FAILED", "Failed to update tag", err)
	}

	out := ToTagDTO(tag)
	return &out, nil
}

// Delete soft-deletes the tag when userID owns it. Posts keep their join
// rows; the tag simply stops resolving until something revives it.
func (f *TagFlowImpl) Delete(ctx context.Context, tagID, userID uint) error {
	if err := f.tagRepo.SoftDelete(ctx, tagID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewBusinessError("TAG_NOT_FOUND", "Tag not found", ErrTagNotFound)
		}
		return NewBusinessError("TAG_DELETE_FAILED", "Failed to delete tag", err)
	}
	return nil
}
