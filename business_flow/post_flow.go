package businessflow

import (
	"context"
	"errors"

	"github.com/quillhub/quillhub/app/dto"
	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
)

// PostFlow handles post authoring and discovery.
type PostFlow interface {
	Create(ctx context.Context, userID uint, request *dto.CreatePostRequest) (*dto.PostDTO, error)
	Get(ctx context.Context, postID uint) (*dto.PostDTO, error)
	List(ctx context.Context, page, size int) (*dto.PaginatedResponse[dto.PostDTO], error)
	ListByUser(ctx context.Context, userID uint, page, size int) (*dto.PaginatedResponse[dto.PostDTO], error)
	ListByTag(ctx context.Context, tagName string, page, size int) (*dto.PaginatedResponse[dto.PostDTO], error)
	Update(ctx context.Context, postID, userID uint, request *dto.UpdatePostRequest) (*dto.PostDTO, error)
	Delete(ctx context.Context, postID, userID uint) error
}

// PostFlowImpl implements the post business flow
type PostFlowImpl struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	userRepo repository.UserRepository
	uow      repository.UnitOfWork
}

// NewPostFlow creates a new post flow instance
func NewPostFlow(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
	uow repository.UnitOfWork,
) PostFlow {
	return &PostFlowImpl{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		userRepo: userRepo,
		uow:      uow,
	}
}

// Create stores a new post owned by userID and attaches its tags. The post
// row and the tag resolution commit or roll back together.
func (f *PostFlowImpl) Create(ctx context.Context, userID uint, request *dto.CreatePostRequest) (*dto.PostDTO, error) {
	post := &models.Post{
		Title:   request.Title,
		Content: request.Content,
		UserID:  userID,
	}

	err := f.uow.Do(ctx, func(ctx context.Context) error {
		if err := f.postRepo.Save(ctx, post); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrPostTitleTaken
			}
			return err
		}

		if len(request.Tags) == 0 {
			return nil
		}

		tags, err := f.tagRepo.ResolveNames(ctx, userID, request.Tags)
		if err != nil {
			return err
		}
		return f.postRepo.ReplaceTags(ctx, post, tags)
	})
	if err != nil {
		if errors.Is(err, ErrPostTitleTaken) {
			return nil, NewBusinessError("POST_TITLE_TAKEN", "Post title already exists", ErrPostTitleTaken)
		}
		return nil, NewBusinessError("POST_CREATE_FAILED", "Failed to create post", err)
	}

	return f.Get(ctx, post.ID)
}

// Get fetches an active post with its author and tags.
func (f *PostFlowImpl) Get(ctx context.Context, postID uint) (*dto.PostDTO, error) {
	post, err := f.postRepo.ByIDWithRelations(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
		}
		return nil, NewBusinessError("POST_FETCH_FAILED", "Failed to fetch post", err)
	}

	out := ToPostDTO(post)
	return &out, nil
}

// List returns one page of all active posts, newest first. An empty result
// is a valid empty page, never an error.
func (f *PostFlowImpl) List(ctx context.Context, page, size int) (*dto.PaginatedResponse[dto.PostDTO], error) {
	return f.listPage(ctx, models.PostFilter{}, page, size)
}

// ListByUser returns one page of the given user's active posts. The user
// must itself be active.
func (f *PostFlowImpl) ListByUser(ctx context.Context, userID uint, page, size int) (*dto.PaginatedResponse[dto.PostDTO], error) {
	if _, err := f.userRepo.ByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
		}
		return nil, NewBusinessError("USER_FETCH_FAILED", "Failed to fetch user", err)
	}

	return f.listPage(ctx, models.PostFilter{UserID: &userID}, page, size)
}

// ListByTag returns one page of active posts carrying the named tag. A
// missing or soft-deleted tag reads as not found.
func (f *PostFlowImpl) ListByTag(ctx context.Context, tagName string, page, size int) (*dto.PaginatedResponse[dto.PostDTO], error) {
	if _, err := f.tagRepo.ByName(ctx, tagName); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("TAG_NOT_FOUND", "Tag not found", ErrTagNotFound)
		}
		return nil, NewBusinessError("TAG_FETCH_FAILED", "Failed to fetch tag", err)
	}

	return f.listPage(ctx, models.PostFilter{TagName: &tagName}, page, size)
}

func (f *PostFlowImpl) listPage(ctx context.Context, filter models.PostFilter, page, size int) (*dto.PaginatedResponse[dto.PostDTO], error) {
	req, err := NormalizePage(page, size)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	posts, total, err := f.postRepo.ListPage(ctx, filter, req)
	if err != nil {
		return nil, NewBusinessError("POST_LIST_FAILED", "Failed to list posts", err)
	}

	return NewPaginatedResponse(posts, total, req, func(p *models.Post) dto.PostDTO {
		return ToPostDTO(p)
	}), nil
}

// Update applies the provided fields to the post when userID owns it. A post
// owned by someone else reads as not found. A tags field, when present,
// replaces the attachment set wholesale; an empty list detaches every tag.
func (f *PostFlowImpl) Update(ctx context.Context, postID, userID uint, request *dto.UpdatePostRequest) (*dto.PostDTO, error) {
	patch := models.PostPatch{
		Title:   request.Title,
		Content: request.Content,
	}

	err := f.uow.Do(ctx, func(ctx context.Context) error {
		post, err := f.postRepo.Update(ctx, postID, userID, patch)
		if err != nil {
			return err
		}

		if request.Tags == nil {
			return nil
		}

		tags, err := f.tagRepo.ResolveNames(ctx, userID, *request.Tags)
		if err != nil {
			return err
		}
		return f.postRepo.ReplaceTags(ctx, post, tags)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, NewBusinessError("POST_TITLE_TAKEN", "Post title already exists", ErrPostTitleTaken)
		}
		return nil, NewBusinessError("POST_UPDATE_FAILED", "Failed to update post", err)
	}

	return f.Get(ctx, postID)
}

// Delete soft-deletes the post when userID owns it.
func (f *PostFlowImpl) Delete(ctx context.Context, postID, userID uint) error {
	if err := f.postRepo.SoftDelete(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
		}
		return NewBusinessError("POST_DELETE_FAILED", "Failed to delete post", err)
	}
	return nil
}
