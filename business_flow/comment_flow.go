package businessflow

import (
	"context"
	"errors"

	"github.com/quillhub/quillhub/app/dto"
	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
)

// CommentFlow handles commenting on posts.
type CommentFlow interface {
	Create(ctx context.Context, postID, userID uint, request *dto.CreateCommentRequest) (*dto.CommentDTO, error)
	Get(ctx context.Context, commentID uint) (*dto.CommentDTO, error)
	ListByPost(ctx context.Context, postID uint, page, size int) (*dto.PaginatedResponse[dto.CommentDTO], error)
	Update(ctx context.Context, commentID, userID uint, request *dto.UpdateCommentRequest) (*dto.CommentDTO, error)
	Delete(ctx context.Context, commentID, userID uint) error
}

// CommentFlowImpl implements the comment business flow
type CommentFlowImpl struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentFlow creates a new comment flow instance
func NewCommentFlow(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentFlow {
	return &CommentFlowImpl{commentRepo: commentRepo, postRepo: postRepo}
}

// Create stores a new comment by userID on the given post. Commenting on a
// missing or soft-deleted post reads as post not found.
func (f *CommentFlowImpl) Create(ctx context.Context, postID, userID uint, request *dto.CreateCommentRequest) (*dto.CommentDTO, error) {
	if _, err := f.postRepo.ByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
		}
		return nil, NewBusinessError("POST_FETCH_FAILED", "Failed to fetch post", err)
	}

	comment := &models.Comment{
		Content: request.Content,
		UserID:  userID,
		PostID:  postID,
	}

	if err := f.commentRepo.Save(ctx, comment); err != nil {
		return nil, NewBusinessError("COMMENT_CREATE_FAILED", "Failed to create comment", err)
	}

	out := ToCommentDTO(comment)
	return &out, nil
}

// Get fetches an active comment by ID.
func (f *CommentFlowImpl) Get(ctx context.Context, commentID uint) (*dto.CommentDTO, error) {
	comment, err := f.commentRepo.ByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("COMMENT_NOT_FOUND", "Comment not found", ErrCommentNotFound)
		}
		return nil, NewBusinessError("COMMENT_FETCH_FAILED", "Failed to fetch comment", err)
	}

	out := ToCommentDTO(comment)
	return &out, nil
}

// ListByPost returns one page of active comments on the given post, newest
// first. The post must itself be active.
func (f *CommentFlowImpl) ListByPost(ctx context.Context, postID uint, page, size int) (*dto.PaginatedResponse[dto.CommentDTO], error) {
	if _, err := f.postRepo.ByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("POST_NOT_FOUND", "Post not found", ErrPostNotFound)
		}
		return nil, NewBusinessError("POST_FETCH_FAILED", "Failed to fetch post", err)
	}

	req, err := NormalizePage(page, size)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	comments, total, err := f.commentRepo.ListByPostPage(ctx, postID, req)
	if err != nil {
		return nil, NewBusinessError("COMMENT_LIST_FAILED", "Failed to list comments", err)
	}

	return NewPaginatedResponse(comments, total, req, func(c *models.Comment) dto.CommentDTO {
		return ToCommentDTO(c)
	}), nil
}

// Update applies the provided fields to the comment when userID wrote it.
// Comment ownership, not post ownership, gates the mutation.
func (f *CommentFlowImpl) Update(ctx context.Context, commentID, userID uint, request *dto.UpdateCommentRequest) (*dto.CommentDTO, error) {
	patch := models.CommentPatch{Content: request.Content}

	comment, err := f.commentRepo.Update(ctx, commentID, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("COMMENT_NOT_FOUND", "Comment not found", ErrCommentNotFound)
		}
		return nil, NewBusinessError("COMMENT_UPDATE_FAILED", "Failed to update comment", err)
	}

	out := ToCommentDTO(comment)
	return &out, nil
}

// Delete soft-deletes the comment when userID wrote it.
func (f *CommentFlowImpl) Delete(ctx context.Context, commentID, userID uint) error {
	if err := f.commentRepo.SoftDelete(ctx, commentID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewBusinessError("COMMENT_NOT_FOUND", "Comment not found", ErrCommentNotFound)
		}
		return NewBusinessError("COMMENT_DELETE_FAILED", "Failed to delete comment", err)
	}
	return nil
}
