package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/quillhub/quillhub/app/dto"
	businessflow "github.com/quillhub/quillhub/business_flow"
	"github.com/quillhub/quillhub/repository"
)

// CommentHandlerInterface defines the contract for comment handlers
type CommentHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	ListByPost(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	baseHandler
	commentFlow businessflow.CommentFlow
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentFlow businessflow.CommentFlow) *CommentHandler {
	return &CommentHandler{
		baseHandler: newBaseHandler(),
		commentFlow: commentFlow,
	}
}

// Create handles commenting on a post
func (h *CommentHandler) Create(c fiber.Ctx) error {
	postID, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_POST_ID", nil)
	}

	var req dto.CreateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, ok := h.validateRequest(c, &req); !ok {
		return resp
	}

	result, err := h.commentFlow.Create(h.createRequestContext(c, "/api/v1/posts/:id/comments"), postID, currentUserID(c), &req)
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}

		log.Println("Comment creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create comment", "COMMENT_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Comment created", result)
}

// Get returns a single comment
func (h *CommentHandler) Get(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid comment ID", "INVALID_COMMENT_ID", nil)
	}

	result, err := h.commentFlow.Get(h.createRequestContext(c, "/api/v1/comments/:id"), id)
	if err != nil {
		if businessflow.IsCommentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", "COMMENT_NOT_FOUND", nil)
		}

		log.Println("Comment fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch comment", "COMMENT_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Comment retrieved", result)
}

// ListByPost returns one page of a post's comments
func (h *CommentHandler) ListByPost(c fiber.Ctx) error {
	postID, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_POST_ID", nil)
	}

	page := queryInt(c, "page", repository.DefaultPage)
	size := queryInt(c, "size", repository.DefaultPageSize)

	result, err := h.commentFlow.ListByPost(h.createRequestContext(c, "/api/v1/posts/:id/comments"), postID, page, size)
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Comment listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list comments", "COMMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Comments retrieved", result)
}

// Update applies a partial update to a comment written by the caller
func (h *CommentHandler) Update(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid comment ID", "INVALID_COMMENT_ID", nil)
	}

	var req dto.UpdateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, ok := h.validateRequest(c, &req); !ok {
		return resp
	}

	result, err := h.commentFlow.Update(h.createRequestContext(c, "/api/v1/comments/:id"), id, currentUserID(c), &req)
	if err != nil {
		if businessflow.IsCommentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", "COMMENT_NOT_FOUND", nil)
		}

		log.Println("Comment update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update comment", "COMMENT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Comment updated", result)
}

// Delete soft-deletes a comment written by the caller
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid comment ID", "INVALID_COMMENT_ID", nil)
	}

	err := h.commentFlow.Delete(h.createRequestContext(c, "/api/v1/comments/:id"), id, currentUserID(c))
	if err != nil {
		if businessflow.IsCommentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", "COMMENT_NOT_FOUND", nil)
		}

		log.Println("Comment delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete comment", "COMMENT_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Comment deleted", nil)
}
