package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/quillhub/quillhub/app/dto"
	businessflow "github.com/quillhub/quillhub/business_flow"
	"github.com/quillhub/quillhub/repository"
)

// PostHandlerInterface defines the contract for post handlers
type PostHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	ListByUser(c fiber.Ctx) error
	ListByTag(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	baseHandler
	postFlow businessflow.PostFlow
}

// NewPostHandler creates a new post handler
func NewPostHandler(postFlow businessflow.PostFlow) *PostHandler {
	return &PostHandler{
		baseHandler: newBaseHandler(),
		postFlow:    postFlow,
	}
}

// Create handles post creation
func (h *PostHandler) Create(c fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, ok := h.validateRequest(c, &req); !ok {
		return resp
	}

	result, err := h.postFlow.Create(h.createRequestContext(c, "/api/v1/posts"), currentUserID(c), &req)
	if err != nil {
		if businessflow.IsPostTitleTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Post title already exists", "POST_TITLE_TAKEN", nil)
		}

		log.Println("Post creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create post", "POST_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Post created", result)
}

// Get returns a single post with its author and tags
func (h *PostHandler) Get(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_POST_ID", nil)
	}

	result, err := h.postFlow.Get(h.createRequestContext(c, "/api/v1/posts/:id"), id)
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}

		log.Println("Post fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch post", "POST_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Post retrieved", result)
}

// List returns one page of all posts
func (h *PostHandler) List(c fiber.Ctx) error {
	page := queryInt(c, "page", repository.DefaultPage)
	size := queryInt(c, "size", repository.DefaultPageSize)

	result, err := h.postFlow.List(h.createRequestContext(c, "/api/v1/posts"), page, size)
	if err != nil {
		return h.listError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Posts retrieved", result)
}

// ListByUser returns one page of a user's posts
func (h *PostHandler) ListByUser(c fiber.Ctx) error {
	userID, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	page := queryInt(c, "page", repository.DefaultPage)
	size := queryInt(c, "size", repository.DefaultPageSize)

	result, err := h.postFlow.ListByUser(h.createRequestContext(c, "/api/v1/users/:id/posts"), userID, page, size)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		return h.listError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Posts retrieved", result)
}

// ListByTag returns one page of posts carrying the named tag
func (h *PostHandler) ListByTag(c fiber.Ctx) error {
	tagName := c.Params("name")
	if tagName == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag name", "INVALID_TAG_NAME", nil)
	}

	page := queryInt(c, "page", repository.DefaultPage)
	size := queryInt(c, "size", repository.DefaultPageSize)

	result, err := h.postFlow.ListByTag(h.createRequestContext(c, "/api/v1/tags/:name/posts"), tagName, page, size)
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}
		return h.listError(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Posts retrieved", result)
}

// Update applies a partial update to a post owned by the caller
func (h *PostHandler) Update(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_POST_ID", nil)
	}

	var req dto.UpdatePostRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, ok := h.validateRequest(c, &req); !ok {
		return resp
	}

	result, err := h.postFlow.Update(h.createRequestContext(c, "/api/v1/posts/:id"), id, currentUserID(c), &req)
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}
		if businessflow.IsPostTitleTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Post title already exists", "POST_TITLE_TAKEN", nil)
		}

		log.Println("Post update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update post", "POST_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Post updated", result)
}

// Delete soft-deletes a post owned by the caller
func (h *PostHandler) Delete(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_POST_ID", nil)
	}

	err := h.postFlow.Delete(h.createRequestContext(c, "/api/v1/posts/:id"), id, currentUserID(c))
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}

		log.Println("Post delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete post", "POST_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Post deleted", nil)
}

func (h *PostHandler) listError(c fiber.Ctx, err error) error {
	if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
	}

	log.Println("Post listing failed", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list posts", "POST_LIST_FAILED", nil)
}
