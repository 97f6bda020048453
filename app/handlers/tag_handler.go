package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/quillhub/quillhub/app/dto"
	businessflow "github.com/quillhub/quillhub/business_flow"
)

// TagHandlerInterface defines the contract for tag handlers
type TagHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
}

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	baseHandler
	tagFlow businessflow.TagFlow
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagFlow businessflow.TagFlow) *TagHandler {
	return &TagHandler{
		baseHandler: newBaseHandler(),
		tagFlow:     tagFlow,
	}
}

// Create handles tag creation
func (h *TagHandler) Create(c fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, ok := h.validateRequest(c, &req); !ok {
		return resp
	}

	result, err := h.tagFlow.Create(h.createRequestContext(c, "/api/v1/tags"), currentUserID(c), &req)
	if err != nil {
		if businessflow.IsTagAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Tag already exists", "TAG_EXISTS", nil)
		}

		log.Println("Tag creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create tag", "TAG_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Tag created", result)
}

// Get returns a single tag
func (h *TagHandler) Get(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag ID", "INVALID_TAG_ID", nil)
	}

	result, err := h.tagFlow.Get(h.createRequestContext(c, "/api/v1/tags/:id"), id)
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}

		log.Println("Tag fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tag", "TAG_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tag retrieved", result)
}

// List returns every active tag
func (h *TagHandler) List(c fiber.Ctx) error {
	result, err := h.tagFlow.List(h.createRequestContext(c, "/api/v1/tags"))
	if err != nil {
		log.Println("Tag listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tags", "TAG_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tags retrieved", result)
}

// Update renames a tag owned by the caller
func (h *TagHandler) Update(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag ID", "INVALID_TAG_ID", nil)
	}

	var req dto.UpdateTagRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, ok := h.validateRequest(c, &req); !ok {
		return resp
	}

	result, err := h.tagFlow.Update(h.createRequestContext(c, "/api/v1/tags/:id"), id, currentUserID(c), &req)
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}
		if businessflow.IsTagAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Tag already exists", "TAG_EXISTS", nil)
		}

		log.Println("Tag update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update tag", "TAG_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tag updated", result)
}

// Delete soft-deletes a tag owned by the caller
func (h *TagHandler) Delete(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag ID", "INVALID_TAG_ID", nil)
	}

	err := h.tagFlow.Delete(h.createRequestContext(c, "/api/v1/tags/:id"), id, currentUserID(c))
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}

		log.Println("Tag delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete tag", "TAG_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tag deleted", nil)
}
