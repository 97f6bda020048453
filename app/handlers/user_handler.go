package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/quillhub/quillhub/app/dto"
	businessflow "github.com/quillhub/quillhub/business_flow"
)

// UserHandlerInterface defines the contract for user handlers
type UserHandlerInterface interface {
	Get(c fiber.Ctx) error
	GetMe(c fiber.Ctx) error
	UpdateMe(c fiber.Ctx) error
	DeleteMe(c fiber.Ctx) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	baseHandler
	userFlow businessflow.UserFlow
}

// NewUserHandler creates a new user handler
func NewUserHandler(userFlow businessflow.UserFlow) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(),
		userFlow:    userFlow,
	}
}

// Get returns a user's public profile
func (h *UserHandler) Get(c fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	result, err := h.userFlow.Get(h.createRequestContext(c, "/api/v1/users/:id"), id)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("User fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", "USER_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User retrieved", result)
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c fiber.Ctx) error {
	result, err := h.userFlow.Get(h.createRequestContext(c, "/api/v1/users/me"), currentUserID(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("User fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch user", "USER_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User retrieved", result)
}

// UpdateMe applies a partial update to the authenticated user's profile
func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, ok := h.validateRequest(c, &req); !ok {
		return resp
	}

	result, err := h.userFlow.UpdateSelf(h.createRequestContext(c, "/api/v1/users/me"), currentUserID(c), &req)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsUsernameAlreadyExists(err) || businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Username or email already exists", "USERNAME_EXISTS", nil)
		}

		log.Println("User update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user", "USER_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User updated", result)
}

// DeleteMe soft-deletes the authenticated user's account
func (h *UserHandler) DeleteMe(c fiber.Ctx) error {
	err := h.userFlow.DeleteSelf(h.createRequestContext(c, "/api/v1/users/me"), currentUserID(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("User delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user", "USER_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "User deleted", nil)
}
