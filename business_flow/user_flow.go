package businessflow

import (
	"context"
	"errors"

	"github.com/quillhub/quillhub/app/dto"
	"github.com/quillhub/quillhub/app/services"
	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
)

// UserFlow handles user profile reads and self-service mutations.
type UserFlow interface {
	Get(ctx context.Context, userID uint) (*dto.UserDTO, error)
	UpdateSelf(ctx context.Context, userID uint, request *dto.UpdateUserRequest) (*dto.UserDTO, error)
	DeleteSelf(ctx context.Context, userID uint) error
}

// UserFlowImpl implements the user business flow
type UserFlowImpl struct {
	userRepo        repository.UserRepository
	passwordService services.PasswordService
}

// NewUserFlow creates a new user flow instance
func NewUserFlow(userRepo repository.UserRepository, passwordService services.PasswordService) UserFlow {
	return &UserFlowImpl{userRepo: userRepo, passwordService: passwordService}
}

// Get fetches an active user by ID.
func (f *UserFlowImpl) Get(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	user, err := f.userRepo.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
		}
		return nil, NewBusinessError("USER_FETCH_FAILED", "Failed to fetch user", err)
	}

	out := ToUserDTO(user)
	return &out, nil
}

// UpdateSelf applies the provided fields to the authenticated user's own
// account. A new password is hashed before it reaches storage.
func (f *UserFlowImpl) UpdateSelf(ctx context.Context, userID uint, request *dto.UpdateUserRequest) (*dto.UserDTO, error) {
	patch := models.UserPatch{
		Username: request.Username,
		Fullname: request.Fullname,
		Email:    request.Email,
		Bio:      request.Bio,
		Avatar:   request.Avatar,
	}

	if request.Password != nil {
		hash, err := f.passwordService.Hash(*request.Password)
		if err != nil {
			return nil, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
		}
		patch.PasswordHash = &hash
	}

	user, err := f.userRepo.Update(ctx, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, NewBusinessError("USERNAME_TAKEN", "Username or email already exists", ErrUsernameAlreadyExists)
		}
		return nil, NewBusinessError("USER_UPDATE_FAILED", "Failed to update user", err)
	}

	out := ToUserDTO(user)
	return &out, nil
}

// DeleteSelf soft-deletes the authenticated user's own account. The user's
// posts, comments, and tags stay active; only the account disappears.
func (f *UserFlowImpl) DeleteSelf(ctx context.Context, userID uint) error {
	if err := f.userRepo.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
		}
		return NewBusinessError("USER_DELETE_FAILED", "Failed to delete user", err)
	}
	return nil
}
