package businessflow

import (
	"context"
	"errors"

	"github.com/quillhub/quillhub/app/dto"
	"github.com/quillhub/quillhub/app/services"
	"github.com/quillhub/quillhub/models"
	"github.com/quillhub/quillhub/repository"
)

// AuthFlow handles registration, authentication, and token lifecycle.
type AuthFlow interface {
	Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, request *dto.RefreshTokenRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo        repository.UserRepository
	passwordService services.PasswordService
	tokenService    services.TokenService
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	passwordService services.PasswordService,
	tokenService services.TokenService,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Register creates a new user account. Username and email collide against the
// raw columns, so a handle held by a soft-deleted account stays taken.
func (f *AuthFlowImpl) Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := f.userRepo.ByUsername(ctx, request.Username); err == nil {
		return nil, NewBusinessError("USERNAME_TAKEN", "Username already exists", ErrUsernameAlreadyExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to check username", err)
	}

	if _, err := f.userRepo.ByEmail(ctx, request.Email); err == nil {
		return nil, NewBusinessError("EMAIL_TAKEN", "Email already exists", ErrEmailAlreadyExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to check email", err)
	}

	hash, err := f.passwordService.Hash(request.Password)
	if err != nil {
		return nil, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	user := &models.User{
		Username:     request.Username,
		Fullname:     request.Fullname,
		Email:        request.Email,
		Bio:          request.Bio,
		Avatar:       request.Avatar,
		PasswordHash: hash,
	}

	if err := f.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			return nil, NewBusinessError("USERNAME_TAKEN", "Username already exists", ErrUsernameAlreadyExists)
		}
		return nil, NewBusinessError("USER_CREATE_FAILED", "Failed to create user", err)
	}

	return &dto.RegisterResponse{
		Message: "Registration successful",
		User:    ToUserDTO(user),
	}, nil
}

// Login authenticates a user by username and password. A missing account, a
// soft-deleted account, and a wrong password are indistinguishable to the
// caller.
func (f *AuthFlowImpl) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := f.userRepo.ByUsername(ctx, request.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password", ErrInvalidCredentials)
		}
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to fetch user", err)
	}

	if !user.IsActive() {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password", ErrInvalidCredentials)
	}

	if err := f.passwordService.Compare(user.PasswordHash, request.Password); err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password", ErrInvalidCredentials)
	}

	accessToken, refreshToken, err := f.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	return &dto.LoginResponse{
		Message:      "Login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(f.tokenService.AccessTokenTTL().Seconds()),
		User:         ToUserDTO(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (f *AuthFlowImpl) Refresh(ctx context.Context, request *dto.RefreshTokenRequest) (*dto.LoginResponse, error) {
	accessToken, refreshToken, err := f.tokenService.RefreshToken(ctx, request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid refresh token", ErrInvalidCredentials)
	}

	claims, err := f.tokenService.ValidateToken(ctx, accessToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to validate issued token", err)
	}

	user, err := f.userRepo.ByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid refresh token", ErrInvalidCredentials)
		}
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to fetch user", err)
	}

	return &dto.LoginResponse{
		Message:      "Token refreshed",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(f.tokenService.AccessTokenTTL().Seconds()),
		User:         ToUserDTO(user),
	}, nil
}

// Logout revokes the presented access token.
func (f *AuthFlowImpl) Logout(ctx context.Context, token string) error {
	if err := f.tokenService.RevokeToken(ctx, token); err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Failed to revoke token", err)
	}
	return nil
}
