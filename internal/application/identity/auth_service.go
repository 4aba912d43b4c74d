package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// TokenIssuer issues signed access tokens for authenticated users
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, email, role string) (string, error)
}

// AuthService handles registration, login and profile access
type AuthService struct {
	userRepo    identity.UserRepository
	tokenIssuer TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, tokenIssuer TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenIssuer: tokenIssuer,
	}
}

// Register creates a new customer account and returns it with an access
// token. A duplicate email is rejected.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

// Login verifies the credentials and returns the user with an access
// token. Unknown emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, shared.ErrInvalidCredentials
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

// Profile returns the authenticated user's account
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

func (s *AuthService) authResponse(user *identity.User) (*AuthResponse, error) {
	token, err := s.tokenIssuer.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:  ToUserResponse(user),
		Token: token,
	}, nil
}
