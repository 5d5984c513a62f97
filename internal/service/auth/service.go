package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mednex-health/mednex-api/internal/email"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	"github.com/mednex-health/mednex-api/pkg/auth"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

const bcryptCost = 12

// Service establishes caller identity: registration, login, token
// validation, and profile management.
type Service struct {
	users    repository.UserRepository
	jwtSvc   auth.JWTService
	emailSvc email.Service
}

func NewService(users repository.UserRepository, jwtSvc auth.JWTService, emailSvc email.Service) *Service {
	return &Service{
		users:    users,
		jwtSvc:   jwtSvc,
		emailSvc: emailSvc,
	}
}

// Register creates a customer account. The public endpoint never grants
// the admin role; admins are provisioned out of band.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Storage(err)
	}
	if existing != nil {
		return nil, apperrors.Validation("email already registered", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hashed),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Storage(err)
	}

	// Welcome email is best-effort; registration never fails on it.
	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(ctx, user.Email, user.FullName); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
		}
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("incorrect email or password", nil)
		}
		return nil, apperrors.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("incorrect email or password", nil)
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated", nil)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// ValidateToken checks signature and expiry, failing closed on anything
// malformed.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	return &model.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// GetUser returns the account for a validated identity.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Storage(err)
	}
	return user, nil
}

// UpdateProfile applies a partial self-update. Role and activation flags
// are ignored here; only the admin surface may change them.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Storage(err)
	}
	return user, nil
}

// DeleteAccount removes the caller's own account.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Storage(err)
	}
	return nil
}
