package user

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

const bcryptCost = 12

// Service is the admin-facing account management surface. Unlike the
// profile routes it may change roles and activation state.
type Service struct {
	users  repository.UserRepository
	outbox repository.OutboxRepository
}

func NewService(users repository.UserRepository, outbox repository.OutboxRepository) *Service {
	return &Service{users: users, outbox: outbox}
}

func (s *Service) List(ctx context.Context, p model.Pagination) ([]model.User, error) {
	p.Clamp()
	users, err := s.users.List(ctx, p)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Storage(err)
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
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

	s.recordEvent(ctx, model.EventUserUpdated, user.ID)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Storage(err)
	}
	s.recordEvent(ctx, model.EventUserDeleted, id)
	return nil
}

// recordEvent appends an audit event. Failures are logged, never
// propagated; the mutation already succeeded.
func (s *Service) recordEvent(ctx context.Context, eventType string, userID uuid.UUID) {
	if s.outbox == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"user_id": userID.String()})
	event := &model.OutboxEvent{EventType: eventType, Payload: payload}
	if err := s.outbox.Create(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to record outbox event")
	}
}
