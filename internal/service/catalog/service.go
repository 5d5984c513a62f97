package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

// Service maintains the reference catalog of diseases and symptoms that
// the matcher scores against. All mutations go through the admin surface
// and leave an audit event behind.
type Service struct {
	diseases repository.DiseaseRepository
	symptoms repository.SymptomRepository
	outbox   repository.OutboxRepository
}

func NewService(diseases repository.DiseaseRepository, symptoms repository.SymptomRepository, outbox repository.OutboxRepository) *Service {
	return &Service{
		diseases: diseases,
		symptoms: symptoms,
		outbox:   outbox,
	}
}

func (s *Service) CreateDisease(ctx context.Context, req *model.CreateDiseaseRequest, createdBy uuid.UUID) (*model.Disease, error) {
	disease := &model.Disease{
		Name:        req.Name,
		Description: req.Description,
		Symptoms:    req.Symptoms,
		Treatment:   req.Treatment,
		Severity:    req.Severity,
		Category:    req.Category,
	}
	if createdBy != uuid.Nil {
		disease.CreatedBy = &createdBy
	}

	if err := s.diseases.Create(ctx, disease); err != nil {
		return nil, apperrors.Storage(err)
	}
	s.recordEvent(ctx, model.EventDiseaseCreated, disease.ID)
	return disease, nil
}

func (s *Service) GetDisease(ctx context.Context, id uuid.UUID) (*model.Disease, error) {
	disease, err := s.diseases.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("disease", err)
		}
		return nil, apperrors.Storage(err)
	}
	return disease, nil
}

func (s *Service) ListDiseases(ctx context.Context, p model.Pagination) ([]model.Disease, error) {
	p.Clamp()
	diseases, err := s.diseases.List(ctx, p)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return diseases, nil
}

func (s *Service) UpdateDisease(ctx context.Context, id uuid.UUID, req *model.UpdateDiseaseRequest) (*model.Disease, error) {
	disease, err := s.GetDisease(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		disease.Name = *req.Name
	}
	if req.Description != nil {
		disease.Description = *req.Description
	}
	if req.Symptoms != nil {
		disease.Symptoms = req.Symptoms
	}
	if req.Treatment != nil {
		disease.Treatment = *req.Treatment
	}
	if req.Severity != nil {
		disease.Severity = *req.Severity
	}
	if req.Category != nil {
		disease.Category = req.Category
	}

	if err := s.diseases.Update(ctx, disease); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("disease", err)
		}
		return nil, apperrors.Storage(err)
	}
	s.recordEvent(ctx, model.EventDiseaseUpdated, disease.ID)
	return disease, nil
}

func (s *Service) DeleteDisease(ctx context.Context, id uuid.UUID) error {
	if err := s.diseases.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("disease", err)
		}
		return apperrors.Storage(err)
	}
	s.recordEvent(ctx, model.EventDiseaseDeleted, id)
	return nil
}

func (s *Service) CreateSymptom(ctx context.Context, req *model.CreateSymptomRequest) (*model.Symptom, error) {
	symptom := &model.Symptom{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.symptoms.Create(ctx, symptom); err != nil {
		return nil, apperrors.Storage(err)
	}
	s.recordEvent(ctx, model.EventSymptomCreated, symptom.ID)
	return symptom, nil
}

func (s *Service) GetSymptom(ctx context.Context, id uuid.UUID) (*model.Symptom, error) {
	symptom, err := s.symptoms.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("symptom", err)
		}
		return nil, apperrors.Storage(err)
	}
	return symptom, nil
}

func (s *Service) ListSymptoms(ctx context.Context, p model.Pagination) ([]model.Symptom, error) {
	p.Clamp()
	symptoms, err := s.symptoms.List(ctx, p)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return symptoms, nil
}

func (s *Service) UpdateSymptom(ctx context.Context, id uuid.UUID, req *model.UpdateSymptomRequest) (*model.Symptom, error) {
	symptom, err := s.GetSymptom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		symptom.Name = *req.Name
	}
	if req.Description != nil {
		symptom.Description = *req.Description
	}
	if req.Category != nil {
		symptom.Category = req.Category
	}

	if err := s.symptoms.Update(ctx, symptom); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("symptom", err)
		}
		return nil, apperrors.Storage(err)
	}
	s.recordEvent(ctx, model.EventSymptomUpdated, symptom.ID)
	return symptom, nil
}

func (s *Service) DeleteSymptom(ctx context.Context, id uuid.UUID) error {
	if err := s.symptoms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("symptom", err)
		}
		return apperrors.Storage(err)
	}
	s.recordEvent(ctx, model.EventSymptomDeleted, id)
	return nil
}

func (s *Service) recordEvent(ctx context.Context, eventType string, id uuid.UUID) {
	if s.outbox == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"id": id.String()})
	event := &model.OutboxEvent{EventType: eventType, Payload: payload}
	if err := s.outbox.Create(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to record outbox event")
	}
}
