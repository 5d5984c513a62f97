package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mednex-health/mednex-api/internal/model"
)

// ErrNotFound is returned when a row does not exist. Repositories never
// distinguish "absent" from "owned by someone else"; that mapping happens
// in the service layer.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, p model.Pagination) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DiseaseRepository interface {
	Create(ctx context.Context, disease *model.Disease) error
	Get(ctx context.Context, id uuid.UUID) (*model.Disease, error)
	List(ctx context.Context, p model.Pagination) ([]model.Disease, error)
	ListAll(ctx context.Context) ([]model.Disease, error)
	Update(ctx context.Context, disease *model.Disease) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SymptomRepository interface {
	Create(ctx context.Context, symptom *model.Symptom) error
	Get(ctx context.Context, id uuid.UUID) (*model.Symptom, error)
	List(ctx context.Context, p model.Pagination) ([]model.Symptom, error)
	Update(ctx context.Context, symptom *model.Symptom) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DiagnosisRepository persists history records. All lookups are scoped by
// user id so a caller can never reach another user's rows.
type DiagnosisRepository interface {
	Create(ctx context.Context, record *model.DiagnosisRecord) error
	Get(ctx context.Context, userID, id uuid.UUID) (*model.DiagnosisRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]model.DiagnosisRecord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Analytics(ctx context.Context, since time.Time) (*model.AdminAnalytics, error)
}

type ExplanationRepository interface {
	GetByTerm(ctx context.Context, term string) (*model.TermExplanation, error)
	Upsert(ctx context.Context, explanation *model.TermExplanation) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
	FetchPending(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}
