package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
)

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(base BaseRepository) repository.OutboxRepository {
	return &outboxRepository{base}
}

const outboxInsert = `
	INSERT INTO outbox_events (
		id, event_type, payload, status, created_at
	) VALUES ($1, $2, $3, $4, $5)
`

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	prepareOutboxEvent(event)
	_, err := r.db.ExecContext(ctx, outboxInsert,
		event.ID, event.EventType, event.Payload, event.Status, event.CreatedAt)
	return err
}

// CreateTx enqueues an event inside the caller's transaction so the event
// exists if and only if the mutation committed.
func (r *outboxRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	prepareOutboxEvent(event)
	_, err := tx.ExecContext(ctx, outboxInsert,
		event.ID, event.EventType, event.Payload, event.Status, event.CreatedAt)
	return err
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	query := `
		SELECT * FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	events := []model.OutboxEvent{}
	if err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return r.markStatus(ctx, id, model.OutboxStatusProcessed)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return r.markStatus(ctx, id, model.OutboxStatusFailed)
}

func (r *outboxRepository) markStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE outbox_events SET status = $1, processed_at = $2 WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func prepareOutboxEvent(event *model.OutboxEvent) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.OutboxStatusPending
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
}
