package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
)

type diagnosisRepository struct {
	BaseRepository
	outbox repository.OutboxRepository
}

func NewDiagnosisRepository(base BaseRepository, outbox repository.OutboxRepository) repository.DiagnosisRepository {
	return &diagnosisRepository{BaseRepository: base, outbox: outbox}
}

// Create inserts the record and its audit event in one transaction.
func (r *diagnosisRepository) Create(ctx context.Context, record *model.DiagnosisRecord) error {
	query := `
		INSERT INTO diagnosis_history (
			id, user_id, symptoms, predicted_diseases, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			record.ID,
			record.UserID,
			record.Symptoms,
			record.PredictedDiseases,
			record.CreatedAt,
		)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return r.outbox.CreateTx(ctx, tx, &model.OutboxEvent{
			EventType: model.EventDiagnosisSaved,
			Payload:   payload,
		})
	})
}

// Get scopes the lookup by owner so a foreign record id behaves exactly
// like a missing one.
func (r *diagnosisRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.DiagnosisRecord, error) {
	query := `
		SELECT * FROM diagnosis_history
		WHERE id = $1 AND user_id = $2
	`

	var record model.DiagnosisRecord
	if err := r.db.GetContext(ctx, &record, query, id, userID); err != nil {
		return nil, mapNoRows(err)
	}
	return &record, nil
}

func (r *diagnosisRepository) ListByUser(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]model.DiagnosisRecord, error) {
	query := `
		SELECT * FROM diagnosis_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	records := []model.DiagnosisRecord{}
	if err := r.db.SelectContext(ctx, &records, query, userID, p.Offset, p.Limit); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *diagnosisRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM diagnosis_history WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *diagnosisRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM diagnosis_history WHERE user_id = $1`, userID)
	return count, err
}

func (r *diagnosisRepository) Analytics(ctx context.Context, since time.Time) (*model.AdminAnalytics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_active) AS active_users,
			(SELECT COUNT(*) FROM diseases) AS total_diseases,
			(SELECT COUNT(*) FROM symptoms) AS total_symptoms,
			(SELECT COUNT(*) FROM diagnosis_history) AS total_diagnoses,
			(SELECT COUNT(*) FROM diagnosis_history WHERE created_at >= $1) AS diagnoses_last_7_days
	`

	var analytics model.AdminAnalytics
	if err := r.db.GetContext(ctx, &analytics, query, since); err != nil {
		return nil, err
	}
	return &analytics, nil
}
