package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
)

type symptomRepository struct {
	BaseRepository
}

func NewSymptomRepository(base BaseRepository) repository.SymptomRepository {
	return &symptomRepository{base}
}

func (r *symptomRepository) Create(ctx context.Context, symptom *model.Symptom) error {
	query := `
		INSERT INTO symptoms (
			id, name, description, category, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	if symptom.ID == uuid.Nil {
		symptom.ID = uuid.New()
	}
	symptom.CreatedAt = time.Now()
	symptom.UpdatedAt = symptom.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		symptom.ID,
		symptom.Name,
		symptom.Description,
		symptom.Category,
		symptom.CreatedAt,
		symptom.UpdatedAt,
	)
	return err
}

func (r *symptomRepository) Get(ctx context.Context, id uuid.UUID) (*model.Symptom, error) {
	var symptom model.Symptom
	if err := r.db.GetContext(ctx, &symptom, `SELECT * FROM symptoms WHERE id = $1`, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &symptom, nil
}

func (r *symptomRepository) List(ctx context.Context, p model.Pagination) ([]model.Symptom, error) {
	query := `
		SELECT * FROM symptoms
		ORDER BY name ASC
		OFFSET $1 LIMIT $2
	`

	symptoms := []model.Symptom{}
	if err := r.db.SelectContext(ctx, &symptoms, query, p.Offset, p.Limit); err != nil {
		return nil, err
	}
	return symptoms, nil
}

func (r *symptomRepository) Update(ctx context.Context, symptom *model.Symptom) error {
	query := `
		UPDATE symptoms SET
			name = $1,
			description = $2,
			category = $3,
			updated_at = $4
		WHERE id = $5
	`

	symptom.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		symptom.Name,
		symptom.Description,
		symptom.Category,
		symptom.UpdatedAt,
		symptom.ID,
	)
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

func (r *symptomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM symptoms WHERE id = $1`, id)
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
