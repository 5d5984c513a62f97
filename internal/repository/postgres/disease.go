package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
)

type diseaseRepository struct {
	BaseRepository
}

func NewDiseaseRepository(base BaseRepository) repository.DiseaseRepository {
	return &diseaseRepository{base}
}

func (r *diseaseRepository) Create(ctx context.Context, disease *model.Disease) error {
	query := `
		INSERT INTO diseases (
			id, name, description, symptoms, treatment, severity, category,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if disease.ID == uuid.Nil {
		disease.ID = uuid.New()
	}
	disease.CreatedAt = time.Now()
	disease.UpdatedAt = disease.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		disease.ID,
		disease.Name,
		disease.Description,
		disease.Symptoms,
		disease.Treatment,
		disease.Severity,
		disease.Category,
		disease.CreatedBy,
		disease.CreatedAt,
		disease.UpdatedAt,
	)
	return err
}

func (r *diseaseRepository) Get(ctx context.Context, id uuid.UUID) (*model.Disease, error) {
	var disease model.Disease
	if err := r.db.GetContext(ctx, &disease, `SELECT * FROM diseases WHERE id = $1`, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &disease, nil
}

func (r *diseaseRepository) List(ctx context.Context, p model.Pagination) ([]model.Disease, error) {
	query := `
		SELECT * FROM diseases
		ORDER BY name ASC
		OFFSET $1 LIMIT $2
	`

	diseases := []model.Disease{}
	if err := r.db.SelectContext(ctx, &diseases, query, p.Offset, p.Limit); err != nil {
		return nil, err
	}
	return diseases, nil
}

// ListAll returns the full reference catalog in stable name order, the
// matcher's input.
func (r *diseaseRepository) ListAll(ctx context.Context) ([]model.Disease, error) {
	diseases := []model.Disease{}
	if err := r.db.SelectContext(ctx, &diseases, `SELECT * FROM diseases ORDER BY name ASC`); err != nil {
		return nil, err
	}
	return diseases, nil
}

func (r *diseaseRepository) Update(ctx context.Context, disease *model.Disease) error {
	query := `
		UPDATE diseases SET
			name = $1,
			description = $2,
			symptoms = $3,
			treatment = $4,
			severity = $5,
			category = $6,
			updated_at = $7
		WHERE id = $8
	`

	disease.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		disease.Name,
		disease.Description,
		disease.Symptoms,
		disease.Treatment,
		disease.Severity,
		disease.Category,
		disease.UpdatedAt,
		disease.ID,
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

func (r *diseaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM diseases WHERE id = $1`, id)
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
