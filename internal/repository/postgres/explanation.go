package postgres

import (
	"context"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
)

type explanationRepository struct {
	BaseRepository
}

func NewExplanationRepository(base BaseRepository) repository.ExplanationRepository {
	return &explanationRepository{base}
}

func (r *explanationRepository) GetByTerm(ctx context.Context, term string) (*model.TermExplanation, error) {
	query := `
		SELECT term, definition, source, related_terms
		FROM term_explanations
		WHERE term = $1
	`

	var explanation model.TermExplanation
	if err := r.db.GetContext(ctx, &explanation, query, term); err != nil {
		return nil, mapNoRows(err)
	}
	return &explanation, nil
}

func (r *explanationRepository) Upsert(ctx context.Context, explanation *model.TermExplanation) error {
	query := `
		INSERT INTO term_explanations (term, definition, source, related_terms)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (term) DO UPDATE SET
			definition = EXCLUDED.definition,
			source = EXCLUDED.source,
			related_terms = EXCLUDED.related_terms
	`
	_, err := r.db.ExecContext(ctx, query,
		explanation.Term,
		explanation.Definition,
		explanation.Source,
		explanation.RelatedTerms,
	)
	return err
}
