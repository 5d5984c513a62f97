package explanation

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

type fakeExplanationRepo struct {
	entries map[string]*model.TermExplanation
	lookups int
}

func newFakeExplanationRepo() *fakeExplanationRepo {
	return &fakeExplanationRepo{entries: map[string]*model.TermExplanation{}}
}

func (f *fakeExplanationRepo) GetByTerm(ctx context.Context, term string) (*model.TermExplanation, error) {
	f.lookups++
	entry, ok := f.entries[term]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeExplanationRepo) Upsert(ctx context.Context, explanation *model.TermExplanation) error {
	copied := *explanation
	f.entries[explanation.Term] = &copied
	return nil
}

func TestExplainKnownTerm(t *testing.T) {
	repo := newFakeExplanationRepo()
	repo.entries["hypertension"] = &model.TermExplanation{
		Term:         "hypertension",
		Definition:   "Persistently elevated blood pressure.",
		Source:       "glossary",
		RelatedTerms: pq.StringArray{"blood pressure"},
	}
	svc := NewService(repo)

	result, err := svc.Explain(context.Background(), "  Hypertension ")
	require.NoError(t, err)
	assert.Equal(t, "hypertension", result.Term)
	assert.Equal(t, "glossary", result.Source)
	assert.Equal(t, pq.StringArray{"blood pressure"}, result.RelatedTerms)
}

func TestExplainUnknownTermGetsFallback(t *testing.T) {
	svc := NewService(newFakeExplanationRepo())

	result, err := svc.Explain(context.Background(), "borborygmi")
	require.NoError(t, err)
	assert.Equal(t, "borborygmi", result.Term)
	assert.Equal(t, fallbackSource, result.Source)
	assert.Contains(t, result.Definition, "borborygmi")
	assert.Empty(t, result.RelatedTerms)
}

func TestExplainRejectsEmptyTerm(t *testing.T) {
	svc := NewService(newFakeExplanationRepo())

	_, err := svc.Explain(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestExplainCachesLookups(t *testing.T) {
	repo := newFakeExplanationRepo()
	repo.entries["fever"] = &model.TermExplanation{
		Term:       "fever",
		Definition: "Elevated body temperature.",
		Source:     "glossary",
	}
	svc := NewService(repo)

	_, err := svc.Explain(context.Background(), "fever")
	require.NoError(t, err)
	_, err = svc.Explain(context.Background(), "fever")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lookups)
}

func TestUpsertInvalidatesCache(t *testing.T) {
	repo := newFakeExplanationRepo()
	repo.entries["fever"] = &model.TermExplanation{
		Term:       "fever",
		Definition: "Old definition.",
		Source:     "glossary",
	}
	svc := NewService(repo)

	_, err := svc.Explain(context.Background(), "fever")
	require.NoError(t, err)

	require.NoError(t, svc.Upsert(context.Background(), &model.TermExplanation{
		Term:       "Fever",
		Definition: "New definition.",
		Source:     "glossary",
	}))

	result, err := svc.Explain(context.Background(), "fever")
	require.NoError(t, err)
	assert.Equal(t, "New definition.", result.Definition)
}
