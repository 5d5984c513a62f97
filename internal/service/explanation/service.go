package explanation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

const (
	explanationCacheTTL = time.Hour
	fallbackSource      = "system"
)

// Service resolves medical term definitions from the glossary store, with
// an in-process cache in front of it.
type Service struct {
	explanations repository.ExplanationRepository
	cache        *cache.Cache
}

func NewService(explanations repository.ExplanationRepository) *Service {
	return &Service{
		explanations: explanations,
		cache:        cache.New(explanationCacheTTL, 2*explanationCacheTTL),
	}
}

// Explain looks a term up in the glossary. Unknown terms get a generic
// definition rather than an error so the UI can always show something.
func (s *Service) Explain(ctx context.Context, term string) (*model.TermExplanation, error) {
	clean := strings.ToLower(strings.TrimSpace(term))
	if clean == "" {
		return nil, apperrors.Validation("term cannot be empty", nil)
	}

	if cached, found := s.cache.Get(clean); found {
		return cached.(*model.TermExplanation), nil
	}

	explanation, err := s.explanations.GetByTerm(ctx, clean)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("term", clean).Msg("glossary lookup failed, serving fallback")
		}
		explanation = &model.TermExplanation{
			Term:         clean,
			Definition:   fmt.Sprintf("Medical term: %s. Please consult healthcare professionals for detailed information.", clean),
			Source:       fallbackSource,
			RelatedTerms: pq.StringArray{},
		}
	}

	s.cache.Set(clean, explanation, cache.DefaultExpiration)
	return explanation, nil
}

// Upsert stores or replaces a glossary entry and invalidates its cache
// slot.
func (s *Service) Upsert(ctx context.Context, explanation *model.TermExplanation) error {
	explanation.Term = strings.ToLower(strings.TrimSpace(explanation.Term))
	if explanation.Term == "" {
		return apperrors.Validation("term cannot be empty", nil)
	}
	if err := s.explanations.Upsert(ctx, explanation); err != nil {
		return apperrors.Storage(err)
	}
	s.cache.Delete(explanation.Term)
	return nil
}
