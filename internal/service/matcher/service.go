package matcher

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

const (
	catalogCacheKey = "disease_catalog"
	catalogCacheTTL = 5 * time.Minute
	maxPredictions  = 5
)

// Service ranks candidate diseases by symptom overlap against the
// reference catalog.
type Service struct {
	diseases repository.DiseaseRepository
	cache    *cache.Cache
}

func NewService(diseases repository.DiseaseRepository) *Service {
	return &Service{
		diseases: diseases,
		cache:    cache.New(catalogCacheTTL, 2*catalogCacheTTL),
	}
}

// Predict scores the reported symptoms against the catalog and returns the
// top candidates. An input with no usable symptoms yields an empty result.
func (s *Service) Predict(ctx context.Context, symptoms []string) ([]model.Prediction, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("failed to load disease catalog: %w", err))
	}

	predictions := Match(symptoms, catalog)
	if len(predictions) > maxPredictions {
		predictions = predictions[:maxPredictions]
	}
	return predictions, nil
}

func (s *Service) catalog(ctx context.Context) ([]model.Disease, error) {
	if cached, found := s.cache.Get(catalogCacheKey); found {
		return cached.([]model.Disease), nil
	}

	catalog, err := s.diseases.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(catalogCacheKey, catalog, cache.DefaultExpiration)
	return catalog, nil
}

// Match is the pure scoring function: for each disease, confidence is the
// fraction of its defining symptoms present in the input, as a percentage
// rounded to two decimals. Zero-overlap diseases are excluded. Results are
// sorted by confidence descending, ties broken by disease name ascending.
func Match(reported []string, catalog []model.Disease) []model.Prediction {
	input := normalizeSet(reported)
	if len(input) == 0 {
		return []model.Prediction{}
	}

	predictions := []model.Prediction{}
	for _, disease := range catalog {
		defining := normalizeList(disease.Symptoms)
		if len(defining) == 0 {
			continue
		}

		matching := []string{}
		for _, symptom := range defining {
			if input[symptom] {
				matching = append(matching, symptom)
			}
		}
		if len(matching) == 0 {
			continue
		}

		confidence := float64(len(matching)) / float64(len(defining)) * 100
		confidence = math.Round(confidence*100) / 100

		predictions = append(predictions, model.Prediction{
			Name:             disease.Name,
			Confidence:       confidence,
			Description:      disease.Description,
			Treatment:        disease.Treatment,
			Severity:         disease.Severity,
			MatchingSymptoms: matching,
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		if predictions[i].Confidence != predictions[j].Confidence {
			return predictions[i].Confidence > predictions[j].Confidence
		}
		return predictions[i].Name < predictions[j].Name
	})

	return predictions
}

// Normalize lower-cases and trims a reported symptom.
func Normalize(symptom string) string {
	return strings.ToLower(strings.TrimSpace(symptom))
}

func normalizeSet(symptoms []string) map[string]bool {
	set := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		if n := Normalize(s); n != "" {
			set[n] = true
		}
	}
	return set
}

func normalizeList(symptoms []string) []string {
	seen := make(map[string]bool, len(symptoms))
	out := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		n := Normalize(s)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
