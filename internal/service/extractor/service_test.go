package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mednex-health/mednex-api/internal/model"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

func TestRuleBasedExtract(t *testing.T) {
	result := RuleBasedExtract("I have a terrible headache and a fever, plus some fever again")

	assert.Equal(t, []string{"fever", "headache"}, result.Symptoms)
	require.Len(t, result.Entities, 2)
	for _, entity := range result.Entities {
		assert.Equal(t, "SYMPTOM", entity.Label)
		assert.Equal(t, fallbackConfidence, entity.Confidence)
		assert.GreaterOrEqual(t, entity.Start, 0)
		assert.Greater(t, entity.End, entity.Start)
	}
	assert.Equal(t, fallbackConfidence, result.ConfidenceScores["headache"])
}

func TestRuleBasedExtractMultiWordSymptoms(t *testing.T) {
	result := RuleBasedExtract("shortness of breath and chest pain after climbing stairs")

	assert.Contains(t, result.Symptoms, "shortness of breath")
	assert.Contains(t, result.Symptoms, "chest pain")
}

func TestRuleBasedExtractNoMatches(t *testing.T) {
	result := RuleBasedExtract("I feel perfectly fine today")

	assert.Empty(t, result.Symptoms)
	assert.Empty(t, result.Entities)
}

func TestExtractRejectsEmptyText(t *testing.T) {
	svc := NewService(Config{})

	_, err := svc.Extract(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestExtractUsesNERService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "my head hurts", req.Text)

		json.NewEncoder(w).Encode(model.ExtractionResult{
			Symptoms: []string{"headache"},
			Entities: []model.ExtractionEntity{
				{Text: "head hurts", Label: "SYMPTOM", Confidence: 0.95, Start: 3, End: 13},
			},
			ConfidenceScores: map[string]float64{"headache": 0.95},
		})
	}))
	defer server.Close()

	svc := NewService(Config{ServiceURL: server.URL})

	result, err := svc.Extract(context.Background(), "my head hurts")
	require.NoError(t, err)
	assert.Equal(t, []string{"headache"}, result.Symptoms)
	assert.Equal(t, 0.95, result.ConfidenceScores["headache"])
}

func TestExtractFallsBackOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewService(Config{ServiceURL: server.URL})

	result, err := svc.Extract(context.Background(), "I have a cough")
	require.NoError(t, err)
	assert.Equal(t, []string{"cough"}, result.Symptoms)
}

func TestExtractWithoutServiceURLUsesRules(t *testing.T) {
	svc := NewService(Config{})

	result, err := svc.Extract(context.Background(), "nausea and dizziness all morning")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"nausea", "dizziness"}, result.Symptoms)
}
