package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mednex-health/mednex-api/internal/model"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

// Service extracts symptom mentions from free text. It calls a hosted NER
// service when one is configured and degrades to rule-based keyword
// matching otherwise.
type Service struct {
	serviceURL string
	client     *http.Client
}

type Config struct {
	ServiceURL string
	Timeout    time.Duration
}

func NewService(cfg Config) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		serviceURL: cfg.ServiceURL,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Extract returns the symptoms found in text. Upstream failures fall back
// to the rule-based extractor; they are never silently treated as success.
func (s *Service) Extract(ctx context.Context, text string) (*model.ExtractionResult, error) {
	if text == "" {
		return nil, apperrors.Validation("text input cannot be empty", nil)
	}

	if s.serviceURL == "" {
		return RuleBasedExtract(text), nil
	}

	result, err := s.callNER(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("NER service call failed, using rule-based extraction")
		return RuleBasedExtract(text), nil
	}
	return result, nil
}

type nerRequest struct {
	Text string `json:"text"`
}

func (s *Service) callNER(ctx context.Context, text string) (*model.ExtractionResult, error) {
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serviceURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("symptom extraction", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream("symptom extraction",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var result model.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Upstream("symptom extraction", err)
	}
	return &result, nil
}

const fallbackConfidence = 0.7

var symptomPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:pain|ache|fever|cough|headache|nausea|fatigue|dizziness)\b`),
	regexp.MustCompile(`\b(?:swelling|rash|burning|tingling|numbness|weakness)\b`),
	regexp.MustCompile(`\b(?:vomiting|diarrhea|sore throat|runny nose|sneezing|chills)\b`),
	regexp.MustCompile(`\b(?:shortness of breath|difficulty breathing|chest pain|wheezing)\b`),
	regexp.MustCompile(`\b(?:insomnia|anxiety|stomach pain|back pain|joint pain|muscle aches?)\b`),
}

// RuleBasedExtract is the keyword fallback used when no NER service is
// reachable.
func RuleBasedExtract(text string) *model.ExtractionResult {
	lower := strings.ToLower(text)

	seen := map[string]bool{}
	symptoms := []string{}
	for _, pattern := range symptomPatterns {
		for _, match := range pattern.FindAllString(lower, -1) {
			if !seen[match] {
				seen[match] = true
				symptoms = append(symptoms, match)
			}
		}
	}
	sort.Strings(symptoms)

	entities := make([]model.ExtractionEntity, 0, len(symptoms))
	scores := make(map[string]float64, len(symptoms))
	for _, symptom := range symptoms {
		idx := strings.Index(lower, symptom)
		entities = append(entities, model.ExtractionEntity{
			Text:       symptom,
			Label:      "SYMPTOM",
			Confidence: fallbackConfidence,
			Start:      idx,
			End:        idx + len(symptom),
		})
		scores[symptom] = fallbackConfidence
	}

	return &model.ExtractionResult{
		Symptoms:         symptoms,
		Entities:         entities,
		ConfidenceScores: scores,
	}
}
