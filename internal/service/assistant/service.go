package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/service/extractor"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

const (
	maxHistoryTurns = 10

	systemPrompt = `You are a helpful medical assistant for a symptom checker application.
Help users describe their symptoms clearly. Ask clarifying questions about
duration, severity, and accompanying symptoms when the description is vague.
Never provide a definitive diagnosis; always recommend consulting a healthcare
professional for serious concerns. Keep responses concise and empathetic.`

	fallbackResponse = "I'm having trouble connecting right now. Please describe your " +
		"symptoms in the symptom checker, or try again in a moment."
)

// Service is the conversational layer over a hosted chat completion API.
type Service struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

type Config struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

func NewService(cfg Config) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		model:  cfg.Model,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Chat sends the conversation to the upstream model and enriches the reply
// with extracted symptoms and follow-up suggestions. Upstream failures
// degrade to a canned response so the UI never breaks mid-conversation.
func (s *Service) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.Validation("message cannot be empty", nil)
	}

	extraction := extractor.RuleBasedExtract(req.Message)

	reply, err := s.complete(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("chat completion failed, returning fallback response")
		return &model.ChatResponse{
			Response:           fallbackResponse,
			FollowUp:           false,
			SuggestedQuestions: suggestQuestions(extraction.Symptoms),
			ExtractedSymptoms:  extraction.Symptoms,
			Confidence:         0,
		}, nil
	}

	return &model.ChatResponse{
		Response:           reply,
		FollowUp:           isFollowUp(reply),
		SuggestedQuestions: suggestQuestions(extraction.Symptoms),
		ExtractedSymptoms:  extraction.Symptoms,
		Confidence:         extractionConfidence(extraction),
	}, nil
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

func (s *Service) complete(ctx context.Context, req *model.ChatRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("chat API key is not configured")
	}

	messages := []completionMessage{{Role: "system", Content: systemPrompt}}

	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, turn := range history {
		messages = append(messages, completionMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, completionMessage{Role: "user", Content: req.Message})

	body, err := json.Marshal(completionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", apperrors.Upstream("chat completion", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Upstream("chat completion",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", apperrors.Upstream("chat completion", err)
	}
	if len(completion.Choices) == 0 {
		return "", apperrors.Upstream("chat completion", fmt.Errorf("empty choices"))
	}
	return completion.Choices[0].Message.Content, nil
}

// isFollowUp reports whether the assistant is asking the user for more
// information rather than concluding.
func isFollowUp(reply string) bool {
	return strings.Contains(reply, "?")
}

func suggestQuestions(symptoms []string) []string {
	if len(symptoms) == 0 {
		return []string{
			"What symptoms are you experiencing?",
			"When did your symptoms start?",
			"How severe are your symptoms?",
		}
	}
	return []string{
		fmt.Sprintf("How long have you had %s?", symptoms[0]),
		"Are you experiencing any other symptoms?",
		"Would you like to run a symptom check with these symptoms?",
	}
}

func extractionConfidence(result *model.ExtractionResult) float64 {
	if len(result.ConfidenceScores) == 0 {
		return 0
	}
	var sum float64
	for _, score := range result.ConfidenceScores {
		sum += score
	}
	return sum / float64(len(result.ConfidenceScores))
}
