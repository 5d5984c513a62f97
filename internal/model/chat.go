package model

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Response           string   `json:"response"`
	FollowUp           bool     `json:"follow_up"`
	SuggestedQuestions []string `json:"suggested_questions"`
	ExtractedSymptoms  []string `json:"extracted_symptoms"`
	Confidence         float64  `json:"confidence"`
}

// Extraction is the NER result for a free-text symptom description.
type ExtractionEntity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
}

type ExtractionRequest struct {
	Text string `json:"text" binding:"required"`
}

type ExtractionResult struct {
	Symptoms         []string           `json:"symptoms"`
	Entities         []ExtractionEntity `json:"entities"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}
