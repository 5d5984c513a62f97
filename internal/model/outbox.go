package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Outbox event types
const (
	EventDiagnosisSaved   = "DIAGNOSIS_SAVED"
	EventDiagnosisDeleted = "DIAGNOSIS_DELETED"
	EventDiseaseCreated   = "DISEASE_CREATED"
	EventDiseaseUpdated   = "DISEASE_UPDATED"
	EventDiseaseDeleted   = "DISEASE_DELETED"
	EventSymptomCreated   = "SYMPTOM_CREATED"
	EventSymptomUpdated   = "SYMPTOM_UPDATED"
	EventSymptomDeleted   = "SYMPTOM_DELETED"
	EventUserRegistered   = "USER_REGISTERED"
	EventUserUpdated      = "USER_UPDATED"
	EventUserDeleted      = "USER_DELETED"
)

// Outbox event statuses
const (
	OutboxStatusPending   = "pending"
	OutboxStatusProcessed = "processed"
	OutboxStatusFailed    = "failed"
)

// OutboxEvent is an audit event persisted in the same transaction as the
// mutation it describes, published asynchronously by the worker.
type OutboxEvent struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	EventType   string          `json:"event_type" db:"event_type"`
	Payload     json.RawMessage `json:"payload" db:"payload"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty" db:"processed_at"`
}
