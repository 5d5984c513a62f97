package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Disease severity tiers
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Disease is a reference catalog entry: a condition with the symptom set
// that defines it for overlap matching.
type Disease struct {
	Base
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Symptoms    pq.StringArray `json:"symptoms" db:"symptoms"`
	Treatment   string         `json:"treatment" db:"treatment"`
	Severity    string         `json:"severity" db:"severity"`
	Category    *string        `json:"category,omitempty" db:"category"`
	CreatedBy   *uuid.UUID     `json:"created_by,omitempty" db:"created_by"`
}

type CreateDiseaseRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Symptoms    []string `json:"symptoms" binding:"required,min=1"`
	Treatment   string   `json:"treatment" binding:"required"`
	Severity    string   `json:"severity" binding:"required,oneof=low medium high critical"`
	Category    *string  `json:"category"`
}

type UpdateDiseaseRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Symptoms    []string `json:"symptoms"`
	Treatment   *string  `json:"treatment"`
	Severity    *string  `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Category    *string  `json:"category"`
}
