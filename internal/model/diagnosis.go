package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Prediction is one ranked disease candidate produced by the matcher.
type Prediction struct {
	Name             string   `json:"name"`
	Confidence       float64  `json:"confidence"`
	Description      string   `json:"description"`
	Treatment        string   `json:"treatment"`
	Severity         string   `json:"severity"`
	MatchingSymptoms []string `json:"matching_symptoms"`
}

// PredictionList is stored as a JSONB snapshot on diagnosis records.
type PredictionList []Prediction

func (p PredictionList) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal([]Prediction{})
	}
	return json.Marshal(p)
}

func (p *PredictionList) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for PredictionList: %T", src)
	}
	return json.Unmarshal(b, p)
}

// PredictionRequest carries reported symptoms into the matcher.
type PredictionRequest struct {
	Symptoms []string `json:"symptoms" binding:"required,min=1"`
}

// PredictionResponse is the matcher output served to clients.
type PredictionResponse struct {
	Diseases       []Prediction `json:"diseases"`
	TotalSymptoms  int          `json:"total_symptoms"`
	ProcessingTime float64      `json:"processing_time"`
}

// DiagnosisRecord is an immutable history entry: the symptoms a user
// reported and the predictions returned at diagnosis time.
type DiagnosisRecord struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	UserID            uuid.UUID      `json:"user_id" db:"user_id"`
	Symptoms          pq.StringArray `json:"symptoms" db:"symptoms"`
	PredictedDiseases PredictionList `json:"predicted_diseases" db:"predicted_diseases"`
	CreatedAt         time.Time      `json:"timestamp" db:"created_at"`
}

// SaveDiagnosisRequest carries a diagnosis result into history. UserID is
// optional; when present it must match the authenticated caller.
type SaveDiagnosisRequest struct {
	UserID            *uuid.UUID   `json:"user_id"`
	Symptoms          []string     `json:"symptoms" binding:"required,min=1"`
	PredictedDiseases []Prediction `json:"predicted_diseases" binding:"required"`
}

// UserStatistics summarizes a user's diagnosis history.
type UserStatistics struct {
	TotalDiagnoses  int               `json:"total_diagnoses"`
	CommonSymptoms  []NameCount       `json:"common_symptoms"`
	CommonDiseases  []NameCount       `json:"common_diseases"`
	LastDiagnosisAt *time.Time        `json:"last_diagnosis_at,omitempty"`
	RecentDiagnoses []DiagnosisRecord `json:"recent_diagnoses"`
}

// AdminAnalytics is the cross-collection overview served to admins.
type AdminAnalytics struct {
	TotalUsers      int `json:"total_users" db:"total_users"`
	ActiveUsers     int `json:"active_users" db:"active_users"`
	TotalDiseases   int `json:"total_diseases" db:"total_diseases"`
	TotalSymptoms   int `json:"total_symptoms" db:"total_symptoms"`
	TotalDiagnoses  int `json:"total_diagnoses" db:"total_diagnoses"`
	DiagnosesLast7d int `json:"diagnoses_last_7_days" db:"diagnoses_last_7_days"`
}

// NameCount pairs a label with an occurrence count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
