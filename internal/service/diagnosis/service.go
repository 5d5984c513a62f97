package diagnosis

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

const recentDiagnosesLimit = 5

// Service is the history store: append-only diagnosis records with strict
// per-user isolation.
type Service struct {
	records repository.DiagnosisRepository
}

func NewService(records repository.DiagnosisRepository) *Service {
	return &Service{records: records}
}

// Save persists a diagnosis result for the caller. A request targeting a
// different user than the authenticated caller is rejected outright.
func (s *Service) Save(ctx context.Context, caller model.Identity, req *model.SaveDiagnosisRequest) (*model.DiagnosisRecord, error) {
	if caller.UserID == uuid.Nil {
		return nil, apperrors.Unauthorized("authentication required", nil)
	}
	if req.UserID != nil && *req.UserID != caller.UserID {
		return nil, apperrors.Forbidden("cannot save diagnosis for another user", nil)
	}
	if len(req.Symptoms) == 0 {
		return nil, apperrors.Validation("at least one symptom is required", nil)
	}

	record := &model.DiagnosisRecord{
		UserID:            caller.UserID,
		Symptoms:          pq.StringArray(req.Symptoms),
		PredictedDiseases: req.PredictedDiseases,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, apperrors.Storage(err)
	}
	return record, nil
}

// List returns the caller's records, newest first.
func (s *Service) List(ctx context.Context, caller model.Identity, p model.Pagination) ([]model.DiagnosisRecord, error) {
	p.Clamp()
	records, err := s.records.ListByUser(ctx, caller.UserID, p)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return records, nil
}

// Get fetches one record. A record owned by another user is reported as
// missing; the two cases are indistinguishable to the caller.
func (s *Service) Get(ctx context.Context, caller model.Identity, id uuid.UUID) (*model.DiagnosisRecord, error) {
	record, err := s.records.Get(ctx, caller.UserID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("diagnosis record", err)
		}
		return nil, apperrors.Storage(err)
	}
	return record, nil
}

// Delete removes one record under the same ownership rule as Get.
func (s *Service) Delete(ctx context.Context, caller model.Identity, id uuid.UUID) error {
	if err := s.records.Delete(ctx, caller.UserID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("diagnosis record", err)
		}
		return apperrors.Storage(err)
	}
	return nil
}

// Statistics summarizes the caller's history: totals, most reported
// symptoms, most predicted diseases, and the most recent records.
func (s *Service) Statistics(ctx context.Context, caller model.Identity) (*model.UserStatistics, error) {
	total, err := s.records.CountByUser(ctx, caller.UserID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	recent, err := s.records.ListByUser(ctx, caller.UserID, model.Pagination{Limit: model.MaxPageSize})
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	stats := &model.UserStatistics{
		TotalDiagnoses:  total,
		CommonSymptoms:  topCounts(recent, func(r model.DiagnosisRecord) []string { return r.Symptoms }),
		CommonDiseases:  topCounts(recent, diseaseNames),
		RecentDiagnoses: recent,
	}
	if len(stats.RecentDiagnoses) > recentDiagnosesLimit {
		stats.RecentDiagnoses = stats.RecentDiagnoses[:recentDiagnosesLimit]
	}
	if len(recent) > 0 {
		stats.LastDiagnosisAt = &recent[0].CreatedAt
	}
	return stats, nil
}

// Analytics is the admin-only overview across all collections.
func (s *Service) Analytics(ctx context.Context) (*model.AdminAnalytics, error) {
	analytics, err := s.records.Analytics(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return analytics, nil
}

func diseaseNames(r model.DiagnosisRecord) []string {
	names := make([]string, 0, len(r.PredictedDiseases))
	for _, p := range r.PredictedDiseases {
		names = append(names, p.Name)
	}
	return names
}

func topCounts(records []model.DiagnosisRecord, extract func(model.DiagnosisRecord) []string) []model.NameCount {
	counts := map[string]int{}
	for _, record := range records {
		for _, name := range extract(record) {
			counts[name]++
		}
	}

	out := make([]model.NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, model.NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > recentDiagnosesLimit {
		out = out[:recentDiagnosesLimit]
	}
	return out
}
