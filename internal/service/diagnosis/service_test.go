package diagnosis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	apperrors "github.com/mednex-health/mednex-api/pkg/errors"
)

type fakeDiagnosisRepo struct {
	records []model.DiagnosisRecord
}

func (f *fakeDiagnosisRepo) Create(ctx context.Context, record *model.DiagnosisRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeDiagnosisRepo) Get(ctx context.Context, userID, id uuid.UUID) (*model.DiagnosisRecord, error) {
	for _, r := range f.records {
		if r.ID == id && r.UserID == userID {
			record := r
			return &record, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDiagnosisRepo) ListByUser(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]model.DiagnosisRecord, error) {
	out := []model.DiagnosisRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	// Newest first, mirroring the store's ordering.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if p.Offset < len(out) {
		out = out[p.Offset:]
	} else {
		out = []model.DiagnosisRecord{}
	}
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (f *fakeDiagnosisRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	for i, r := range f.records {
		if r.ID == id && r.UserID == userID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeDiagnosisRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, r := range f.records {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeDiagnosisRepo) Analytics(ctx context.Context, since time.Time) (*model.AdminAnalytics, error) {
	return &model.AdminAnalytics{TotalDiagnoses: len(f.records)}, nil
}

func identity(id uuid.UUID) model.Identity {
	return model.Identity{UserID: id, Email: "user@example.com", Role: model.RoleCustomer}
}

func saveRequest(symptoms ...string) *model.SaveDiagnosisRequest {
	return &model.SaveDiagnosisRequest{
		Symptoms: symptoms,
		PredictedDiseases: []model.Prediction{
			{Name: "Influenza", Confidence: 100, Severity: model.SeverityMedium},
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := &fakeDiagnosisRepo{}
	svc := NewService(repo)
	caller := identity(uuid.New())

	record, err := svc.Save(context.Background(), caller, saveRequest("fever", "cough"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, caller.UserID, record.UserID)

	got, err := svc.Get(context.Background(), caller, record.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"fever", "cough"}, got.Symptoms)
	assert.Equal(t, "Influenza", got.PredictedDiseases[0].Name)
}

func TestSaveRejectsAnonymousCaller(t *testing.T) {
	svc := NewService(&fakeDiagnosisRepo{})

	_, err := svc.Save(context.Background(), model.Identity{}, saveRequest("fever"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestSaveRejectsMismatchedUser(t *testing.T) {
	svc := NewService(&fakeDiagnosisRepo{})
	caller := identity(uuid.New())

	other := uuid.New()
	req := saveRequest("fever")
	req.UserID = &other

	_, err := svc.Save(context.Background(), caller, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestSaveRequiresSymptoms(t *testing.T) {
	svc := NewService(&fakeDiagnosisRepo{})
	caller := identity(uuid.New())

	req := saveRequest()
	_, err := svc.Save(context.Background(), caller, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGetForeignRecordLooksMissing(t *testing.T) {
	repo := &fakeDiagnosisRepo{}
	svc := NewService(repo)
	owner := identity(uuid.New())

	record, err := svc.Save(context.Background(), owner, saveRequest("fever"))
	require.NoError(t, err)

	intruder := identity(uuid.New())
	_, err = svc.Get(context.Background(), intruder, record.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	err = svc.Delete(context.Background(), intruder, record.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	// Record is untouched for the owner.
	_, err = svc.Get(context.Background(), owner, record.ID)
	assert.NoError(t, err)
}

func TestListNewestFirst(t *testing.T) {
	repo := &fakeDiagnosisRepo{}
	svc := NewService(repo)
	caller := identity(uuid.New())

	first, err := svc.Save(context.Background(), caller, saveRequest("fever"))
	require.NoError(t, err)
	second, err := svc.Save(context.Background(), caller, saveRequest("cough"))
	require.NoError(t, err)

	records, err := svc.List(context.Background(), caller, model.Pagination{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
}

func TestListIsScopedToCaller(t *testing.T) {
	repo := &fakeDiagnosisRepo{}
	svc := NewService(repo)
	alice := identity(uuid.New())
	bob := identity(uuid.New())

	_, err := svc.Save(context.Background(), alice, saveRequest("fever"))
	require.NoError(t, err)

	records, err := svc.List(context.Background(), bob, model.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStatistics(t *testing.T) {
	repo := &fakeDiagnosisRepo{}
	svc := NewService(repo)
	caller := identity(uuid.New())

	for i := 0; i < 3; i++ {
		_, err := svc.Save(context.Background(), caller, saveRequest("fever", "cough"))
		require.NoError(t, err)
	}
	_, err := svc.Save(context.Background(), caller, saveRequest("fever"))
	require.NoError(t, err)

	stats, err := svc.Statistics(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalDiagnoses)
	require.NotEmpty(t, stats.CommonSymptoms)
	assert.Equal(t, "fever", stats.CommonSymptoms[0].Name)
	assert.Equal(t, 4, stats.CommonSymptoms[0].Count)
	assert.Equal(t, "Influenza", stats.CommonDiseases[0].Name)
	assert.LessOrEqual(t, len(stats.RecentDiagnoses), 5)
	require.NotNil(t, stats.LastDiagnosisAt)
}
