package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mednex-health/mednex-api/internal/middleware"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/repository"
	diagnosissvc "github.com/mednex-health/mednex-api/internal/service/diagnosis"
)

type memoryRepo struct {
	records []model.DiagnosisRecord
}

func (f *memoryRepo) Create(ctx context.Context, record *model.DiagnosisRecord) error {
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	f.records = append(f.records, *record)
	return nil
}

func (f *memoryRepo) Get(ctx context.Context, userID, id uuid.UUID) (*model.DiagnosisRecord, error) {
	for _, r := range f.records {
		if r.ID == id && r.UserID == userID {
			record := r
			return &record, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *memoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]model.DiagnosisRecord, error) {
	out := []model.DiagnosisRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *memoryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	for i, r := range f.records {
		if r.ID == id && r.UserID == userID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *memoryRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return len(f.records), nil
}

func (f *memoryRepo) Analytics(ctx context.Context, since time.Time) (*model.AdminAnalytics, error) {
	return &model.AdminAnalytics{}, nil
}

// testServer wires the handler behind a stub authenticator that injects
// the given identity, mirroring the production middleware contract.
func testServer(repo *memoryRepo, identity *model.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(diagnosissvc.NewService(repo))

	r := gin.New()
	customer := r.Group("/api/customer")
	customer.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(middleware.ContextIdentity, *identity)
		}
		c.Next()
	})
	h.RegisterRoutes(customer)
	return r
}

func saveBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(model.SaveDiagnosisRequest{
		Symptoms: []string{"fever", "cough"},
		PredictedDiseases: []model.Prediction{
			{Name: "Influenza", Confidence: 100, Severity: model.SeverityMedium},
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestSaveDiagnosisRequiresIdentity(t *testing.T) {
	r := testServer(&memoryRepo{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/customer/save-diagnosis", saveBody(t))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveAndListDiagnosis(t *testing.T) {
	repo := &memoryRepo{}
	identity := &model.Identity{UserID: uuid.New(), Email: "alice@example.com", Role: model.RoleCustomer}
	r := testServer(repo, identity)

	req := httptest.NewRequest(http.MethodPost, "/api/customer/save-diagnosis", saveBody(t))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/customer/diagnosis-history", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Influenza")
}

func TestForeignRecordReturnsNotFound(t *testing.T) {
	repo := &memoryRepo{}
	owner := uuid.New()
	repo.records = append(repo.records, model.DiagnosisRecord{
		ID:        uuid.New(),
		UserID:    owner,
		Symptoms:  []string{"fever"},
		CreatedAt: time.Now(),
	})

	intruder := &model.Identity{UserID: uuid.New(), Email: "mallory@example.com", Role: model.RoleCustomer}
	r := testServer(repo, intruder)

	req := httptest.NewRequest(http.MethodGet, "/api/customer/diagnosis-history/"+repo.records[0].ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/customer/diagnosis-history/"+repo.records[0].ID.String(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner's record is untouched.
	assert.Len(t, repo.records, 1)
}

func TestInvalidDiagnosisID(t *testing.T) {
	identity := &model.Identity{UserID: uuid.New(), Role: model.RoleCustomer}
	r := testServer(&memoryRepo{}, identity)

	req := httptest.NewRequest(http.MethodGet, "/api/customer/diagnosis-history/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
