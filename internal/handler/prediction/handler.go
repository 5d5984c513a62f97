package prediction

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mednex-health/mednex-api/internal/handler"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/service/extractor"
	"github.com/mednex-health/mednex-api/internal/service/matcher"
	"github.com/mednex-health/mednex-api/pkg/metrics"
)

// Handler serves the core symptom-to-disease flow: free-text extraction
// followed by catalog matching.
type Handler struct {
	matcher   *matcher.Service
	extractor *extractor.Service
	metrics   *metrics.Metrics
}

func NewHandler(matcherSvc *matcher.Service, extractorSvc *extractor.Service, m *metrics.Metrics) *Handler {
	return &Handler{
		matcher:   matcherSvc,
		extractor: extractorSvc,
		metrics:   m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/extract_symptoms", h.ExtractSymptoms)
	r.POST("/predict", h.Predict)
}

func (h *Handler) ExtractSymptoms(c *gin.Context) {
	var req model.ExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.extractor.Extract(c.Request.Context(), req.Text)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Predict(c *gin.Context) {
	var req model.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	start := time.Now()
	predictions, err := h.matcher.Predict(c.Request.Context(), req.Symptoms)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PredictionsTotal.Inc()
		if len(predictions) == 0 {
			h.metrics.PredictionsNoResult.Inc()
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.PredictionResponse{
		Diseases:       predictions,
		TotalSymptoms:  len(req.Symptoms),
		ProcessingTime: time.Since(start).Seconds(),
	}))
}
