package diagnosis

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mednex-health/mednex-api/internal/handler"
	"github.com/mednex-health/mednex-api/internal/middleware"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/service/diagnosis"
)

// Handler serves the customer diagnosis-history surface. Every route
// operates strictly on the authenticated caller's own records.
type Handler struct {
	svc *diagnosis.Service
}

func NewHandler(svc *diagnosis.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/diagnosis-history", h.ListHistory)
	r.POST("/save-diagnosis", h.SaveDiagnosis)
	r.GET("/diagnosis-history/:id", h.GetDiagnosis)
	r.DELETE("/diagnosis-history/:id", h.DeleteDiagnosis)
	r.GET("/statistics", h.Statistics)
}

func (h *Handler) ListHistory(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	records, err := h.svc.List(c.Request.Context(), identity, p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) SaveDiagnosis(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.SaveDiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	record, err := h.svc.Save(c.Request.Context(), identity, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

func (h *Handler) GetDiagnosis(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid diagnosis id"))
		return
	}

	record, err := h.svc.Get(c.Request.Context(), identity, id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func (h *Handler) DeleteDiagnosis(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid diagnosis id"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity, id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Statistics(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	stats, err := h.svc.Statistics(c.Request.Context(), identity)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
