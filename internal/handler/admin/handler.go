package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mednex-health/mednex-api/internal/handler"
	"github.com/mednex-health/mednex-api/internal/middleware"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/service/catalog"
	"github.com/mednex-health/mednex-api/internal/service/diagnosis"
	"github.com/mednex-health/mednex-api/internal/service/user"
)

// Handler is the admin surface: account management, the disease and
// symptom reference catalog, and system analytics.
type Handler struct {
	users     *user.Service
	catalog   *catalog.Service
	diagnoses *diagnosis.Service
}

func NewHandler(users *user.Service, catalogSvc *catalog.Service, diagnoses *diagnosis.Service) *Handler {
	return &Handler{
		users:     users,
		catalog:   catalogSvc,
		diagnoses: diagnoses,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.PUT("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)

	r.POST("/diseases", h.CreateDisease)
	r.GET("/diseases", h.ListDiseases)
	r.GET("/diseases/:id", h.GetDisease)
	r.PUT("/diseases/:id", h.UpdateDisease)
	r.DELETE("/diseases/:id", h.DeleteDisease)

	r.POST("/symptoms", h.CreateSymptom)
	r.GET("/symptoms", h.ListSymptoms)
	r.GET("/symptoms/:id", h.GetSymptom)
	r.PUT("/symptoms/:id", h.UpdateSymptom)
	r.DELETE("/symptoms/:id", h.DeleteSymptom)

	r.GET("/analytics", h.Analytics)
	r.GET("/analytics/overview", h.Analytics)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func bindPagination(c *gin.Context) (model.Pagination, bool) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return p, false
	}
	return p, true
}

func (h *Handler) ListUsers(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	users, err := h.users.List(c.Request.Context(), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	u, err := h.users.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateDisease(c *gin.Context) {
	var req model.CreateDiseaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	var createdBy uuid.UUID
	if identity, ok := middleware.IdentityFromContext(c); ok {
		createdBy = identity.UserID
	}

	disease, err := h.catalog.CreateDisease(c.Request.Context(), &req, createdBy)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(disease))
}

func (h *Handler) ListDiseases(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	diseases, err := h.catalog.ListDiseases(c.Request.Context(), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(diseases))
}

func (h *Handler) GetDisease(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	disease, err := h.catalog.GetDisease(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(disease))
}

func (h *Handler) UpdateDisease(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateDiseaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	disease, err := h.catalog.UpdateDisease(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(disease))
}

func (h *Handler) DeleteDisease(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteDisease(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateSymptom(c *gin.Context) {
	var req model.CreateSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	symptom, err := h.catalog.CreateSymptom(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(symptom))
}

func (h *Handler) ListSymptoms(c *gin.Context) {
	p, ok := bindPagination(c)
	if !ok {
		return
	}

	symptoms, err := h.catalog.ListSymptoms(c.Request.Context(), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(symptoms))
}

func (h *Handler) GetSymptom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	symptom, err := h.catalog.GetSymptom(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(symptom))
}

func (h *Handler) UpdateSymptom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	symptom, err := h.catalog.UpdateSymptom(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(symptom))
}

func (h *Handler) DeleteSymptom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteSymptom(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.diagnoses.Analytics(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(analytics))
}
