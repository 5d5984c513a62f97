package explanation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mednex-health/mednex-api/internal/handler"
	"github.com/mednex-health/mednex-api/internal/service/explanation"
)

type Handler struct {
	svc *explanation.Service
}

func NewHandler(svc *explanation.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/explain/:term", h.Explain)
}

func (h *Handler) Explain(c *gin.Context) {
	result, err := h.svc.Explain(c.Request.Context(), c.Param("term"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
