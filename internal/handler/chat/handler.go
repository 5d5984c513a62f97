package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mednex-health/mednex-api/internal/handler"
	"github.com/mednex-health/mednex-api/internal/model"
	"github.com/mednex-health/mednex-api/internal/service/assistant"
)

type Handler struct {
	svc *assistant.Service
}

func NewHandler(svc *assistant.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)
}

func (h *Handler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	response, err := h.svc.Chat(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(response))
}
