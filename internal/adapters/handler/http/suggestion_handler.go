package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
	"github.com/comitanigiacomo/kanso-coach/internal/core/services"
)

type SuggestionHandler struct {
	svc *services.SuggestionService
}

func NewSuggestionHandler(svc *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{svc: svc}
}

type suggestionRequest struct {
	Goal string `json:"goal"`
}

type suggestionResponse struct {
	Habits []string `json:"habits"`
}

func (h *SuggestionHandler) RegisterRoutes(router *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(middlewares)+1)
	handlers = append(handlers, middlewares...)
	handlers = append(handlers, h.Suggest)

	router.POST("/suggestions", handlers...)
}

func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Goal is required"})
		return
	}

	habits, err := h.svc.Suggest(c.Request.Context(), req.Goal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGoalEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Goal is required"})
		case errors.Is(err, domain.ErrGoalTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": services.ErrSuggestionFailed.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, suggestionResponse{Habits: habits})
}
