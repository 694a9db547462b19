package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-coach/internal/adapters/presenter"
	"github.com/comitanigiacomo/kanso-coach/internal/core/domain"
	"github.com/comitanigiacomo/kanso-coach/internal/core/services"
	"github.com/comitanigiacomo/kanso-coach/internal/core/workers"
)

type TrackerHandler struct {
	ctrl *services.TrackerController
	view *presenter.ViewPresenter
}

func NewTrackerHandler(ctrl *services.TrackerController, view *presenter.ViewPresenter) *TrackerHandler {
	return &TrackerHandler{
		ctrl: ctrl,
		view: view,
	}
}

type submitGoalRequest struct {
	Goal string `json:"goal"`
}

func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	tracker := router.Group("/tracker")
	{
		tracker.GET("/view", h.View)
		tracker.POST("/goal", h.SubmitGoal)
		tracker.POST("/habits/:index/toggle", h.Toggle)
		tracker.GET("/notifications", h.Notifications)
	}
}

func (h *TrackerHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, h.view.View())
}

func (h *TrackerHandler) SubmitGoal(c *gin.Context) {
	var req submitGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a goal!"})
		return
	}

	err := h.ctrl.SubmitGoal(c.Request.Context(), req.Goal)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGoalEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a goal!"})
		case errors.Is(err, domain.ErrGoalTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSubmitInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			respondLoopError(c, err)
		}
		return
	}

	c.JSON(http.StatusAccepted, h.view.View())
}

func (h *TrackerHandler) Toggle(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit index"})
		return
	}

	if _, err := h.ctrl.Toggle(c.Request.Context(), index); err != nil {
		if errors.Is(err, domain.ErrHabitIndexOutOfRange) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		respondLoopError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.view.View())
}

func (h *TrackerHandler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.view.DrainNotifications()})
}

func respondLoopError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, workers.ErrLoopStopped) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "tracker is shutting down"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
