package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
)

// TimerHandler exposes the per-task session timer. The timer service applies
// the visibility scope itself, so these routes need no task middleware.
type TimerHandler struct {
	timerService *services.TimerService
}

func NewTimerHandler(timerService *services.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

// Start opens a session for the task.
func (h *TimerHandler) Start(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	session, err := h.timerService.StartTimer(c.Request.Context(), vis, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Stop closes the open session. Stopping an idle timer reports stopped=false.
func (h *TimerHandler) Stop(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.timerService.StopTimer(c.Request.Context(), vis, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TimerHandler) Status(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	status, err := h.timerService.Status(c.Request.Context(), vis, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *TimerHandler) Sessions(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.timerService.ListSessions(c.Request.Context(), vis, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
