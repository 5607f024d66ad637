package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
)

type BugHandler struct {
	bugService *services.BugService
}

func NewBugHandler(bugService *services.BugService) *BugHandler {
	return &BugHandler{bugService: bugService}
}

// List returns visible bugs, optionally narrowed by ?task_id and ?status.
func (h *BugHandler) List(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	taskID, ok := queryID(c, "task_id")
	if !ok {
		return
	}

	filter := repository.Filter{}
	if taskID != nil {
		filter["task_id"] = *taskID
	}
	if v := c.Query("status"); v != "" {
		status := models.BugStatus(v)
		if !status.Valid() {
			respondError(c, services.ErrInvalidBugStatus)
			return
		}
		filter["status"] = status
	}

	bugs, err := h.bugService.List(c.Request.Context(), vis, filter)
	respondList(c, "bugs", bugs, err, dto.ToBugDTO)
}

// ListByTask lists the bugs filed against the task in the path.
func (h *BugHandler) ListByTask(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	bugs, err := h.bugService.ListByTask(c.Request.Context(), vis, taskID)
	respondList(c, "bugs", bugs, err, dto.ToBugDTO)
}

func (h *BugHandler) Get(c *gin.Context) {
	getOwned[models.Bug](c, h.bugService, dto.ToBugDTO)
}

func (h *BugHandler) Create(c *gin.Context) {
	type CreateBugRequest struct {
		Title       string           `json:"title" binding:"required"`
		Description string           `json:"description"`
		Status      models.BugStatus `json:"status"`
		TaskID      *uint64          `json:"task_id"`
		ownerRequest
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	var req CreateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	bug, err := h.bugService.Create(c.Request.Context(), vis, services.CreateBugInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		TaskID:      req.TaskID,
		Owner:       req.input(),
	})
	respondRecord(c, http.StatusCreated, bug, err, dto.ToBugDTO)
}

func (h *BugHandler) Update(c *gin.Context) {
	type UpdateBugRequest struct {
		Title        *string           `json:"title"`
		Description  *string           `json:"description"`
		Status       *models.BugStatus `json:"status"`
		ResolvedDate optional[string]  `json:"resolved_date"`
		TaskID       optional[uint64]  `json:"task_id"`
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	resolved, ok := dateUpdate(c, req.ResolvedDate)
	if !ok {
		return
	}

	bug, err := h.bugService.Update(c.Request.Context(), vis, id, services.UpdateBugInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		ResolvedDate: resolved,
		TaskID:       idUpdate(req.TaskID),
	})
	respondRecord(c, http.StatusOK, bug, err, dto.ToBugDTO)
}

func (h *BugHandler) Delete(c *gin.Context) {
	deleteOwned[models.Bug](c, h.bugService)
}
