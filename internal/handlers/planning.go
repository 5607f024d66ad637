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

type EpicHandler struct {
	epicService   *services.EpicService
	sprintService *services.SprintService
}

func NewEpicHandler(epicService *services.EpicService, sprintService *services.SprintService) *EpicHandler {
	return &EpicHandler{
		epicService:   epicService,
		sprintService: sprintService,
	}
}

func (h *EpicHandler) List(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	epics, err := h.epicService.List(c.Request.Context(), vis, repository.Filter{})
	respondList(c, "epics", epics, err, dto.ToEpicDTO)
}

func (h *EpicHandler) Get(c *gin.Context) {
	getOwned[models.Epic](c, h.epicService, dto.ToEpicDTO)
}

func (h *EpicHandler) Create(c *gin.Context) {
	type CreateEpicRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		StartDate   *string `json:"start_date"`
		EndDate     *string `json:"end_date"`
		ownerRequest
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	var req CreateEpicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	dates, ok := dateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	epic, err := h.epicService.Create(c.Request.Context(), vis, services.CreateEpicInput{
		Name:        req.Name,
		Description: req.Description,
		Dates:       dates,
		Owner:       req.input(),
	})
	respondRecord(c, http.StatusCreated, epic, err, dto.ToEpicDTO)
}

func (h *EpicHandler) Update(c *gin.Context) {
	type UpdateEpicRequest struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		StartDate   optional[string] `json:"start_date"`
		EndDate     optional[string] `json:"end_date"`
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateEpicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	start, ok := dateUpdate(c, req.StartDate)
	if !ok {
		return
	}
	end, ok := dateUpdate(c, req.EndDate)
	if !ok {
		return
	}

	epic, err := h.epicService.Update(c.Request.Context(), vis, id, services.UpdateEpicInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	respondRecord(c, http.StatusOK, epic, err, dto.ToEpicDTO)
}

// Delete removes an epic; its sprints are detached, not deleted.
func (h *EpicHandler) Delete(c *gin.Context) {
	deleteOwned[models.Epic](c, h.epicService)
}

// Sprints lists the sprints of an epic.
func (h *EpicHandler) Sprints(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sprints, err := h.sprintService.ListByEpic(c.Request.Context(), vis, id)
	respondList(c, "sprints", sprints, err, dto.ToSprintDTO)
}

type SprintHandler struct {
	sprintService *services.SprintService
}

func NewSprintHandler(sprintService *services.SprintService) *SprintHandler {
	return &SprintHandler{sprintService: sprintService}
}

// List returns visible sprints, narrowed to one epic by ?epic_id.
func (h *SprintHandler) List(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	epicID, ok := queryID(c, "epic_id")
	if !ok {
		return
	}

	if epicID != nil {
		sprints, err := h.sprintService.ListByEpic(c.Request.Context(), vis, *epicID)
		respondList(c, "sprints", sprints, err, dto.ToSprintDTO)
		return
	}
	sprints, err := h.sprintService.List(c.Request.Context(), vis, repository.Filter{})
	respondList(c, "sprints", sprints, err, dto.ToSprintDTO)
}

func (h *SprintHandler) Get(c *gin.Context) {
	getOwned[models.Sprint](c, h.sprintService, dto.ToSprintDTO)
}

func (h *SprintHandler) Create(c *gin.Context) {
	type CreateSprintRequest struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		StartDate   *string `json:"start_date"`
		EndDate     *string `json:"end_date"`
		EpicID      *uint64 `json:"epic_id"`
		ownerRequest
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	dates, ok := dateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	sprint, err := h.sprintService.Create(c.Request.Context(), vis, services.CreateSprintInput{
		Title:       req.Title,
		Description: req.Description,
		Dates:       dates,
		EpicID:      req.EpicID,
		Owner:       req.input(),
	})
	respondRecord(c, http.StatusCreated, sprint, err, dto.ToSprintDTO)
}

func (h *SprintHandler) Update(c *gin.Context) {
	type UpdateSprintRequest struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		StartDate   optional[string] `json:"start_date"`
		EndDate     optional[string] `json:"end_date"`
		EpicID      optional[uint64] `json:"epic_id"`
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	start, ok := dateUpdate(c, req.StartDate)
	if !ok {
		return
	}
	end, ok := dateUpdate(c, req.EndDate)
	if !ok {
		return
	}

	sprint, err := h.sprintService.Update(c.Request.Context(), vis, id, services.UpdateSprintInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		EpicID:      idUpdate(req.EpicID),
	})
	respondRecord(c, http.StatusOK, sprint, err, dto.ToSprintDTO)
}

// Delete removes a sprint; its tasks are detached, not deleted.
func (h *SprintHandler) Delete(c *gin.Context) {
	deleteOwned[models.Sprint](c, h.sprintService)
}
