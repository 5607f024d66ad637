package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/middleware"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the visible tasks matching the query filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}

	filter, ok := parseTaskFilter(c)
	if !ok {
		return
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), vis, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      dto.ToTaskDTOs(tasks),
		Pagination: filter.Pagination.Response(total),
	})
}

// GetTask returns the task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the caller
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title        string              `json:"title" binding:"required"`
		Description  string              `json:"description"`
		DueDate      *string             `json:"due_date"`
		Status       models.TaskStatus   `json:"status"`
		Category     string              `json:"category"`
		Priority     models.TaskPriority `json:"priority"`
		Recurrence   string              `json:"recurrence"`
		ParentTaskID *uint64             `json:"parent_task_id"`
		SprintID     *uint64             `json:"sprint_id"`
		ownerRequest
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dates, ok := dateRange(c, req.DueDate, nil)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), vis, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      dates.Start,
		Status:       req.Status,
		Category:     req.Category,
		Priority:     req.Priority,
		Recurrence:   req.Recurrence,
		ParentTaskID: req.ParentTaskID,
		SprintID:     req.SprintID,
		TeamID:       req.TeamID,
		Personal:     req.Personal,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies the fields present in the body. A null due_date,
// parent_task_id or sprint_id clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title        *string              `json:"title"`
		Description  *string              `json:"description"`
		Status       *models.TaskStatus   `json:"status"`
		Category     *string              `json:"category"`
		Priority     *models.TaskPriority `json:"priority"`
		Recurrence   *string              `json:"recurrence"`
		DueDate      optional[string]     `json:"due_date"`
		ParentTaskID optional[uint64]     `json:"parent_task_id"`
		SprintID     optional[uint64]     `json:"sprint_id"`
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	due, ok := dateUpdate(c, req.DueDate)
	if !ok {
		return
	}
	parent := idUpdate(req.ParentTaskID)
	sprint := idUpdate(req.SprintID)

	updated, err := h.taskService.UpdateTask(c.Request.Context(), vis, task.ID, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Category:     req.Category,
		Priority:     req.Priority,
		Recurrence:   req.Recurrence,
		DueDate:      due.Value,
		ClearDueDate: due.Clear,
		ParentTaskID: parent.Value,
		ClearParent:  parent.Clear,
		SprintID:     sprint.Value,
		ClearSprint:  sprint.Clear,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// CompleteTask marks a task Completed
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	h.transition(c, h.taskService.CompleteTask)
}

// ArchiveTask marks a task Archived
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	h.transition(c, h.taskService.ArchiveTask)
}

// DeleteTask deletes a task together with its sub-tasks and sessions
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), vis, task.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// DraftTasks proposes tasks from free text. Nothing is stored.
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	type DraftTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req DraftTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.DraftTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.TaskDraftDTO, len(drafts))
	for i, d := range drafts {
		out[i] = dto.TaskDraftDTO{
			Title:       d.Title,
			Description: d.Description,
			Priority:    d.Priority,
			Category:    d.Category,
		}
		if d.DueDate != nil {
			due := utils.FormatDate(d.DueDate)
			out[i].DueDate = &due
		}
	}
	c.JSON(http.StatusOK, gin.H{"drafts": out})
}

func (h *TaskHandler) transition(c *gin.Context, apply func(context.Context, visibility.Context, uint64) (*models.Task, error)) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	updated, err := apply(c.Request.Context(), vis, task.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

func taskFromContext(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(middleware.ContextKeyTask)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return nil, false
	}
	task, ok := value.(*models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return nil, false
	}
	return task, true
}

// parseTaskFilter reads the list filters from the query string.
func parseTaskFilter(c *gin.Context) (repository.TaskFilter, bool) {
	filter := repository.TaskFilter{
		Keyword:    strings.TrimSpace(c.Query("q")),
		SortActive: c.Query("sort") == "active",
		Pagination: utils.GetPaginationParams(c),
	}

	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		filter.Status = &status
	}
	if v := c.Query("exclude_completed"); v != "" {
		exclude, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid exclude_completed")
			return filter, false
		}
		filter.ExcludeCompleted = exclude
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		filter.Priority = &priority
	}

	ids := []struct {
		name   string
		target **uint64
	}{
		{"parent_task_id", &filter.ParentTaskID},
		{"sprint_id", &filter.SprintID},
		{"epic_id", &filter.EpicID},
		{"team_id", &filter.TeamID},
		{"assignee_id", &filter.AssigneeID},
	}
	for _, id := range ids {
		value, ok := queryID(c, id.name)
		if !ok {
			return filter, false
		}
		*id.target = value
	}

	var err error
	if filter.DueFrom, err = utils.ParseOptionalDate(c.Query("due_from")); err != nil {
		apierrors.BadRequest(c, "Invalid due_from: "+err.Error())
		return filter, false
	}
	if filter.DueTo, err = utils.ParseOptionalDate(c.Query("due_to")); err != nil {
		apierrors.BadRequest(c, "Invalid due_to: "+err.Error())
		return filter, false
	}

	return filter, true
}
