package services

import (
	"context"
	"strings"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// maxAncestorDepth bounds the parent walk used for cycle detection.
const maxAncestorDepth = 64

// TaskService handles task business logic
type TaskService struct {
	taskRepo   repository.TaskRepository
	teamRepo   repository.TeamRepository
	sprintRepo repository.OwnedRepository[models.Sprint]
	drafter    Drafter
}

// NewTaskService creates a new TaskService. drafter may be nil.
func NewTaskService(taskRepo repository.TaskRepository, teamRepo repository.TeamRepository, sprintRepo repository.OwnedRepository[models.Sprint], drafter Drafter) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		teamRepo:   teamRepo,
		sprintRepo: sprintRepo,
		drafter:    drafter,
	}
}

// CreateTaskInput represents input for creating a task. TeamID selects an
// explicit owning team; Personal creates the task with no team.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      *time.Time
	Status       models.TaskStatus
	Category     string
	Priority     models.TaskPriority
	Recurrence   string
	ParentTaskID *uint64
	SprintID     *uint64
	TeamID       *uint64
	Personal     bool
}

// UpdateTaskInput represents a field-level task update. Nil fields are left
// unchanged; the Clear flags set the matching nullable column to NULL.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Category     *string
	Priority     *models.TaskPriority
	Recurrence   *string
	DueDate      *time.Time
	ClearDueDate bool
	ParentTaskID *uint64
	ClearParent  bool
	SprintID     *uint64
	ClearSprint  bool
}

// ListTasks returns the visible tasks matching filter and the total count
// before pagination.
func (s *TaskService) ListTasks(ctx context.Context, vis visibility.Context, filter repository.TaskFilter) ([]models.Task, int64, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, 0, ErrInvalidPriority
	}
	if filter.DueFrom != nil && filter.DueTo != nil && filter.DueFrom.After(*filter.DueTo) {
		return nil, 0, ErrInvalidDateRange
	}

	tasks, total, err := s.taskRepo.List(ctx, vis, filter)
	if err != nil {
		return nil, 0, storeError("list tasks", err)
	}
	return tasks, total, nil
}

// ListActiveTasks returns every non-completed task in active order.
func (s *TaskService) ListActiveTasks(ctx context.Context, vis visibility.Context) ([]models.Task, error) {
	tasks, _, err := s.ListTasks(ctx, vis, repository.TaskFilter{ExcludeCompleted: true, SortActive: true})
	return tasks, err
}

// GetTask returns a visible task with its owner and team loaded
func (s *TaskService) GetTask(ctx context.Context, vis visibility.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindVisible(ctx, vis, taskID, "Owner", "Team")
	if err != nil {
		return nil, storeError("find task", err)
	}
	return task, nil
}

// CreateTask validates input, resolves ownership and creates the task
func (s *TaskService) CreateTask(ctx context.Context, vis visibility.Context, input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:        title,
		Description:  input.Description,
		Status:       input.Status,
		Category:     strings.TrimSpace(input.Category),
		Priority:     input.Priority,
		Recurrence:   strings.TrimSpace(input.Recurrence),
		ParentTaskID: input.ParentTaskID,
		SprintID:     input.SprintID,
	}
	if input.DueDate != nil {
		due := utils.TruncateDate(*input.DueDate)
		task.DueDate = &due
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Category == "" {
		task.Category = models.DefaultTaskCategory
	}
	if task.Recurrence == "" {
		task.Recurrence = models.DefaultTaskRecurrence
	}
	if !task.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !task.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if err := s.checkReferences(ctx, vis, 0, input.ParentTaskID, input.SprintID); err != nil {
		return nil, err
	}

	owner, err := resolveOwnership(ctx, s.teamRepo, vis, input.TeamID, input.Personal)
	if err != nil {
		return nil, err
	}
	task.Ownership = owner

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, storeError("create task", err)
	}

	return s.GetTask(ctx, vis, task.ID)
}

// UpdateTask applies a field-level update to a visible task. Concurrent
// updates are last-write-wins.
func (s *TaskService) UpdateTask(ctx context.Context, vis visibility.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	fields := map[string]interface{}{}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *input.Status
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			category = models.DefaultTaskCategory
		}
		fields["category"] = category
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		fields["priority"] = *input.Priority
	}
	if input.Recurrence != nil {
		recurrence := strings.TrimSpace(*input.Recurrence)
		if recurrence == "" {
			recurrence = models.DefaultTaskRecurrence
		}
		fields["recurrence"] = recurrence
	}

	switch {
	case input.ClearDueDate:
		fields["due_date"] = nil
	case input.DueDate != nil:
		fields["due_date"] = utils.TruncateDate(*input.DueDate)
	}

	var parentID, sprintID *uint64
	switch {
	case input.ClearParent:
		fields["parent_task_id"] = nil
	case input.ParentTaskID != nil:
		parentID = input.ParentTaskID
		fields["parent_task_id"] = *input.ParentTaskID
	}
	switch {
	case input.ClearSprint:
		fields["sprint_id"] = nil
	case input.SprintID != nil:
		sprintID = input.SprintID
		fields["sprint_id"] = *input.SprintID
	}

	if err := s.checkReferences(ctx, vis, taskID, parentID, sprintID); err != nil {
		return nil, err
	}

	if _, err := s.taskRepo.Update(ctx, vis, taskID, fields); err != nil {
		return nil, storeError("update task", err)
	}
	return s.GetTask(ctx, vis, taskID)
}

// CompleteTask marks a task Completed.
func (s *TaskService) CompleteTask(ctx context.Context, vis visibility.Context, taskID uint64) (*models.Task, error) {
	status := models.TaskStatusCompleted
	return s.UpdateTask(ctx, vis, taskID, UpdateTaskInput{Status: &status})
}

// ArchiveTask marks a task Archived.
func (s *TaskService) ArchiveTask(ctx context.Context, vis visibility.Context, taskID uint64) (*models.Task, error) {
	status := models.TaskStatusArchived
	return s.UpdateTask(ctx, vis, taskID, UpdateTaskInput{Status: &status})
}

// DeleteTask deletes a visible task with its sessions and sub-tasks
func (s *TaskService) DeleteTask(ctx context.Context, vis visibility.Context, taskID uint64) error {
	if err := s.taskRepo.Delete(ctx, vis, taskID); err != nil {
		return storeError("delete task", err)
	}
	return nil
}

// DraftTasks proposes tasks from free text without creating them.
func (s *TaskService) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	return s.drafter.DraftTasks(ctx, text)
}

// checkReferences requires a referenced parent task and sprint to be
// visible. For an existing task it also rejects parent cycles.
func (s *TaskService) checkReferences(ctx context.Context, vis visibility.Context, taskID uint64, parentID, sprintID *uint64) error {
	if parentID != nil {
		if taskID != 0 && *parentID == taskID {
			return ErrParentCycle
		}
		parent, err := s.taskRepo.FindVisible(ctx, vis, *parentID)
		if err != nil {
			return storeError("find parent task", err)
		}
		if taskID != 0 {
			if err := s.checkAncestors(ctx, parent, taskID); err != nil {
				return err
			}
		}
	}
	if sprintID != nil {
		if _, err := s.sprintRepo.FindVisible(ctx, vis, *sprintID); err != nil {
			return storeError("find sprint", err)
		}
	}
	return nil
}

// checkAncestors fails when taskID is above parent in the task tree. Hidden
// ancestors are followed too; only the generic cycle error is reported.
func (s *TaskService) checkAncestors(ctx context.Context, parent *models.Task, taskID uint64) error {
	cycle, err := s.taskRepo.HasAncestor(ctx, parent.ID, taskID, maxAncestorDepth)
	if err != nil {
		return storeError("walk task ancestors", err)
	}
	if cycle {
		return ErrParentCycle
	}
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
