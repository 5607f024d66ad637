package dto

import (
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
)

// TaskDTO represents a task in API responses. Dates are calendar dates
// (YYYY-MM-DD) or null.
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      *string             `json:"due_date"`
	Status       models.TaskStatus   `json:"status"`
	Category     string              `json:"category"`
	Priority     models.TaskPriority `json:"priority"`
	Recurrence   string              `json:"recurrence"`
	ParentTaskID *uint64             `json:"parent_task_id"`
	SprintID     *uint64             `json:"sprint_id"`
	OwnerUserID  uint64              `json:"owner_user_id"`
	OwnerTeamID  *uint64             `json:"owner_team_id"`
	Owner        *UserDTO            `json:"owner,omitempty"`
	Team         *TeamDTO            `json:"team,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TaskListResponse represents a page of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// TaskDraftDTO is a task proposed from free text
type TaskDraftDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *string             `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Category    string              `json:"category"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      dateString(task.DueDate),
		Status:       task.Status,
		Category:     task.Category,
		Priority:     task.Priority,
		Recurrence:   task.Recurrence,
		ParentTaskID: task.ParentTaskID,
		SprintID:     task.SprintID,
		OwnerUserID:  task.OwnerUserID,
		OwnerTeamID:  task.OwnerTeamID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	if task.Owner.ID != 0 {
		owner := ToUserDTO(task.Owner)
		dto.Owner = &owner
	}
	if task.Team != nil && task.Team.ID != 0 {
		team := ToTeamDTO(*task.Team)
		dto.Team = &team
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := utils.FormatDate(t)
	return &s
}
