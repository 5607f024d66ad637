package models

import "time"

type TaskStatus string

const (
	TaskStatusHolding    TaskStatus = "Holding"
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusArchived   TaskStatus = "Archived"
	TaskStatusCancelled  TaskStatus = "Cancelled"
	TaskStatusFailed     TaskStatus = "Failed"
)

var taskStatuses = []TaskStatus{
	TaskStatusHolding,
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusArchived,
	TaskStatusCancelled,
	TaskStatusFailed,
}

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	for _, known := range taskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	PriorityCritical TaskPriority = "Critical"
	PriorityHigh     TaskPriority = "High"
	PriorityMedium   TaskPriority = "Medium"
	PriorityLow      TaskPriority = "Low"
)

// Rank orders priorities for sorting: Critical(1) < High(2) < Medium(3) < Low(4).
// Unknown values sort after Low.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

func (p TaskPriority) Valid() bool {
	return p.Rank() < 5
}

const (
	DefaultTaskCategory   = "General"
	DefaultTaskRecurrence = "None"
)

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	DueDate      *time.Time   `gorm:"index" json:"due_date"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Category     string       `gorm:"type:varchar(100);not null;default:'General'" json:"category"`
	Priority     TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	Recurrence   string       `gorm:"type:varchar(50);not null;default:'None'" json:"recurrence"`
	ParentTaskID *uint64      `gorm:"index" json:"parent_task_id"`
	SprintID     *uint64      `gorm:"index" json:"sprint_id"`
	Ownership
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner    User          `gorm:"foreignKey:OwnerUserID" json:"-"`
	Team     *Team         `gorm:"foreignKey:OwnerTeamID" json:"-"`
	Sessions []TaskSession `gorm:"foreignKey:TaskID" json:"-"`
}
