package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// ErrSessionOpen is returned when a task already has a running session.
var ErrSessionOpen = errors.New("session repository: task already has an open session")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by exact username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// Update saves profile changes
	Update(ctx context.Context, user *models.User) error

	// List returns every user ordered by ID
	List(ctx context.Context) ([]models.User, error)
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id uint64) (*models.Team, error)
	FindByName(ctx context.Context, name string) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	List(ctx context.Context) ([]models.Team, error)

	// AddMember inserts a membership; duplicates are rejected by the store
	AddMember(ctx context.Context, member *models.Membership) error

	// RemoveMember deletes a membership, returning gorm.ErrRecordNotFound if absent
	RemoveMember(ctx context.Context, teamID, userID uint64) error

	// FindMember finds a specific membership
	FindMember(ctx context.Context, teamID, userID uint64) (*models.Membership, error)

	// FirstMembership returns the user's lowest-id membership
	FirstMembership(ctx context.Context, userID uint64) (*models.Membership, error)

	// ListTeamsForUser lists the teams a user belongs to, in membership order
	ListTeamsForUser(ctx context.Context, userID uint64) ([]models.Team, error)

	// ListMembers lists the memberships of a team with users preloaded
	ListMembers(ctx context.Context, teamID uint64) ([]models.Membership, error)
}

// TaskRepository defines the interface for task data access. Every read and
// write is intersected with the caller's visibility context.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error

	// FindVisible loads a task through the visibility scope with optional preloading
	FindVisible(ctx context.Context, vis visibility.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves visible tasks matching filter plus the unpaginated total
	List(ctx context.Context, vis visibility.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update applies column updates to a visible task and returns the new row
	Update(ctx context.Context, vis visibility.Context, id uint64, fields map[string]interface{}) (*models.Task, error)

	// Delete removes a visible task, its sessions and its sub-tasks
	Delete(ctx context.Context, vis visibility.Context, id uint64) error

	// HasAncestor reports whether ancestorID is in the parent chain above id,
	// regardless of visibility
	HasAncestor(ctx context.Context, id, ancestorID uint64, maxDepth int) (bool, error)
}

// TaskFilter holds filtering options for listing tasks. Nil or zero fields
// impose no constraint.
type TaskFilter struct {
	Status           *models.TaskStatus
	ExcludeCompleted bool
	Category         *string
	Priority         *models.TaskPriority
	ParentTaskID     *uint64
	SprintID         *uint64
	EpicID           *uint64
	DueFrom          *time.Time
	DueTo            *time.Time
	Keyword          string
	TeamID           *uint64
	AssigneeID       *uint64
	SortActive       bool
	Pagination       utils.PaginationParams
}

// SessionRepository defines the interface for timer session data access.
// The task must be visible to the caller, otherwise gorm.ErrRecordNotFound.
type SessionRepository interface {
	// Start opens a session at now, or fails with ErrSessionOpen
	Start(ctx context.Context, vis visibility.Context, taskID uint64, now time.Time) (*models.TaskSession, error)

	// Stop closes the open session at now; it returns nil when none is open
	Stop(ctx context.Context, vis visibility.Context, taskID uint64, now time.Time) (*models.TaskSession, error)

	// FindOpen returns the open session or nil
	FindOpen(ctx context.Context, vis visibility.Context, taskID uint64) (*models.TaskSession, error)

	// TotalElapsed sums elapsed seconds over closed sessions
	TotalElapsed(ctx context.Context, vis visibility.Context, taskID uint64) (int64, error)

	// ListByTask returns the session history ordered by start time
	ListByTask(ctx context.Context, vis visibility.Context, taskID uint64) ([]models.TaskSession, error)
}

// OwnedRepository is the scoped CRUD surface shared by epics, sprints, bugs,
// notes and documents.
type OwnedRepository[T any] interface {
	Create(ctx context.Context, record *T) error
	FindVisible(ctx context.Context, vis visibility.Context, id uint64) (*T, error)
	List(ctx context.Context, vis visibility.Context, filter Filter) ([]T, error)
	Update(ctx context.Context, vis visibility.Context, id uint64, fields map[string]interface{}) (*T, error)
	Delete(ctx context.Context, vis visibility.Context, id uint64) error
}

// Filter is a set of exact-match column conditions. A nil value matches NULL.
type Filter map[string]interface{}

// DocumentRepository adds content access to the owned document store.
type DocumentRepository interface {
	OwnedRepository[models.Document]

	// FindContent loads a visible document including its content
	FindContent(ctx context.Context, vis visibility.Context, id uint64) (*models.Document, error)
}
