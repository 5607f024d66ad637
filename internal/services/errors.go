package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
	ErrNotAMember         = errors.New("user is not a member of the team")
	ErrAlreadyRunning     = errors.New("a timer is already running for this task")
	ErrStoreUnavailable   = errors.New("store unavailable")

	// ErrInvalidInput is wrapped by every validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// Validation errors
var (
	ErrTitleRequired     = fmt.Errorf("%w: title is required", ErrInvalidInput)
	ErrTitleTooLong      = fmt.Errorf("%w: title is too long", ErrInvalidInput)
	ErrNameRequired      = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrNoteRequired      = fmt.Errorf("%w: note text is required", ErrInvalidInput)
	ErrFilenameRequired  = fmt.Errorf("%w: filename is required", ErrInvalidInput)
	ErrInvalidStatus     = fmt.Errorf("%w: unknown task status", ErrInvalidInput)
	ErrInvalidPriority   = fmt.Errorf("%w: unknown task priority", ErrInvalidInput)
	ErrInvalidBugStatus  = fmt.Errorf("%w: unknown bug status", ErrInvalidInput)
	ErrInvalidNoteType   = fmt.Errorf("%w: unknown note type", ErrInvalidInput)
	ErrInvalidDateRange  = fmt.Errorf("%w: start date is after end date", ErrInvalidInput)
	ErrParentCycle       = fmt.Errorf("%w: a task cannot be its own ancestor", ErrInvalidInput)
	ErrUsernameRequired  = fmt.Errorf("%w: username is required", ErrInvalidInput)
	ErrPasswordTooShort  = fmt.Errorf("%w: password too short", ErrInvalidInput)
	ErrDocumentTooLarge  = fmt.Errorf("%w: document exceeds the size limit", ErrInvalidInput)
	ErrDraftTextRequired = fmt.Errorf("%w: text is required", ErrInvalidInput)
)

// Administrative conflicts
var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrTeamNameTaken = errors.New("team name already exists")
	ErrAlreadyMember = errors.New("user is already a member of the team")
)

// Task drafting
var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
)

// storeError maps a repository error: a missing row becomes ErrNotFound and
// anything else is reported as ErrStoreUnavailable with the cause attached.
func storeError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

