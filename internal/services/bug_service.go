package services

import (
	"context"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// BugService manages bugs, optionally linked to a task.
type BugService struct {
	OwnedService[models.Bug]
	teamRepo repository.TeamRepository
	taskRepo repository.TaskRepository
	now      Clock
}

func NewBugService(repo repository.OwnedRepository[models.Bug], taskRepo repository.TaskRepository, teamRepo repository.TeamRepository, clock Clock) *BugService {
	if clock == nil {
		clock = SystemClock
	}
	return &BugService{
		OwnedService: newOwnedService(repo, "bug"),
		teamRepo:     teamRepo,
		taskRepo:     taskRepo,
		now:          clock,
	}
}

type CreateBugInput struct {
	Title       string
	Description string
	Status      models.BugStatus
	TaskID      *uint64
	Owner       OwnerInput
}

type UpdateBugInput struct {
	Title        *string
	Description  *string
	Status       *models.BugStatus
	ResolvedDate DateUpdate
	TaskID       IDUpdate
}

// Create files a bug dated today. A bug filed already resolved gets today
// as its resolution date too.
func (s *BugService) Create(ctx context.Context, vis visibility.Context, input CreateBugInput) (*models.Bug, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = models.BugStatusOpen
	}
	if !status.Valid() {
		return nil, ErrInvalidBugStatus
	}
	if err := s.checkTask(ctx, vis, input.TaskID); err != nil {
		return nil, err
	}
	owner, err := resolveOwnership(ctx, s.teamRepo, vis, input.Owner.TeamID, input.Owner.Personal)
	if err != nil {
		return nil, err
	}

	today := utils.TruncateDate(s.now())
	bug := &models.Bug{
		Title:       title,
		Description: input.Description,
		Status:      status,
		CreatedDate: &today,
		TaskID:      input.TaskID,
		Ownership:   owner,
	}
	if resolved(status) {
		bug.ResolvedDate = &today
	}
	if err := s.create(ctx, bug); err != nil {
		return nil, err
	}
	return bug, nil
}

// Update applies a field-level update. Moving to Resolved or Closed without
// an explicit resolution date stamps today.
func (s *BugService) Update(ctx context.Context, vis visibility.Context, id uint64, input UpdateBugInput) (*models.Bug, error) {
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
			return nil, ErrInvalidBugStatus
		}
		fields["status"] = *input.Status
		if resolved(*input.Status) && !input.ResolvedDate.changed() {
			current, err := s.Get(ctx, vis, id)
			if err != nil {
				return nil, err
			}
			if current.ResolvedDate == nil {
				fields["resolved_date"] = utils.TruncateDate(s.now())
			}
		}
	}
	input.ResolvedDate.apply(fields, "resolved_date")
	if err := s.checkTask(ctx, vis, input.TaskID.target()); err != nil {
		return nil, err
	}
	input.TaskID.apply(fields, "task_id")

	return s.update(ctx, vis, id, fields)
}

// ListByTask lists the visible bugs linked to a visible task.
func (s *BugService) ListByTask(ctx context.Context, vis visibility.Context, taskID uint64) ([]models.Bug, error) {
	if err := s.checkTask(ctx, vis, &taskID); err != nil {
		return nil, err
	}
	return s.List(ctx, vis, repository.Filter{"task_id": taskID})
}

func (s *BugService) checkTask(ctx context.Context, vis visibility.Context, taskID *uint64) error {
	if taskID == nil {
		return nil
	}
	if _, err := s.taskRepo.FindVisible(ctx, vis, *taskID); err != nil {
		return storeError("find task", err)
	}
	return nil
}

func resolved(status models.BugStatus) bool {
	return status == models.BugStatusResolved || status == models.BugStatusClosed
}
