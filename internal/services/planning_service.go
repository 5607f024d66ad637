package services

import (
	"context"
	"strings"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// EpicService manages epics.
type EpicService struct {
	OwnedService[models.Epic]
	teamRepo repository.TeamRepository
}

func NewEpicService(repo repository.OwnedRepository[models.Epic], teamRepo repository.TeamRepository) *EpicService {
	return &EpicService{
		OwnedService: newOwnedService(repo, "epic"),
		teamRepo:     teamRepo,
	}
}

type CreateEpicInput struct {
	Name        string
	Description string
	Dates       DateRange
	Owner       OwnerInput
}

type UpdateEpicInput struct {
	Name        *string
	Description *string
	StartDate   DateUpdate
	EndDate     DateUpdate
}

func (s *EpicService) Create(ctx context.Context, vis visibility.Context, input CreateEpicInput) (*models.Epic, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	dates, err := input.Dates.normalize()
	if err != nil {
		return nil, err
	}
	owner, err := resolveOwnership(ctx, s.teamRepo, vis, input.Owner.TeamID, input.Owner.Personal)
	if err != nil {
		return nil, err
	}

	epic := &models.Epic{
		Name:        name,
		Description: input.Description,
		StartDate:   dates.Start,
		EndDate:     dates.End,
		Ownership:   owner,
	}
	if err := s.create(ctx, epic); err != nil {
		return nil, err
	}
	return epic, nil
}

func (s *EpicService) Update(ctx context.Context, vis visibility.Context, id uint64, input UpdateEpicInput) (*models.Epic, error) {
	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.StartDate.changed() || input.EndDate.changed() {
		current, err := s.Get(ctx, vis, id)
		if err != nil {
			return nil, err
		}
		if err := checkDateUpdate(current.StartDate, current.EndDate, input.StartDate, input.EndDate); err != nil {
			return nil, err
		}
	}
	input.StartDate.apply(fields, "start_date")
	input.EndDate.apply(fields, "end_date")

	return s.update(ctx, vis, id, fields)
}

// SprintService manages sprints and their optional epic.
type SprintService struct {
	OwnedService[models.Sprint]
	teamRepo repository.TeamRepository
	epicRepo repository.OwnedRepository[models.Epic]
}

func NewSprintService(repo repository.OwnedRepository[models.Sprint], epicRepo repository.OwnedRepository[models.Epic], teamRepo repository.TeamRepository) *SprintService {
	return &SprintService{
		OwnedService: newOwnedService(repo, "sprint"),
		teamRepo:     teamRepo,
		epicRepo:     epicRepo,
	}
}

type CreateSprintInput struct {
	Title       string
	Description string
	Dates       DateRange
	EpicID      *uint64
	Owner       OwnerInput
}

type UpdateSprintInput struct {
	Title       *string
	Description *string
	StartDate   DateUpdate
	EndDate     DateUpdate
	EpicID      IDUpdate
}

func (s *SprintService) Create(ctx context.Context, vis visibility.Context, input CreateSprintInput) (*models.Sprint, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	dates, err := input.Dates.normalize()
	if err != nil {
		return nil, err
	}
	if err := s.checkEpic(ctx, vis, input.EpicID); err != nil {
		return nil, err
	}
	owner, err := resolveOwnership(ctx, s.teamRepo, vis, input.Owner.TeamID, input.Owner.Personal)
	if err != nil {
		return nil, err
	}

	sprint := &models.Sprint{
		Title:       title,
		Description: input.Description,
		StartDate:   dates.Start,
		EndDate:     dates.End,
		EpicID:      input.EpicID,
		Ownership:   owner,
	}
	if err := s.create(ctx, sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

func (s *SprintService) Update(ctx context.Context, vis visibility.Context, id uint64, input UpdateSprintInput) (*models.Sprint, error) {
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
	if input.StartDate.changed() || input.EndDate.changed() {
		current, err := s.Get(ctx, vis, id)
		if err != nil {
			return nil, err
		}
		if err := checkDateUpdate(current.StartDate, current.EndDate, input.StartDate, input.EndDate); err != nil {
			return nil, err
		}
	}
	input.StartDate.apply(fields, "start_date")
	input.EndDate.apply(fields, "end_date")
	if err := s.checkEpic(ctx, vis, input.EpicID.target()); err != nil {
		return nil, err
	}
	input.EpicID.apply(fields, "epic_id")

	return s.update(ctx, vis, id, fields)
}

// ListByEpic lists the visible sprints of a visible epic.
func (s *SprintService) ListByEpic(ctx context.Context, vis visibility.Context, epicID uint64) ([]models.Sprint, error) {
	if err := s.checkEpic(ctx, vis, &epicID); err != nil {
		return nil, err
	}
	return s.List(ctx, vis, repository.Filter{"epic_id": epicID})
}

func (s *SprintService) checkEpic(ctx context.Context, vis visibility.Context, epicID *uint64) error {
	if epicID == nil {
		return nil
	}
	if _, err := s.epicRepo.FindVisible(ctx, vis, *epicID); err != nil {
		return storeError("find epic", err)
	}
	return nil
}
