package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService manages users, teams and memberships. It is only reachable
// from the operator CLI.
type AdminService struct {
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
	now      Clock
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository, teamRepo repository.TeamRepository) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		teamRepo: teamRepo,
		now:      SystemClock,
	}
}

// CreateUserInput represents the information needed to create a user.
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Email    string
}

// CreateUser creates a user with a bcrypt password hash.
func (s *AdminService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, storeError("create user", err)
	}
	return user, nil
}

// UpdateUserInput holds optional profile changes.
type UpdateUserInput struct {
	FullName *string
	Email    *string
	Password *string
}

// UpdateUser applies profile changes to a user.
func (s *AdminService) UpdateUser(ctx context.Context, id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find user", err)
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeError("update user", err)
	}
	return user, nil
}

// ListUsers returns every user.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// FindUser looks a user up by username.
func (s *AdminService) FindUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeError("find user", err)
	}
	return user, nil
}

// CreateTeam creates a team with a unique name.
func (s *AdminService) CreateTeam(ctx context.Context, name, description string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	team := &models.Team{Name: name, Description: description}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrTeamNameTaken
		}
		return nil, storeError("create team", err)
	}
	return team, nil
}

// UpdateTeamInput holds optional team changes.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

// UpdateTeam renames or re-describes a team.
func (s *AdminService) UpdateTeam(ctx context.Context, id uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find team", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = *input.Description
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrTeamNameTaken
		}
		return nil, storeError("update team", err)
	}
	return team, nil
}

// ListTeams returns every team.
func (s *AdminService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, storeError("list teams", err)
	}
	return teams, nil
}

// FindTeam looks a team up by name.
func (s *AdminService) FindTeam(ctx context.Context, name string) (*models.Team, error) {
	team, err := s.teamRepo.FindByName(ctx, name)
	if err != nil {
		return nil, storeError("find team", err)
	}
	return team, nil
}

// AddMember assigns a user to a team.
func (s *AdminService) AddMember(ctx context.Context, teamID, userID uint64) (*models.Membership, error) {
	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		return nil, storeError("find team", err)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, storeError("find user", err)
	}

	member := &models.Membership{
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: s.now(),
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, storeError("add member", err)
	}
	return member, nil
}

// RemoveMember removes a user from a team.
func (s *AdminService) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return storeError("remove member", err)
	}
	return nil
}

// ListMembers lists a team's memberships.
func (s *AdminService) ListMembers(ctx context.Context, teamID uint64) ([]models.Membership, error) {
	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, storeError("list members", err)
	}
	return members, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < constants.MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
