package services

import (
	"context"
	"errors"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/repository"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService resolves who is acting and which team scope is active.
type AuthService struct {
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, teamRepo repository.TeamRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		teamRepo: teamRepo,
	}
}

// Authenticate verifies credentials. An unknown username and a wrong
// password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// EstablishContext builds the visibility context for a freshly
// authenticated user. The active team is the user's lowest-id membership.
func (s *AuthService) EstablishContext(ctx context.Context, user *models.User) (visibility.Context, error) {
	member, err := s.teamRepo.FirstMembership(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return visibility.New(user.ID, nil), nil
		}
		return visibility.Context{}, storeError("find membership", err)
	}
	return visibility.New(user.ID, &member.TeamID), nil
}

// Login authenticates and establishes the context in one step.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, visibility.Context, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, visibility.Context{}, err
	}
	vis, err := s.EstablishContext(ctx, user)
	if err != nil {
		return nil, visibility.Context{}, err
	}
	return user, vis, nil
}

// SwitchTeam returns a context with teamID active, provided the acting user
// is a member of it.
func (s *AuthService) SwitchTeam(ctx context.Context, vis visibility.Context, teamID uint64) (visibility.Context, error) {
	if err := s.ensureMember(ctx, teamID, vis.UserID); err != nil {
		return vis, err
	}
	return vis.WithTeam(&teamID), nil
}

// ResumeContext rebuilds a context from stored session values. A team the
// user has since left is replaced by the default team.
func (s *AuthService) ResumeContext(ctx context.Context, userID uint64, teamID *uint64) (visibility.Context, error) {
	if teamID == nil {
		return visibility.New(userID, nil), nil
	}
	err := s.ensureMember(ctx, *teamID, userID)
	if err == nil {
		return visibility.New(userID, teamID), nil
	}
	if !errors.Is(err, ErrNotAMember) {
		return visibility.Context{}, err
	}
	return s.EstablishContext(ctx, &models.User{ID: userID})
}

// ListTeams returns the teams the user can switch to.
func (s *AuthService) ListTeams(ctx context.Context, userID uint64) ([]models.Team, error) {
	teams, err := s.teamRepo.ListTeamsForUser(ctx, userID)
	if err != nil {
		return nil, storeError("list teams", err)
	}
	return teams, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find user", err)
	}
	return user, nil
}

// GetTeam retrieves a team by ID.
func (s *AuthService) GetTeam(ctx context.Context, id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find team", err)
	}
	return team, nil
}

func (s *AuthService) ensureMember(ctx context.Context, teamID, userID uint64) error {
	return ensureMember(ctx, s.teamRepo, teamID, userID)
}

// ensureMember verifies that a user belongs to a team.
func ensureMember(ctx context.Context, teamRepo repository.TeamRepository, teamID, userID uint64) error {
	if _, err := teamRepo.FindMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return storeError("verify membership", err)
	}
	return nil
}

// resolveOwnership decides who owns a new record. The acting user always
// owns it; the team is the explicit teamID (membership required), none when
// personal is set, and otherwise the active team.
func resolveOwnership(ctx context.Context, teamRepo repository.TeamRepository, vis visibility.Context, teamID *uint64, personal bool) (models.Ownership, error) {
	owner := models.Ownership{OwnerUserID: vis.UserID}
	switch {
	case personal:
	case teamID != nil:
		if err := ensureMember(ctx, teamRepo, *teamID, vis.UserID); err != nil {
			return owner, err
		}
		id := *teamID
		owner.OwnerTeamID = &id
	case vis.TeamID != nil:
		id := *vis.TeamID
		owner.OwnerTeamID = &id
	}
	return owner, nil
}
