package dto

import (
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SessionDTO describes the logged-in user and the active team scope
type SessionDTO struct {
	User       UserDTO  `json:"user"`
	ActiveTeam *TeamDTO `json:"active_team"`
}

// TeamListResponse lists the caller's teams and marks the active one
type TeamListResponse struct {
	Teams        []TeamDTO `json:"teams"`
	ActiveTeamID *uint64   `json:"active_team_id"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
	}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
	}
}

// ToTeamListResponse converts teams for the given context
func ToTeamListResponse(teams []models.Team, vis visibility.Context) TeamListResponse {
	resp := TeamListResponse{
		Teams:        make([]TeamDTO, len(teams)),
		ActiveTeamID: vis.TeamID,
	}
	for i, team := range teams {
		resp.Teams[i] = ToTeamDTO(team)
	}
	return resp
}
