package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/middleware"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// AuthHandler coordinates login, the session and the active team.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user and stores the visibility context in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, vis, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	middleware.SaveContext(session, vis)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	h.respondSession(c, user, vis)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user and the active team.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), vis.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondSession(c, user, vis)
}

// ListTeams returns the caller's teams.
func (h *AuthHandler) ListTeams(c *gin.Context) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}

	teams, err := h.authService.ListTeams(c.Request.Context(), vis.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamListResponse(teams, vis))
}

// SwitchTeam makes another of the caller's teams active for this session.
func (h *AuthHandler) SwitchTeam(c *gin.Context) {
	type SwitchTeamRequest struct {
		TeamID uint64 `json:"team_id" binding:"required"`
	}

	vis, ok := requireVisibility(c)
	if !ok {
		return
	}

	var req SwitchTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	next, err := h.authService.SwitchTeam(c.Request.Context(), vis, req.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	middleware.SaveContext(session, next)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}
	middleware.SetVisibility(c, next)

	user, err := h.authService.GetUser(c.Request.Context(), next.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, user, next)
}

func (h *AuthHandler) respondSession(c *gin.Context, user *models.User, vis visibility.Context) {
	resp := dto.SessionDTO{User: dto.ToUserDTO(*user)}
	if vis.TeamID != nil {
		team, err := h.authService.GetTeam(c.Request.Context(), *vis.TeamID)
		if err != nil {
			respondError(c, err)
			return
		}
		teamDTO := dto.ToTeamDTO(*team)
		resp.ActiveTeam = &teamDTO
	}
	c.JSON(http.StatusOK, resp)
}
