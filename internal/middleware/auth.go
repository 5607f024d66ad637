package middleware

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// RequireAuth checks the session and rebuilds the caller's visibility
// context for the rest of the chain.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := toUint64(session.Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		var teamID *uint64
		if id, ok := toUint64(session.Get(constants.ContextKeyTeamID)); ok {
			teamID = &id
		}

		vis, err := authService.ResumeContext(c.Request.Context(), userID, teamID)
		if err != nil {
			slog.Error("failed to resume visibility context", "user_id", userID, "error", err)
			apierrors.ServiceUnavailable(c, "")
			return
		}

		if !sameTeam(vis.TeamID, teamID) {
			SaveContext(session, vis)
			if err := session.Save(); err != nil {
				slog.Warn("failed to refresh session team", "user_id", userID, "error", err)
			}
		}

		c.Set(constants.ContextKeyUserID, vis.UserID)
		c.Set(constants.ContextKeyVisibility, vis)
		c.Next()
	}
}

// SaveContext writes the context into the session; the caller saves it.
func SaveContext(session sessions.Session, vis visibility.Context) {
	session.Set(constants.ContextKeyUserID, vis.UserID)
	if vis.TeamID != nil {
		session.Set(constants.ContextKeyTeamID, *vis.TeamID)
	} else {
		session.Delete(constants.ContextKeyTeamID)
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetVisibility retrieves the visibility context set by RequireAuth
func GetVisibility(c *gin.Context) (visibility.Context, bool) {
	value, exists := c.Get(constants.ContextKeyVisibility)
	if !exists {
		return visibility.Context{}, false
	}
	vis, ok := value.(visibility.Context)
	return vis, ok
}

// SetVisibility replaces the visibility context for the rest of the request.
func SetVisibility(c *gin.Context, vis visibility.Context) {
	c.Set(constants.ContextKeyUserID, vis.UserID)
	c.Set(constants.ContextKeyVisibility, vis)
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

func sameTeam(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
