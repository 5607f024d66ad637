package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
)

// respondError maps a service error onto the API error envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, "")
	case errors.Is(err, services.ErrNotAMember):
		apierrors.NotAMember(c)
	case errors.Is(err, services.ErrAlreadyRunning):
		apierrors.AlreadyRunning(c)
	case errors.Is(err, services.ErrDocumentTooLarge):
		apierrors.PayloadTooLarge(c, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrTeamNameTaken),
		errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrStoreUnavailable):
		slog.Error("store unavailable", "path", c.FullPath(), "error", err)
		apierrors.ServiceUnavailable(c, "")
	default:
		slog.Error("unhandled error", "path", c.FullPath(), "error", err)
		apierrors.InternalError(c, "")
	}
}
