package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
)

// ContextKeyTask holds the task loaded by RequireTaskAccess.
const ContextKeyTask = "task"

// RequireTaskAccess loads the task named by the :id parameter through the
// caller's visibility scope. Tasks outside the scope are reported as missing.
func RequireTaskAccess(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		vis, ok := GetVisibility(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		task, err := taskService.GetTask(c.Request.Context(), vis, taskID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				apierrors.ServiceUnavailable(c, "")
			}
			return
		}

		c.Set(ContextKeyTask, task)
		c.Next()
	}
}
