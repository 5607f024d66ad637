// Package errors renders the JSON error envelope returned by every endpoint.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/constants"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeNotAMember         = "NOT_A_MEMBER"

	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeTooLarge     = "PAYLOAD_TOO_LARGE"

	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeAlreadyRunning = "TIMER_ALREADY_RUNNING"

	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

type codeInfo struct {
	status   int
	fallback string
}

var codes = map[string]codeInfo{
	ErrCodeUnauthorized:       {http.StatusUnauthorized, "Authentication required"},
	ErrCodeInvalidCredentials: {http.StatusUnauthorized, "Invalid username or password"},
	ErrCodeNotAMember:         {http.StatusForbidden, "You are not a member of this team"},
	ErrCodeInvalidInput:       {http.StatusBadRequest, "Invalid request"},
	ErrCodeTooLarge:           {http.StatusRequestEntityTooLarge, "Request body too large"},
	ErrCodeNotFound:           {http.StatusNotFound, "Resource not found"},
	ErrCodeConflict:           {http.StatusConflict, "Resource conflict"},
	ErrCodeAlreadyRunning:     {http.StatusConflict, "A timer is already running for this task"},
	ErrCodeInternalError:      {http.StatusInternalServerError, "Internal server error"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// Abort stops the handler chain and writes the envelope for code. An empty
// message falls back to the code's default text.
func Abort(c *gin.Context, code, message string) {
	info, ok := codes[code]
	if !ok {
		code, info = ErrCodeInternalError, codes[ErrCodeInternalError]
	}
	if message == "" {
		message = info.fallback
	}
	c.AbortWithStatusJSON(info.status, &APIError{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(constants.ContextKeyRequestID),
	})
}

func Unauthorized(c *gin.Context, message string) { Abort(c, ErrCodeUnauthorized, message) }

func InvalidCredentials(c *gin.Context) { Abort(c, ErrCodeInvalidCredentials, "") }

func NotAMember(c *gin.Context) { Abort(c, ErrCodeNotAMember, "") }

func NotFound(c *gin.Context, message string) { Abort(c, ErrCodeNotFound, message) }

func BadRequest(c *gin.Context, message string) { Abort(c, ErrCodeInvalidInput, message) }

func PayloadTooLarge(c *gin.Context, message string) { Abort(c, ErrCodeTooLarge, message) }

func Conflict(c *gin.Context, message string) { Abort(c, ErrCodeConflict, message) }

// AlreadyRunning rejects a second start on a task whose timer is open.
func AlreadyRunning(c *gin.Context) { Abort(c, ErrCodeAlreadyRunning, "") }

func InternalError(c *gin.Context, message string) { Abort(c, ErrCodeInternalError, message) }

func ServiceUnavailable(c *gin.Context, message string) {
	Abort(c, ErrCodeServiceUnavailable, message)
}
