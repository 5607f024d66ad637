package constants

// Session and context keys
const (
	SessionCookieName    = "trasker_session"
	ContextKeyUserID     = "user_id"
	ContextKeyTeamID     = "team_id"
	ContextKeyVisibility = "visibility"
	ContextKeyRequestID  = "request_id"
	HeaderRequestID      = "X-Request-ID"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Validation
const (
	MinPasswordLength = 8
	MaxTitleLength    = 255
)

// Task drafting
const (
	MaxAIGeneratedTasks = 20
)

// Documents
const (
	MaxDocumentSize = 10 << 20
)
