package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"

	// Bearer scheme of the Authorization header
	BearerPrefix = "Bearer "

	// Context keys
	ContextKeyAccountID = "account_id"
	ContextKeyAccount   = "account"
	ContextKeyToken     = "session_token"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableAccounts = "accounts"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Authentication required"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgStoreUnavailable    = "Session store temporarily unavailable"
	ErrMsgAccountsUnavailable = "Account directory temporarily unavailable"
)
