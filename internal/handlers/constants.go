package handlers

const (
	SessionCookieName = "session"
	CSRFHeaderName    = "X-CSRF-Token"

	ErrInvalidJSON         = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrNotFoundMsg         = "Not found"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
)
