package apperr

import "errors"

// Closed set of error kinds surfaced to users. Services map every internal
// failure to one of these before it reaches a handler.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")  // 401
	ErrValidation         = errors.New("validation")           // 400
	ErrDuplicateEmail     = errors.New("email already exists") // 409
	ErrSessionExpired     = errors.New("session expired")      // 401
	ErrEmailDelivery      = errors.New("email delivery")       // 502
	ErrNotFound           = errors.New("not found")            // 404
	ErrPermissionDenied   = errors.New("permission denied")    // 403
	ErrServer             = errors.New("server error")         // 500
	ErrBusy               = errors.New("operation in flight")  // 409
)

// Message returns the human-readable text for the kind wrapped in err.
// Unknown errors fall back to the server-error message.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect email or password."
	case errors.Is(err, ErrValidation):
		return "Please check the entered data and fix the highlighted errors."
	case errors.Is(err, ErrDuplicateEmail):
		return "This email is already registered."
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrEmailDelivery):
		return "The email could not be sent. Please try again later."
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, ErrPermissionDenied):
		return "You don't have enough rights to perform this action."
	case errors.Is(err, ErrBusy):
		return "Another operation is still running. Please wait."
	default:
		return "Server error. Please try again later."
	}
}
