package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/apperr"
)

// httpError maps an error kind to its HTTP status and user-facing message.
func httpError(err error) *echo.HTTPError {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidCredentials), errors.Is(err, apperr.ErrSessionExpired):
		code = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrPermissionDenied):
		code = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperr.ErrDuplicateEmail), errors.Is(err, apperr.ErrBusy):
		code = http.StatusConflict
	case errors.Is(err, apperr.ErrEmailDelivery):
		code = http.StatusBadGateway
	}
	return echo.NewHTTPError(code, apperr.Message(err))
}
