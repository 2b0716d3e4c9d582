package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrMotorcycleNotFound):
		return http.StatusNotFound, "motorcycle not found"
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound, "Motocicleta no encontrada"
	case errors.Is(err, domain.ErrNoActiveTracking):
		return http.StatusNotFound, "no active tracking"
	case errors.Is(err, domain.ErrDuplicatePlate):
		return http.StatusConflict, "license plate already registered"
	case errors.Is(err, domain.ErrInvalidMotorcycle):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrEmissionFailed):
		return http.StatusServiceUnavailable, "position broadcast unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
