package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/core/domain"
)

const loginRedirect = "/login"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Ends the browser session when the backend session is gone.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, cookie *middleware.SessionCookie) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if code == http.StatusUnauthorized && body.Redirect != "" && cookie != nil {
			cookie.Clear(c)
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Redirect: loginRedirect}
	case domain.IsEmailConfirmationRequired(err):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case domain.IsBusinessRule(err):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrRoleNotAllowed):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrProjectNotFound), errors.Is(err, domain.ErrFeedbackNotFound),
		errors.Is(err, domain.ErrPostNotFound), errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrWorkNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}

	// Backend answers are passed through with their message; backend faults
	// become a bad gateway.
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsValidation() {
			return http.StatusUnprocessableEntity, errorResponse{Error: apiErr.Error(), Fields: apiErr.FieldMessages()}
		}
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, errorResponse{Error: apiErr.Error()}
		}
		log.Warn().Err(err).Int("backend_status", apiErr.Status).Str("path", c.Path()).Msg("backend error")
		return http.StatusBadGateway, errorResponse{Error: apiErr.Error()}
	}

	switch {
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway, errorResponse{Error: domain.ErrTransport.Error()}
	case errors.Is(err, domain.ErrUnknownStatus), errors.Is(err, domain.ErrInvalidProject):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend sent an unreadable payload")
		return http.StatusBadGateway, errorResponse{Error: "unexpected response from backend"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
