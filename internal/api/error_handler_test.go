package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/dashboard/suspend", nil), rec)

	cookie := middleware.NewSessionCookie("secret", time.Hour, false)
	NewHTTPErrorHandler(zerolog.Nop(), cookie)(err, c)

	var body errorResponse
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &body); jsonErr != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), jsonErr)
	}
	return rec, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"business rule", domain.ErrDeadlineRequired, http.StatusUnprocessableEntity},
		{"invalid transition", fmt.Errorf("suspend: %w", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{"not owner", domain.ErrNotOwner, http.StatusForbidden},
		{"in flight", domain.ErrSubmissionInFlight, http.StatusConflict},
		{"not found", domain.ErrProjectNotFound, http.StatusNotFound},
		{"post not found", fmt.Errorf("update post: %w", domain.ErrPostNotFound), http.StatusNotFound},
		{"card not found", domain.ErrCardNotFound, http.StatusNotFound},
		{"wrong role", domain.ErrRoleNotAllowed, http.StatusForbidden},
		{"non-numeric id", domain.ErrInvalidID, http.StatusUnprocessableEntity},
		{"posts email gate", &domain.APIError{Status: 403, Message: "Почта пользователя не подтверждена"}, http.StatusForbidden},
		{"transport", fmt.Errorf("%w: PATCH /api/project: dial tcp", domain.ErrTransport), http.StatusBadGateway},
		{"unknown status", domain.ErrUnknownStatus, http.StatusBadGateway},
		{"backend 4xx", &domain.APIError{Status: http.StatusBadRequest, Message: "Проект уже завершен"}, http.StatusBadRequest},
		{"backend 5xx", &domain.APIError{Status: http.StatusInternalServerError}, http.StatusBadGateway},
		{"email gate", &domain.APIError{Status: http.StatusBadRequest, Message: "Пользователь не подтвердил почту"}, http.StatusForbidden},
		{"echo", echo.NewHTTPError(http.StatusBadRequest, "invalid request body"), http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := render(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestErrorHandler_BackendMessageVerbatim(t *testing.T) {
	_, body := render(t, &domain.APIError{Status: http.StatusBadRequest, Message: "Проект уже завершен"})
	if body.Error != "Проект уже завершен" {
		t.Fatalf("expected the backend message, got %q", body.Error)
	}
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	rec, body := render(t, &domain.APIError{
		Status: http.StatusBadRequest,
		Fields: map[string]map[string]string{"deadlineDate": {"isDate": "must be a date"}},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if body.Fields["deadlineDate"] != "must be a date" {
		t.Fatalf("unexpected fields: %v", body.Fields)
	}
}

func TestErrorHandler_SessionExpiredEndsBrowserSession(t *testing.T) {
	rec, body := render(t, fmt.Errorf("%w: refresh failed", domain.ErrSessionExpired))

	if rec.Code != http.StatusUnauthorized || body.Redirect != "/login" {
		t.Fatalf("expected 401 with redirect, got %d %+v", rec.Code, body)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "wb_session" || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be cleared, got %+v", cookies)
	}
}

func TestErrorHandler_UnexpectedHidesDetails(t *testing.T) {
	_, body := render(t, errors.New("mongo: connection reset"))
	if body.Error != "internal server error" {
		t.Fatalf("internal details leaked: %q", body.Error)
	}
}
