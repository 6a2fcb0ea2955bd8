package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Transport and session-level failures.
var (
	ErrTransport        = errors.New("connection error")
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Business-rule failures, detected before any request is sent.
var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotOwner           = errors.New("only the owning customer can change this project")
	ErrDeadlineRequired   = errors.New("deadline is required")
	ErrInvalidDeadline    = errors.New("deadline must be a calendar date (YYYY-MM-DD)")
	ErrRatingRequired     = errors.New("rating is required")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrNoSelection        = errors.New("no project selected")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrProjectNotFound    = errors.New("project not found")
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCardNotFound       = errors.New("portfolio card not found")
	ErrWorkNotFound       = errors.New("portfolio project not found")
	ErrRoleNotAllowed     = errors.New("not available for this role")
	ErrTokenRequired      = errors.New("token is required")
	ErrCodeRequired       = errors.New("confirmation code is required")
	ErrInvalidID          = errors.New("identifier must be numeric")
)

// Decoding failures for backend payloads.
var (
	ErrUnknownStatus  = errors.New("unknown project status")
	ErrUnknownRole    = errors.New("unknown role")
	ErrInvalidProject = errors.New("invalid project record")
)

// ErrEmailNotConfirmed is returned when the backend gates a feature on a
// confirmed email address.
var ErrEmailNotConfirmed = errors.New("email address is not confirmed")

// APIError is a non-2xx response from the backend that is not a session
// failure. Fields carries the per-field validation payload as
// field -> rule -> message.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		msgs := e.FieldMessages()
		keys := make([]string, 0, len(msgs))
		for k := range msgs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+msgs[k])
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// FieldMessages flattens Fields to one message per field, picking rules in
// lexical order so the result is stable.
func (e *APIError) FieldMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for field, rules := range e.Fields {
		names := make([]string, 0, len(rules))
		for rule := range rules {
			names = append(names, rule)
		}
		sort.Strings(names)
		if len(names) > 0 {
			out[field] = rules[names[0]]
		}
	}
	return out
}

// IsValidation reports whether the error carries a field map.
func (e *APIError) IsValidation() bool {
	return len(e.Fields) > 0
}

// emailNotConfirmedMarkers are the fragments the backend puts in its message
// when the user has not confirmed their email: "Пользователь не подтвердил
// почту" on profile features, "Почта пользователя не подтверждена" on posts.
var emailNotConfirmedMarkers = []string{"не подтвердил", "не подтверждена"}

// IsEmailConfirmationRequired reports whether err is the backend's
// email-confirmation gate.
func IsEmailConfirmationRequired(err error) bool {
	if errors.Is(err, ErrEmailNotConfirmed) {
		return true
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	for _, marker := range emailNotConfirmedMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsBusinessRule reports whether err was raised locally before any request.
func IsBusinessRule(err error) bool {
	for _, target := range []error{
		ErrInvalidTransition, ErrDeadlineRequired, ErrInvalidDeadline,
		ErrRatingRequired, ErrRatingOutOfRange, ErrNoSelection,
		ErrTokenRequired, ErrCodeRequired, ErrInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// TwoFactorChallenge is returned by login when the account requires a second
// factor. It carries the identifiers the proof-code call needs.
type TwoFactorChallenge struct {
	UserID string
	Role   Role
}

func (c *TwoFactorChallenge) Error() string {
	return "two-factor verification required"
}
