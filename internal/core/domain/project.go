package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	StatusInProgress ProjectStatus = "in_progress"
	StatusSuspended  ProjectStatus = "suspended"
	StatusCompleted  ProjectStatus = "completed"
)

// The backend reports statuses with these display labels.
const (
	labelInProgress = "В процессе"
	labelSuspended  = "Приостановлен"
	labelCompleted  = "Завершен"
)

// ParseProjectStatus accepts either the backend label or the internal name.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch strings.TrimSpace(s) {
	case labelInProgress, string(StatusInProgress):
		return StatusInProgress, nil
	case labelSuspended, string(StatusSuspended):
		return StatusSuspended, nil
	case labelCompleted, string(StatusCompleted):
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Label returns the label the backend uses for the status in queries and payloads.
func (s ProjectStatus) Label() string {
	switch s {
	case StatusInProgress:
		return labelInProgress
	case StatusSuspended:
		return labelSuspended
	case StatusCompleted:
		return labelCompleted
	}
	return string(s)
}

// Terminal reports whether no action is defined from s.
func (s ProjectStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// ProjectAction is a user intent that may move a project between statuses.
type ProjectAction string

const (
	ActionSuspend         ProjectAction = "suspend"
	ActionResume          ProjectAction = "resume"
	ActionConfirmComplete ProjectAction = "confirm_complete"
	ActionRate            ProjectAction = "rate"
)

// validTransitions is the only place that decides which action is legal from
// which status. ActionConfirmComplete keeps the status: it only opens the
// rating step, and ActionRate is what commits completion.
var validTransitions = map[ProjectStatus]map[ProjectAction]ProjectStatus{
	StatusInProgress: {
		ActionSuspend:         StatusSuspended,
		ActionConfirmComplete: StatusInProgress,
		ActionRate:            StatusCompleted,
	},
	StatusSuspended: {
		ActionResume: StatusInProgress,
	},
}

// Allows reports whether action is legal from s.
func (s ProjectStatus) Allows(action ProjectAction) bool {
	_, ok := validTransitions[s][action]
	return ok
}

// Next returns the status reached by applying action to s.
func (s ProjectStatus) Next(action ProjectAction) (ProjectStatus, error) {
	next, ok := validTransitions[s][action]
	if !ok {
		return s, fmt.Errorf("%w (%s from %s)", ErrInvalidTransition, action, s)
	}
	return next, nil
}

const (
	MinRating = 1
	MaxRating = 5
)

// DeadlineLayout is the calendar date format the backend expects for deadlineDate.
const DeadlineLayout = "2006-01-02"

// ValidateRating rejects anything outside 1..5; 0 means nothing was selected.
func ValidateRating(rating int) error {
	if rating == 0 {
		return ErrRatingRequired
	}
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: %d", ErrRatingOutOfRange, rating)
	}
	return nil
}

// ParseDeadline checks that s is a calendar date. Past dates are accepted.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrDeadlineRequired
	}
	d, err := time.Parse(DeadlineLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, s)
	}
	return d, nil
}

// Project is a contract between a customer and an executor created when the
// customer accepts a feedback (bid).
type Project struct {
	ID           string        `json:"id"`
	Name         string        `json:"projectName"`
	CustomerID   string        `json:"customerId,omitempty"`
	CustomerName string        `json:"customerName,omitempty"`
	ExecutorID   string        `json:"executorId,omitempty"`
	ExecutorName string        `json:"executorName,omitempty"`
	Price        float64       `json:"price"`
	DeadlineDate string        `json:"deadlineDate,omitempty"`
	Status       ProjectStatus `json:"status"`
	Rating       *int          `json:"rating,omitempty"`
}

// OwnedBy reports whether userID is the owning customer. A project whose
// customer id the backend did not report is treated as owned by the viewer
// whose own list it came from.
func (p Project) OwnedBy(userID string) bool {
	if p.CustomerID == "" {
		return true
	}
	return p.CustomerID == userID
}

// Validate checks the record-level invariants.
func (p Project) Validate() error {
	if p.Rating != nil {
		if p.Status != StatusCompleted {
			return fmt.Errorf("%w: rating on %s project %s", ErrInvalidProject, p.Status, p.ID)
		}
		if err := ValidateRating(*p.Rating); err != nil {
			return fmt.Errorf("%w: project %s: %v", ErrInvalidProject, p.ID, err)
		}
	}
	return nil
}
