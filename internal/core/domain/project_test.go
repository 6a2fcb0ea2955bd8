package domain

import (
	"errors"
	"testing"
)

func TestProjectStatus_Allows(t *testing.T) {
	cases := []struct {
		from   ProjectStatus
		action ProjectAction
		want   bool
	}{
		{StatusInProgress, ActionSuspend, true},
		{StatusInProgress, ActionConfirmComplete, true},
		{StatusInProgress, ActionRate, true},
		{StatusInProgress, ActionResume, false},
		{StatusSuspended, ActionResume, true},
		{StatusSuspended, ActionSuspend, false},
		{StatusSuspended, ActionRate, false},
		{StatusSuspended, ActionConfirmComplete, false},
		{StatusCompleted, ActionSuspend, false},
		{StatusCompleted, ActionResume, false},
		{StatusCompleted, ActionRate, false},
	}
	for _, tc := range cases {
		if got := tc.from.Allows(tc.action); got != tc.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tc.from, tc.action, got, tc.want)
		}
	}
}

func TestProjectStatus_Next(t *testing.T) {
	next, err := StatusInProgress.Next(ActionSuspend)
	if err != nil || next != StatusSuspended {
		t.Fatalf("suspend: got %s, %v", next, err)
	}
	next, err = StatusSuspended.Next(ActionResume)
	if err != nil || next != StatusInProgress {
		t.Fatalf("resume: got %s, %v", next, err)
	}
	next, err = StatusInProgress.Next(ActionConfirmComplete)
	if err != nil || next != StatusInProgress {
		t.Fatalf("confirm must not change status: got %s, %v", next, err)
	}
	next, err = StatusInProgress.Next(ActionRate)
	if err != nil || next != StatusCompleted {
		t.Fatalf("rate: got %s, %v", next, err)
	}
	if _, err := StatusCompleted.Next(ActionResume); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestProjectStatus_Terminal(t *testing.T) {
	if !StatusCompleted.Terminal() {
		t.Error("completed must be terminal")
	}
	if StatusInProgress.Terminal() || StatusSuspended.Terminal() {
		t.Error("in_progress and suspended must not be terminal")
	}
}

func TestParseProjectStatus(t *testing.T) {
	cases := map[string]ProjectStatus{
		"В процессе":    StatusInProgress,
		"Приостановлен": StatusSuspended,
		"Завершен":      StatusCompleted,
		"suspended":     StatusSuspended,
		" Завершен ":    StatusCompleted,
	}
	for in, want := range cases {
		got, err := ParseProjectStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseProjectStatus(%q) = %s, %v; want %s", in, got, err, want)
		}
		if got.Label() == "" {
			t.Errorf("empty label for %s", got)
		}
	}
	if _, err := ParseProjectStatus("archived"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestValidateRating(t *testing.T) {
	if err := ValidateRating(0); !errors.Is(err, ErrRatingRequired) {
		t.Fatalf("0: expected ErrRatingRequired, got %v", err)
	}
	for _, r := range []int{-1, 6, 10} {
		if err := ValidateRating(r); !errors.Is(err, ErrRatingOutOfRange) {
			t.Errorf("%d: expected ErrRatingOutOfRange, got %v", r, err)
		}
	}
	for r := MinRating; r <= MaxRating; r++ {
		if err := ValidateRating(r); err != nil {
			t.Errorf("%d: unexpected error %v", r, err)
		}
	}
}

func TestParseDeadline(t *testing.T) {
	if _, err := ParseDeadline("  "); !errors.Is(err, ErrDeadlineRequired) {
		t.Fatalf("expected ErrDeadlineRequired, got %v", err)
	}
	if _, err := ParseDeadline("31.12.2025"); !errors.Is(err, ErrInvalidDeadline) {
		t.Fatalf("expected ErrInvalidDeadline, got %v", err)
	}
	// No lower bound: a date in the past is accepted.
	d, err := ParseDeadline("2001-02-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2001 || d.Month() != 2 || d.Day() != 3 {
		t.Fatalf("unexpected date: %v", d)
	}
}

func TestProject_Validate(t *testing.T) {
	five := 5
	zero := 0

	ok := Project{ID: "1", Status: StatusCompleted, Rating: &five}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rated := Project{ID: "2", Status: StatusInProgress, Rating: &five}
	if err := rated.Validate(); !errors.Is(err, ErrInvalidProject) {
		t.Fatalf("expected ErrInvalidProject for rating on active project, got %v", err)
	}

	bad := Project{ID: "3", Status: StatusCompleted, Rating: &zero}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidProject) {
		t.Fatalf("expected ErrInvalidProject for zero rating, got %v", err)
	}
}

func TestProject_OwnedBy(t *testing.T) {
	p := Project{ID: "42", CustomerID: "7"}
	if !p.OwnedBy("7") {
		t.Error("customer 7 should own project 42")
	}
	if p.OwnedBy("8") {
		t.Error("customer 8 should not own project 42")
	}
}
