package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// TransitionRecorder accepts journal entries without blocking the caller on
// persistence.
type TransitionRecorder interface {
	Record(rec domain.TransitionRecord)
}

// TransitionJournal persists journal entries.
type TransitionJournal interface {
	Insert(ctx context.Context, rec *domain.TransitionRecord) error
	ListByProject(ctx context.Context, projectID string, limit int64) ([]domain.TransitionRecord, error)
}

// SubmissionGuard prevents two submissions for the same key from being in
// flight at once, across processes.
type SubmissionGuard interface {
	// Acquire returns false when the key is already held.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
