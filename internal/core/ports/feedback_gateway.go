package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// FeedbackQuery lists the bids on one post, or all bids of one user when
// PostID is empty.
type FeedbackQuery struct {
	PostID string
	UserID string
}

// FeedbackGateway issues the feedback (bid) calls.
type FeedbackGateway interface {
	List(ctx context.Context, q FeedbackQuery) ([]domain.Feedback, error)
	Accept(ctx context.Context, feedbackID, deadline string) error
	Reject(ctx context.Context, feedbackID string) error
	Submit(ctx context.Context, executorID string, bid domain.Bid) error
}
