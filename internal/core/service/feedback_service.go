package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// FeedbackService lists and answers bids. Like project transitions, every
// accepted or rejected bid is followed by a refetch rather than a local edit.
type FeedbackService struct {
	gateway ports.FeedbackGateway
	log     zerolog.Logger
}

func NewFeedbackService(gateway ports.FeedbackGateway, log zerolog.Logger) *FeedbackService {
	return &FeedbackService{gateway: gateway, log: log}
}

func (s *FeedbackService) List(ctx context.Context, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	if q.PostID == "" && q.UserID == "" {
		return nil, fmt.Errorf("list feedback: %w", domain.ErrNoSelection)
	}
	return s.gateway.List(ctx, q)
}

// Accept turns a bid into a project with the given deadline and returns the
// refreshed bid list for q.
func (s *FeedbackService) Accept(ctx context.Context, feedbackID, deadline string, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	if _, err := domain.ParseDeadline(deadline); err != nil {
		return nil, err
	}
	if err := s.gateway.Accept(ctx, feedbackID, deadline); err != nil {
		return nil, err
	}
	s.log.Info().Str("feedback_id", feedbackID).Str("deadline", deadline).Msg("feedback accepted")
	return s.refetch(ctx, q)
}

// Reject declines a bid and returns the refreshed bid list for q.
func (s *FeedbackService) Reject(ctx context.Context, feedbackID string, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	if err := s.gateway.Reject(ctx, feedbackID); err != nil {
		return nil, err
	}
	s.log.Info().Str("feedback_id", feedbackID).Msg("feedback rejected")
	return s.refetch(ctx, q)
}

// Submit places the executor's bid on a post.
func (s *FeedbackService) Submit(ctx context.Context, viewer domain.Session, bid domain.Bid) error {
	if err := requireRole(viewer, domain.RoleExecutor); err != nil {
		return err
	}
	if err := bid.Validate(); err != nil {
		return err
	}
	if err := s.gateway.Submit(ctx, viewer.UserID, bid); err != nil {
		return err
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("post_id", bid.PostID).Float64("suggested_price", bid.SuggestedPrice).Msg("bid submitted")
	return nil
}

func (s *FeedbackService) refetch(ctx context.Context, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	if q.PostID == "" && q.UserID == "" {
		return nil, nil
	}
	list, err := s.gateway.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("refresh feedback: %w", err)
	}
	return list, nil
}
