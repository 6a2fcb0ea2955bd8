package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

const (
	feedbackPath       = "/api/feedback"
	feedbackAcceptPath = "/api/feedback/accept"
	feedbackRejectPath = "/api/feedback/reject"
)

// FeedbackGateway implements ports.FeedbackGateway.
type FeedbackGateway struct {
	doer Doer
}

func NewFeedbackGateway(doer Doer) *FeedbackGateway {
	return &FeedbackGateway{doer: doer}
}

func (g *FeedbackGateway) List(ctx context.Context, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	query := url.Values{}
	if q.PostID != "" {
		query.Set("postId", q.PostID)
	} else {
		query.Set("userId", q.UserID)
	}

	resp, err := g.doer.Do(ctx, Request{Method: http.MethodGet, Path: feedbackPath, Query: query})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	var records []feedbackRecord
	if err := resp.Decode(&records); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	out := make([]domain.Feedback, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (g *FeedbackGateway) Accept(ctx context.Context, feedbackID, deadline string) error {
	_, err := g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   feedbackAcceptPath,
		Query:  url.Values{"feedbackId": {feedbackID}},
		Body:   map[string]string{"deadlineDate": deadline},
	})
	if err != nil {
		return fmt.Errorf("accept feedback %s: %w", feedbackID, err)
	}
	return nil
}

func (g *FeedbackGateway) Reject(ctx context.Context, feedbackID string) error {
	_, err := g.doer.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   feedbackRejectPath,
		Query:  url.Values{"feedbackId": {feedbackID}},
	})
	if err != nil {
		return fmt.Errorf("reject feedback %s: %w", feedbackID, err)
	}
	return nil
}

type bidBody struct {
	PostID         int64   `json:"postId"`
	UserID         int64   `json:"userId"`
	SuggestedPrice float64 `json:"suggestedPrice"`
}

func (g *FeedbackGateway) Submit(ctx context.Context, executorID string, bid domain.Bid) error {
	postID, err := numericID(bid.PostID)
	if err != nil {
		return fmt.Errorf("submit bid: %w", err)
	}
	userID, err := numericID(executorID)
	if err != nil {
		return fmt.Errorf("submit bid: %w", err)
	}
	_, err = g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   feedbackPath,
		Body:   bidBody{PostID: postID, UserID: userID, SuggestedPrice: bid.SuggestedPrice},
	})
	if err != nil {
		return fmt.Errorf("submit bid on post %s: %w", bid.PostID, err)
	}
	return nil
}
