package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// PostService manages a customer's posts. Every change is followed by a
// refetch of the customer's list, the same way dashboard transitions are.
type PostService struct {
	gateway  ports.PostGateway
	accounts ports.AccountGateway
	log      zerolog.Logger
}

func NewPostService(gateway ports.PostGateway, accounts ports.AccountGateway, log zerolog.Logger) *PostService {
	return &PostService{gateway: gateway, accounts: accounts, log: log}
}

// Mine lists the viewer's posts. The backend withholds them until the
// viewer's email is confirmed; a new confirmation link is mailed then.
func (s *PostService) Mine(ctx context.Context, viewer domain.Session) ([]domain.Post, error) {
	if err := requireRole(viewer, domain.RoleCustomer); err != nil {
		return nil, err
	}
	list, err := s.gateway.ListOwn(ctx, viewer.UserID)
	if err != nil {
		return nil, mailOnEmailGate(ctx, s.accounts, viewer, err, s.log)
	}
	return list, nil
}

func (s *PostService) Create(ctx context.Context, viewer domain.Session, in domain.PostInput) ([]domain.Post, error) {
	if err := requireRole(viewer, domain.RoleCustomer); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	id, err := s.gateway.Create(ctx, viewer.UserID, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("post_id", id).Msg("post created")
	return s.refetch(ctx, viewer)
}

func (s *PostService) Update(ctx context.Context, viewer domain.Session, postID string, in domain.PostInput) ([]domain.Post, error) {
	if err := s.owned(ctx, viewer, postID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.gateway.Update(ctx, postID, in); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("post_id", postID).Msg("post updated")
	return s.refetch(ctx, viewer)
}

func (s *PostService) Delete(ctx context.Context, viewer domain.Session, postID string) ([]domain.Post, error) {
	if err := s.owned(ctx, viewer, postID); err != nil {
		return nil, err
	}
	if err := s.gateway.Delete(ctx, postID); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("post_id", postID).Msg("post deleted")
	return s.refetch(ctx, viewer)
}

// Search lists other customers' posts for bidding.
func (s *PostService) Search(ctx context.Context, viewer domain.Session, q domain.PostSearch) ([]domain.Post, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return s.gateway.Search(ctx, viewer.UserID, q)
}

// owned checks that postID is one of the viewer's posts, so a post id from
// someone else's listing never reaches an edit or delete call.
func (s *PostService) owned(ctx context.Context, viewer domain.Session, postID string) error {
	if err := requireRole(viewer, domain.RoleCustomer); err != nil {
		return err
	}
	if strings.TrimSpace(postID) == "" {
		return domain.ErrInvalidID
	}
	list, err := s.gateway.ListOwn(ctx, viewer.UserID)
	if err != nil {
		return mailOnEmailGate(ctx, s.accounts, viewer, err, s.log)
	}
	for _, p := range list {
		if p.ID == postID {
			return nil
		}
	}
	return fmt.Errorf("post %s: %w", postID, domain.ErrPostNotFound)
}

func (s *PostService) refetch(ctx context.Context, viewer domain.Session) ([]domain.Post, error) {
	list, err := s.gateway.ListOwn(ctx, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh posts: %w", err)
	}
	return list, nil
}
