package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// PortfolioService manages portfolio cards and their projects. Anyone signed
// in can read a portfolio; only its owner changes it.
type PortfolioService struct {
	gateway  ports.PortfolioGateway
	accounts ports.AccountGateway
	log      zerolog.Logger
}

func NewPortfolioService(gateway ports.PortfolioGateway, accounts ports.AccountGateway, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{gateway: gateway, accounts: accounts, log: log}
}

// Cards lists the cards of profileID, or of the viewer when it is empty.
// On the viewer's own portfolio the email gate mails a confirmation link.
func (s *PortfolioService) Cards(ctx context.Context, viewer domain.Session, profileID string) ([]domain.PortfolioCard, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	own := viewer.IsOwnProfile(profileID)
	if profileID == "" {
		profileID = viewer.UserID
	}
	cards, err := s.gateway.Cards(ctx, profileID)
	if err != nil {
		if own {
			return nil, mailOnEmailGate(ctx, s.accounts, viewer, err, s.log)
		}
		return nil, err
	}
	return cards, nil
}

func (s *PortfolioService) CreateCard(ctx context.Context, viewer domain.Session, in domain.PortfolioCardInput) ([]domain.PortfolioCard, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.gateway.CreateCard(ctx, viewer.UserID, in); err != nil {
		return nil, mailOnEmailGate(ctx, s.accounts, viewer, err, s.log)
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("skill", in.SkillName).Msg("portfolio card created")

	cards, err := s.gateway.Cards(ctx, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh portfolio: %w", err)
	}
	return cards, nil
}

func (s *PortfolioService) Projects(ctx context.Context, cardID string) ([]domain.PortfolioProject, error) {
	if strings.TrimSpace(cardID) == "" {
		return nil, domain.ErrInvalidID
	}
	return s.gateway.Projects(ctx, cardID)
}

func (s *PortfolioService) AddProject(ctx context.Context, viewer domain.Session, cardID string, in domain.PortfolioProjectInput) ([]domain.PortfolioProject, error) {
	if err := s.ownCard(ctx, viewer, cardID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	id, err := s.gateway.AddProject(ctx, cardID, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("card_id", cardID).Str("work_id", id).Msg("portfolio project added")
	return s.refetchProjects(ctx, cardID)
}

// DeleteProject removes a project from one of the viewer's cards. The
// project must be listed under that card.
func (s *PortfolioService) DeleteProject(ctx context.Context, viewer domain.Session, cardID, projectID string) ([]domain.PortfolioProject, error) {
	if err := s.ownCard(ctx, viewer, cardID); err != nil {
		return nil, err
	}
	works, err := s.gateway.Projects(ctx, cardID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, w := range works {
		if w.ID == projectID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("card %s project %s: %w", cardID, projectID, domain.ErrWorkNotFound)
	}

	if err := s.gateway.DeleteProject(ctx, projectID); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("card_id", cardID).Str("work_id", projectID).Msg("portfolio project deleted")
	return s.refetchProjects(ctx, cardID)
}

func (s *PortfolioService) ownCard(ctx context.Context, viewer domain.Session, cardID string) error {
	if !viewer.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	if strings.TrimSpace(cardID) == "" {
		return domain.ErrInvalidID
	}
	cards, err := s.gateway.Cards(ctx, viewer.UserID)
	if err != nil {
		return mailOnEmailGate(ctx, s.accounts, viewer, err, s.log)
	}
	for _, c := range cards {
		if c.ID == cardID {
			return nil
		}
	}
	return fmt.Errorf("card %s: %w", cardID, domain.ErrCardNotFound)
}

func (s *PortfolioService) refetchProjects(ctx context.Context, cardID string) ([]domain.PortfolioProject, error) {
	works, err := s.gateway.Projects(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("refresh portfolio projects: %w", err)
	}
	return works, nil
}
