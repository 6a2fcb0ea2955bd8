package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// PortfolioGateway issues the portfolio (work info) calls.
type PortfolioGateway interface {
	Cards(ctx context.Context, userID string) ([]domain.PortfolioCard, error)
	CreateCard(ctx context.Context, userID string, in domain.PortfolioCardInput) error
	Projects(ctx context.Context, cardID string) ([]domain.PortfolioProject, error)
	AddProject(ctx context.Context, cardID string, in domain.PortfolioProjectInput) (string, error)
	DeleteProject(ctx context.Context, projectID string) error
}
