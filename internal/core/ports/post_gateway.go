package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// PostGateway issues the post calls. Own posts are addressed by the
// customer's id, single posts by their own id.
type PostGateway interface {
	ListOwn(ctx context.Context, customerID string) ([]domain.Post, error)
	Create(ctx context.Context, customerID string, in domain.PostInput) (string, error)
	Update(ctx context.Context, postID string, in domain.PostInput) error
	Delete(ctx context.Context, postID string) error
	Search(ctx context.Context, viewerID string, q domain.PostSearch) ([]domain.Post, error)
}
