package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// ProjectQuery selects the projects of one user. The backend filters by
// executorId for executors and customerId otherwise.
type ProjectQuery struct {
	UserID string
	Role   domain.Role
	Status domain.ProjectStatus // optional
}

// ProjectGateway issues the project calls. Every method is a single request;
// sequencing and refetching are the caller's job.
type ProjectGateway interface {
	List(ctx context.Context, q ProjectQuery) ([]domain.Project, error)
	Suspend(ctx context.Context, projectID string) error
	Resume(ctx context.Context, projectID, deadline string) error
	Rate(ctx context.Context, projectID string, rating int) error
}
