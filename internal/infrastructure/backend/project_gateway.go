package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

const projectPath = "/api/project"

// Intent names sent in the "action" field when explicit intent is enabled.
const (
	intentSuspend  = "suspend"
	intentResume   = "resume"
	intentComplete = "complete"
)

// ProjectGateway implements ports.ProjectGateway over an authenticated Doer.
type ProjectGateway struct {
	doer           Doer
	explicitIntent bool
}

// NewProjectGateway returns a gateway sending through doer, usually a
// *SessionManager.
func NewProjectGateway(doer Doer, explicitIntent bool) *ProjectGateway {
	return &ProjectGateway{doer: doer, explicitIntent: explicitIntent}
}

// ProjectsFor builds a ProjectGateway that uses the backend's intent setting.
func (b *Backend) ProjectsFor(doer Doer) *ProjectGateway {
	return NewProjectGateway(doer, b.explicitIntent)
}

func (g *ProjectGateway) List(ctx context.Context, q ports.ProjectQuery) ([]domain.Project, error) {
	query := url.Values{}
	if q.Role == domain.RoleExecutor {
		query.Set("executorId", q.UserID)
	} else {
		query.Set("customerId", q.UserID)
	}
	if q.Status != "" {
		query.Set("status", q.Status.Label())
	}

	resp, err := g.doer.Do(ctx, Request{Method: http.MethodGet, Path: projectPath, Query: query})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var records []projectRecord
	if err := resp.Decode(&records); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(records))
	for _, rec := range records {
		p, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Suspend sends the legacy bodiless PATCH unless explicit intent is enabled.
func (g *ProjectGateway) Suspend(ctx context.Context, projectID string) error {
	var body any
	if g.explicitIntent {
		body = map[string]string{"action": intentSuspend}
	}
	return g.patch(ctx, projectID, body)
}

func (g *ProjectGateway) Resume(ctx context.Context, projectID, deadline string) error {
	body := map[string]any{"deadlineDate": deadline}
	if g.explicitIntent {
		body["action"] = intentResume
	}
	return g.patch(ctx, projectID, body)
}

func (g *ProjectGateway) Rate(ctx context.Context, projectID string, rating int) error {
	body := map[string]any{"rating": rating}
	if g.explicitIntent {
		body["action"] = intentComplete
	}
	return g.patch(ctx, projectID, body)
}

func (g *ProjectGateway) patch(ctx context.Context, projectID string, body any) error {
	_, err := g.doer.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   projectPath,
		Query:  url.Values{"projectId": {projectID}},
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("update project %s: %w", projectID, err)
	}
	return nil
}
