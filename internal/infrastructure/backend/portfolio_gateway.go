package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/freelancehub/workboard/internal/core/domain"
)

const (
	workInfoPath        = "/api/work-info/"
	workInfoCardPath    = "/api/work-info/card/"
	workInfoProjectPath = "/api/work-info/project/"
)

// PortfolioGateway implements ports.PortfolioGateway over the backend's
// work-info endpoints.
type PortfolioGateway struct {
	doer Doer
}

func NewPortfolioGateway(doer Doer) *PortfolioGateway {
	return &PortfolioGateway{doer: doer}
}

type cardBody struct {
	SkillName                  string  `json:"skillName"`
	Experience                 float64 `json:"experience"`
	InfoAboutSkillOrExperience string  `json:"infoAboutSkillOrExperience"`
}

type workBody struct {
	IDWorkInfo  int64  `json:"id_WorkInfo"`
	ProjectName string `json:"projectName"`
	URLGit      string `json:"urlGit"`
	Description string `json:"description"`
}

func (g *PortfolioGateway) Cards(ctx context.Context, userID string) ([]domain.PortfolioCard, error) {
	resp, err := g.doer.Do(ctx, Request{Method: http.MethodGet, Path: workInfoPath + url.PathEscape(userID)})
	if err != nil {
		return nil, fmt.Errorf("portfolio %s: %w", userID, err)
	}
	var records []cardRecord
	if err := decodeList(resp, &records); err != nil {
		return nil, fmt.Errorf("portfolio %s: %w", userID, err)
	}
	out := make([]domain.PortfolioCard, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (g *PortfolioGateway) CreateCard(ctx context.Context, userID string, in domain.PortfolioCardInput) error {
	_, err := g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   workInfoCardPath + url.PathEscape(userID),
		Body: cardBody{
			SkillName:                  in.SkillName,
			Experience:                 in.Experience,
			InfoAboutSkillOrExperience: in.About,
		},
	})
	if err != nil {
		return fmt.Errorf("create portfolio card: %w", err)
	}
	return nil
}

func (g *PortfolioGateway) Projects(ctx context.Context, cardID string) ([]domain.PortfolioProject, error) {
	resp, err := g.doer.Do(ctx, Request{Method: http.MethodGet, Path: workInfoProjectPath + url.PathEscape(cardID)})
	if err != nil {
		return nil, fmt.Errorf("portfolio card %s projects: %w", cardID, err)
	}
	var records []workRecord
	if err := decodeList(resp, &records); err != nil {
		return nil, fmt.Errorf("portfolio card %s projects: %w", cardID, err)
	}
	out := make([]domain.PortfolioProject, 0, len(records))
	for _, rec := range records {
		w := rec.toDomain()
		if w.CardID == "" {
			w.CardID = cardID
		}
		out = append(out, w)
	}
	return out, nil
}

func (g *PortfolioGateway) AddProject(ctx context.Context, cardID string, in domain.PortfolioProjectInput) (string, error) {
	id, err := numericID(cardID)
	if err != nil {
		return "", fmt.Errorf("add portfolio project: %w", err)
	}
	resp, err := g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   workInfoProjectPath + url.PathEscape(cardID),
		Body: workBody{
			IDWorkInfo:  id,
			ProjectName: in.Name,
			URLGit:      in.RepoURL,
			Description: in.Description,
		},
	})
	if err != nil {
		return "", fmt.Errorf("add portfolio project: %w", err)
	}
	var reply idReply
	if err := resp.Decode(&reply); err != nil {
		return "", fmt.Errorf("add portfolio project: %w", err)
	}
	return string(reply.ID), nil
}

func (g *PortfolioGateway) DeleteProject(ctx context.Context, projectID string) error {
	_, err := g.doer.Do(ctx, Request{Method: http.MethodDelete, Path: workInfoProjectPath + url.PathEscape(projectID)})
	if err != nil {
		return fmt.Errorf("delete portfolio project %s: %w", projectID, err)
	}
	return nil
}
