package domain

import (
	"net/url"
	"strings"
)

// PortfolioCard is one skill on an executor's portfolio.
type PortfolioCard struct {
	ID          string  `json:"id"`
	SkillName   string  `json:"skillName"`
	Experience  float64 `json:"experience"`
	About       string  `json:"about"`
	HasProjects bool    `json:"hasProjects"`
}

type PortfolioCardInput struct {
	SkillName  string
	Experience float64
	About      string
}

func (in PortfolioCardInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(in.SkillName) == "" {
		errs.add("skillName", "required", "skillName is required")
	}
	if in.Experience < 0 {
		errs.add("experience", "min", "experience must not be negative")
	}
	if strings.TrimSpace(in.About) == "" {
		errs.add("about", "required", "about is required")
	}
	return errs.err()
}

// PortfolioProject is a piece of work attached to a portfolio card.
type PortfolioProject struct {
	ID          string `json:"id"`
	CardID      string `json:"cardId"`
	Name        string `json:"projectName"`
	RepoURL     string `json:"repoUrl,omitempty"`
	Description string `json:"description"`
}

type PortfolioProjectInput struct {
	Name        string
	RepoURL     string
	Description string
}

func (in PortfolioProjectInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.add("projectName", "required", "projectName is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs.add("description", "required", "description is required")
	}
	if in.RepoURL != "" {
		u, err := url.Parse(in.RepoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.add("repoUrl", "url", "repoUrl must be an http(s) link")
		}
	}
	return errs.err()
}
