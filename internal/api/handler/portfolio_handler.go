package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/core/domain"
)

type PortfolioHandler struct{}

func NewPortfolioHandler() *PortfolioHandler {
	return &PortfolioHandler{}
}

// Cards lists the portfolio of userId, or the viewer's own without one.
//
// @Summary      List portfolio cards
// @Tags         portfolio
// @Produce      json
// @Security     CookieAuth
// @Param        userId  path      string  false  "Profile owner"
// @Success      200     {object}  cardsResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/portfolio/{userId} [get]
func (h *PortfolioHandler) Cards(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	cards, err := ws.Portfolio().Cards(c.Request().Context(), sess, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cardsResponse{Cards: cards})
}

// CreateCard adds a skill card to the viewer's portfolio.
//
// @Summary      Create portfolio card
// @Tags         portfolio
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      cardRequest  true  "Card"
// @Success      201   {object}  cardsResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/portfolio/cards [post]
func (h *PortfolioHandler) CreateCard(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req cardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := submitContext(c)
	defer cancel()
	cards, err := ws.Portfolio().CreateCard(ctx, sess, domain.PortfolioCardInput{
		SkillName:  req.SkillName,
		Experience: req.Experience,
		About:      req.About,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cardsResponse{Cards: cards})
}

// Projects lists the work attached to a card.
//
// @Summary      List card projects
// @Tags         portfolio
// @Produce      json
// @Security     CookieAuth
// @Param        cardId  path      string  true  "Card ID"
// @Success      200     {object}  portfolioProjectsResponse
// @Failure      422     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/portfolio/cards/{cardId}/projects [get]
func (h *PortfolioHandler) Projects(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	works, err := ws.Portfolio().Projects(c.Request().Context(), c.Param("cardId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, portfolioProjectsResponse{Projects: works})
}

// AddProject attaches work to one of the viewer's cards.
//
// @Summary      Add card project
// @Tags         portfolio
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        cardId  path      string                   true  "Card ID"
// @Param        body    body      portfolioProjectRequest  true  "Project"
// @Success      201     {object}  portfolioProjectsResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/portfolio/cards/{cardId}/projects [post]
func (h *PortfolioHandler) AddProject(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req portfolioProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := submitContext(c)
	defer cancel()
	works, err := ws.Portfolio().AddProject(ctx, sess, c.Param("cardId"), domain.PortfolioProjectInput{
		Name:        req.ProjectName,
		RepoURL:     req.RepoURL,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, portfolioProjectsResponse{Projects: works})
}

// DeleteProject removes work from one of the viewer's cards.
//
// @Summary      Delete card project
// @Tags         portfolio
// @Produce      json
// @Security     CookieAuth
// @Param        cardId     path      string  true  "Card ID"
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  portfolioProjectsResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Failure      502        {object}  errorResponse
// @Router       /v1/portfolio/cards/{cardId}/projects/{projectId} [delete]
func (h *PortfolioHandler) DeleteProject(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := submitContext(c)
	defer cancel()
	works, err := ws.Portfolio().DeleteProject(ctx, sess, c.Param("cardId"), c.Param("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, portfolioProjectsResponse{Projects: works})
}
