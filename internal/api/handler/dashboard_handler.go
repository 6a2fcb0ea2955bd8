package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// DashboardHandler serves the project dashboard. Lifecycle actions always act
// on the viewer's own dashboard; other profiles are read-only.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

func (h *DashboardHandler) dashboard(c echo.Context, profileID string) (ports.DashboardService, error) {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return nil, err
	}
	return ws.Dashboard(c.Request().Context(), profileID)
}

// Get loads a dashboard. Without :userId it is the viewer's own.
//
// @Summary      Load dashboard
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Param        userId  path      string  false  "Profile owner"
// @Success      200     {object}  domain.DashboardState
// @Failure      401     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/dashboard/{userId} [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	d, err := h.dashboard(c, c.Param("userId"))
	if err != nil {
		return err
	}
	if err := d.Load(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View())
}

// Archive lists the completed projects of a profile.
//
// @Summary      List completed projects
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Param        userId  path      string  true  "Profile owner"
// @Success      200     {object}  projectsResponse
// @Failure      401     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/dashboard/{userId}/archive [get]
func (h *DashboardHandler) Archive(c echo.Context) error {
	d, err := h.dashboard(c, c.Param("userId"))
	if err != nil {
		return err
	}
	projects, err := d.LoadArchive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projectsResponse{Projects: projects})
}

// Select opens the action dialog for a project on the viewer's dashboard.
//
// @Summary      Select project
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  domain.DashboardState
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/dashboard/projects/{projectId}/select [post]
func (h *DashboardHandler) Select(c echo.Context) error {
	d, err := h.dashboard(c, "")
	if err != nil {
		return err
	}
	id := c.Param("projectId")

	err = d.Select(id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		// The list may not have been loaded in this process yet.
		if err = d.Load(c.Request().Context()); err != nil {
			return err
		}
		err = d.Select(id)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View())
}

// Dismiss closes the open dialog. A request still in flight for it no
// longer changes the dialog when it returns.
//
// @Summary      Close dialog
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.DashboardState
// @Router       /v1/dashboard/dismiss [post]
func (h *DashboardHandler) Dismiss(c echo.Context) error {
	d, err := h.dashboard(c, "")
	if err != nil {
		return err
	}
	d.Dismiss()
	return c.JSON(http.StatusOK, d.View())
}

// Suspend pauses the selected in-progress project.
//
// @Summary      Suspend project
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.DashboardState
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/dashboard/suspend [post]
func (h *DashboardHandler) Suspend(c echo.Context) error {
	d, err := h.dashboard(c, "")
	if err != nil {
		return err
	}
	ctx, cancel := submitContext(c)
	defer cancel()
	if err := d.Suspend(ctx); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View())
}

// Resume restarts the selected suspended project with a new deadline.
//
// @Summary      Resume project
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      resumeRequest  true  "New deadline (YYYY-MM-DD)"
// @Success      200   {object}  domain.DashboardState
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/dashboard/resume [post]
func (h *DashboardHandler) Resume(c echo.Context) error {
	d, err := h.dashboard(c, "")
	if err != nil {
		return err
	}
	var req resumeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := submitContext(c)
	defer cancel()
	if err := d.Resume(ctx, req.DeadlineDate); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View())
}

// Complete is the first phase of completion: it swaps the action dialog for
// the rating dialog without contacting the backend.
//
// @Summary      Confirm completion
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.DashboardState
// @Failure      422  {object}  errorResponse
// @Router       /v1/dashboard/complete [post]
func (h *DashboardHandler) Complete(c echo.Context) error {
	d, err := h.dashboard(c, "")
	if err != nil {
		return err
	}
	if err := d.ConfirmComplete(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View())
}

// Rate submits the executor rating and completes the project.
//
// @Summary      Rate and complete project
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      rateRequest  true  "Rating 1..5"
// @Success      200   {object}  domain.DashboardState
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/dashboard/rate [post]
func (h *DashboardHandler) Rate(c echo.Context) error {
	d, err := h.dashboard(c, "")
	if err != nil {
		return err
	}
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx, cancel := submitContext(c)
	defer cancel()
	if err := d.SubmitRating(ctx, req.Rating); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View())
}
