package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

type noopRecorder struct{}

func (noopRecorder) Record(domain.TransitionRecord) {}

// LifecycleController holds one viewer's dashboard and drives project status
// changes from it. All state sits behind mu, which is never held across a
// backend call.
//
// Every opened or dismissed dialog bumps generation. A transition captures
// the generation it started under and only closes the dialog if nothing has
// changed since, so a response arriving after the user moved on is ignored.
type LifecycleController struct {
	projects ports.ProjectGateway
	accounts ports.AccountGateway
	recorder ports.TransitionRecorder
	guard    ports.SubmissionGuard
	log      zerolog.Logger

	viewer    domain.Session
	profileID string

	mu         sync.Mutex
	user       *domain.UserInfo
	list       []domain.Project
	archive    []domain.Project
	dialog     domain.Dialog
	selected   *domain.Project
	deadline   string
	generation uint64
	submitting bool
	lastErr    string
}

// NewLifecycleController returns a controller for viewer looking at
// profileID. An empty profileID is the viewer's own dashboard. recorder and
// guard may be nil.
func NewLifecycleController(
	projects ports.ProjectGateway,
	accounts ports.AccountGateway,
	recorder ports.TransitionRecorder,
	guard ports.SubmissionGuard,
	viewer domain.Session,
	profileID string,
	log zerolog.Logger,
) *LifecycleController {
	if profileID == "" {
		profileID = viewer.UserID
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &LifecycleController{
		projects:  projects,
		accounts:  accounts,
		recorder:  recorder,
		guard:     guard,
		viewer:    viewer,
		profileID: profileID,
		dialog:    domain.DialogNone,
		log: log.With().
			Str("component", "lifecycle").
			Str("viewer_id", viewer.UserID).
			Str("profile_id", profileID).
			Logger(),
	}
}

func (c *LifecycleController) own() bool {
	return c.viewer.IsOwnProfile(c.profileID)
}

func (c *LifecycleController) ownQuery(status domain.ProjectStatus) ports.ProjectQuery {
	return ports.ProjectQuery{UserID: c.profileID, Role: c.viewer.Role, Status: status}
}

// Load fetches the profile block and, on the viewer's own dashboard, the
// project list. Both requests run in parallel.
func (c *LifecycleController) Load(ctx context.Context) error {
	var (
		user     *domain.UserInfo
		projects []domain.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := c.accounts.UserInfo(gctx, c.profileID)
		if err != nil {
			return err
		}
		user = info
		return nil
	})
	if c.own() {
		g.Go(func() error {
			list, err := c.projects.List(gctx, c.ownQuery(""))
			if err != nil {
				return err
			}
			projects = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.setError(err)
		return fmt.Errorf("load dashboard: %w", err)
	}

	c.mu.Lock()
	c.user = user
	if c.own() {
		c.list = projects
	}
	c.lastErr = ""
	c.mu.Unlock()
	return nil
}

// LoadArchive fetches the completed projects of the profile.
func (c *LifecycleController) LoadArchive(ctx context.Context) ([]domain.Project, error) {
	list, err := c.projects.List(ctx, c.ownQuery(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}

	c.mu.Lock()
	c.archive = list
	c.mu.Unlock()
	return cloneProjects(list), nil
}

// Select opens the dialog matching the project's status. Only the owning
// customer on their own dashboard may select; everyone else gets ErrNotOwner
// and nothing changes.
func (c *LifecycleController) Select(projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.viewer.Role != domain.RoleCustomer || !c.own() {
		return domain.ErrNotOwner
	}
	p, ok := c.find(projectID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	if !p.OwnedBy(c.viewer.UserID) {
		return domain.ErrNotOwner
	}

	c.generation++
	c.lastErr = ""
	c.deadline = ""
	switch {
	case p.Status.Allows(domain.ActionSuspend):
		c.dialog = domain.DialogSuspendOrComplete
		c.selected = &p
	case p.Status.Allows(domain.ActionResume):
		c.dialog = domain.DialogResume
		c.selected = &p
		c.deadline = p.DeadlineDate
	default:
		c.dialog = domain.DialogNone
		c.selected = nil
	}
	c.log.Debug().Str("project_id", projectID).Str("dialog", string(c.dialog)).Msg("project selected")
	return nil
}

// Suspend moves the selected in-progress project to suspended.
func (c *LifecycleController) Suspend(ctx context.Context) error {
	return c.submit(ctx, domain.ActionSuspend, domain.DialogSuspendOrComplete, submission{}, func(ctx context.Context, id string) error {
		return c.projects.Suspend(ctx, id)
	})
}

// Resume moves the selected suspended project back to in progress with a new
// deadline. The deadline is checked before anything is sent.
func (c *LifecycleController) Resume(ctx context.Context, deadline string) error {
	if _, err := domain.ParseDeadline(deadline); err != nil {
		c.rejectLocally(domain.DialogResume, err)
		return err
	}
	return c.submit(ctx, domain.ActionResume, domain.DialogResume, submission{deadline: deadline}, func(ctx context.Context, id string) error {
		return c.projects.Resume(ctx, id, deadline)
	})
}

// ConfirmComplete swaps the suspend/complete dialog for the rating dialog.
// Nothing is sent.
func (c *LifecycleController) ConfirmComplete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.expect(domain.DialogSuspendOrComplete, domain.ActionConfirmComplete); err != nil {
		return err
	}
	if c.submitting {
		return domain.ErrSubmissionInFlight
	}
	c.generation++
	c.dialog = domain.DialogRating
	c.lastErr = ""
	return nil
}

// SubmitRating completes the selected project with rating. The dialog stays
// open if the backend refuses.
func (c *LifecycleController) SubmitRating(ctx context.Context, rating int) error {
	if err := domain.ValidateRating(rating); err != nil {
		c.rejectLocally(domain.DialogRating, err)
		return err
	}
	return c.submit(ctx, domain.ActionRate, domain.DialogRating, submission{rating: rating}, func(ctx context.Context, id string) error {
		return c.projects.Rate(ctx, id, rating)
	})
}

// Dismiss closes whatever dialog is open. A transition still in flight will
// refresh the list when it lands but will not touch the dialog.
func (c *LifecycleController) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.dialog = domain.DialogNone
	c.selected = nil
	c.deadline = ""
	c.lastErr = ""
}

// View returns a snapshot of the dashboard.
func (c *LifecycleController) View() domain.DashboardState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := domain.DashboardState{
		ProfileID:      c.profileID,
		Own:            c.own(),
		Role:           c.viewer.Role.String(),
		Projects:       cloneProjects(c.list),
		Archive:        cloneProjects(c.archive),
		Dialog:         c.dialog,
		ResumeDeadline: c.deadline,
		Submitting:     c.submitting,
		Error:          c.lastErr,
		Policy:         domain.ViewPolicy(c.viewer.Role, c.own()),
	}
	if state.Projects == nil {
		state.Projects = []domain.Project{}
	}
	if c.user != nil {
		u := *c.user
		state.User = &u
	}
	if c.selected != nil {
		p := *c.selected
		state.Selected = &p
	}
	return state
}

type submission struct {
	deadline string
	rating   int
}

// submit runs one transition: a single PATCH, then a single refetch. Local
// state only changes from the refetched list.
func (c *LifecycleController) submit(ctx context.Context, action domain.ProjectAction, want domain.Dialog, sub submission, send func(context.Context, string) error) error {
	c.mu.Lock()
	if err := c.expect(want, action); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.submitting {
		c.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	project := *c.selected
	gen := c.generation
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	release, err := c.acquire(ctx, project.ID)
	if err != nil {
		return err
	}
	defer release()

	log := c.log.With().Str("project_id", project.ID).Str("action", string(action)).Logger()
	to, _ := project.Status.Next(action)
	rec := domain.TransitionRecord{
		ProjectID: project.ID,
		ActorID:   c.viewer.UserID,
		Action:    action,
		From:      project.Status,
		To:        to,
		Deadline:  sub.deadline,
		Rating:    sub.rating,
		At:        time.Now().UTC(),
	}

	if err := send(ctx, project.ID); err != nil {
		rec.Error = err.Error()
		c.recorder.Record(rec)
		log.Warn().Err(err).Msg("transition rejected")
		c.mu.Lock()
		if c.generation == gen {
			c.lastErr = userMessage(err)
		}
		c.mu.Unlock()
		return err
	}
	c.recorder.Record(rec)
	log.Info().Str("from", string(rec.From)).Str("to", string(rec.To)).Msg("transition committed")

	refreshed, listErr := c.projects.List(ctx, c.ownQuery(""))

	c.mu.Lock()
	defer c.mu.Unlock()
	if listErr == nil {
		c.list = refreshed
	}
	if c.generation == gen {
		c.generation++
		c.dialog = domain.DialogNone
		c.selected = nil
		c.deadline = ""
		c.lastErr = ""
		if listErr != nil {
			c.lastErr = userMessage(listErr)
		}
	}
	if listErr != nil {
		log.Warn().Err(listErr).Msg("refetch after transition failed")
		return fmt.Errorf("refresh projects after %s: %w", action, listErr)
	}
	return nil
}

// acquire takes the cross-process submission lock for a project. A guard
// outage does not block the transition.
func (c *LifecycleController) acquire(ctx context.Context, projectID string) (func(), error) {
	if c.guard == nil {
		return func() {}, nil
	}
	key := "transition:" + projectID
	ok, err := c.guard.Acquire(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("project_id", projectID).Msg("submission guard unavailable, proceeding")
		return func() {}, nil
	}
	if !ok {
		return nil, domain.ErrSubmissionInFlight
	}
	return func() {
		if err := c.guard.Release(context.WithoutCancel(ctx), key); err != nil {
			c.log.Warn().Err(err).Str("project_id", projectID).Msg("failed to release submission guard")
		}
	}, nil
}

// expect checks that the dialog for action is open on a project that allows
// it. Callers hold mu.
func (c *LifecycleController) expect(want domain.Dialog, action domain.ProjectAction) error {
	if c.selected == nil || c.dialog == domain.DialogNone {
		return domain.ErrNoSelection
	}
	if c.dialog != want {
		return fmt.Errorf("%w (%s while %s dialog is open)", domain.ErrInvalidTransition, action, c.dialog)
	}
	if _, err := c.selected.Status.Next(action); err != nil {
		return err
	}
	return nil
}

func (c *LifecycleController) rejectLocally(dialog domain.Dialog, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialog == dialog {
		c.lastErr = err.Error()
	}
}

func (c *LifecycleController) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = userMessage(err)
}

func (c *LifecycleController) find(projectID string) (domain.Project, bool) {
	for _, p := range c.list {
		if p.ID == projectID {
			return p, true
		}
	}
	return domain.Project{}, false
}

// userMessage is what the dashboard shows for err: the backend's message as
// sent, or a generic line for transport problems.
func userMessage(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, domain.ErrSessionExpired):
		return domain.ErrSessionExpired.Error()
	case errors.Is(err, domain.ErrTransport):
		return domain.ErrTransport.Error()
	}
	return err.Error()
}

func cloneProjects(in []domain.Project) []domain.Project {
	if in == nil {
		return nil
	}
	out := make([]domain.Project, len(in))
	copy(out, in)
	return out
}
