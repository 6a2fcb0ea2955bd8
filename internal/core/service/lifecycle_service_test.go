package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory backend stub
// ---------------------------------------------------------------------------

type stubProjectGateway struct {
	mu       sync.Mutex
	projects map[string]domain.Project
	order    []string
	calls    []string
	queries  []ports.ProjectQuery
	patchErr error
	listErr  error
	// block, when set, holds every PATCH until it is closed.
	block chan struct{}
	// entered is signalled when a PATCH starts.
	entered chan struct{}
}

func newStubProjectGateway(projects ...domain.Project) *stubProjectGateway {
	g := &stubProjectGateway{projects: map[string]domain.Project{}}
	for _, p := range projects {
		g.projects[p.ID] = p
		g.order = append(g.order, p.ID)
	}
	return g
}

func (g *stubProjectGateway) record(call string) {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()
}

func (g *stubProjectGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *stubProjectGateway) List(_ context.Context, q ports.ProjectQuery) ([]domain.Project, error) {
	g.record("list")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, q)
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]domain.Project, 0, len(g.order))
	for _, id := range g.order {
		p := g.projects[id]
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (g *stubProjectGateway) patch(id string, apply func(*domain.Project)) error {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.patchErr != nil {
		return g.patchErr
	}
	p, ok := g.projects[id]
	if !ok {
		return &domain.APIError{Status: 404, Message: "Проект не найден"}
	}
	apply(&p)
	g.projects[id] = p
	return nil
}

func (g *stubProjectGateway) Suspend(_ context.Context, id string) error {
	g.record("suspend:" + id)
	return g.patch(id, func(p *domain.Project) { p.Status = domain.StatusSuspended })
}

func (g *stubProjectGateway) Resume(_ context.Context, id, deadline string) error {
	g.record(fmt.Sprintf("resume:%s:%s", id, deadline))
	return g.patch(id, func(p *domain.Project) {
		p.Status = domain.StatusInProgress
		p.DeadlineDate = deadline
	})
}

func (g *stubProjectGateway) Rate(_ context.Context, id string, rating int) error {
	g.record(fmt.Sprintf("rate:%s:%d", id, rating))
	return g.patch(id, func(p *domain.Project) {
		p.Status = domain.StatusCompleted
		p.Rating = &rating
	})
}

type stubAccountGateway struct {
	mu        sync.Mutex
	requested []string
	sent      []string
	confirmed []string
	resets    []string
	avatars   []string
	err       error
}

func (g *stubAccountGateway) UserInfo(_ context.Context, userID string) (*domain.UserInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requested = append(g.requested, userID)
	if g.err != nil {
		return nil, g.err
	}
	return &domain.UserInfo{ID: userID, Username: "user" + userID}, nil
}

func (g *stubAccountGateway) SendVerificationEmail(_ context.Context, userID string) error {
	g.sent = append(g.sent, userID)
	return g.err
}

func (g *stubAccountGateway) ConfirmEmail(_ context.Context, token string) error {
	g.confirmed = append(g.confirmed, token)
	return g.err
}

func (g *stubAccountGateway) RequestPasswordReset(_ context.Context, login string) error {
	g.resets = append(g.resets, "request:"+login)
	return g.err
}

func (g *stubAccountGateway) ResetPassword(_ context.Context, r domain.PasswordReset) error {
	g.resets = append(g.resets, "update:"+r.Token)
	return g.err
}

func (g *stubAccountGateway) UploadAvatar(_ context.Context, a domain.Avatar) (string, error) {
	g.avatars = append(g.avatars, a.Filename)
	return "stored-" + a.Filename, g.err
}

type stubRecorder struct {
	mu      sync.Mutex
	records []domain.TransitionRecord
}

func (r *stubRecorder) Record(rec domain.TransitionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

type stubGuard struct {
	held     map[string]bool
	released []string
}

func (g *stubGuard) Acquire(_ context.Context, key string) (bool, error) {
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	delete(g.held, key)
	g.released = append(g.released, key)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	customer = domain.Session{AccessToken: "t", UserID: "7", Role: domain.RoleCustomer}
	executor = domain.Session{AccessToken: "t", UserID: "9", Role: domain.RoleExecutor}
)

func project(id string, status domain.ProjectStatus) domain.Project {
	return domain.Project{
		ID:           id,
		Name:         "Project " + id,
		CustomerID:   "7",
		ExecutorID:   "9",
		Price:        1000,
		DeadlineDate: "2026-11-01",
		Status:       status,
	}
}

func newController(t *testing.T, gw *stubProjectGateway, viewer domain.Session, profileID string) (*LifecycleController, *stubRecorder) {
	t.Helper()
	rec := &stubRecorder{}
	c := NewLifecycleController(gw, &stubAccountGateway{}, rec, nil, viewer, profileID, zerolog.Nop())
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c, rec
}

func statusOf(state domain.DashboardState, id string) domain.ProjectStatus {
	for _, p := range state.Projects {
		if p.ID == id {
			return p.Status
		}
	}
	return ""
}

func assertCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestLifecycle_SuspendPatchesThenRefetches(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	c, rec := newController(t, gw, customer, "")

	if err := c.Select("42"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if d := c.View().Dialog; d != domain.DialogSuspendOrComplete {
		t.Fatalf("expected suspend/complete dialog, got %s", d)
	}

	if err := c.Suspend(context.Background()); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	assertCalls(t, gw.Calls(), "list", "suspend:42", "list")
	state := c.View()
	if statusOf(state, "42") != domain.StatusSuspended {
		t.Fatalf("expected refetched status suspended, got %s", statusOf(state, "42"))
	}
	if state.Dialog != domain.DialogNone || state.Selected != nil {
		t.Fatalf("expected dialog closed, got %s", state.Dialog)
	}
	if len(rec.records) != 1 || rec.records[0].From != domain.StatusInProgress || rec.records[0].To != domain.StatusSuspended {
		t.Fatalf("unexpected journal: %+v", rec.records)
	}
}

func TestLifecycle_QueriesByViewerRole(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	newController(t, gw, executor, "")

	q := gw.queries[0]
	if q.UserID != "9" || q.Role != domain.RoleExecutor {
		t.Fatalf("unexpected query: %+v", q)
	}
}

func TestLifecycle_ExecutorCannotSelect(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	c, _ := newController(t, gw, executor, "")

	if err := c.Select("42"); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := c.Suspend(context.Background()); !errors.Is(err, domain.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if c.View().Dialog != domain.DialogNone {
		t.Fatalf("expected no dialog")
	}
	assertCalls(t, gw.Calls(), "list")
}

func TestLifecycle_OtherCustomersDashboardIsReadOnly(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	accounts := &stubAccountGateway{}
	c := NewLifecycleController(gw, accounts, nil, nil, customer, "11", zerolog.Nop())
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(gw.Calls()) != 0 {
		t.Fatalf("another user's dashboard must not list projects, got %v", gw.Calls())
	}
	if accounts.requested[0] != "11" {
		t.Fatalf("expected profile info for 11, got %v", accounts.requested)
	}
	if err := c.Select("42"); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if state := c.View(); state.Own || !state.Policy.ShowPublicRating || state.Policy.RowsClickable {
		t.Fatalf("unexpected policy for foreign dashboard: %+v", state.Policy)
	}
}

func TestLifecycle_CompletedProjectOpensNothing(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusCompleted))
	c, _ := newController(t, gw, customer, "")

	if err := c.Select("42"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if c.View().Dialog != domain.DialogNone {
		t.Fatalf("completed project must not open a dialog")
	}
}

func TestLifecycle_ResumeRequiresDeadline(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusSuspended))
	c, _ := newController(t, gw, customer, "")

	if err := c.Select("42"); err != nil {
		t.Fatalf("select: %v", err)
	}
	state := c.View()
	if state.Dialog != domain.DialogResume || state.ResumeDeadline != "2026-11-01" {
		t.Fatalf("expected resume dialog prefilled with deadline, got %s %q", state.Dialog, state.ResumeDeadline)
	}

	if err := c.Resume(context.Background(), ""); !errors.Is(err, domain.ErrDeadlineRequired) {
		t.Fatalf("expected ErrDeadlineRequired, got %v", err)
	}
	if err := c.Resume(context.Background(), "01.12.2026"); !errors.Is(err, domain.ErrInvalidDeadline) {
		t.Fatalf("expected ErrInvalidDeadline, got %v", err)
	}
	assertCalls(t, gw.Calls(), "list")
	if c.View().Dialog != domain.DialogResume {
		t.Fatalf("dialog must stay open after a local rejection")
	}

	if err := c.Resume(context.Background(), "2026-12-15"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	assertCalls(t, gw.Calls(), "list", "resume:42:2026-12-15", "list")
	if statusOf(c.View(), "42") != domain.StatusInProgress {
		t.Fatalf("expected project back in progress")
	}
}

func TestLifecycle_CompletionIsTwoPhase(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	c, _ := newController(t, gw, customer, "")
	ctx := context.Background()

	_ = c.Select("42")
	if err := c.SubmitRating(ctx, 5); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("rating before confirmation must fail, got %v", err)
	}
	if err := c.ConfirmComplete(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if c.View().Dialog != domain.DialogRating {
		t.Fatalf("expected rating dialog")
	}
	assertCalls(t, gw.Calls(), "list")

	if err := c.SubmitRating(ctx, 0); !errors.Is(err, domain.ErrRatingRequired) {
		t.Fatalf("expected ErrRatingRequired, got %v", err)
	}
	if err := c.SubmitRating(ctx, 6); !errors.Is(err, domain.ErrRatingOutOfRange) {
		t.Fatalf("expected ErrRatingOutOfRange, got %v", err)
	}
	assertCalls(t, gw.Calls(), "list")

	if err := c.SubmitRating(ctx, 4); err != nil {
		t.Fatalf("rate: %v", err)
	}
	assertCalls(t, gw.Calls(), "list", "rate:42:4", "list")

	state := c.View()
	if statusOf(state, "42") != domain.StatusCompleted || state.Dialog != domain.DialogNone {
		t.Fatalf("expected completed project and closed dialog, got %s %s", statusOf(state, "42"), state.Dialog)
	}
	if err := c.Select("42"); err != nil || c.View().Dialog != domain.DialogNone {
		t.Fatalf("completed project is terminal")
	}
}

func TestLifecycle_RejectedPatchLeavesStateUntouched(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	gw.patchErr = &domain.APIError{Status: 400, Message: "Нельзя завершить проект"}
	c, rec := newController(t, gw, customer, "")
	ctx := context.Background()

	_ = c.Select("42")
	_ = c.ConfirmComplete()
	err := c.SubmitRating(ctx, 5)

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	assertCalls(t, gw.Calls(), "list", "rate:42:5")

	state := c.View()
	if state.Dialog != domain.DialogRating {
		t.Fatalf("rating dialog must stay open on failure, got %s", state.Dialog)
	}
	if state.Error != "Нельзя завершить проект" {
		t.Fatalf("expected server message verbatim, got %q", state.Error)
	}
	if statusOf(state, "42") != domain.StatusInProgress {
		t.Fatalf("status must not change on failure")
	}
	if len(rec.records) != 1 || rec.records[0].Succeeded() {
		t.Fatalf("expected one failed journal entry, got %+v", rec.records)
	}
}

func TestLifecycle_DismissIgnoresLateResponse(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress), project("43", domain.StatusSuspended))
	gw.block = make(chan struct{})
	gw.entered = make(chan struct{}, 1)
	c, _ := newController(t, gw, customer, "")

	_ = c.Select("42")
	done := make(chan error, 1)
	go func() { done <- c.Suspend(context.Background()) }()
	<-gw.entered

	if !c.View().Submitting {
		t.Fatalf("expected submitting flag while PATCH is in flight")
	}
	if err := c.Suspend(context.Background()); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	c.Dismiss()
	if err := c.Select("43"); err != nil {
		t.Fatalf("select: %v", err)
	}
	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("suspend: %v", err)
	}

	state := c.View()
	if state.Dialog != domain.DialogResume || state.Selected == nil || state.Selected.ID != "43" {
		t.Fatalf("late response must not close the newer dialog, got %s %+v", state.Dialog, state.Selected)
	}
	if statusOf(state, "42") != domain.StatusSuspended {
		t.Fatalf("list must still reflect the committed transition")
	}
	if state.Submitting {
		t.Fatalf("submitting flag must be cleared")
	}
}

func TestLifecycle_GuardRejectsDuplicateSubmission(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	guard := &stubGuard{held: map[string]bool{"transition:42": true}}
	c := NewLifecycleController(gw, &stubAccountGateway{}, nil, guard, customer, "", zerolog.Nop())
	_ = c.Load(context.Background())
	_ = c.Select("42")

	if err := c.Suspend(context.Background()); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	assertCalls(t, gw.Calls(), "list")

	delete(guard.held, "transition:42")
	if err := c.Suspend(context.Background()); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if len(guard.released) != 1 || guard.held["transition:42"] {
		t.Fatalf("expected guard released after submission")
	}
}

func TestLifecycle_RefetchFailureClosesDialogKeepsList(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress))
	c, _ := newController(t, gw, customer, "")
	_ = c.Select("42")

	gw.mu.Lock()
	gw.listErr = fmt.Errorf("%w: timeout", domain.ErrTransport)
	gw.mu.Unlock()

	err := c.Suspend(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	state := c.View()
	if state.Dialog != domain.DialogNone {
		t.Fatalf("committed transition must close the dialog")
	}
	if statusOf(state, "42") != domain.StatusInProgress {
		t.Fatalf("list must only change through a successful refetch")
	}
	if state.Error != domain.ErrTransport.Error() {
		t.Fatalf("unexpected error message %q", state.Error)
	}
}

func TestLifecycle_LoadArchive(t *testing.T) {
	gw := newStubProjectGateway(project("42", domain.StatusInProgress), project("44", domain.StatusCompleted))
	c, _ := newController(t, gw, customer, "")

	archive, err := c.LoadArchive(context.Background())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if len(archive) != 1 || archive[0].ID != "44" {
		t.Fatalf("unexpected archive: %+v", archive)
	}
	if q := gw.queries[len(gw.queries)-1]; q.Status != domain.StatusCompleted {
		t.Fatalf("archive must filter by completed status, got %+v", q)
	}
}
