// Package workspace keeps the per-browser-session objects of the BFF: one
// session manager, its gateways and the dashboards the viewer has open.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
	"github.com/freelancehub/workboard/internal/core/service"
	"github.com/freelancehub/workboard/internal/infrastructure/backend"
)

// SessionStores hands out the session record and the backend cookies of one
// browser session.
type SessionStores interface {
	For(sid string) ports.SessionStore
	CookiesFor(sid string) ports.CookieStore
}

// Registry implements ports.Workspaces. Workspaces live in process memory;
// only the session record itself is shared through the store.
type Registry struct {
	backend  *backend.Backend
	stores   SessionStores
	recorder ports.TransitionRecorder
	guard    ports.SubmissionGuard
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*Workspace
}

func NewRegistry(
	b *backend.Backend,
	stores SessionStores,
	recorder ports.TransitionRecorder,
	guard ports.SubmissionGuard,
	log zerolog.Logger,
) *Registry {
	return &Registry{
		backend:  b,
		stores:   stores,
		recorder: recorder,
		guard:    guard,
		log:      log.With().Str("component", "workspace").Logger(),
		now:      time.Now,
		entries:  make(map[string]*Workspace),
	}
}

// Open returns the workspace for sid, building it on first use. A rebuilt
// workspace starts from the stored record and cookies.
func (r *Registry) Open(ctx context.Context, sid string) (ports.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.entries[sid]; ok {
		ws.touch(r.now())
		return ws, nil
	}

	client, err := r.backend.RestoreClient(ctx, r.stores.CookiesFor(sid))
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	log := r.log.With().Str("session_id", sid).Logger()
	sessions := backend.NewSessionManager(client, r.stores.For(sid), log,
		backend.WithLogoutHook(func(_ context.Context, ended domain.Session) {
			log.Info().Str("user_id", ended.UserID).Msg("session ended, dropping workspace")
			r.drop(sid)
		}))

	accounts := backend.NewAccountGateway(sessions, client)
	ws := &Workspace{
		sessions:   sessions,
		projects:   r.backend.ProjectsFor(sessions),
		accountsGW: accounts,
		auth:       service.NewAuthService(backend.NewAuthGateway(client), sessions, log),
		feedback:   service.NewFeedbackService(backend.NewFeedbackGateway(sessions), log),
		account:    service.NewAccountService(accounts, log),
		posts:      service.NewPostService(backend.NewPostGateway(sessions), accounts, log),
		portfolio:  service.NewPortfolioService(backend.NewPortfolioGateway(sessions), accounts, log),
		recorder:   r.recorder,
		guard:      r.guard,
		log:        log,
		dashboards: make(map[string]*service.LifecycleController),
	}
	ws.touch(r.now())
	r.entries[sid] = ws
	return ws, nil
}

// Evict drops workspaces idle for longer than idle and returns how many went.
// The session records and cookies stay in the store; a returning browser
// rebuilds its workspace from them.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for sid, ws := range r.entries {
		if ws.lastUsed().Before(cutoff) {
			delete(r.entries, sid)
			n++
		}
	}
	return n
}

// Len reports the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sid)
}

// Workspace implements ports.Workspace.
type Workspace struct {
	sessions   *backend.SessionManager
	projects   ports.ProjectGateway
	accountsGW ports.AccountGateway
	auth       *service.AuthService
	feedback   *service.FeedbackService
	account    *service.AccountService
	posts      *service.PostService
	portfolio  *service.PortfolioService
	recorder   ports.TransitionRecorder
	guard      ports.SubmissionGuard
	log        zerolog.Logger

	mu         sync.Mutex
	used       time.Time
	viewerID   string
	dashboards map[string]*service.LifecycleController
}

func (w *Workspace) Auth() ports.AuthService           { return w.auth }
func (w *Workspace) Feedback() ports.FeedbackService   { return w.feedback }
func (w *Workspace) Account() ports.AccountService     { return w.account }
func (w *Workspace) Posts() ports.PostService          { return w.posts }
func (w *Workspace) Portfolio() ports.PortfolioService { return w.portfolio }

// Dashboard returns the viewer's controller for profileID. Controllers are
// dropped whenever the signed-in user changes.
func (w *Workspace) Dashboard(ctx context.Context, profileID string) (ports.DashboardService, error) {
	viewer, err := w.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !viewer.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if profileID == "" {
		profileID = viewer.UserID
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.viewerID != viewer.UserID {
		w.viewerID = viewer.UserID
		w.dashboards = make(map[string]*service.LifecycleController)
	}
	if c, ok := w.dashboards[profileID]; ok {
		return c, nil
	}
	c := service.NewLifecycleController(w.projects, w.accountsGW, w.recorder, w.guard, viewer, profileID, w.log)
	w.dashboards[profileID] = c
	return c, nil
}

func (w *Workspace) touch(t time.Time) {
	w.mu.Lock()
	w.used = t
	w.mu.Unlock()
}

func (w *Workspace) lastUsed() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.used
}
