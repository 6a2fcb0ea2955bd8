package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
	"github.com/freelancehub/workboard/internal/infrastructure/metrics"
)

// LogoutHook runs once whenever a session ends, with the record that ended.
type LogoutHook func(ctx context.Context, ended domain.Session)

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithLogoutHook registers the global logout side effect.
func WithLogoutHook(h LogoutHook) SessionOption {
	return func(m *SessionManager) { m.onLogout = h }
}

// SessionManager owns one principal's access token and performs
// authenticated requests with it. On a 401 it renews the token through the
// cookie-held credential and retries once. Concurrent 401s share a single
// renewal.
//
// The token is the only mutable state shared between requests; it is
// guarded by mu. epoch increases every time the token changes, so a 401
// for a token that has already been replaced retries with the current one
// instead of renewing again.
type SessionManager struct {
	client   *Client
	store    ports.SessionStore
	onLogout LogoutHook
	log      zerolog.Logger

	mu      sync.Mutex
	session domain.Session
	loaded  bool
	epoch   uint64

	renewals singleflight.Group
}

// NewSessionManager returns a manager that persists its record in store.
// The record is loaded lazily on first use.
func NewSessionManager(client *Client, store ports.SessionStore, log zerolog.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		client: client,
		store:  store,
		log:    log.With().Str("component", "session").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Client returns the unauthenticated client sharing this manager's cookie jar.
func (m *SessionManager) Client() *Client {
	return m.client
}

// Do attaches the current access token to req and sends it. See the type
// documentation for the renewal protocol.
func (m *SessionManager) Do(ctx context.Context, req Request) (*Response, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	p, err := m.client.prepare(req)
	if err != nil {
		return nil, err
	}

	token, epoch := m.token()
	resp, err := m.client.dispatch(ctx, p, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return finish(resp)
	}

	fresh, err := m.renew(ctx, epoch)
	if err != nil {
		return nil, err
	}

	resp, err = m.client.dispatch(ctx, p, fresh)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		m.terminate(ctx, "retry_unauthorized")
		return nil, fmt.Errorf("%w: %s %s rejected after token renewal", domain.ErrSessionExpired, p.method, p.path)
	}
	return finish(resp)
}

// Current returns a copy of the held record.
func (m *SessionManager) Current(ctx context.Context) (domain.Session, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return domain.Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

// Establish replaces the held record after a login or two-factor proof.
func (m *SessionManager) Establish(ctx context.Context, s domain.Session) error {
	m.mu.Lock()
	m.session = s
	m.loaded = true
	m.epoch++
	m.mu.Unlock()

	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.log.Info().Str("user_id", s.UserID).Str("role", s.Role.String()).Msg("session established")
	return nil
}

// Logout clears the record and runs the logout hook.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.ensureLoaded(ctx); err != nil {
		return err
	}
	prev := m.clear()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.log.Info().Str("user_id", prev.UserID).Msg("logged out")
	if m.onLogout != nil {
		m.onLogout(ctx, prev)
	}
	return nil
}

func (m *SessionManager) ensureLoaded(ctx context.Context) error {
	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()
	if loaded {
		return nil
	}

	rec, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	m.mu.Lock()
	if !m.loaded {
		m.session = rec
		m.loaded = true
	}
	m.mu.Unlock()
	return nil
}

func (m *SessionManager) token() (string, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.AccessToken, m.epoch
}

// renew returns a token to retry with after a 401 on a request sent at
// epoch. The renewal itself runs detached from ctx so one caller giving up
// does not fail the others waiting on it.
func (m *SessionManager) renew(ctx context.Context, epoch uint64) (string, error) {
	ch := m.renewals.DoChan("renew", func() (interface{}, error) {
		return m.renewFrom(context.WithoutCancel(ctx), epoch)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", domain.ErrTransport, ctx.Err())
	case res := <-ch:
		if res.Shared {
			metrics.TokenRefreshWaitersTotal.Inc()
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (m *SessionManager) renewFrom(ctx context.Context, epoch uint64) (string, error) {
	m.mu.Lock()
	if m.epoch != epoch {
		// Someone else renewed (or ended the session) after this request
		// was sent.
		current := m.session.AccessToken
		m.mu.Unlock()
		metrics.TokenRefreshWaitersTotal.Inc()
		if current == "" {
			return "", domain.ErrSessionExpired
		}
		return current, nil
	}
	m.mu.Unlock()

	token, err := m.client.Renew(ctx)
	if err != nil && shortCircuited(err) {
		// The renewal never reached the backend; the credential is still good.
		metrics.TokenRefreshesTotal.WithLabelValues("unavailable").Inc()
		m.log.Warn().Err(err).Msg("token renewal skipped, backend unavailable")
		return "", err
	}
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failed").Inc()
		m.log.Warn().Err(err).Msg("token renewal failed, ending session")
		m.terminate(ctx, "refresh_failed")
		return "", fmt.Errorf("%w: %w", domain.ErrSessionExpired, err)
	}
	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()

	m.mu.Lock()
	m.session.AccessToken = token
	m.epoch++
	rec := m.session
	m.mu.Unlock()

	if err := m.store.Save(ctx, rec); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist renewed token")
	}
	m.log.Debug().Str("user_id", rec.UserID).Msg("access token renewed")
	return token, nil
}

func shortCircuited(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// terminate ends the session after an authentication failure. The hook runs
// only for the call that actually cleared a record.
func (m *SessionManager) terminate(ctx context.Context, reason string) {
	prev := m.clear()
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear stored session")
	}
	if !prev.Authenticated() && prev.AccessToken == "" {
		return
	}

	metrics.SessionsTerminatedTotal.WithLabelValues(reason).Inc()
	m.log.Info().Str("user_id", prev.UserID).Str("reason", reason).Msg("session terminated")
	if m.onLogout != nil {
		m.onLogout(ctx, prev)
	}
}

func (m *SessionManager) clear() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.session
	m.session = domain.Session{}
	m.loaded = true
	m.epoch++
	return prev
}
