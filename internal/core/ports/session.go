package ports

import (
	"context"
	"net/http"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// SessionStore persists the session record of one principal. It is the
// equivalent of the browser's local storage: no expiry is tracked, token
// validity is only discovered through 401 responses.
type SessionStore interface {
	// Load returns the stored record, or a zero Session when none exists.
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

// CookieStore persists the cookies the backend set for one principal. The
// renewal credential lives there, so a client rebuilt from the store can
// still renew the access token.
type CookieStore interface {
	// LoadCookies returns the stored cookies, or none when nothing is stored.
	LoadCookies(ctx context.Context) ([]*http.Cookie, error)
	// SaveCookies replaces the stored cookies. An empty list removes them.
	SaveCookies(ctx context.Context, cookies []*http.Cookie) error
}

// Sessions is the part of the session manager that the auth flows drive.
type Sessions interface {
	Current(ctx context.Context) (domain.Session, error)
	Establish(ctx context.Context, s domain.Session) error
	Logout(ctx context.Context) error
}
