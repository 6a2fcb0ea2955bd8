package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys set by the session middlewares.
const (
	SessionIDKey = "session_id"
	WorkspaceKey = "workspace"
	SessionKey   = "session"
	RoleKey      = "role"
)

const defaultCookieName = "wb_session"

var errInvalidSessionCookie = errors.New("invalid session cookie")

// SessionCookie issues and verifies the browser session cookie: an HS256 JWT
// whose jti is the session id. It carries no credentials; the session record
// lives server-side under that id.
type SessionCookie struct {
	Name   string
	Secret []byte
	TTL    time.Duration
	Secure bool
}

func NewSessionCookie(secret string, ttl time.Duration, secure bool) *SessionCookie {
	return &SessionCookie{Name: defaultCookieName, Secret: []byte(secret), TTL: ttl, Secure: secure}
}

// Issue starts a new browser session and sets its cookie.
func (s *SessionCookie) Issue(c echo.Context) (string, error) {
	sid := uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", err
	}

	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(s.TTL),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid, nil
}

// Parse verifies a cookie value and returns its session id.
func (s *SessionCookie) Parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", errInvalidSessionCookie
	}
	return claims.ID, nil
}

// Clear expires the cookie in the browser.
func (s *SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolves the browser session id from the cookie, issuing a new
// session when the cookie is missing or does not verify.
func Session(cookie *SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if ck, err := c.Cookie(cookie.Name); err == nil {
				sid, _ = cookie.Parse(ck.Value)
			}
			if sid == "" {
				issued, err := cookie.Issue(c)
				if err != nil {
					return err
				}
				sid = issued
			}
			c.Set(SessionIDKey, sid)
			return next(c)
		}
	}
}
