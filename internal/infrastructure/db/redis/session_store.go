package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// SessionStore keeps one session record per browser session id, plus the
// cookies the backend set for it.
// Key format: session:<sid>, session:<sid>:cookies
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. Records expire after ttl of
// inactivity; every save pushes the expiry out.
func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// For returns the store view of a single browser session.
func (s *SessionStore) For(sid string) ports.SessionStore {
	return s.record(sid)
}

// CookiesFor returns the cookie view of a single browser session.
func (s *SessionStore) CookiesFor(sid string) ports.CookieStore {
	return s.record(sid)
}

func (s *SessionStore) record(sid string) *sessionRecord {
	key := "session:" + sid
	return &sessionRecord{store: s, key: key, cookieKey: key + ":cookies"}
}

type sessionRecord struct {
	store     *SessionStore
	key       string
	cookieKey string
}

// storedCookie is the part of a cookie the jar reports back.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *sessionRecord) Load(ctx context.Context) (domain.Session, error) {
	raw, err := r.store.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("session load: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Session{}, fmt.Errorf("session decode: %w", err)
	}
	return s, nil
}

func (r *sessionRecord) Save(ctx context.Context, s domain.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	// The cookies live as long as the record they belong to.
	_, err = r.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key, raw, r.store.ttl)
		pipe.Expire(ctx, r.cookieKey, r.store.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Clear removes the record and its cookies.
func (r *sessionRecord) Clear(ctx context.Context) error {
	if err := r.store.client.Del(ctx, r.key, r.cookieKey).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (r *sessionRecord) LoadCookies(ctx context.Context) ([]*http.Cookie, error) {
	raw, err := r.store.client.Get(ctx, r.cookieKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cookies load: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("cookies decode: %w", err)
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return cookies, nil
}

func (r *sessionRecord) SaveCookies(ctx context.Context, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		if err := r.store.client.Del(ctx, r.cookieKey).Err(); err != nil {
			return fmt.Errorf("cookies clear: %w", err)
		}
		return nil
	}

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("cookies encode: %w", err)
	}
	if err := r.store.client.Set(ctx, r.cookieKey, raw, r.store.ttl).Err(); err != nil {
		return fmt.Errorf("cookies save: %w", err)
	}
	return nil
}
