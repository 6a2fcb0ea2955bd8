package backend

import (
	"context"
	"net/http"
	"sync"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// MemoryStore keeps the session record and the backend cookies in process
// memory.
type MemoryStore struct {
	mu      sync.Mutex
	session domain.Session
	cookies []*http.Cookie
}

// NewMemoryStore returns a store seeded with s.
func NewMemoryStore(s domain.Session) *MemoryStore {
	return &MemoryStore{session: s}
}

func (m *MemoryStore) Load(_ context.Context) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MemoryStore) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

// Clear drops the record together with the cookies.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = domain.Session{}
	m.cookies = nil
	return nil
}

func (m *MemoryStore) LoadCookies(_ context.Context) ([]*http.Cookie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCookies(m.cookies), nil
}

func (m *MemoryStore) SaveCookies(_ context.Context, cookies []*http.Cookie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cookies = copyCookies(cookies)
	return nil
}

func copyCookies(in []*http.Cookie) []*http.Cookie {
	if len(in) == 0 {
		return nil
	}
	out := make([]*http.Cookie, len(in))
	for i, c := range in {
		cp := *c
		out[i] = &cp
	}
	return out
}
