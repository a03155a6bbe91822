package memory

import (
	"context"
	"sync"
	"time"

	"tedred-internship-api/internal/domain"
)

type entry struct {
	session   *domain.WizardSession
	expiresAt time.Time
}

// SessionRepo keeps wizard sessions in process memory. It backs local
// development and tests, and serves as the fallback when Redis is absent.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRepository creates an in-memory store. ttl <= 0 disables expiry.
func NewSessionRepository(ttl time.Duration) *SessionRepo {
	return &SessionRepo{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *SessionRepo) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	return r.now().Add(r.ttl)
}

// lookup returns a live entry; expired entries are evicted. Caller holds mu.
func (r *SessionRepo) lookup(id string) (entry, bool) {
	e, ok := r.sessions[id]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && r.now().After(e.expiresAt) {
		delete(r.sessions, id)
		return entry{}, false
	}
	return e, true
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.WizardSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lookup(s.ID); ok {
		return domain.ErrVersionConflict
	}
	r.sessions[s.ID] = entry{session: s.Clone(), expiresAt: r.expiry()}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*domain.WizardSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e.session.Clone(), nil
}

// Save stores s when its version matches the stored one and bumps s.Version
func (r *SessionRepo) Save(ctx context.Context, s *domain.WizardSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup(s.ID)
	if !ok {
		return domain.ErrNotFound
	}
	if e.session.Version != s.Version {
		return domain.ErrVersionConflict
	}

	s.Version++
	r.sessions[s.ID] = entry{session: s.Clone(), expiresAt: r.expiry()}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// Len reports the number of stored sessions, including expired ones not yet evicted
func (r *SessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
