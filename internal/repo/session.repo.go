package repo

import (
	"context"
	"sync"
	"time"

	"upi-checkout/internal/domain"

	"github.com/google/uuid"
)

// Session is a checkout widget opened on behalf of a browser and waiting
// for the browser to report its outcome.
type Session struct {
	ID        uuid.UUID
	Options   domain.CheckoutOptions
	OnFailed  []func(domain.FailureResponse)
	CreatedAt time.Time
}

type SessionRepo interface {
	Save(ctx context.Context, session *Session) error
	// FindLatest returns the most recently saved session, or nil, nil.
	FindLatest(ctx context.Context) (*Session, error)
	// Take removes and returns the session. A second Take of the same id
	// returns ErrSessionNotFound.
	Take(ctx context.Context, id uuid.UUID) (*Session, error)
}

type sessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewSessionRepo() SessionRepo {
	return &sessionRepo{sessions: make(map[uuid.UUID]*Session)}
}

func (r *sessionRepo) Save(ctx context.Context, session *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return nil
}

func (r *sessionRepo) FindLatest(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Session
	for _, s := range r.sessions {
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	return latest, nil
}

func (r *sessionRepo) Take(ctx context.Context, id uuid.UUID) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return s, nil
}
