package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/homellm/internal/domain"
)

// Session is a stored composer session.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store keeps sessions in memory. Events for one session are applied one
// at a time.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a session with the default state.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		State:     DefaultState(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	copied := *sess
	return &copied, nil
}

// Get returns a copy of the session.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.NotFoundError("session not found: "+id, nil)
	}
	copied := *sess
	copied.State = sess.State.clone()
	return &copied, nil
}

// Apply applies e to the session and returns the updated copy.
func (s *Store) Apply(ctx context.Context, id string, e Event) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.NotFoundError("session not found: "+id, nil)
	}
	sess.State = Apply(sess.State, e)
	sess.UpdatedAt = s.now().UTC()

	copied := *sess
	copied.State = sess.State.clone()
	return &copied, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.NotFoundError("session not found: "+id, nil)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
