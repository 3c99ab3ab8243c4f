package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kdduha/kolam-knowledge/internal/controller"
	"github.com/kdduha/kolam-knowledge/internal/metrics"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

// Factory builds a fresh, unmounted controller.
type Factory func() (*controller.Controller, error)

type entry struct {
	ctrl       *controller.Controller
	lastAccess time.Time
}

// Store keeps one controller per session and forgets sessions idle for
// longer than the TTL.
type Store struct {
	logger  *zap.Logger
	factory Factory
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewStore(logger *zap.Logger, factory Factory, ttl time.Duration) *Store {
	return &Store{
		logger:   logger,
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create builds a controller, mounts it and registers it under a new id.
func (s *Store) Create(ctx context.Context) (string, *controller.Controller, error) {
	ctrl, err := s.factory()
	if err != nil {
		return "", nil, err
	}
	ctrl.Mount(ctx)

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &entry{ctrl: ctrl, lastAccess: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(n)
	s.logger.Debug("session created", zap.String("id", id))
	return id, ctrl, nil
}

func (s *Store) Get(id string) (*controller.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastAccess = s.now()
	return e.ctrl, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	metrics.SetActiveSessions(n)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, e := range s.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		metrics.SetActiveSessions(n)
		s.logger.Debug("expired sessions removed", zap.Int("count", removed))
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
