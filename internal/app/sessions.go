package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_browser/internal/adapters/observability"
	"hotel_browser/internal/domain"
)

type session struct {
	page     *HomePage
	lastSeen time.Time
}

// SessionStore keeps live home pages in memory, keyed by session id.
// Sessions idle for longer than the TTL are swept.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	idleTTL  time.Duration
	now      func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewSessionStore starts the sweeper; call Close to stop it.
func NewSessionStore(idleTTL time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*session),
		idleTTL:  idleTTL,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

func (s *SessionStore) sweepLoop() {
	defer close(s.done)
	interval := s.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-t.C:
			if n := s.Sweep(now); n > 0 {
				log.Debug().Int("evicted", n).Msg("idle sessions swept")
			}
		}
	}
}

// Sweep evicts sessions idle since before now-TTL and returns how many went.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, ss := range s.sessions {
		if now.Sub(ss.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
			n++
		}
	}
	observability.SessionsActive.Set(float64(len(s.sessions)))
	return n
}

func (s *SessionStore) Add(p *HomePage) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{page: p, lastSeen: s.now()}
	observability.SessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	return id
}

// Get returns the session's page and marks it as used.
func (s *SessionStore) Get(id string) (*HomePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	ss.lastSeen = s.now()
	return ss.page, nil
}

func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	delete(s.sessions, id)
	observability.SessionsActive.Set(float64(len(s.sessions)))
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) Close(ctx context.Context) error {
	s.once.Do(func() { close(s.stop) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
