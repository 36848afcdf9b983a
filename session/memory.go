package session

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/foliolabs/folioagent/core"
)

// MemoryStore is a volatile Backend keeping windowed turn histories in a
// process local map. It is safe for concurrent access and is both the lowest
// rung of the selection chain and the shared demotion fallback.
type MemoryStore struct {
	mu      sync.RWMutex
	window  int
	ttl     time.Duration
	entries map[string]*memoryEntry
	sweeper *cron.Cron
}

type memoryEntry struct {
	turns   []core.Turn
	touched time.Time
}

// NewMemoryStore constructs an in-memory store trimming each session to
// window turns. A positive ttl starts a minutely sweep evicting sessions
// idle past the retention horizon.
func NewMemoryStore(window int, ttl time.Duration) *MemoryStore {
	if window <= 0 {
		window = DefaultWindow
	}
	s := &MemoryStore{
		window:  window,
		ttl:     ttl,
		entries: make(map[string]*memoryEntry),
	}
	if ttl > 0 {
		s.sweeper = cron.New()
		// Sweep errors cannot occur; AddFunc only fails on bad specs.
		_, _ = s.sweeper.AddFunc("@every 1m", s.sweep)
		s.sweeper.Start()
	}
	return s
}

// Name implements Backend.
func (s *MemoryStore) Name() string { return "memory" }

// Append implements Backend. It never fails.
func (s *MemoryStore) Append(_ context.Context, sessionID string, turn core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok {
		e = &memoryEntry{}
		s.entries[sessionID] = e
	}
	e.turns = append(e.turns, turn)
	if len(e.turns) > s.window {
		e.turns = e.turns[len(e.turns)-s.window:]
	}
	e.touched = time.Now()
	return nil
}

// Read implements Backend, returning up to limit most-recent turns oldest
// first. Unknown sessions yield an empty slice.
func (s *MemoryStore) Read(_ context.Context, sessionID string, limit int) ([]core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[sessionID]
	if !ok {
		return []core.Turn{}, nil
	}
	turns := e.turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]core.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear implements Backend.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Close stops the TTL sweeper if one is running.
func (s *MemoryStore) Close() {
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
}

// sweep evicts sessions idle longer than the retention horizon.
func (s *MemoryStore) sweep() {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
