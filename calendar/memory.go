package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryService is a volatile Service implementation storing events in a
// process local map. It treats every stored event as a busy interval for
// FreeBusy purposes and supports seeding extra busy blocks for tests. Safe
// for concurrent access.
type MemoryService struct {
	mu     sync.RWMutex
	events map[string]Event
	busy   []Interval
}

// NewMemoryService constructs an empty in-memory calendar.
func NewMemoryService() *MemoryService {
	return &MemoryService{events: make(map[string]Event)}
}

// AddBusy seeds an externally-busy interval (no backing event).
func (s *MemoryService) AddBusy(iv Interval) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = append(s.busy, iv)
}

// FreeBusy implements Service.
func (s *MemoryService) FreeBusy(_ context.Context, from, to time.Time) ([]Interval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Interval
	for _, iv := range s.busy {
		if iv.End.After(from) && iv.Start.Before(to) {
			out = append(out, iv)
		}
	}
	for _, ev := range s.events {
		if ev.End.After(from) && ev.Start.Before(to) {
			out = append(out, Interval{Start: ev.Start, End: ev.End})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// Create implements Service, assigning a fresh event id.
func (s *MemoryService) Create(_ context.Context, ev Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = uuid.NewString()
	s.events[ev.ID] = ev
	return ev, nil
}

// Get implements Service.
func (s *MemoryService) Get(_ context.Context, id string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return Event{}, fmt.Errorf("event %s not found", id)
	}
	return ev, nil
}

// Update implements Service.
func (s *MemoryService) Update(_ context.Context, ev Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[ev.ID]; !ok {
		return Event{}, fmt.Errorf("event %s not found", ev.ID)
	}
	s.events[ev.ID] = ev
	return ev, nil
}

// Delete implements Service. The notify flag is recorded by richer backends;
// the in-memory calendar has nobody to notify.
func (s *MemoryService) Delete(_ context.Context, id string, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s not found", id)
	}
	delete(s.events, id)
	return nil
}

// List implements Service.
func (s *MemoryService) List(_ context.Context, from, to time.Time, max int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, ev := range s.events {
		if !ev.Start.Before(from) && !ev.Start.After(to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}
