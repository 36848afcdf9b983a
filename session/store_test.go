package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folioagent/core"
)

// failingBackend errors on every operation, standing in for an unreachable
// remote store.
type failingBackend struct{}

func (failingBackend) Append(context.Context, string, core.Turn) error { return errors.New("down") }
func (failingBackend) Read(context.Context, string, int) ([]core.Turn, error) {
	return nil, errors.New("down")
}
func (failingBackend) Clear(context.Context, string) error { return errors.New("down") }
func (failingBackend) Name() string                        { return "failing" }

func TestStore_AppendNeverSurfacesBackendErrors(t *testing.T) {
	s := NewStore(failingBackend{}, nil)
	ctx := context.Background()

	s.Append(ctx, "s1", core.NewTurn("hello", "hi"))

	// The turn was demoted to the memory fallback, not lost.
	turns := s.Read(ctx, "s1", 10)
	require.Len(t, turns, 1)
	assert.Equal(t, "hello", turns[0].UserText)
}

func TestStore_ReadDegradesToEmpty(t *testing.T) {
	s := NewStore(failingBackend{}, nil)

	turns := s.Read(context.Background(), "untouched", 10)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}

func TestStore_MemoryPrimaryIsItsOwnFallback(t *testing.T) {
	mem := NewMemoryStore(5, 0)
	s := NewStore(mem, nil)
	ctx := context.Background()

	s.Append(ctx, "s1", core.NewTurn("hello", "hi"))
	turns := s.Read(ctx, "s1", 10)
	require.Len(t, turns, 1)
	assert.Equal(t, "memory", s.Backend())
}

func TestStore_ClearReportsPrimaryFailure(t *testing.T) {
	s := NewStore(failingBackend{}, nil)
	assert.Error(t, s.Clear(context.Background(), "s1"))
}

func TestSelect_FallsBackToMemory(t *testing.T) {
	s := Select(context.Background(), Config{})
	assert.Equal(t, "memory", s.Backend())
}

func TestSelect_UnreachableRedisFallsThrough(t *testing.T) {
	// Nothing listens here; the ping fails and selection degrades.
	s := Select(context.Background(), Config{RedisAddr: "127.0.0.1:1"})
	assert.Equal(t, "memory", s.Backend())
}

func TestSelect_RestPreferredWhenConfigured(t *testing.T) {
	s := Select(context.Background(), Config{
		RestURL:   "https://cache.example.com",
		RestToken: "token",
		RedisAddr: "127.0.0.1:1",
	})
	assert.Equal(t, "rest", s.Backend())
}
