package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folioagent/core"
)

func TestMemoryStore_AppendAndRead(t *testing.T) {
	s := NewMemoryStore(5, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", core.NewTurn("hello", "hi there")))
	require.NoError(t, s.Append(ctx, "s1", core.NewTurn("second", "answer two")))

	turns, err := s.Read(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].UserText)
	assert.Equal(t, "answer two", turns[1].AssistantText)
}

func TestMemoryStore_WindowTrimsOldestFirst(t *testing.T) {
	s := NewMemoryStore(3, 0)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Append(ctx, "s1", core.NewTurn(fmt.Sprintf("msg-%d", i), "ok")))
	}

	turns, err := s.Read(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "msg-3", turns[0].UserText)
	assert.Equal(t, "msg-5", turns[2].UserText)
}

func TestMemoryStore_ReadLimit(t *testing.T) {
	s := NewMemoryStore(10, 0)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.Append(ctx, "s1", core.NewTurn(fmt.Sprintf("msg-%d", i), "ok")))
	}

	turns, err := s.Read(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	// Most recent turns, oldest first.
	assert.Equal(t, "msg-3", turns[0].UserText)
	assert.Equal(t, "msg-4", turns[1].UserText)
}

func TestMemoryStore_UnknownSessionIsEmpty(t *testing.T) {
	s := NewMemoryStore(5, 0)

	turns, err := s.Read(context.Background(), "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(5, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", core.NewTurn("hello", "hi")))
	require.NoError(t, s.Clear(ctx, "s1"))

	turns, err := s.Read(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore(5, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", core.NewTurn("from-a", "ok")))
	require.NoError(t, s.Append(ctx, "b", core.NewTurn("from-b", "ok")))

	turns, err := s.Read(ctx, "a", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "from-a", turns[0].UserText)
}
