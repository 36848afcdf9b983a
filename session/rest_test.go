package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folioagent/core"
)

// fakeCache implements just enough of the REST cache wire protocol for the
// backend tests: bearer auth, /pipeline batches and single root commands.
type fakeCache struct {
	t     *testing.T
	token string
	lists map[string][]string
}

func newFakeCache(t *testing.T) *fakeCache {
	return &fakeCache{t: t, token: "secret", lists: make(map[string][]string)}
}

func (f *fakeCache) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/pipeline" {
			var commands [][]any
			require.NoError(f.t, json.NewDecoder(r.Body).Decode(&commands))
			results := make([]map[string]any, 0, len(commands))
			for _, cmd := range commands {
				results = append(results, map[string]any{"result": f.exec(cmd)})
			}
			_ = json.NewEncoder(w).Encode(results)
			return
		}
		var cmd []any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&cmd))
		_ = json.NewEncoder(w).Encode(map[string]any{"result": f.exec(cmd)})
	})
}

func (f *fakeCache) exec(cmd []any) any {
	name, _ := cmd[0].(string)
	key, _ := cmd[1].(string)
	switch name {
	case "RPUSH":
		f.lists[key] = append(f.lists[key], cmd[2].(string))
		return len(f.lists[key])
	case "LTRIM", "EXPIRE":
		return "OK"
	case "LRANGE":
		return f.lists[key]
	case "DEL":
		delete(f.lists, key)
		return 1
	default:
		f.t.Fatalf("unexpected command %q", name)
		return nil
	}
}

func TestRestStore_AppendAndRead(t *testing.T) {
	cache := newFakeCache(t)
	srv := httptest.NewServer(cache.handler())
	defer srv.Close()

	s := NewRestStore(srv.URL, "secret", 10, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", core.NewTurn("hello", "hi")))
	require.NoError(t, s.Append(ctx, "s1", core.NewTurn("again", "yes")))

	turns, err := s.Read(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].UserText)
	assert.Equal(t, "yes", turns[1].AssistantText)
}

func TestRestStore_SkipsCorruptEntries(t *testing.T) {
	cache := newFakeCache(t)
	srv := httptest.NewServer(cache.handler())
	defer srv.Close()

	s := NewRestStore(srv.URL, "secret", 10, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", core.NewTurn("good", "turn")))
	cache.lists[sessionKey("s1")] = append(cache.lists[sessionKey("s1")], "{corrupt")

	turns, err := s.Read(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "good", turns[0].UserText)
}

func TestRestStore_Clear(t *testing.T) {
	cache := newFakeCache(t)
	srv := httptest.NewServer(cache.handler())
	defer srv.Close()

	s := NewRestStore(srv.URL, "secret", 10, 0)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", core.NewTurn("hello", "hi")))
	require.NoError(t, s.Clear(ctx, "s1"))

	turns, err := s.Read(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestRestStore_BadTokenFails(t *testing.T) {
	cache := newFakeCache(t)
	srv := httptest.NewServer(cache.handler())
	defer srv.Close()

	s := NewRestStore(srv.URL, "wrong", 10, 0)
	err := s.Append(context.Background(), "s1", core.NewTurn("hello", "hi"))
	assert.Error(t, err)
}
