package session

import (
	"context"
	"time"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/logging"
)

// DefaultWindow is the retention window applied when none is configured.
const DefaultWindow = 10

// Backend is the minimal storage surface a session history provider must
// offer: append one turn (trimming to the window), read the most recent
// turns in chronological order, and clear a session.
type Backend interface {
	Append(ctx context.Context, sessionID string, turn core.Turn) error
	Read(ctx context.Context, sessionID string, limit int) ([]core.Turn, error)
	Clear(ctx context.Context, sessionID string) error
	Name() string
}

// Store wraps the selected Backend with the degradation contract: a backend
// failure is logged and the operation is retried against the shared memory
// fallback, so storage trouble never reaches the model-facing response path.
type Store struct {
	primary  Backend
	fallback *MemoryStore
	logger   logging.Logger
}

// NewStore wraps primary with the memory fallback. If primary is already the
// memory backend it doubles as its own fallback.
func NewStore(primary Backend, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	mem, ok := primary.(*MemoryStore)
	if !ok {
		mem = NewMemoryStore(DefaultWindow, 0)
	}
	return &Store{primary: primary, fallback: mem, logger: logger}
}

// Append unconditionally records a turn. Backend failures demote to memory
// for this operation only; Append itself never reports an error.
func (s *Store) Append(ctx context.Context, sessionID string, turn core.Turn) {
	if err := s.primary.Append(ctx, sessionID, turn); err != nil {
		s.logger.Warn("session.append.demoted", "backend", s.primary.Name(), "session_id", sessionID, "error", err.Error())
		_ = s.fallback.Append(ctx, sessionID, turn)
	}
}

// Read returns up to limit most-recent turns in chronological order. Unknown
// sessions and backend failures both yield an empty (or fallback) slice,
// never an error.
func (s *Store) Read(ctx context.Context, sessionID string, limit int) []core.Turn {
	turns, err := s.primary.Read(ctx, sessionID, limit)
	if err != nil {
		s.logger.Warn("session.read.demoted", "backend", s.primary.Name(), "session_id", sessionID, "error", err.Error())
		turns, _ = s.fallback.Read(ctx, sessionID, limit)
	}
	if turns == nil {
		turns = []core.Turn{}
	}
	return turns
}

// Clear wipes a session's turns on both the primary backend and the fallback.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	ferr := s.fallback.Clear(ctx, sessionID)
	if err := s.primary.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("session.clear.failed", "backend", s.primary.Name(), "session_id", sessionID, "error", err.Error())
		return err
	}
	return ferr
}

// Backend reports the name of the selected primary backend (for /health).
func (s *Store) Backend() string { return s.primary.Name() }

// Config drives backend selection.
type Config struct {
	// RestURL / RestToken select the REST cache backend when both are set.
	RestURL   string
	RestToken string
	// RedisAddr selects the direct Redis backend when set and reachable.
	RedisAddr string
	// Window caps retained turns per session (DefaultWindow when <= 0).
	Window int
	// TTL is the retention horizon for persistent backends (0 = none).
	TTL time.Duration

	Logger logging.Logger
}

// Select evaluates the backend priority chain once and returns the wrapped
// store: REST cache, then Redis, then process memory. Selection failures are
// logged and fall through; Select always succeeds.
func Select(ctx context.Context, cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}

	if cfg.RestURL != "" && cfg.RestToken != "" {
		rest := NewRestStore(cfg.RestURL, cfg.RestToken, window, cfg.TTL)
		logger.Info("session.backend.selected", "backend", rest.Name())
		return NewStore(rest, logger)
	}

	if cfg.RedisAddr != "" {
		redis := NewRedisStore(cfg.RedisAddr, window, cfg.TTL)
		if err := redis.Ping(ctx); err != nil {
			logger.Warn("session.backend.unreachable", "backend", redis.Name(), "addr", cfg.RedisAddr, "error", err.Error())
		} else {
			logger.Info("session.backend.selected", "backend", redis.Name())
			return NewStore(redis, logger)
		}
	}

	logger.Info("session.backend.selected", "backend", "memory")
	return NewStore(NewMemoryStore(window, cfg.TTL), logger)
}
