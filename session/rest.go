package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foliolabs/folioagent/core"
)

// RestStore is a Backend speaking the REST-over-HTTP variant of the durable
// cache: each operation is a Redis-style command array posted to the service
// with a bearer token (Upstash wire format). It needs only the push, range
// read and expire commands.
type RestStore struct {
	baseURL string
	token   string
	window  int
	ttl     time.Duration
	client  *http.Client
}

// NewRestStore constructs a REST cache backend.
func NewRestStore(baseURL, token string, window int, ttl time.Duration) *RestStore {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RestStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		window:  window,
		ttl:     ttl,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements Backend.
func (s *RestStore) Name() string { return "rest" }

type restResult struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// pipeline posts a batch of commands to the /pipeline endpoint.
func (s *RestStore) pipeline(ctx context.Context, commands [][]any) error {
	body, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("marshal pipeline: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/pipeline", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("rest cache pipeline: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rest cache pipeline: status %d", resp.StatusCode)
	}
	var results []restResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return fmt.Errorf("decode pipeline response: %w", err)
	}
	for _, r := range results {
		if r.Error != "" {
			return fmt.Errorf("rest cache command failed: %s", r.Error)
		}
	}
	return nil
}

// command posts a single command to the service root and returns its result.
func (s *RestStore) command(ctx context.Context, cmd []any) (json.RawMessage, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest cache command: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rest cache command: status %d", resp.StatusCode)
	}
	var result restResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode command response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("rest cache command failed: %s", result.Error)
	}
	return result.Result, nil
}

// Append implements Backend: push, trim and expire in one pipeline.
func (s *RestStore) Append(ctx context.Context, sessionID string, turn core.Turn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := sessionKey(sessionID)
	commands := [][]any{
		{"RPUSH", key, string(payload)},
		{"LTRIM", key, strconv.Itoa(-s.window), "-1"},
	}
	if s.ttl > 0 {
		commands = append(commands, []any{"EXPIRE", key, strconv.Itoa(int(s.ttl.Seconds()))})
	}
	return s.pipeline(ctx, commands)
}

// Read implements Backend, range-reading the most recent turns.
func (s *RestStore) Read(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	if limit <= 0 || limit > s.window {
		limit = s.window
	}
	raw, err := s.command(ctx, []any{"LRANGE", sessionKey(sessionID), strconv.Itoa(-limit), "-1"})
	if err != nil {
		return nil, err
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode range result: %w", err)
	}
	turns := make([]core.Turn, 0, len(items))
	for _, item := range items {
		var t core.Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue // skip corrupt entries rather than failing the read
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Clear implements Backend.
func (s *RestStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.command(ctx, []any{"DEL", sessionKey(sessionID)})
	return err
}
