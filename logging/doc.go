// Package logging provides a minimal logging interface and adapters for folioagent.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the assistant, stores and tools use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// The design intentionally keeps the interface minimal so callers can plug any
// structured logger while the default path stays on log/slog.
package logging
