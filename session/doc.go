// Package session persists per-session conversation turns behind a uniform
// Store facade. Concrete backends (Upstash-style REST cache, Redis, process
// memory) implement the Backend interface; the Store wrapper owns backend
// selection and failure demotion so callers never see a storage error on the
// response path.
//
// Backend selection is a priority chain evaluated once at startup: REST cache
// when both credentials are present, direct Redis when an address is
// configured and reachable, process memory otherwise. A backend failure
// during a request demotes that request (not the process) to the shared
// memory fallback.
package session
