// Package model defines the provider-agnostic abstractions for the language
// model capability the assistant reasons against.
//
// Core goals:
//   - Normalize tool / function call representation (ToolDefinition, FunctionDefinition)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate deterministic mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so the orchestration loop remains decoupled from vendor SDKs.
// Generation is synchronous: the orchestration loop awaits every model call
// before proceeding and the HTTP boundary returns one buffered answer, so no
// streaming surface is exposed.
package model
