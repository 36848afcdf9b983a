package core

import (
	"context"

	"github.com/google/uuid"

	"github.com/foliolabs/folioagent/logging"
)

// NewID generates a unique identifier for invocations and tool calls.
func NewID() string { return uuid.NewString() }

// Invocation is the mutable, per-request execution scope of one orchestration
// cycle. It aggregates:
//   - The ambient cancellation Context
//   - Identifiers (SessionID, ID)
//   - The conversation buffer accumulated across reasoning turns
//   - The email send guard, reset by construction for every invocation
//
// An Invocation is owned by exactly one request and must not be shared
// across sessions or reused after Run returns.
type Invocation struct {
	ID        string
	SessionID string

	ctx          context.Context
	conversation []Content
	emailSent    bool

	*loggerAdapter
}

// NewInvocation constructs an invocation scope with a fresh id, an empty
// conversation buffer and a cleared email guard.
func NewInvocation(ctx context.Context, sessionID string, logger logging.Logger) *Invocation {
	return &Invocation{
		ID:            NewID(),
		SessionID:     sessionID,
		ctx:           ctx,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Context returns the ambient request context.
func (inv *Invocation) Context() context.Context { return inv.ctx }

// Append adds content to the invocation's conversation buffer.
func (inv *Invocation) Append(c Content) { inv.conversation = append(inv.conversation, c) }

// Conversation returns a defensive copy of the accumulated conversation.
func (inv *Invocation) Conversation() []Content {
	out := make([]Content, len(inv.conversation))
	copy(out, inv.conversation)
	return out
}

// EmailSent reports whether an email was already sent during this invocation.
func (inv *Invocation) EmailSent() bool { return inv.emailSent }

// MarkEmailSent sets the duplicate-suppression guard for the remainder of
// this invocation. There is deliberately no way to clear it: the guard
// resets only when the next invocation is constructed.
func (inv *Invocation) MarkEmailSent() { inv.emailSent = true }

// ToolContext provides a constrained surface for tool implementations
// invoked during an orchestration cycle. It exposes the conversation for
// context enrichment and the invocation-scoped email guard, without handing
// tools the full invocation.
type ToolContext struct {
	inv            *Invocation
	functionCallID string

	*loggerAdapter
}

// NewToolContext constructs a tool context bound to a parent Invocation and
// unique functionCallID.
func NewToolContext(inv *Invocation, functionCallID string) *ToolContext {
	return &ToolContext{
		inv:            inv,
		functionCallID: functionCallID,
		loggerAdapter:  newLoggerAdapter(inv.Logger()),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.inv.ctx }

// SessionID returns the session ID associated with the tool invocation.
func (tc *ToolContext) SessionID() string { return tc.inv.SessionID }

// InvocationID returns the id of the enclosing invocation.
func (tc *ToolContext) InvocationID() string { return tc.inv.ID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Conversation returns the conversation accumulated so far in this
// invocation, most recent content last. Tools use it for backward scans.
func (tc *ToolContext) Conversation() []Content { return tc.inv.Conversation() }

// EmailSent reports the invocation-scoped duplicate-send guard.
func (tc *ToolContext) EmailSent() bool { return tc.inv.EmailSent() }

// MarkEmailSent sets the invocation-scoped duplicate-send guard.
func (tc *ToolContext) MarkEmailSent() { tc.inv.MarkEmailSent() }
