package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Content Tests --------------------

func TestContent_TextConcatenatesParts(t *testing.T) {
	c := Content{Role: "assistant", Parts: []Part{
		TextPart{Text: "Hello, "},
		FunctionCallPart{FunctionCall: FunctionCall{ID: "c1", Name: "lookup"}},
		TextPart{Text: "world"},
	}}
	assert.Equal(t, "Hello, world", c.Text())
}

func TestContent_FunctionCallsPreserveOrder(t *testing.T) {
	c := Content{Role: "assistant", Parts: []Part{
		FunctionCallPart{FunctionCall: FunctionCall{ID: "c1", Name: "first"}},
		TextPart{Text: "thinking"},
		FunctionCallPart{FunctionCall: FunctionCall{ID: "c2", Name: "second"}},
	}}
	calls := c.FunctionCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "first", calls[0].Name)
	assert.Equal(t, "second", calls[1].Name)
}

func TestNewFunctionResponseContent(t *testing.T) {
	ok := NewFunctionResponseContent("c1", "lookup", "found it", nil)
	assert.Equal(t, "tool", ok.Role)
	frs := ok.FunctionResponses()
	require.Len(t, frs, 1)
	assert.Equal(t, "found it", frs[0].Response)
	assert.Empty(t, frs[0].Error)

	failed := NewFunctionResponseContent("c2", "lookup", nil, errors.New("nope"))
	frs = failed.FunctionResponses()
	require.Len(t, frs, 1)
	assert.Equal(t, "nope", frs[0].Error)
}

// -------------------- Invocation Tests --------------------

func TestInvocation_ConversationIsCopied(t *testing.T) {
	inv := NewInvocation(context.Background(), "s1", nil)
	inv.Append(NewTextContent("user", "hello"))

	snapshot := inv.Conversation()
	snapshot[0] = NewTextContent("user", "mutated")

	assert.Equal(t, "hello", inv.Conversation()[0].Text())
}

func TestInvocation_EmailGuardStartsClear(t *testing.T) {
	inv := NewInvocation(context.Background(), "s1", nil)
	assert.False(t, inv.EmailSent())

	inv.MarkEmailSent()
	assert.True(t, inv.EmailSent())

	// A new invocation for the same session starts clear again.
	next := NewInvocation(context.Background(), "s1", nil)
	assert.False(t, next.EmailSent())
}

func TestInvocation_FreshIDs(t *testing.T) {
	a := NewInvocation(context.Background(), "s1", nil)
	b := NewInvocation(context.Background(), "s1", nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

// -------------------- ToolContext Tests --------------------

func TestToolContext_ExposesInvocationScope(t *testing.T) {
	ctx := context.Background()
	inv := NewInvocation(ctx, "s1", nil)
	inv.Append(NewTextContent("user", "context please"))

	tc := NewToolContext(inv, "call-7")
	assert.Equal(t, "s1", tc.SessionID())
	assert.Equal(t, inv.ID, tc.InvocationID())
	assert.Equal(t, "call-7", tc.FunctionCallID())
	require.Len(t, tc.Conversation(), 1)

	// The guard is shared with the parent invocation.
	tc.MarkEmailSent()
	assert.True(t, inv.EmailSent())
	assert.True(t, tc.EmailSent())
}
