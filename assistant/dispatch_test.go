package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/mail"
	"github.com/foliolabs/folioagent/proposal"
	"github.com/foliolabs/folioagent/tool"
)

var testOperator = mail.Operator{Name: "Studio Operator", Email: "operator@foliolabs.studio"}

func newInvocation() *core.Invocation {
	return core.NewInvocation(context.Background(), "s1", nil)
}

func panicTool() tool.Tool {
	return tool.NewFunctionTool("explode", "Always panics",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			panic("kaboom")
		})
}

func okTool(name string) tool.Tool {
	return tool.NewFunctionTool(name, "Returns ok",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			return "ok", nil
		})
}

func TestDispatch_OneResultPerCall(t *testing.T) {
	d := NewDispatcher(tool.MustNewRegistry(okTool("a"), okTool("b")))

	results := d.Dispatch(newInvocation(), []core.FunctionCall{
		{ID: "c1", Name: "a"},
		{ID: "c2", Name: "b"},
	})
	require.Len(t, results, 2)

	for i, id := range []string{"c1", "c2"} {
		frs := results[i].FunctionResponses()
		require.Len(t, frs, 1)
		assert.Equal(t, id, frs[0].ID)
		assert.Equal(t, "ok", frs[0].Response)
		assert.Empty(t, frs[0].Error)
	}
}

func TestDispatch_UnknownToolCitesCatalog(t *testing.T) {
	d := NewDispatcher(tool.MustNewRegistry(okTool("alpha")))

	results := d.Dispatch(newInvocation(), []core.FunctionCall{{ID: "c1", Name: "ghost"}})
	require.Len(t, results, 1)

	frs := results[0].FunctionResponses()
	require.Len(t, frs, 1)
	assert.Equal(t, "c1", frs[0].ID)
	assert.Contains(t, frs[0].Error, "ghost")
	assert.Contains(t, frs[0].Error, "alpha")
}

func TestDispatch_PanicIsolatedToOneCall(t *testing.T) {
	d := NewDispatcher(tool.MustNewRegistry(panicTool(), okTool("steady")))

	results := d.Dispatch(newInvocation(), []core.FunctionCall{
		{ID: "c1", Name: "explode"},
		{ID: "c2", Name: "steady"},
	})
	require.Len(t, results, 2)

	exploded := results[0].FunctionResponses()[0]
	assert.Contains(t, exploded.Error, "kaboom")

	steady := results[1].FunctionResponses()[0]
	assert.Equal(t, "ok", steady.Response)
	assert.Empty(t, steady.Error)
}

func TestDispatch_MalformedArguments(t *testing.T) {
	d := NewDispatcher(tool.MustNewRegistry(okTool("a")))

	results := d.Dispatch(newInvocation(), []core.FunctionCall{
		{ID: "c1", Name: "a", Arguments: "{not json"},
	})
	require.Len(t, results, 1)
	assert.Contains(t, results[0].FunctionResponses()[0].Error, "malformed arguments")
}

func TestDispatch_EmailEnrichmentSynthesizesProposal(t *testing.T) {
	capture := &mail.CaptureMailer{}
	registry := tool.MustNewRegistry(
		mail.NewSendEmailTool(capture, testOperator),
		proposal.NewGenerateTool(),
	)
	d := NewDispatcher(registry)

	inv := newInvocation()
	inv.Append(core.NewTextContent("user",
		"I need a proposal for an e-commerce project with a $50,000 budget and 3 month timeline, then email it to the operator"))

	results := d.Dispatch(inv, []core.FunctionCall{{
		ID:   "c1",
		Name: mail.ToolName,
		Arguments: `{"to":"operator@foliolabs.studio","subject":"Project proposal","body":"Please see the proposal below."}`,
	}})
	require.Len(t, results, 1)
	assert.Empty(t, results[0].FunctionResponses()[0].Error)

	require.Len(t, capture.Sent, 1)
	assert.Contains(t, capture.Sent[0].Body, proposal.Heading)
	assert.Contains(t, capture.Sent[0].Body, "$50,000")
}

func TestDispatch_EmailEnrichmentReusesExistingProposal(t *testing.T) {
	capture := &mail.CaptureMailer{}
	registry := tool.MustNewRegistry(
		mail.NewSendEmailTool(capture, testOperator),
		proposal.NewGenerateTool(),
	)
	d := NewDispatcher(registry)

	doc := proposal.Generate(proposal.Requirements{ClientName: "Robin", Budget: "$50,000"}, "")
	inv := newInvocation()
	inv.Append(core.NewTextContent("user", "generate an e-commerce proposal for Robin"))
	inv.Append(core.NewFunctionResponseContent("g1", proposal.ToolName, doc, nil))

	results := d.Dispatch(inv, []core.FunctionCall{{
		ID:   "c2",
		Name: mail.ToolName,
		Arguments: `{"to":"operator@foliolabs.studio","subject":"Proposal for Robin","body":"Attached below."}`,
	}})
	require.Len(t, results, 1)

	require.Len(t, capture.Sent, 1)
	// The existing document is attached verbatim, not regenerated.
	assert.Contains(t, capture.Sent[0].Body, doc)
}

func TestDispatch_NonProposalEmailIsNotEnriched(t *testing.T) {
	capture := &mail.CaptureMailer{}
	registry := tool.MustNewRegistry(
		mail.NewSendEmailTool(capture, testOperator),
		proposal.NewGenerateTool(),
	)
	d := NewDispatcher(registry)

	inv := newInvocation()
	inv.Append(core.NewTextContent("user", "email the operator a quick status note about the web project"))

	results := d.Dispatch(inv, []core.FunctionCall{{
		ID:   "c1",
		Name: mail.ToolName,
		Arguments: `{"to":"operator@foliolabs.studio","subject":"Status note","body":"All fine this week."}`,
	}})
	require.Len(t, results, 1)

	require.Len(t, capture.Sent, 1)
	assert.NotContains(t, capture.Sent[0].Body, proposal.Heading)
}
