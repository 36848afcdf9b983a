package assistant

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/foliolabs/folioagent/calendar"
	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/mail"
	"github.com/foliolabs/folioagent/proposal"
	"github.com/foliolabs/folioagent/tool"
)

// Dispatcher executes model-requested tool calls: it resolves each call
// against the registry, applies context enrichment for the email and
// scheduling tools, and isolates failures so one bad call never aborts the
// others in the same turn.
type Dispatcher struct {
	registry *tool.Registry
}

// NewDispatcher constructs a dispatcher over the given registry.
func NewDispatcher(registry *tool.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch runs every call sequentially and returns exactly one tool-result
// content per call id. Sequential execution is load-bearing: the email path
// may itself invoke proposal generation, and that nested call must complete
// before the enclosing send is considered done.
//
// If the model requested calls but none produced a result (an internal
// inconsistency), one synthetic error result is emitted so the orchestration
// loop always has grounds to proceed to the next model turn.
func (d *Dispatcher) Dispatch(inv *core.Invocation, calls []core.FunctionCall) []core.Content {
	results := make([]core.Content, 0, len(calls))

	for _, call := range calls {
		results = append(results, d.dispatchOne(inv, call))
	}

	if len(calls) > 0 && len(results) == 0 {
		inv.LogError("dispatch.no_results", "requested", len(calls))
		results = append(results, core.NewFunctionResponseContent(
			"", "dispatch",
			nil, fmt.Errorf("internal error: %d tool calls requested but none resolved", len(calls)),
		))
	}

	return results
}

// dispatchOne produces the single tool result for one call.
func (d *Dispatcher) dispatchOne(inv *core.Invocation, call core.FunctionCall) core.Content {
	impl, err := d.registry.Resolve(call.Name)
	if err != nil {
		inv.LogWarn("dispatch.unknown_tool", "tool", call.Name)
		return core.NewFunctionResponseContent(call.ID, call.Name, nil, err)
	}

	args, err := parseArgs(call.Arguments)
	if err != nil {
		return core.NewFunctionResponseContent(call.ID, call.Name, nil,
			fmt.Errorf("malformed arguments for %s: %w", call.Name, err))
	}

	toolCtx := core.NewToolContext(inv, call.ID)

	switch call.Name {
	case mail.ToolName:
		d.enrichEmailArgs(toolCtx, args)
	case calendar.ScheduleToolName:
		d.enrichScheduleArgs(inv, args)
	}

	result, err := d.invoke(inv, impl, toolCtx, args)
	return core.NewFunctionResponseContent(call.ID, call.Name, result, err)
}

// invoke runs the tool inside a panic boundary scoped to this one call.
func (d *Dispatcher) invoke(inv *core.Invocation, impl tool.Tool, toolCtx *core.ToolContext, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			inv.LogError("dispatch.tool.panic", "tool", impl.Name(), "recover", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("tool %s panicked: %v", impl.Name(), r)
		}
	}()
	return impl.Call(toolCtx, args)
}

// enrichEmailArgs runs the context-enrichment step for proposal emails: if
// the subject or body mentions a proposal, scan the conversation backward
// for the latest proposal document or project request; when requirements
// exist but no proposal does yet, synthesize one via the proposal tool and
// attach it (plus client name and project type) to the email arguments.
func (d *Dispatcher) enrichEmailArgs(toolCtx *core.ToolContext, args map[string]any) {
	subject, _ := args["subject"].(string)
	body, _ := args["body"].(string)
	if !strings.Contains(strings.ToLower(subject+" "+body), "proposal") {
		return
	}

	scan := Scan(toolCtx.Conversation())

	doc := scan.Proposal
	if doc == "" && scan.HasRequirements() {
		doc = d.synthesizeProposal(toolCtx, scan)
	}
	if doc == "" {
		return
	}

	args["proposal"] = doc
	if scan.ClientName != "" {
		args["client_name"] = scan.ClientName
	}
	if scan.ProjectType != "" {
		args["project_type"] = scan.ProjectType
	}
	toolCtx.LogInfo("dispatch.email.enriched",
		"client", scan.ClientName, "project_type", scan.ProjectType, "synthesized", scan.Proposal == "")
}

// synthesizeProposal invokes the proposal-generation tool with the extracted
// requirements. Budget and timeline degrade to "Not specified" when the
// pattern match found nothing.
func (d *Dispatcher) synthesizeProposal(toolCtx *core.ToolContext, scan Extracted) string {
	gen, err := d.registry.Resolve(proposal.ToolName)
	if err != nil {
		toolCtx.LogWarn("dispatch.proposal.unavailable", "error", err.Error())
		return ""
	}

	budget := scan.Budget
	if budget == "" {
		budget = proposal.NotSpecified
	}
	timeline := scan.Timeline
	if timeline == "" {
		timeline = proposal.NotSpecified
	}
	clientName := scan.ClientName
	if clientName == "" {
		clientName = "the client"
	}
	projectType := scan.ProjectType
	if projectType == "" {
		projectType = "custom software"
	}

	result, err := gen.Call(toolCtx, map[string]any{
		"client_name":  clientName,
		"project_type": projectType,
		"description":  scan.RequirementsText,
		"budget":       budget,
		"timeline":     timeline,
	})
	if err != nil {
		toolCtx.LogWarn("dispatch.proposal.generation_failed", "error", err.Error())
		return ""
	}
	doc, _ := result.(string)
	return doc
}

// enrichScheduleArgs backfills a missing project name on schedule_meeting
// calls from the same backward scan.
func (d *Dispatcher) enrichScheduleArgs(inv *core.Invocation, args map[string]any) {
	if name, _ := args["project_name"].(string); name != "" {
		return
	}
	scan := Scan(inv.Conversation())
	if scan.ProjectType != "" {
		args["project_name"] = scan.ProjectType + " project"
		inv.LogDebug("dispatch.schedule.backfilled", "project_name", args["project_name"])
	}
}

// parseArgs decodes the serialized tool arguments, treating empty input as
// an empty object.
func parseArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
