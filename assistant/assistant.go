package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/logging"
	"github.com/foliolabs/folioagent/model"
	"github.com/foliolabs/folioagent/session"
	"github.com/foliolabs/folioagent/tool"
)

// DefaultMaxIterations bounds the reasoning loop of one invocation.
const DefaultMaxIterations = 8

// defaultPersona is the studio assistant's standing instruction set.
const defaultPersona = `You are the operations assistant for Foliolabs Studio, a software consultancy.
You help the operator answer questions about the team, projects and services,
draft and send client proposals, and manage the meeting calendar.

Use the available tools whenever they apply instead of guessing. When asked to
email a proposal, generate it first if one does not exist yet. Confirm every
completed action in one or two plain sentences. If a tool reports an error,
tell the user what failed rather than pretending it succeeded.`

// exhaustedReply is the degraded answer returned when the iteration ceiling is
// reached before the model settles on a text response.
const exhaustedReply = "I wasn't able to finish that request in a reasonable number of steps. " +
	"The actions completed so far have been kept; please rephrase or break the request into smaller parts."

// Options tunes an Assistant. Zero values select the defaults.
type Options struct {
	MaxIterations int    // reasoning-loop ceiling, DefaultMaxIterations when <= 0
	HistoryWindow int    // prior turns folded into the prompt, session.DefaultWindow when <= 0
	Persona       string // system instructions, defaultPersona when empty
}

// Assistant is the orchestration loop: it folds session history into the
// prompt, alternates model turns with tool dispatch until the model produces
// a plain text answer, and records the completed exchange.
type Assistant struct {
	model      model.Model
	registry   *tool.Registry
	dispatcher *Dispatcher
	store      *session.Store
	opts       Options
	logger     logging.Logger
	toolDefs   []model.ToolDefinition
}

// New constructs an Assistant over the given model, tool registry and
// session store.
func New(m model.Model, registry *tool.Registry, store *session.Store, opts Options, logger logging.Logger) *Assistant {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = session.DefaultWindow
	}
	if opts.Persona == "" {
		opts.Persona = defaultPersona
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Assistant{
		model:      m,
		registry:   registry,
		dispatcher: NewDispatcher(registry),
		store:      store,
		opts:       opts,
		logger:     logger,
		toolDefs:   toolDefinitions(registry),
	}
}

// Run processes one user message for the given session and returns the
// assistant's answer. Each call is a fresh invocation: the conversation
// buffer starts from folded history and the email guard starts cleared.
//
// A model failure is the only error surfaced to the caller. Tool failures
// become tool results the model gets to react to, and session persistence
// trouble is absorbed by the store.
func (a *Assistant) Run(ctx context.Context, sessionID, message string) (string, error) {
	inv := core.NewInvocation(ctx, sessionID, a.logger)
	a.logger.Info("assistant.run.start", "invocation_id", inv.ID, "session_id", sessionID)

	history := a.store.Read(ctx, sessionID, a.opts.HistoryWindow)
	inv.Append(core.NewTextContent("user", foldHistory(history, message)))

	for i := 0; i < a.opts.MaxIterations; i++ {
		resp, err := a.model.Generate(ctx, model.Request{
			Instructions: a.opts.Persona,
			Contents:     inv.Conversation(),
			Tools:        a.toolDefs,
		})
		if err != nil {
			a.logger.Error("assistant.model.failed", "invocation_id", inv.ID, "iteration", i, "error", err.Error())
			return "", fmt.Errorf("model generation failed: %w", err)
		}
		inv.Append(resp.Content)

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			answer := resp.Content.Text()
			a.finish(ctx, inv, message, answer, i+1)
			return answer, nil
		}

		a.logger.Debug("assistant.dispatch", "invocation_id", inv.ID, "iteration", i, "calls", len(calls))
		for _, result := range a.dispatcher.Dispatch(inv, calls) {
			inv.Append(result)
		}
	}

	a.logger.Warn("assistant.run.exhausted", "invocation_id", inv.ID, "max_iterations", a.opts.MaxIterations)
	a.finish(ctx, inv, message, exhaustedReply, a.opts.MaxIterations)
	return exhaustedReply, nil
}

// finish records the completed exchange. Persistence never blocks the answer.
func (a *Assistant) finish(ctx context.Context, inv *core.Invocation, message, answer string, iterations int) {
	a.store.Append(ctx, inv.SessionID, core.NewTurn(message, answer))
	a.logger.Info("assistant.run.done", "invocation_id", inv.ID, "iterations", iterations)
}

// foldHistory renders prior turns and the current message as one user prompt.
// Providers see a single coherent message instead of a synthetic multi-turn
// transcript, which keeps the history format provider independent.
func foldHistory(history []core.Turn, message string) string {
	if len(history) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", t.UserText, t.AssistantText)
	}
	b.WriteString("\nCurrent message:\n")
	b.WriteString(message)
	return b.String()
}

// toolDefinitions converts the registry catalog into the declarative form
// models consume. Registration order is preserved.
func toolDefinitions(registry *tool.Registry) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, registry.Len())
	for _, t := range registry.All() {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}
