package tool

import (
	"fmt"
	"sort"
)

// Registry is the process-wide catalog of invocable tools, indexed by name.
// All registration happens during startup wiring; afterwards the registry is
// read-only and safe for concurrent lookups without locking.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry constructs an empty registry and registers the given tools.
// Registration of a duplicate name fails fast: tool names are the routing
// keys the model sees, so collisions are wiring bugs.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is NewRegistry that panics on duplicate names. Intended for
// startup wiring where a duplicate is unrecoverable.
func MustNewRegistry(tools ...Tool) *Registry {
	r, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool with empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("duplicate tool name %q", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Resolve looks up a tool by name. An unknown name yields a *ToolError with
// code NOT_FOUND whose message lists every registered name, giving the model
// enough context to self-correct on the next turn.
func (r *Registry) Resolve(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &ToolError{
			Tool:    name,
			Message: fmt.Sprintf("unknown tool %q; available tools: %v", name, r.Names()),
			Code:    "NOT_FOUND",
		}
	}
	return t, nil
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }
