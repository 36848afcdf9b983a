package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/internal/util"
)

func newToolContext() *core.ToolContext {
	inv := core.NewInvocation(context.Background(), "s1", nil)
	return core.NewToolContext(inv, "call-1")
}

// -------------------- Schema & Validation Tests --------------------

type sampleArgs struct {
	Name     string `json:"name" description:"Required name"`
	Count    int    `json:"count,omitempty" description:"Optional count"`
	Priority string `json:"priority,omitempty" description:"Delivery priority" enum:"high,normal,low"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleArgs{})

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "count")
	assert.Contains(t, props, "priority")

	prio, ok := props["priority"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"high", "normal", "low"}, prio["enum"])

	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"name"}, req)
}

func TestValidateParameters_EnumMembership(t *testing.T) {
	schema := util.CreateSchema(sampleArgs{})

	err := util.ValidateParameters(map[string]any{"name": "x", "priority": "high"}, schema)
	assert.NoError(t, err)

	err = util.ValidateParameters(map[string]any{"name": "x", "priority": "urgent"}, schema)
	assert.Error(t, err)
}

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Success(t *testing.T) {
	echo := NewFunctionToolFromStruct("echo", "Echo the name", sampleArgs{},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return "hello " + args["name"].(string), nil
		})

	result, err := echo.Call(newToolContext(), map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	echo := NewFunctionToolFromStruct("echo", "Echo the name", sampleArgs{},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return nil, nil
		})

	_, err := echo.Call(newToolContext(), map[string]any{})
	require.Error(t, err)
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	failing := NewFunctionToolFromStruct("failing", "Always fails", sampleArgs{},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		})

	_, err := failing.Call(newToolContext(), map[string]any{"name": "x"})
	require.Error(t, err)
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, "boom", toolErr.Message)
}

func TestFunctionTool_ToolErrorPassthrough(t *testing.T) {
	custom := NewFunctionToolFromStruct("custom", "Returns custom codes", sampleArgs{},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			return nil, &ToolError{Tool: "custom", Message: "nope", Code: "RATE_LIMITED"}
		})

	_, err := custom.Call(newToolContext(), map[string]any{"name": "x"})
	require.Error(t, err)
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

// -------------------- Registry Tests --------------------

func namedTool(name string) Tool {
	return NewFunctionTool(name, "test tool", map[string]any{"type": "object"},
		func(_ *core.ToolContext, _ map[string]any) (any, error) { return name, nil })
}

func TestRegistry_ResolveKnownTool(t *testing.T) {
	r, err := NewRegistry(namedTool("alpha"), namedTool("beta"))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	resolved, err := r.Resolve("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", resolved.Name())
}

func TestRegistry_UnknownToolListsCatalog(t *testing.T) {
	r := MustNewRegistry(namedTool("beta"), namedTool("alpha"))

	_, err := r.Resolve("gamma")
	require.Error(t, err)
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "NOT_FOUND", toolErr.Code)
	// The message names the catalog in sorted order.
	assert.Contains(t, toolErr.Message, "alpha beta")
}

func TestRegistry_DuplicateNameFails(t *testing.T) {
	_, err := NewRegistry(namedTool("dup"), namedTool("dup"))
	assert.Error(t, err)
}

func TestRegistry_NamesSortedAllOrdered(t *testing.T) {
	r := MustNewRegistry(namedTool("zeta"), namedTool("alpha"))

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "zeta", all[0].Name())
	assert.Equal(t, "alpha", all[1].Name())
}
