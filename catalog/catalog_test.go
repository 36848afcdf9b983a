package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folioagent/core"
)

func newToolContext() *core.ToolContext {
	inv := core.NewInvocation(context.Background(), "s1", nil)
	return core.NewToolContext(inv, "call-1")
}

func TestLoad_EmbeddedDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Company.Name)
	assert.NotEmpty(t, c.Team)
	assert.NotEmpty(t, c.Projects)
	assert.NotEmpty(t, c.Services)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte("company:\n  name: Test Studio\nteam:\n  - name: Pat Doe\n    role: Engineer\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Studio", c.Company.Name)
	require.Len(t, c.Team, 1)
	assert.Equal(t, "Pat Doe", c.Team[0].Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFindTeamMember_PartialAndCaseInsensitive(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	m, ok := c.FindTeamMember("alex")
	require.True(t, ok)
	assert.Equal(t, "Alex Rivera", m.Name)

	// Containment works in both directions, so a longer query still matches.
	m, ok = c.FindTeamMember("ALEX RIVERA from the portfolio page")
	require.True(t, ok)
	assert.Equal(t, "Alex Rivera", m.Name)

	_, ok = c.FindTeamMember("")
	assert.False(t, ok)
}

func TestFindProject_PartialMatch(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	p, ok := c.FindProject("northwind")
	require.True(t, ok)
	assert.Equal(t, "Northwind Market", p.Name)
}

func TestTools_RegisteredSet(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	tools := Tools(c)
	names := make([]string, 0, len(tools))
	for _, tl := range tools {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{"get_team_member", "get_project_details", "list_services", "get_company_info"}, names)
}

func TestTeamMemberTool_UnknownNameListsTeam(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	result, err := newTeamMemberTool(c).Call(newToolContext(), map[string]any{"name": "Ziggy"})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "No team member matching")
	assert.Contains(t, result.(string), "Alex Rivera")
}

func TestTeamMemberTool_FormatsSkills(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	result, err := newTeamMemberTool(c).Call(newToolContext(), map[string]any{"name": "Alex"})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Go")
	assert.Contains(t, result.(string), "Skills:")
}

func TestListServicesTool_IncludesPrices(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	result, err := newServicesTool(c).Call(newToolContext(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "From $")
}
