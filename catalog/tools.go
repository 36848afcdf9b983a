package catalog

import (
	"fmt"
	"strings"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/tool"
)

// Tools returns the read-only lookup tools exposing the catalog to the
// model. None of them have side effects.
func Tools(c *Catalog) []tool.Tool {
	return []tool.Tool{
		newTeamMemberTool(c),
		newProjectTool(c),
		newServicesTool(c),
		newCompanyTool(c),
	}
}

func newTeamMemberTool(c *Catalog) tool.Tool {
	return tool.NewFunctionTool(
		"get_team_member",
		"Look up a team member's role, skills and project history by name",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string", "description": "Full or partial team member name"},
			},
			"required": []string{"name"},
		},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			m, ok := c.FindTeamMember(name)
			if !ok {
				return fmt.Sprintf("No team member matching %q. Team: %s", name, teamNames(c)), nil
			}
			return fmt.Sprintf(
				"%s — %s. Skills: %s. Projects: %s. %s",
				m.Name, m.Role,
				strings.Join(m.Skills, ", "),
				strings.Join(m.Projects, ", "),
				strings.TrimSpace(m.Bio),
			), nil
		},
	)
}

func newProjectTool(c *Catalog) tool.Tool {
	return tool.NewFunctionTool(
		"get_project_details",
		"Look up a portfolio project's description, type and tech stack by name",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string", "description": "Full or partial project name"},
			},
			"required": []string{"name"},
		},
		func(_ *core.ToolContext, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			p, ok := c.FindProject(name)
			if !ok {
				return fmt.Sprintf("No project matching %q. Portfolio: %s", name, projectNames(c)), nil
			}
			return fmt.Sprintf(
				"%s (%s): %s Stack: %s. %s",
				p.Name, p.Type, strings.TrimSpace(p.Description),
				strings.Join(p.Stack, ", "), p.URL,
			), nil
		},
	)
}

func newServicesTool(c *Catalog) tool.Tool {
	return tool.NewFunctionTool(
		"list_services",
		"List the studio's service offerings with starting prices and timelines",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			var b strings.Builder
			for _, s := range c.Services {
				fmt.Fprintf(&b, "- %s: %s From %s, typical timeline %s.\n",
					s.Name, strings.TrimSpace(s.Description), s.StartingPrice, s.Timeline)
			}
			return b.String(), nil
		},
	)
}

func newCompanyTool(c *Catalog) tool.Tool {
	return tool.NewFunctionTool(
		"get_company_info",
		"Get the studio's profile: name, tagline, contact and location",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			co := c.Company
			return fmt.Sprintf("%s — %s. %s Contact: %s. Location: %s.",
				co.Name, co.Tagline, strings.TrimSpace(co.About), co.Email, co.Location), nil
		},
	)
}

func teamNames(c *Catalog) string {
	names := make([]string, 0, len(c.Team))
	for _, m := range c.Team {
		names = append(names, m.Name)
	}
	return strings.Join(names, ", ")
}

func projectNames(c *Catalog) string {
	names := make([]string, 0, len(c.Projects))
	for _, p := range c.Projects {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
