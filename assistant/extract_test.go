package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/proposal"
)

func TestExtractBudget(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"a $50,000 budget", "$50,000"},
		{"around $12k total", "$12k"},
		{"we have $ 7,500.50 set aside", "$ 7,500.50"},
		{"no figures here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractBudget(tt.text), "text %q", tt.text)
	}
}

func TestExtractTimeline(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"a 3 month timeline", "3 month"},
		{"deliver in 3-month sprints", "3-month"},
		{"roughly 6 weeks of work", "6 weeks"},
		{"a 2-3 months window", "2-3 months"},
		{"whenever it's done", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractTimeline(tt.text), "text %q", tt.text)
	}
}

func TestExtractClientName(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"email that to Robin", "Robin"},
		{"please send the proposal to Morgan today", "Morgan"},
		{"the client is Dana", "Dana"},
		{"a proposal for Casey please", "Casey"},
		{"just checking in", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractClientName(tt.text), "text %q", tt.text)
	}
}

func TestExtractProjectType(t *testing.T) {
	assert.Equal(t, "e-commerce", extractProjectType("an e-commerce platform"))
	assert.Equal(t, "e-commerce", extractProjectType("an online store for vinyl"))
	assert.Equal(t, "api", extractProjectType("a REST API integration"))
	assert.Equal(t, "web", extractProjectType("a marketing website"))
	assert.Equal(t, "", extractProjectType("a mobile game"))
}

func TestScan_FindsLatestProposalAndRequest(t *testing.T) {
	older := proposal.Generate(proposal.Requirements{ClientName: "Old"}, "")
	newer := proposal.Generate(proposal.Requirements{ClientName: "Robin"}, "")

	conversation := []core.Content{
		core.NewTextContent("user", "I need a proposal for an e-commerce project with a $50,000 budget and 3 month timeline for Robin"),
		core.NewFunctionResponseContent("c1", "generate_proposal", older, nil),
		core.NewTextContent("assistant", "Here is a draft."),
		core.NewFunctionResponseContent("c2", "generate_proposal", newer, nil),
	}

	scan := Scan(conversation)
	assert.Equal(t, newer, scan.Proposal)
	require.True(t, scan.HasRequirements())
	assert.Equal(t, "Robin", scan.ClientName)
	assert.Equal(t, "e-commerce", scan.ProjectType)
	assert.Equal(t, "$50,000", scan.Budget)
	assert.Equal(t, "3 month", scan.Timeline)
}

func TestScan_IgnoresNonProjectChatter(t *testing.T) {
	conversation := []core.Content{
		core.NewTextContent("user", "what does Alex know?"),
		core.NewTextContent("assistant", "Alex knows Go and React."),
	}

	scan := Scan(conversation)
	assert.False(t, scan.HasRequirements())
	assert.Empty(t, scan.Proposal)
}

func TestScan_NonProposalToolResultsAreSkipped(t *testing.T) {
	conversation := []core.Content{
		core.NewTextContent("user", "send the proposal to Robin"),
		core.NewFunctionResponseContent("c1", "get_company_info", "Foliolabs Studio profile text", nil),
	}

	scan := Scan(conversation)
	assert.Empty(t, scan.Proposal)
	assert.True(t, scan.HasRequirements())
	assert.Equal(t, "Robin", scan.ClientName)
}

func TestScan_UsesMostRecentProjectRequest(t *testing.T) {
	conversation := []core.Content{
		core.NewTextContent("user", "I want a web project for Dana"),
		core.NewTextContent("assistant", "Sure."),
		core.NewTextContent("user", "Actually make it an e-commerce project for Casey"),
	}

	scan := Scan(conversation)
	assert.Equal(t, "Casey", scan.ClientName)
	assert.Equal(t, "e-commerce", scan.ProjectType)
}
