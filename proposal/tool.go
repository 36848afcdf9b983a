package proposal

import (
	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/tool"
)

// ToolName is the registered name of the proposal-generation capability. The
// dispatch layer invokes it by name when synthesizing a proposal before an
// email send.
const ToolName = "generate_proposal"

type generateArgs struct {
	ClientName  string `json:"client_name" description:"Name of the client the proposal is for"`
	ProjectType string `json:"project_type" description:"Kind of project, e.g. e-commerce, web, api"`
	Description string `json:"description,omitempty" description:"Short summary of the requested work"`
	Budget      string `json:"budget,omitempty" description:"Stated budget, e.g. $50,000"`
	Timeline    string `json:"timeline,omitempty" description:"Stated timeline, e.g. 3 months"`
}

// NewGenerateTool exposes proposal generation as a registry tool.
func NewGenerateTool() tool.Tool {
	return tool.NewFunctionToolFromStruct(
		ToolName,
		"Generate a project proposal document from client requirements",
		generateArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			req := Requirements{}
			req.ClientName, _ = args["client_name"].(string)
			req.ProjectType, _ = args["project_type"].(string)
			req.Description, _ = args["description"].(string)
			req.Budget, _ = args["budget"].(string)
			req.Timeline, _ = args["timeline"].(string)

			doc := Generate(req, "")
			tc.LogInfo("proposal.generated", "client", req.ClientName, "project_type", req.ProjectType)
			return doc, nil
		},
	)
}
