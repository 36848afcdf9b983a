// Package proposal synthesizes project proposal documents and runs the
// secondary generate/review/revise quality workflow.
package proposal

import (
	"fmt"
	"strings"
	"time"
)

// Heading opens every generated proposal document. The dispatch layer's
// backward scan uses it to recognize proposal-bearing tool results.
const Heading = "# Project Proposal"

// NotSpecified is the placeholder used when budget or timeline could not be
// extracted from the conversation.
const NotSpecified = "Not specified"

// Requirements captures what is known about the requested project before a
// proposal is written. Zero-value fields degrade to placeholders.
type Requirements struct {
	ClientName  string
	ProjectType string
	Description string
	Budget      string
	Timeline    string
}

// normalized fills placeholder defaults.
func (r Requirements) normalized() Requirements {
	if r.ClientName == "" {
		r.ClientName = "the client"
	}
	if r.ProjectType == "" {
		r.ProjectType = "custom software"
	}
	if r.Budget == "" {
		r.Budget = NotSpecified
	}
	if r.Timeline == "" {
		r.Timeline = NotSpecified
	}
	return r
}

// Generate renders a proposal document for the given requirements. Optional
// reviewer feedback from a prior round is folded into the scope section so
// revision cycles visibly converge.
func Generate(req Requirements, feedback string) string {
	r := req.normalized()

	var b strings.Builder
	b.WriteString(Heading + "\n\n")
	fmt.Fprintf(&b, "Prepared for: %s\n", r.ClientName)
	fmt.Fprintf(&b, "Project type: %s\n", r.ProjectType)
	fmt.Fprintf(&b, "Date: %s\n\n", time.Now().Format("January 2, 2006"))

	b.WriteString("## Scope\n\n")
	if r.Description != "" {
		b.WriteString(strings.TrimSpace(r.Description) + "\n\n")
	} else {
		fmt.Fprintf(&b, "Design, build and launch a %s project, including discovery, implementation, testing and deployment.\n\n", r.ProjectType)
	}
	if feedback != "" {
		fmt.Fprintf(&b, "Revision notes addressed: %s\n\n", strings.TrimSpace(feedback))
	}

	b.WriteString("## Budget\n\n")
	fmt.Fprintf(&b, "Estimated budget: %s\n\n", r.Budget)

	b.WriteString("## Timeline\n\n")
	fmt.Fprintf(&b, "Estimated timeline: %s\n\n", r.Timeline)

	b.WriteString("## Next steps\n\n")
	b.WriteString("Reply to this proposal to schedule an initial consultation. We hold the quoted terms for 30 days.\n")

	return b.String()
}
