package assistant

import (
	"regexp"
	"strings"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/proposal"
)

// Extracted is the context recovered from a backward scan of the
// conversation: the most recent proposal document (if any tool result
// carries one) and the fields pattern-matched out of the most recent
// project-request user message.
type Extracted struct {
	Proposal         string // full proposal document, empty if none produced yet
	RequirementsText string // the user message that looked like a project request
	ClientName       string
	ClientEmail      string
	ProjectType      string
	Budget           string
	Timeline         string
}

// HasRequirements reports whether the scan found a project request to build
// a proposal from.
func (e Extracted) HasRequirements() bool { return e.RequirementsText != "" }

// projectKeywords is the closed vocabulary that marks a user message as a
// project request.
var projectKeywords = []string{"e-commerce", "ecommerce", "web", "proposal", "project"}

// hasProjectVocabulary reports whether text contains project-request vocabulary.
func hasProjectVocabulary(text string) bool {
	t := strings.ToLower(text)
	for _, kw := range projectKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// The recognized grammar is deliberately narrow: these patterns cover the
// phrasings the assistant actually sees ("a $50,000 budget", "3 month
// timeline", "email that to Robin") and nothing speculative. Extending the
// grammar means adding a pattern here plus a test, not touching dispatch.
var (
	budgetPattern   = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d+)?\s?[kK]?`)
	timelinePattern = regexp.MustCompile(`(?i)\b(\d+(?:\s*-\s*\d+)?[\s-]*(?:week|month|day)s?)\b`)
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// "email/send (that/it/the proposal) to Robin", "for Robin", "client Robin"
	recipientPattern = regexp.MustCompile(`(?:email|send|forward)\b[^.!?]*?\bto\s+([A-Z][a-z]+)`)
	clientPattern    = regexp.MustCompile(`(?i)\bclient(?:\s+named|\s+is)?\s+([A-Z][a-z]+)`)
	forNamePattern   = regexp.MustCompile(`\bfor\s+([A-Z][a-z]+)\b`)
)

// extractBudget returns the first dollar amount in text, or "".
func extractBudget(text string) string {
	return strings.TrimSpace(budgetPattern.FindString(text))
}

// extractTimeline returns the first duration phrase in text, or "".
func extractTimeline(text string) string {
	m := timelinePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractEmail returns the first email address in text, or "".
func extractEmail(text string) string {
	return emailPattern.FindString(text)
}

// extractClientName tries the recipient, client and for-name phrasings in
// that order and returns the first capture, or "".
func extractClientName(text string) string {
	for _, p := range []*regexp.Regexp{recipientPattern, clientPattern, forNamePattern} {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractProjectType classifies the request into the project types the
// catalog knows, or "".
func extractProjectType(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "e-commerce"), strings.Contains(t, "ecommerce"),
		strings.Contains(t, "online store"), strings.Contains(t, "storefront"):
		return "e-commerce"
	case strings.Contains(t, "api"):
		return "api"
	case strings.Contains(t, "website"), strings.Contains(t, "web"):
		return "web"
	default:
		return ""
	}
}

// Scan walks the conversation backward and assembles the enrichment
// context: the most recent proposal-bearing tool result (recognized by its
// document heading) and the most recent user message exhibiting
// project-request vocabulary, with its fields pattern-matched out.
func Scan(conversation []core.Content) Extracted {
	var out Extracted

	for i := len(conversation) - 1; i >= 0; i-- {
		c := conversation[i]
		switch c.Role {
		case "tool":
			if out.Proposal != "" {
				continue
			}
			for _, fr := range c.FunctionResponses() {
				if s, ok := fr.Response.(string); ok && strings.Contains(s, proposal.Heading) {
					out.Proposal = s
					break
				}
			}
		case "user":
			if out.RequirementsText != "" {
				continue
			}
			text := c.Text()
			if !hasProjectVocabulary(text) {
				continue
			}
			out.RequirementsText = text
			out.ClientName = extractClientName(text)
			out.ClientEmail = extractEmail(text)
			out.ProjectType = extractProjectType(text)
			out.Budget = extractBudget(text)
			out.Timeline = extractTimeline(text)
		}
		if out.Proposal != "" && out.RequirementsText != "" {
			break
		}
	}

	return out
}
