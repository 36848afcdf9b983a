package mail

import (
	"fmt"
	"strings"

	"github.com/foliolabs/folioagent/core"
	"github.com/foliolabs/folioagent/tool"
)

// Operator is the fixed owner of the assistant's outbox. All outbound mail
// goes to this address, regardless of what the model asked for.
type Operator struct {
	Name  string
	Email string
}

// ToolName is the registered name of the email-send capability. The dispatch
// layer matches on it for context enrichment.
const ToolName = "send_email"

type sendEmailArgs struct {
	To       string `json:"to" description:"Recipient email address"`
	Subject  string `json:"subject" description:"Email subject line"`
	Body     string `json:"body" description:"Plain text email body"`
	Priority string `json:"priority,omitempty" description:"Delivery priority" enum:"high,normal,low"`
}

// NewSendEmailTool builds the guarded email tool.
//
// Security constraints enforced here, not delegated to the model:
//   - Any recipient other than the operator address is declined with a
//     textual notice; the transport is never invoked.
//   - A send whose subject signals a revision ("revised ...") is skipped
//     while the invocation's email guard is set, so regenerate-and-resend
//     cycles within one user turn cannot double-deliver.
//
// The guard is set on every successful send and resets only when the next
// invocation is constructed.
func NewSendEmailTool(mailer Mailer, operator Operator) tool.Tool {
	return tool.NewFunctionToolFromStruct(
		ToolName,
		"Send an email to the studio operator (proposals, summaries, follow-ups)",
		sendEmailArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			to, _ := args["to"].(string)
			subject, _ := args["subject"].(string)
			body, _ := args["body"].(string)
			priority, _ := args["priority"].(string)
			if priority == "" {
				priority = "normal"
			}

			if !strings.EqualFold(strings.TrimSpace(to), operator.Email) {
				tc.LogWarn("mail.recipient.declined", "requested", to, "operator", operator.Email)
				return fmt.Sprintf(
					"Not sent: this assistant only emails %s (%s). The requested recipient %q was declined; please address the message to the operator.",
					operator.Name, operator.Email, to,
				), nil
			}

			if isRevision(subject) && tc.EmailSent() {
				tc.LogInfo("mail.revision.skipped", "subject", subject)
				return fmt.Sprintf(
					"Skipped: an email was already sent during this request and %q looks like a revised copy. The earlier message stands.",
					subject,
				), nil
			}

			// Dispatch enrichment may have attached a synthesized proposal.
			if proposal, ok := args["proposal"].(string); ok && proposal != "" && !strings.Contains(body, proposal) {
				body = body + "\n\n" + proposal
			}

			msg := Message{
				To:       operator.Email,
				Subject:  subject,
				Body:     body,
				Priority: priority,
			}
			if err := mailer.Send(tc.Context(), msg); err != nil {
				return nil, fmt.Errorf("send email: %w", err)
			}

			tc.MarkEmailSent()
			tc.LogInfo("mail.sent", "subject", subject, "priority", priority)

			result := fmt.Sprintf("Email %q sent to %s.", subject, operator.Email)
			if client, ok := args["client_name"].(string); ok && client != "" {
				result += fmt.Sprintf(" (prepared for client %s)", client)
			}
			return result, nil
		},
	)
}

// isRevision reports whether a subject line marks the message as a revised
// variant of an earlier send.
func isRevision(subject string) bool {
	return strings.Contains(strings.ToLower(subject), "revised")
}
