// Package mail provides the outbound email capability: a transport-agnostic
// Mailer interface, an SMTP implementation, and the send_email tool that
// enforces the recipient allow-list and duplicate-send suppression.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is one outbound email.
type Message struct {
	From     string
	To       string
	Subject  string
	Body     string
	Priority string // high, normal, low
}

// Mailer is the consumed mail transport capability.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends messages through a plain SMTP endpoint.
type SMTPMailer struct {
	addr string // host:port
	auth smtp.Auth
	from string
}

// NewSMTPMailer constructs an SMTP transport. username/password may be empty
// for unauthenticated relays (local dev).
func NewSMTPMailer(addr, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{addr: addr, auth: auth, from: from}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = m.from
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	if p := priorityHeader(msg.Priority); p != "" {
		fmt.Fprintf(&b, "X-Priority: %s\r\n", p)
	}
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(m.addr, m.auth, from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func priorityHeader(priority string) string {
	switch priority {
	case "high":
		return "1"
	case "low":
		return "5"
	default:
		return ""
	}
}

// CaptureMailer records sent messages instead of delivering them. Used in
// tests and as the default transport when no SMTP endpoint is configured.
type CaptureMailer struct {
	Sent []Message
	Err  error // returned by Send when non-nil
}

// Send implements Mailer.
func (m *CaptureMailer) Send(_ context.Context, msg Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
