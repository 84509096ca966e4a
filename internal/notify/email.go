package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"levelwatch/internal/domain"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier submits the rendered message over SMTP with PLAIN auth as a
// multipart/alternative body (text + HTML).
type EmailNotifier struct {
	host string
	port int
	user string
	pass string
	to   string

	send sendMailFunc
}

func NewEmailNotifier(host string, port int, user, pass, to string) *EmailNotifier {
	return &EmailNotifier{
		host: host,
		port: port,
		user: user,
		pass: pass,
		to:   to,
		send: smtp.SendMail,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg domain.Message) error {
	// net/smtp carries no context; the submission is bounded by the server
	// side and kept single-attempt.
	_ = ctx

	auth := smtp.PlainAuth("", n.user, n.pass, n.host)
	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	if err := n.send(addr, auth, n.user, []string{n.to}, buildMIME(n.user, n.to, msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

const altBoundary = "=_levelwatch_alt"

func buildMIME(from, to string, msg domain.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", altBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", altBoundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", altBoundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", altBoundary)
	return []byte(b.String())
}
