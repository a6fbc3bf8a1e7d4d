package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/components/mail")

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single email, Text is the fallback for clients that don't render HTML.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer is the outbound email capability.
//
// note: fault injection point
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
	// SenderName is the display name put in front of the sender address.
	SenderName string `json:"sender_name"`
}

// SMTPMailer sends mail through a single SMTP server using PLAIN auth, falling back
// to no auth for servers that don't support it (local fake servers).
type SMTPMailer struct {
	config Config
}

func NewSMTPMailer(config Config) SMTPMailer {
	return SMTPMailer{config: config}
}

func (m SMTPMailer) from() string {
	if m.config.SenderName == "" {
		return m.config.EmailAddress
	}
	return fmt.Sprintf("%s <%s>", m.config.SenderName, m.config.EmailAddress)
}

func (m SMTPMailer) build(msg Message) (*email.Email, error) {
	mail := email.NewEmail()
	mail.From = m.from()
	mail.To = []string{msg.To}
	mail.Subject = msg.Subject
	if msg.HTML != "" {
		mail.HTML = []byte(msg.HTML)
	}
	if msg.Text != "" {
		mail.Text = []byte(msg.Text)
	}
	for _, a := range msg.Attachments {
		_, err := mail.Attach(bytes.NewReader(a.Data), a.Filename, a.ContentType)
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return mail, nil
}

func (m SMTPMailer) send(mail *email.Email) error {
	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	return err
}

// Send blocks until the server accepted the message or ctx is done, in the latter case
// the underlying SMTP conversation is abandoned, not aborted.
func (m SMTPMailer) Send(ctx context.Context, msg Message) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.Int("attachments", len(msg.Attachments)))

	mail, err := m.build(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build email")
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- m.send(mail)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
