// Package email delivers operational notifications over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// ImportSummaryData describes one finished import batch for notification.
type ImportSummaryData struct {
	BatchID               string
	Trigger               string
	SelectedCount         int
	ImportedCount         int
	SkippedDuplicateCount int
	FailedCount           int
}

// Sender delivers notifications. A nil or disabled sender is represented by
// NopSender so callers never branch on configuration.
type Sender interface {
	SendImportSummary(ctx context.Context, toEmail string, data ImportSummaryData) error
}

// NopSender drops every message. Used when email is not configured.
type NopSender struct{}

func (NopSender) SendImportSummary(ctx context.Context, toEmail string, data ImportSummaryData) error {
	return nil
}

// SMTPSender delivers via a direct SMTP connection using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a sender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendImportSummary mails the terminal summary of an import batch.
func (s *SMTPSender) SendImportSummary(ctx context.Context, toEmail string, data ImportSummaryData) error {
	content, err := renderEmailTemplate("import_summary.html", importSummaryEmailData{
		baseEmailData: baseEmailData{
			Title:   "Lead import finished",
			Heading: "Lead import finished",
		},
		ImportSummaryData: data,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf(subjectImportSummaryFmt, data.ImportedCount, data.SelectedCount)
	return s.send(ctx, toEmail, subject, content)
}
