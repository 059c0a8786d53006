// internal/pkg/notify/smtp.go
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/your-org/marketplace-backend/internal/config"
)

// SMTPSender delivers notifications over plain SMTP (Gmail, Outlook, or
// self-hosted relays).
type SMTPSender struct {
	config *config.NotificationConfig
}

// NewSMTPSender creates the SMTP-backed sender
func NewSMTPSender(cfg *config.NotificationConfig) (*SMTPSender, error) {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		return nil, fmt.Errorf("smtp configuration incomplete: missing host or username")
	}
	return &SMTPSender{config: cfg}, nil
}

// Send delivers one message
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	from := s.config.FromEmail
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}

	var body bytes.Buffer
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", msg.Recipient))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTMLContent)

	serverAddr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	if err := smtp.SendMail(serverAddr, auth, s.config.FromEmail, []string{msg.Recipient}, body.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
