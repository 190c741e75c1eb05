package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP transport configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPService implements Service using net/smtp.
type SMTPService struct {
	config Config
	auth   smtp.Auth
}

// NewSMTPService creates a new SMTP email service.
func NewSMTPService(config Config) *SMTPService {
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)
	return &SMTPService{
		config: config,
		auth:   auth,
	}
}

// Send delivers a single HTML email.
func (s *SMTPService) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString("From: " + s.config.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, s.auth, s.config.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
