package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendApplicationConfirmation(msg ApplicationConfirmation) error
	SendApplicationDecision(msg ApplicationDecision) error
}

// ApplicationConfirmation is sent after a successful submission
type ApplicationConfirmation struct {
	ToEmail          string
	ToName           string
	CompetitionTitle string
	VerificationCode string
	ApplicationID    string
}

// ApplicationDecision is sent when an organizer accepts or rejects an application
type ApplicationDecision struct {
	ToEmail          string
	ToName           string
	CompetitionTitle string
	Decision         string
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Sender delivers a composed message. Replaced in tests.
type Sender func(cfg SMTPConfig, to string, message []byte) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	send   Sender
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	return NewEmailServiceWithSender(config, sendSMTP, logger)
}

// NewEmailServiceWithSender creates an EmailService with a custom delivery function
func NewEmailServiceWithSender(config SMTPConfig, send Sender, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{
		config: config,
		send:   send,
		logger: logger,
	}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Application received</h2>
		<p>Hello {{.ToName}},</p>
		<p>Your application to <strong>{{.CompetitionTitle}}</strong> has been submitted.</p>
		<p>Your verification code is <strong>{{.VerificationCode}}</strong>. Show it at check-in.</p>
		<p>Application ID: {{.ApplicationID}}</p>
		<p>Best regards,<br>The FormCo Team</p>
	</div>
</body>
</html>`))

var decisionTemplate = template.Must(template.New("decision").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Application {{.Decision}}</h2>
		<p>Hello {{.ToName}},</p>
		<p>Your application to <strong>{{.CompetitionTitle}}</strong> has been {{.Decision}}.</p>
		<p>Best regards,<br>The FormCo Team</p>
	</div>
</body>
</html>`))

// SendApplicationConfirmation emails the applicant their verification code
func (s *EmailServiceImpl) SendApplicationConfirmation(msg ApplicationConfirmation) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", msg.ToEmail).
			Str("applicationID", msg.ApplicationID).
			Str("verificationCode", msg.VerificationCode).
			Msg("SMTP credentials not configured - confirmation email not sent")
		return nil
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, msg); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return s.sendHTMLEmail(msg.ToEmail, "Application received - "+msg.CompetitionTitle, body.String())
}

// SendApplicationDecision emails the applicant the acceptance decision
func (s *EmailServiceImpl) SendApplicationDecision(msg ApplicationDecision) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", msg.ToEmail).
			Str("decision", msg.Decision).
			Msg("SMTP credentials not configured - decision email not sent")
		return nil
	}

	var body bytes.Buffer
	if err := decisionTemplate.Execute(&body, msg); err != nil {
		return fmt.Errorf("failed to render decision email: %w", err)
	}
	return s.sendHTMLEmail(msg.ToEmail, "Application "+msg.Decision+" - "+msg.CompetitionTitle, body.String())
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// sendHTMLEmail composes and delivers an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	message := composeMessage(s.config, toEmail, subject, htmlBody)
	if err := s.send(s.config, toEmail, message); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send email")
		return err
	}
	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}

func composeMessage(cfg SMTPConfig, toEmail, subject, htmlBody string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.Bytes()
}

func sendSMTP(cfg SMTPConfig, toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	serverAddress := cfg.Host + ":" + strconv.Itoa(cfg.Port)

	if !cfg.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, cfg.FromEmail, []string{toEmail}, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
