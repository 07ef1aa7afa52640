package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendOTPEmail(toEmail, code string, validFor time.Duration) error
	SendNewsletterConfirmation(toEmail string) error
	SendWelcomeEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromEmail   string
	UseTLS      bool
	FrontendURL string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	if config.FromEmail == "" {
		config.FromEmail = config.Username
	}
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// SendOTPEmail mails a one-time password
func (s *EmailServiceImpl) SendOTPEmail(toEmail, code string, validFor time.Duration) error {
	if !s.configured() {
		// the code itself is not logged
		s.logger.Warn().Str("toEmail", toEmail).Msg("SMTP credentials not configured - OTP email not sent")
		return nil
	}

	subject := "Your verification code - Gamage Recruiters"
	body := fmt.Sprintf(`
		<html>
		<body>
			<p>Your one-time verification code is <strong>%s</strong>.</p>
			<p>The code expires in %d minutes. If you did not request it, ignore this email.</p>
			<p>Gamage Recruiters</p>
		</body>
		</html>
	`, code, int(validFor.Minutes()))

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendNewsletterConfirmation confirms a newsletter subscription
func (s *EmailServiceImpl) SendNewsletterConfirmation(toEmail string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Msg("SMTP credentials not configured - newsletter confirmation not sent")
		return nil
	}

	subject := "Newsletter subscription confirmed - Gamage Recruiters"
	body := fmt.Sprintf(`
		<html>
		<body>
			<p>Thank you for subscribing to the Gamage Recruiters newsletter.</p>
			<p>You will receive new job openings and workshop announcements at this address.</p>
			<p><a href="%s">Visit Gamage Recruiters</a></p>
		</body>
		</html>
	`, s.config.FrontendURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().Str("toEmail", toEmail).Msg("SMTP credentials not configured - welcome email not sent")
		return nil
	}

	subject := "Welcome to Gamage Recruiters"
	body := fmt.Sprintf(`
		<html>
		<body>
			<p>Hello %s,</p>
			<p>Your account has been created. You can now browse jobs and apply from your dashboard.</p>
			<p><a href="%s/dashboard">Open your dashboard</a></p>
		</body>
		</html>
	`, toName, s.config.FrontendURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) string {
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)},
		{"To", toEmail},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create SMTP client")
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}
