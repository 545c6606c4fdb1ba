package services

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Mailer dispatches ChatUp's transactional emails.
type Mailer interface {
	SendVerificationEmail(email, name, token string) error
	SendPasswordResetEmail(email, name, token string) error
	SendSupportEmail(email, name, message string) error
}

// SMTPConfig holds the SMTP sender settings.
type SMTPConfig struct {
	Server   string
	Port     int
	Address  string // sender address, also the support inbox
	Password string
	BaseURL  string // public base URL used to build links
}

// SMTPMailer sends email synchronously over SMTP with STARTTLS.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerificationEmail emails the address-ownership link for a new account.
func (m *SMTPMailer) SendVerificationEmail(email, name, token string) error {
	link := fmt.Sprintf("%s/verify-email/%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf(`Hello %s,

Thank you for registering with ChatUp! Please click the link below to verify your email address:

%s

If you did not register for ChatUp, please ignore this email.

Best regards,
The ChatUp Team
`, name, link)

	return m.send(email, "Verify Your Email Address - ChatUp", body)
}

// SendPasswordResetEmail emails a reset link valid for 2 hours.
func (m *SMTPMailer) SendPasswordResetEmail(email, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.BaseURL, token)
	body := fmt.Sprintf(`Hello %s,

You have requested to reset your password for your ChatUp account. Please click the link below to reset your password:

%s

This link will expire in 2 hours for security reasons.

If you did not request a password reset, please ignore this email or contact support if you believe this is unauthorized access.

Best regards,
The ChatUp Team
`, name, link)

	return m.send(email, "Password Reset Request - ChatUp", body)
}

// SendSupportEmail forwards a support request to the support inbox.
func (m *SMTPMailer) SendSupportEmail(email, name, message string) error {
	body := fmt.Sprintf(`New support request received:

Name: %s
Email: %s
Message: %s

Please respond to the user's email address: %s
`, name, email, message, email)

	subject := fmt.Sprintf("Support Request from %s <%s>", name, email)
	return m.send(m.cfg.Address, subject, body)
}

// send performs the SMTP exchange with connection deadlines so a stalled
// server cannot hang the caller indefinitely.
func (m *SMTPMailer) send(to, subject, body string) error {
	if m.cfg.Address == "" || m.cfg.Password == "" {
		return errors.New("email configuration missing: set EMAIL_ADDRESS and EMAIL_PASSWORD")
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", m.cfg.Address),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Server, m.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, m.cfg.Server)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Server}); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Address, m.cfg.Password, m.cfg.Server)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}

	if err := c.Mail(m.cfg.Address); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	log.Printf("Email sent to %s: %s", to, subject)
	return nil
}
