package auth

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type Mailer interface {
	SendOTP(ctx context.Context, email string, purpose Purpose, code string) error
}

// ConsoleMailer logs codes instead of sending them. Development only.
type ConsoleMailer struct {
	logger *zap.Logger
}

func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) SendOTP(_ context.Context, email string, purpose Purpose, code string) error {
	m.logger.Info("dev otp email",
		zap.String("email", email),
		zap.String("purpose", string(purpose)),
		zap.String("code", code),
	)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends plain-text codes through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) SendOTP(_ context.Context, email string, purpose Purpose, code string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	subject, intro := otpCopy(purpose)
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", email)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	fmt.Fprintf(&b, "%s\r\n\r\nYour code: %s\r\n\r\nIf you did not request this, ignore this email.\r\n", intro, code)

	if err := m.send(addr, auth, m.cfg.From, []string{email}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", email, err)
	}
	return nil
}

func otpCopy(purpose Purpose) (subject, intro string) {
	switch purpose {
	case PurposeReset:
		return "Reset your password", "Use this code to reset your password."
	case PurposeLogin:
		return "Your sign-in code", "Use this code to sign in."
	default:
		return "Verify your email", "Welcome! Use this code to verify your email address."
	}
}
