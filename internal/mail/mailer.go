// Package mail delivers account emails. The console implementation stands in
// for SMTP delivery in development; it logs the message instead of sending it.
package mail

import (
	"context"
	"fmt"
	"log"
)

// Config is the delivery configuration handed to a mailer at construction.
type Config struct {
	Host    string
	Port    int
	From    string
	BaseURL string
}

// Mailer sends account lifecycle emails.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

// ConsoleMailer logs emails instead of delivering them.
type ConsoleMailer struct {
	cfg Config
}

// NewConsoleMailer creates a ConsoleMailer.
func NewConsoleMailer(cfg Config) *ConsoleMailer {
	return &ConsoleMailer{cfg: cfg}
}

func (m *ConsoleMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.cfg.BaseURL, token)
	m.print(to, "Verify your SkyLink account",
		fmt.Sprintf("Hi %s, verify your email within 24 hours: %s", name, link))
	return nil
}

func (m *ConsoleMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.cfg.BaseURL, token)
	m.print(to, "Reset your SkyLink password",
		fmt.Sprintf("Hi %s, reset your password within 1 hour: %s", name, link))
	return nil
}

func (m *ConsoleMailer) print(to, subject, body string) {
	log.Printf("Mail: to=%s from=%s subject=%q body=%q", to, m.cfg.From, subject, body)
}
