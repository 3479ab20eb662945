// Package provider delivers mails through transactional mail APIs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

var (
	ErrProviderNotConfigured = errors.New("mail provider not configured")
	ErrInvalidProvider       = errors.New("invalid mail provider")
	ErrSendFailed            = errors.New("failed to send mail")
)

// Provider sends one mail and returns the id the service assigned to it.
type Provider interface {
	Send(ctx context.Context, msg *Message) (messageID string, err error)
	Name() string
}

// Message is a provider-agnostic mail.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
	Headers map[string]string
}

// Config selects and configures a provider.
type Config struct {
	Name   string `yaml:"name"`
	APIKey string `yaml:"api_key"`
	Domain string `yaml:"domain"`
	Region string `yaml:"region"`
	From   string `yaml:"from"`
}

// New builds the provider named by cfg.Name: "mailgun", "resend" or "log".
func New(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Name) {
	case "":
		return nil, ErrProviderNotConfigured
	case "mailgun":
		return NewMailgunProvider(cfg.APIKey, cfg.Domain, cfg.From, cfg.Region)
	case "resend":
		return NewResendProvider(cfg.APIKey, cfg.From)
	case "log":
		return NewLogProvider(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, cfg.Name)
	}
}

func validate(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if msg.Text == "" && msg.HTML == "" {
		return fmt.Errorf("text or HTML body is required")
	}
	return nil
}

// LogProvider logs mails instead of sending them. Useful for local runs.
type LogProvider struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent int
}

// NewLogProvider creates a LogProvider. A nil logger selects slog.Default.
func NewLogProvider(logger *slog.Logger) *LogProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProvider{logger: logger.With("component", "mail.provider.log")}
}

// Send implements Provider.
func (p *LogProvider) Send(ctx context.Context, msg *Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.sent++
	id := fmt.Sprintf("log-%d", p.sent)
	p.mu.Unlock()

	p.logger.Info("mail",
		"id", id,
		"from", msg.From,
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
	)
	return id, nil
}

// Name implements Provider.
func (p *LogProvider) Name() string {
	return "log"
}
