package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunEUBase = "https://api.eu.mailgun.net/v3"

// MailgunProvider sends mails via the Mailgun API.
type MailgunProvider struct {
	client *mailgun.MailgunImpl
	from   string
}

// NewMailgunProvider creates a Mailgun provider. Region "eu" selects the EU
// endpoint.
func NewMailgunProvider(apiKey, domain, from, region string) (*MailgunProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("mailgun API key is required")
	}
	if domain == "" {
		return nil, fmt.Errorf("mailgun domain is required")
	}
	if from == "" {
		return nil, fmt.Errorf("from address is required")
	}

	mg := mailgun.NewMailgun(domain, apiKey)
	if region == "eu" {
		mg.SetAPIBase(mailgunEUBase)
	}

	return &MailgunProvider{client: mg, from: from}, nil
}

// Send implements Provider. Messages without a sender use the configured
// from address.
func (p *MailgunProvider) Send(ctx context.Context, msg *Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}

	from := msg.From
	if from == "" {
		from = p.from
	}
	m := p.client.NewMessage(from, msg.Subject, msg.Text, msg.To...)
	if msg.HTML != "" {
		m.SetHtml(msg.HTML)
	}
	for k, v := range msg.Headers {
		m.AddHeader(k, v)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, id, err := p.client.Send(ctx, m)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return id, nil
}

// Name implements Provider.
func (p *MailgunProvider) Name() string {
	return "mailgun"
}
