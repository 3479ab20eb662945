package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/wikistream/internal/mail/provider"
)

// Sender delivers batches of mails through a provider and reports every
// lifecycle step to a Listener.
type Sender struct {
	provider provider.Provider
	ids      IDGenerator
	logger   *slog.Logger
}

// NewSender creates a sender. A nil generator selects UUIDv7Generator.
func NewSender(p provider.Provider, ids IDGenerator) *Sender {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return &Sender{
		provider: p,
		ids:      ids,
		logger:   slog.Default().With("component", "mail.sender", "provider", p.Name()),
	}
}

// Send assigns a batch id and a message id to each mail, prepares them all,
// then sends them one by one. It returns the batch id.
//
// When ctx is cancelled the remaining mails are reported as failed with the
// context error, so they can be resent later.
func (s *Sender) Send(ctx context.Context, listener Listener, msgs ...*Message) (string, error) {
	if len(msgs) == 0 {
		return "", fmt.Errorf("no mail to send")
	}

	batchID := s.ids.Generate()
	for _, msg := range msgs {
		msg.SetIDs(s.ids.Generate(), batchID)
		listener.OnPrepare(ctx, msg)
	}

	failed := 0
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			listener.OnError(ctx, msg, err)
			failed++
			continue
		}
		if !s.deliver(ctx, listener, msg) {
			failed++
		}
	}

	s.logger.Info("mail batch processed",
		"batch_id", batchID,
		"total", len(msgs),
		"failed", failed,
	)
	return batchID, ctx.Err()
}

// deliver sends msg and reports the outcome. It returns true on success.
func (s *Sender) deliver(ctx context.Context, listener Listener, msg *Message) bool {
	remoteID, err := s.provider.Send(ctx, toProvider(msg))
	if err != nil {
		s.logger.Warn("mail delivery failed",
			"message_id", msg.ID(),
			"batch_id", msg.BatchID(),
			"error", err,
		)
		listener.OnError(ctx, msg, err)
		return false
	}
	s.logger.Debug("mail delivered",
		"message_id", msg.ID(),
		"remote_id", remoteID,
	)
	listener.OnSuccess(ctx, msg)
	return true
}

func toProvider(msg *Message) *provider.Message {
	headers := make(map[string]string, len(msg.Header))
	for k := range msg.Header {
		headers[k] = msg.Header.Get(k)
	}
	return &provider.Message{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
		Headers: headers,
	}
}
