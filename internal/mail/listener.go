package mail

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Listener receives the lifecycle callbacks of a send.
type Listener interface {
	OnPrepare(ctx context.Context, msg *Message)
	OnSuccess(ctx context.Context, msg *Message)
	OnError(ctx context.Context, msg *Message, err error)
}

// storeTimeout bounds each storage call made by the listener.
const storeTimeout = 30 * time.Second

// DatabaseListener records delivery statuses in a StatusStore and keeps the
// content of failed mails in a ContentStore so they can be resent.
//
// Storage failures never reach the sender: they are logged and the callback
// returns. Storage runs detached from the caller's cancellation, so a mail
// failed by a cancelled send is still recorded for resend.
type DatabaseListener struct {
	content  ContentStore
	statuses StatusStore
	result   *StatusResult
	observer StatusObserver
	logger   *slog.Logger
	now      func() time.Time
}

// ListenerOption configures a DatabaseListener.
type ListenerOption func(*DatabaseListener)

// WithListenerLogger sets the logger.
func WithListenerLogger(logger *slog.Logger) ListenerOption {
	return func(l *DatabaseListener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithStatusObserver reports every persisted status to o.
func WithStatusObserver(o StatusObserver) ListenerOption {
	return func(l *DatabaseListener) { l.observer = o }
}

// WithClock sets the time source used to date statuses.
func WithClock(now func() time.Time) ListenerOption {
	return func(l *DatabaseListener) {
		if now != nil {
			l.now = now
		}
	}
}

// NewDatabaseListener creates a listener over the given stores.
func NewDatabaseListener(content ContentStore, statuses StatusStore, opts ...ListenerOption) *DatabaseListener {
	l := &DatabaseListener{
		content:  content,
		statuses: statuses,
		result:   NewStatusResult(statuses),
		logger:   slog.Default().With("component", "mail.listener"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// StatusResult returns the live view of the batch this listener handles.
func (l *DatabaseListener) StatusResult() *StatusResult {
	return l.result
}

// OnPrepare records a ready status. The first prepared mail fixes the batch
// the StatusResult reports on.
func (l *DatabaseListener) OnPrepare(ctx context.Context, msg *Message) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	l.result.setBatchID(msg.BatchID())

	status := NewStatus(msg, StateReady, l.now())
	l.save(ctx, status)
}

// OnSuccess marks the mail sent. Content kept from an earlier failure is
// removed first.
func (l *DatabaseListener) OnSuccess(ctx context.Context, msg *Message) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	status := l.load(ctx, msg)
	if status == nil {
		return
	}
	if !status.State.CanTransition(StateSent) {
		l.logger.Warn("refusing mail state transition",
			"message_id", status.MessageID,
			"from", status.State,
			"to", StateSent,
		)
		return
	}

	if status.State == StateFailed {
		if err := l.content.Delete(ctx, status.BatchID, status.MessageID); err != nil {
			l.logger.Error("failed to delete mail content",
				"message_id", status.MessageID,
				"batch_id", status.BatchID,
				"error", err,
			)
		}
	}

	_ = status.SetState(StateSent)
	status.Date = l.now()
	l.save(ctx, status)
}

// OnError saves the mail content for a later resend and marks it failed.
func (l *DatabaseListener) OnError(ctx context.Context, msg *Message, sendErr error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()

	status := l.load(ctx, msg)
	if status == nil {
		return
	}
	if !status.State.CanTransition(StateFailed) {
		l.logger.Warn("refusing mail state transition",
			"message_id", status.MessageID,
			"from", status.State,
			"to", StateFailed,
		)
		return
	}

	if err := l.content.Save(ctx, msg); err != nil {
		l.logger.Error("failed to save mail content",
			"message_id", status.MessageID,
			"batch_id", status.BatchID,
			"error", err,
		)
	}

	_ = status.SetState(StateFailed)
	status.SetError(sendErr)
	status.Date = l.now()
	l.save(ctx, status)
}

// storeContext keeps ctx values but not its cancellation, bounded by
// storeTimeout.
func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
}

func (l *DatabaseListener) load(ctx context.Context, msg *Message) *Status {
	id := msg.ID()
	status, err := l.statuses.LoadStatus(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		l.logger.Warn("no mail status to update", "message_id", id)
		return nil
	case err != nil:
		l.logger.Error("failed to load mail status", "message_id", id, "error", err)
		return nil
	}
	return status
}

func (l *DatabaseListener) save(ctx context.Context, status *Status) {
	if err := l.statuses.SaveStatus(ctx, status); err != nil {
		l.logger.Error("failed to save mail status",
			"message_id", status.MessageID,
			"state", status.State,
			"error", err,
		)
		return
	}
	l.logger.Debug("mail status saved", "status", status.String())
	if l.observer != nil {
		l.observer.MailStatusRecorded(string(status.State))
	}
}
