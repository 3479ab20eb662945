package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ResendReport summarizes a resend pass.
type ResendReport struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Progress receives the steps of a resend pass.
type Progress interface {
	PushLevel(steps int)
	Step()
	PopLevel()
}

// Resender sends again the mails whose status is failed, reading their
// content back from the ContentStore.
type Resender struct {
	sender   *Sender
	content  ContentStore
	statuses StatusStore
	opts     []ListenerOption
	progress Progress
	logger   *slog.Logger
}

// NewResender creates a resender. opts configure the listener used to record
// the new outcomes.
func NewResender(sender *Sender, content ContentStore, statuses StatusStore, opts ...ListenerOption) *Resender {
	return &Resender{
		sender:   sender,
		content:  content,
		statuses: statuses,
		opts:     opts,
		logger:   slog.Default().With("component", "mail.resender"),
	}
}

// SetProgress reports each resent mail to p.
func (r *Resender) SetProgress(p Progress) {
	r.progress = p
}

// Resend retries the failed mails of batchID, or of every batch when
// batchID is empty. Mails whose content is gone are skipped.
func (r *Resender) Resend(ctx context.Context, batchID string) (ResendReport, error) {
	var report ResendReport

	failed, err := r.statuses.LoadStatuses(ctx, StatusFilter{BatchID: batchID, States: []State{StateFailed}})
	if err != nil {
		return report, fmt.Errorf("load failed mails: %w", err)
	}

	if r.progress != nil {
		r.progress.PushLevel(len(failed))
		defer r.progress.PopLevel()
	}

	listener := NewDatabaseListener(r.content, r.statuses, r.opts...)
	for _, status := range failed {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r.resendOne(ctx, listener, status, &report)
		if r.progress != nil {
			r.progress.Step()
		}
	}

	r.logger.Info("resend completed",
		"batch_id", batchID,
		"attempted", report.Attempted,
		"sent", report.Sent,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return report, nil
}

// resendOne delivers the stored content of one failed mail and counts the
// outcome in report. Mails whose content is gone are skipped.
func (r *Resender) resendOne(ctx context.Context, listener Listener, status *Status, report *ResendReport) {
	msg, err := r.content.Load(ctx, status.BatchID, status.MessageID)
	if err != nil {
		r.logger.Warn("cannot resend mail",
			"message_id", status.MessageID,
			"batch_id", status.BatchID,
			"error", err,
		)
		report.Skipped++
		return
	}

	report.Attempted++
	if r.sender.deliver(ctx, listener, msg) {
		report.Sent++
	} else {
		report.Failed++
	}
}

// ResendScheduler runs Resend for every batch on a cron schedule.
type ResendScheduler struct {
	resender *Resender
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewResendScheduler creates a scheduler. schedule uses standard cron
// syntax, e.g. "*/15 * * * *".
func NewResendScheduler(resender *Resender, schedule string) *ResendScheduler {
	return &ResendScheduler{
		resender: resender,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "mail.scheduler"),
	}
}

// Start schedules the resend job. An empty schedule disables the scheduler.
// The scheduler stops when ctx is cancelled.
func (s *ResendScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("resend schedule not configured, skipping scheduler")
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule resend: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("resend scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *ResendScheduler) run(ctx context.Context) {
	report, err := s.resender.Resend(ctx, "")
	if err != nil {
		s.logger.Error("scheduled resend failed", "error", err)
		return
	}
	if report.Attempted == 0 {
		s.logger.Debug("scheduled resend found no failed mail")
	}
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *ResendScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("resend scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is running.
func (s *ResendScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled resend, or nil when not scheduled.
func (s *ResendScheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
