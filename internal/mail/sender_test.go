package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wikistream/internal/testutil"
)

func TestSender_Send(t *testing.T) {
	ctx := context.Background()
	f := newListenerFixture(t)
	p := &fakeProvider{reject: map[string]bool{"bounce@example.com": true}}
	sender := NewSender(p, NewFixedGenerator("batch-1", "mail-1", "mail-2"))

	ok := NewMessage("wiki@example.com", []string{"a@example.com"}, "Hello", "body")
	bad := NewMessage("wiki@example.com", []string{"bounce@example.com"}, "Hello", "body")

	batch, err := sender.Send(ctx, f.listener, ok, bad)
	require.NoError(t, err)
	assert.Equal(t, "batch-1", batch)
	assert.Equal(t, "mail-1", ok.ID())
	assert.Equal(t, "batch-1", bad.BatchID())

	assert.Equal(t, StateSent, f.statuses.state("mail-1"))
	assert.Equal(t, StateFailed, f.statuses.state("mail-2"))

	require.Len(t, p.sent, 1)
	assert.Equal(t, "mail-1", p.sent[0].Headers["X-Mailid"])
	assert.Equal(t, "batch-1", p.sent[0].Headers["X-Batchid"])
}

func TestSender_SendNothing(t *testing.T) {
	f := newListenerFixture(t)
	_, err := NewSender(&fakeProvider{}, nil).Send(context.Background(), f.listener)
	assert.Error(t, err)
}

func TestSender_CancelledContextFailsRemainingMails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newListenerFixture(t)
	p := &fakeProvider{}
	sender := NewSender(p, NewFixedGenerator("b", "m1", "m2"))

	_, err := sender.Send(ctx, f.listener,
		NewMessage("wiki@example.com", []string{"a@example.com"}, "s", "t"),
		NewMessage("wiki@example.com", []string{"b@example.com"}, "s", "t"),
	)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.sent)
	assert.Equal(t, StateFailed, f.statuses.state("m1"))
	assert.Equal(t, StateFailed, f.statuses.state("m2"))

	for _, id := range []string{"m1", "m2"} {
		_, err := f.content.Load(context.Background(), "b", id)
		assert.NoError(t, err, "content of %s kept for resend", id)
	}
}

func TestResender_Resend(t *testing.T) {
	ctx := context.Background()
	f := newListenerFixture(t)
	p := &fakeProvider{reject: map[string]bool{"a@example.com": true, "b@example.com": true}}
	sender := NewSender(p, NewFixedGenerator("b1", "m1", "m2", "m3"))

	_, err := sender.Send(ctx, f.listener,
		NewMessage("wiki@example.com", []string{"a@example.com"}, "s", "t"),
		NewMessage("wiki@example.com", []string{"b@example.com"}, "s", "t"),
		NewMessage("wiki@example.com", []string{"c@example.com"}, "s", "t"),
	)
	require.NoError(t, err)

	// a@ recovers, b@ still bounces.
	delete(p.reject, "a@example.com")

	resender := NewResender(sender, f.content, f.statuses, WithClock(testutil.NewStepClock(time.Time{}, time.Second).Now))
	report, err := resender.Resend(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, ResendReport{Attempted: 2, Sent: 1, Failed: 1}, report)

	assert.Equal(t, StateSent, f.statuses.state("m1"))
	assert.Equal(t, StateFailed, f.statuses.state("m2"))
	assert.Equal(t, StateSent, f.statuses.state("m3"))

	_, err = f.content.Load(ctx, "b1", "m1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.content.Load(ctx, "b1", "m2")
	assert.NoError(t, err)
}

func TestResender_SkipsMissingContent(t *testing.T) {
	ctx := context.Background()
	f := newListenerFixture(t)
	sender := NewSender(&fakeProvider{reject: map[string]bool{"a@example.com": true}}, NewFixedGenerator("b1", "m1"))

	_, err := sender.Send(ctx, f.listener, NewMessage("wiki@example.com", []string{"a@example.com"}, "s", "t"))
	require.NoError(t, err)
	require.NoError(t, f.content.Delete(ctx, "b1", "m1"))

	report, err := NewResender(sender, f.content, f.statuses).Resend(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ResendReport{Skipped: 1}, report)
}

func TestResendScheduler(t *testing.T) {
	f := newListenerFixture(t)
	resender := NewResender(NewSender(&fakeProvider{}, nil), f.content, f.statuses)

	t.Run("empty schedule disables", func(t *testing.T) {
		s := NewResendScheduler(resender, "")
		require.NoError(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRun())
	})

	t.Run("invalid schedule", func(t *testing.T) {
		s := NewResendScheduler(resender, "every tuesday")
		assert.Error(t, s.Start(context.Background()))
	})

	t.Run("runs until cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewResendScheduler(resender, "*/5 * * * *")
		require.NoError(t, s.Start(ctx))
		assert.True(t, s.IsRunning())

		next := s.NextRun()
		require.NotNil(t, next)
		assert.True(t, next.After(time.Now().Add(-time.Minute)))

		cancel()
		assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	})
}

type recordingProgress struct {
	calls  []string
	onStep func()
}

func (p *recordingProgress) PushLevel(steps int) { p.calls = append(p.calls, "push") }
func (p *recordingProgress) Step() {
	p.calls = append(p.calls, "step")
	if p.onStep != nil {
		p.onStep()
	}
}
func (p *recordingProgress) PopLevel() { p.calls = append(p.calls, "pop") }

func TestResender_ReportsProgress(t *testing.T) {
	ctx := context.Background()
	f := newListenerFixture(t)
	p := &fakeProvider{reject: map[string]bool{"a@example.com": true}}
	sender := NewSender(p, NewFixedGenerator("b1", "m1", "m2"))

	_, err := sender.Send(ctx, f.listener,
		NewMessage("wiki@example.com", []string{"a@example.com"}, "s", "t"),
		NewMessage("wiki@example.com", []string{"a@example.com"}, "s", "t"),
	)
	require.NoError(t, err)

	// Each step is reported once its mail has been handled.
	var handled []int
	progress := &recordingProgress{}
	progress.onStep = func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		handled = append(handled, p.calls)
	}
	resender := NewResender(sender, f.content, f.statuses)
	resender.SetProgress(progress)

	_, err = resender.Resend(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"push", "step", "step", "pop"}, progress.calls)
	assert.Equal(t, []int{3, 4}, handled)
}
