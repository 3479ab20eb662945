package mail

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_CanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateReady, StateSent, true},
		{StateReady, StateFailed, true},
		{StateReady, StateReady, false},
		{StateFailed, StateSent, true},
		{StateFailed, StateFailed, true},
		{StateFailed, StateReady, false},
		{StateSent, StateFailed, false},
		{StateSent, StateSent, false},
		{StateSent, StateReady, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestParseState(t *testing.T) {
	st, err := ParseState(" Failed ")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, st)

	_, err = ParseState("queued")
	assert.Error(t, err)
}

func TestStatus_SetState(t *testing.T) {
	s := &Status{MessageID: "m1", State: StateReady}
	s.SetError(errors.New("boom"))
	require.NoError(t, s.SetState(StateFailed))
	assert.Equal(t, "boom", s.ErrorSummary)

	require.NoError(t, s.SetState(StateSent))
	assert.Empty(t, s.ErrorSummary)
	assert.Empty(t, s.ErrorDescription)

	err := s.SetState(StateFailed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateSent, s.State)
}

func TestStatus_SetError(t *testing.T) {
	root := errors.New("550 mailbox unavailable")
	err := fmt.Errorf("send: %w", fmt.Errorf("smtp: %w", root))

	s := &Status{}
	s.SetError(err)
	assert.Equal(t, "550 mailbox unavailable", s.ErrorSummary)
	assert.Equal(t, "send: smtp: 550 mailbox unavailable", s.ErrorDescription)

	s.SetError(nil)
	assert.Equal(t, "550 mailbox unavailable", s.ErrorSummary)
}

func TestNewStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := newTestMessage("a@example.com", "b1", "m1")

	s := NewStatus(msg, StateReady, now)
	assert.Equal(t, &Status{
		MessageID:  "m1",
		BatchID:    "b1",
		State:      StateReady,
		Date:       now,
		Recipients: []string{"a@example.com"},
		Type:       "notification",
		Wiki:       "xwiki",
	}, s)
	assert.Equal(t, "messageId=m1, batchId=b1, state=ready", s.String())
}

func TestMessage_IDsWithoutHeader(t *testing.T) {
	var msg Message
	assert.Empty(t, msg.ID())
	assert.Empty(t, msg.BatchID())

	msg.SetIDs("m1", "b1")
	assert.Equal(t, "m1", msg.ID())
	assert.Equal(t, "b1", msg.BatchID())
}
