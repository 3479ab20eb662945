package mail

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// State is the delivery state of a mail.
type State string

const (
	StateReady  State = "ready"
	StateSent   State = "sent"
	StateFailed State = "failed"
)

var (
	// ErrNotFound is returned by stores when no record matches.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid mail state transition")
)

// ParseState parses a state name.
func ParseState(s string) (State, error) {
	switch st := State(strings.ToLower(strings.TrimSpace(s))); st {
	case StateReady, StateSent, StateFailed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown mail state %q", s)
	}
}

// CanTransition reports whether a status in state s may move to next.
//
//	ready  -> sent | failed
//	failed -> sent | failed   (a resend succeeded, or failed again)
//
// A sent mail is final.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateReady, StateFailed:
		return next == StateSent || next == StateFailed
	default:
		return false
	}
}

// Processed reports whether the state is final for the current attempt.
func (s State) Processed() bool {
	return s == StateSent || s == StateFailed
}

// Status is the persisted delivery record of one message.
type Status struct {
	MessageID        string
	BatchID          string
	State            State
	ErrorSummary     string
	ErrorDescription string
	Date             time.Time
	Recipients       []string
	Type             string
	Wiki             string
}

// NewStatus creates a status for msg.
func NewStatus(msg *Message, state State, now time.Time) *Status {
	return &Status{
		MessageID:  msg.ID(),
		BatchID:    msg.BatchID(),
		State:      state,
		Date:       now,
		Recipients: append([]string(nil), msg.To...),
		Type:       msg.Header.Get(HeaderMailType),
		Wiki:       msg.Header.Get(HeaderWiki),
	}
}

// SetState moves the status to next, failing with ErrInvalidTransition when
// the move is not allowed.
func (s *Status) SetState(next State) error {
	if !s.State.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s (message %s)", ErrInvalidTransition, s.State, next, s.MessageID)
	}
	s.State = next
	if next == StateSent {
		s.ErrorSummary = ""
		s.ErrorDescription = ""
	}
	return nil
}

// SetError records err. The summary is the innermost cause, the
// description the full chain.
func (s *Status) SetError(err error) {
	if err == nil {
		return
	}
	s.ErrorSummary = rootCause(err).Error()
	s.ErrorDescription = err.Error()
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func (s *Status) String() string {
	return fmt.Sprintf("messageId=%s, batchId=%s, state=%s", s.MessageID, s.BatchID, s.State)
}

// StatusFilter selects statuses in a StatusStore. Zero fields match all.
type StatusFilter struct {
	BatchID string
	States  []State
	Offset  int
	Limit   int
}
