package mail

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/roach88/wikistream/internal/mail/provider"
)

// memoryStatuses is an in-memory StatusStore. Like a database it refuses a
// cancelled context.
type memoryStatuses struct {
	mu      sync.Mutex
	rows    map[string]Status
	saveErr error
}

func newMemoryStatuses() *memoryStatuses {
	return &memoryStatuses{rows: map[string]Status{}}
}

func (m *memoryStatuses) SaveStatus(ctx context.Context, s *Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows[s.MessageID] = *s
	return nil
}

func (m *memoryStatuses) LoadStatus(ctx context.Context, id string) (*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memoryStatuses) LoadStatuses(ctx context.Context, f StatusFilter) ([]*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Status
	for _, s := range m.rows {
		if f.BatchID != "" && s.BatchID != f.BatchID {
			continue
		}
		if len(f.States) > 0 && !slices.Contains(f.States, s.State) {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].MessageID < out[j].MessageID
	})
	return out, nil
}

func (m *memoryStatuses) CountStatuses(ctx context.Context, f StatusFilter) (int, error) {
	rows, err := m.LoadStatuses(ctx, f)
	return len(rows), err
}

func (m *memoryStatuses) DeleteStatus(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memoryStatuses) state(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].State
}

// brokenContent is a ContentStore whose writes always fail.
type brokenContent struct {
	err     error
	saves   int
	deletes int
}

func (b *brokenContent) Save(context.Context, *Message) error {
	b.saves++
	return b.err
}

func (b *brokenContent) Load(context.Context, string, string) (*Message, error) {
	return nil, ErrNotFound
}

func (b *brokenContent) Delete(context.Context, string, string) error {
	b.deletes++
	return b.err
}

// fakeProvider fails every mail addressed to a recipient in reject.
type fakeProvider struct {
	mu     sync.Mutex
	reject map[string]bool
	sent   []*provider.Message
	calls  int
}

func (p *fakeProvider) Send(_ context.Context, msg *provider.Message) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	for _, to := range msg.To {
		if p.reject[to] {
			return "", errors.New("mailbox unavailable: " + to)
		}
	}
	p.sent = append(p.sent, msg)
	return "remote-" + strings.Join(msg.To, ","), nil
}

func (p *fakeProvider) Name() string { return "fake" }

// counter records observed states.
type counter struct {
	mu     sync.Mutex
	states []string
}

func (c *counter) MailStatusRecorded(state string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, state)
}

func newTestMessage(to, batch, id string) *Message {
	msg := NewMessage("wiki@example.com", []string{to}, "Page updated", "Main.WebHome changed")
	msg.SetIDs(id, batch)
	msg.Header.Set(HeaderMailType, "notification")
	msg.Header.Set(HeaderWiki, "xwiki")
	return msg
}
