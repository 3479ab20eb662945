package eventstream

import (
	"fmt"
	"sort"
	"sync"
)

// RecordableEventDescriptor describes an event type that can be stored in
// the event stream and shown in notification preferences.
type RecordableEventDescriptor interface {
	// EventType is the type name stored with each event.
	EventType() string
	// ApplicationName groups descriptors in the preferences UI.
	ApplicationName() string
	Description() string
	ApplicationIcon() string
}

// DocumentDeletedEventType matches the name used by the activity stream.
const DocumentDeletedEventType = "delete"

// DocumentDeletedDescriptor describes page deletions.
type DocumentDeletedDescriptor struct{}

func (DocumentDeletedDescriptor) EventType() string       { return DocumentDeletedEventType }
func (DocumentDeletedDescriptor) ApplicationName() string { return "XWiki" }
func (DocumentDeletedDescriptor) Description() string     { return "Someone deletes a new page" }
func (DocumentDeletedDescriptor) ApplicationIcon() string { return "page" }

// Registry indexes descriptors by event type. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]RecordableEventDescriptor
}

// NewRegistry creates a registry holding the given descriptors.
func NewRegistry(descriptors ...RecordableEventDescriptor) (*Registry, error) {
	r := &Registry{descriptors: make(map[string]RecordableEventDescriptor)}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with the built-in descriptors.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DocumentDeletedDescriptor{})
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds a descriptor. Event types must be unique.
func (r *Registry) Register(d RecordableEventDescriptor) error {
	if d == nil || d.EventType() == "" {
		return fmt.Errorf("register descriptor: missing event type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.EventType()]; exists {
		return fmt.Errorf("register descriptor: event type %q already registered", d.EventType())
	}
	r.descriptors[d.EventType()] = d
	return nil
}

// Lookup returns the descriptor for an event type.
func (r *Registry) Lookup(eventType string) (RecordableEventDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[eventType]
	return d, ok
}

// All returns every descriptor sorted by event type.
func (r *Registry) All() []RecordableEventDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RecordableEventDescriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventType() < out[j].EventType() })
	return out
}
