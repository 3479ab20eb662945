package eventstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDescriptor struct{ eventType string }

func (s stubDescriptor) EventType() string       { return s.eventType }
func (s stubDescriptor) ApplicationName() string { return "Test" }
func (s stubDescriptor) Description() string     { return "stub" }
func (s stubDescriptor) ApplicationIcon() string { return "bell" }

func TestDocumentDeletedDescriptor(t *testing.T) {
	var d RecordableEventDescriptor = DocumentDeletedDescriptor{}
	assert.Equal(t, "delete", d.EventType())
	assert.Equal(t, "XWiki", d.ApplicationName())
	assert.Equal(t, "Someone deletes a new page", d.Description())
	assert.Equal(t, "page", d.ApplicationIcon())
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	d, ok := r.Lookup(DocumentDeletedEventType)
	require.True(t, ok)
	assert.Equal(t, DocumentDeletedDescriptor{}, d)

	require.NoError(t, r.Register(stubDescriptor{eventType: "addComment"}))

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "addComment", all[0].EventType())
	assert.Equal(t, "delete", all[1].EventType())

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicatesAndEmpty(t *testing.T) {
	_, err := NewRegistry(DocumentDeletedDescriptor{}, DocumentDeletedDescriptor{})
	assert.Error(t, err)

	r := DefaultRegistry()
	assert.Error(t, r.Register(stubDescriptor{}))
	assert.Error(t, r.Register(nil))
}
