// Package eventstream holds the event records that notifications are built
// from and the descriptors of the event types that can be recorded.
package eventstream

import (
	"time"

	"github.com/roach88/wikistream/internal/model"
)

// Importance ranks an event.
type Importance int

const (
	ImportanceBackground Importance = iota
	ImportanceMinor
	ImportanceMedium
	ImportanceMajor
	ImportanceCritical
)

// Event is a recorded activity on the wiki.
type Event struct {
	ID              string
	GroupID         string
	Stream          string
	Date            time.Time
	Application     string
	Body            string
	Type            string
	Hidden          bool
	Document        model.DocumentReference
	Importance      Importance
	Title           string
	User            model.DocumentReference
	Wiki            string
	URL             string
	DocumentVersion string
}
