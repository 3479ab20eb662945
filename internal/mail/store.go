package mail

import "context"

// StatusStore persists delivery statuses.
type StatusStore interface {
	// SaveStatus inserts or replaces the status keyed by its MessageID.
	SaveStatus(ctx context.Context, status *Status) error

	// LoadStatus returns the status for messageID, or ErrNotFound.
	LoadStatus(ctx context.Context, messageID string) (*Status, error)

	// LoadStatuses returns the statuses matching filter, oldest first.
	LoadStatuses(ctx context.Context, filter StatusFilter) ([]*Status, error)

	// CountStatuses counts the statuses matching filter. Offset and Limit
	// are ignored.
	CountStatuses(ctx context.Context, filter StatusFilter) (int, error)

	// DeleteStatus removes the status for messageID. Missing rows are not
	// an error.
	DeleteStatus(ctx context.Context, messageID string) error
}

// ContentStore keeps the serialized content of mails that may need to be
// resent.
type ContentStore interface {
	Save(ctx context.Context, msg *Message) error

	// Load returns the stored message, or ErrNotFound.
	Load(ctx context.Context, batchID, messageID string) (*Message, error)

	// Delete removes the stored message. Missing content is not an error.
	Delete(ctx context.Context, batchID, messageID string) error
}

// StatusObserver is notified of every status the listener persists.
type StatusObserver interface {
	MailStatusRecorded(state string)
}
