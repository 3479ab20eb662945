package notify

import (
	"context"
	"log/slog"

	"github.com/roach88/wikistream/internal/eventstream"
	"github.com/roach88/wikistream/internal/expr"
	"github.com/roach88/wikistream/internal/model"
)

// Filter decides which events reach a user.
type Filter interface {
	// FilterEvent reports whether event must be hidden from user.
	FilterEvent(ctx context.Context, event eventstream.Event, user model.DocumentReference, format Format) bool

	// MatchesPreference reports whether the filter is bound to pref.
	MatchesPreference(pref Preference) bool

	// FilterExpression returns the expression the filter contributes to the
	// notification query for the given filter type, or nil for none.
	FilterExpression(ctx context.Context, user model.DocumentReference, filterType FilterType, format Format) expr.Node

	// Name identifies the filter.
	Name() string
}

// UserFilterPreferences answers which authors a user does not want to be
// notified about.
type UserFilterPreferences interface {
	IsUserExcluded(ctx context.Context, author string, user model.DocumentReference, format Format) (bool, error)
	ExcludedUsers(ctx context.Context, user model.DocumentReference, format Format) ([]string, error)
}

// EventUserFilterName is the name of the EventUserFilter.
const EventUserFilterName = "eventUserNotificationFilter"

// EventUserFilter hides events authored by users the recipient excluded.
// It applies globally and is not bound to any preference.
type EventUserFilter struct {
	prefs      UserFilterPreferences
	serializer model.Serializer
	logger     *slog.Logger
}

// NewEventUserFilter creates the filter. A nil serializer selects
// model.DefaultSerializer.
func NewEventUserFilter(prefs UserFilterPreferences, serializer model.Serializer) *EventUserFilter {
	if serializer == nil {
		serializer = model.DefaultSerializer{}
	}
	return &EventUserFilter{
		prefs:      prefs,
		serializer: serializer,
		logger:     slog.Default().With("component", "notify.user_filter"),
	}
}

// FilterEvent implements Filter. Preference lookup failures keep the event.
func (f *EventUserFilter) FilterEvent(ctx context.Context, event eventstream.Event, user model.DocumentReference, format Format) bool {
	author := f.serializer.Serialize(event.User)
	excluded, err := f.prefs.IsUserExcluded(ctx, author, user, format)
	if err != nil {
		f.logger.Error("failed to check user exclusion",
			"author", author,
			"user", f.serializer.Serialize(user),
			"error", err,
		)
		return false
	}
	return excluded
}

// MatchesPreference implements Filter. Always false.
func (f *EventUserFilter) MatchesPreference(Preference) bool {
	return false
}

// FilterExpression implements Filter. Only the exclusive pass contributes:
// NOT (event.user IN (excluded...)).
func (f *EventUserFilter) FilterExpression(ctx context.Context, user model.DocumentReference, filterType FilterType, format Format) expr.Node {
	if filterType != FilterExclusive {
		return nil
	}

	users, err := f.prefs.ExcludedUsers(ctx, user, format)
	if err != nil {
		f.logger.Error("failed to load excluded users",
			"user", f.serializer.Serialize(user),
			"error", err,
		)
		return nil
	}
	if len(users) == 0 {
		return nil
	}
	return expr.Not(expr.InStrings(expr.Prop(expr.PropertyUser), users...))
}

// Name implements Filter.
func (f *EventUserFilter) Name() string {
	return EventUserFilterName
}

// CombineExpressions builds the filter part of a notification query: the
// conjunction of every filter's expression for the given type.
func CombineExpressions(ctx context.Context, filters []Filter, user model.DocumentReference, filterType FilterType, format Format) expr.Node {
	nodes := make([]expr.Node, 0, len(filters))
	for _, f := range filters {
		if n := f.FilterExpression(ctx, user, filterType, format); n != nil {
			nodes = append(nodes, n)
		}
	}
	return expr.AllOf(nodes...)
}
