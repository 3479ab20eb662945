// Package notify provides notification filters: components that decide
// which events a user is notified about, either by testing events directly
// or by contributing an expression (internal/expr) to the notification query.
package notify

import (
	"fmt"
	"strings"
)

// ScopeFilterType tells whether the filter attached to a preference scope
// includes or excludes the matching events.
type ScopeFilterType int

const (
	// ScopeInclusive is the default: the scope filter keeps matching events.
	ScopeInclusive ScopeFilterType = iota
	// ScopeExclusive drops matching events.
	ScopeExclusive
)

func (t ScopeFilterType) String() string {
	switch t {
	case ScopeInclusive:
		return "INCLUSIVE"
	case ScopeExclusive:
		return "EXCLUSIVE"
	default:
		return fmt.Sprintf("ScopeFilterType(%d)", int(t))
	}
}

// ParseScopeFilterType parses "inclusive" or "exclusive" case-insensitively.
// The empty string yields the default, ScopeInclusive.
func ParseScopeFilterType(s string) (ScopeFilterType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INCLUSIVE":
		return ScopeInclusive, nil
	case "EXCLUSIVE":
		return ScopeExclusive, nil
	default:
		return 0, fmt.Errorf("unknown scope filter type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler, used by JSON and YAML.
func (t ScopeFilterType) MarshalText() ([]byte, error) {
	if t != ScopeInclusive && t != ScopeExclusive {
		return nil, fmt.Errorf("invalid scope filter type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ScopeFilterType) UnmarshalText(text []byte) error {
	parsed, err := ParseScopeFilterType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FilterType selects which expressions a filter contributes when the
// notification query is assembled.
type FilterType int

const (
	FilterInclusive FilterType = iota
	FilterExclusive
)

func (t FilterType) String() string {
	switch t {
	case FilterInclusive:
		return "INCLUSIVE"
	case FilterExclusive:
		return "EXCLUSIVE"
	default:
		return fmt.Sprintf("FilterType(%d)", int(t))
	}
}

// Format is the channel a notification is delivered through.
type Format string

const (
	FormatAlert Format = "alert"
	FormatEmail Format = "email"
)

// ParseFormat parses "alert" or "email" case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAlert, FormatEmail:
		return f, nil
	default:
		return "", fmt.Errorf("unknown notification format %q", s)
	}
}

// Preference is a user's notification preference for one event type.
type Preference struct {
	EventType string
	Format    Format
	Enabled   bool
}
