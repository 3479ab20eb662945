package expr

import (
	"fmt"
	"strings"
)

// EventProperty names a property of a recorded event.
type EventProperty int

// Event properties. The zero value is not a valid property.
const (
	PropertyID EventProperty = iota + 1
	PropertyGroupID
	PropertyStream
	PropertyDate
	PropertyApplication
	PropertyBody
	PropertyType
	PropertyHidden
	PropertyPage
	PropertyImportance
	PropertySpace
	PropertyTitle
	PropertyUser
	PropertyWiki
	PropertyURL
	PropertyDocumentVersion
)

var propertyNames = map[EventProperty]string{
	PropertyID:              "ID",
	PropertyGroupID:         "GROUP_ID",
	PropertyStream:          "STREAM",
	PropertyDate:            "DATE",
	PropertyApplication:     "APPLICATION",
	PropertyBody:            "BODY",
	PropertyType:            "TYPE",
	PropertyHidden:          "HIDDEN",
	PropertyPage:            "PAGE",
	PropertyImportance:      "IMPORTANCE",
	PropertySpace:           "SPACE",
	PropertyTitle:           "TITLE",
	PropertyUser:            "USER",
	PropertyWiki:            "WIKI",
	PropertyURL:             "URL",
	PropertyDocumentVersion: "DOCUMENT_VERSION",
}

// String returns the upper-case property name, or "EventProperty(n)" for an
// unknown value.
func (p EventProperty) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("EventProperty(%d)", int(p))
}

// Valid reports whether p is one of the declared properties.
func (p EventProperty) Valid() bool {
	_, ok := propertyNames[p]
	return ok
}

// ParseEventProperty parses a property name case-insensitively. Dashes are
// accepted in place of underscores.
func ParseEventProperty(s string) (EventProperty, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for p, n := range propertyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown event property %q", s)
}

// ParseOrder parses "asc" or "desc" case-insensitively.
func ParseOrder(s string) (Order, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return ASC, nil
	case "DESC":
		return DESC, nil
	default:
		return 0, fmt.Errorf("unknown order %q: must be asc or desc", s)
	}
}
