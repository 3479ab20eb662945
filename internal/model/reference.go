// Package model provides document references for the wiki entities that
// notifications and mail statuses point at.
//
// A reference names a page by wiki, a non-empty chain of spaces, and a page
// name. Its string form is
//
//	wiki:Space1.Space2.Page
//
// where '.', ':' and '\' occurring inside a name are escaped with '\'.
// User references are ordinary document references (e.g. xwiki:XWiki.Admin).
package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSpace is used by the resolver when a reference names only a page.
const DefaultSpace = "Main"

// DocumentReference identifies a wiki page.
type DocumentReference struct {
	Wiki   string
	Spaces []string
	Page   string
}

// NewDocumentReference builds a reference with NFC-normalized names so that
// canonically equivalent names serialize to the same bytes.
func NewDocumentReference(wiki string, spaces []string, page string) DocumentReference {
	normalized := make([]string, len(spaces))
	for i, s := range spaces {
		normalized[i] = norm.NFC.String(s)
	}
	return DocumentReference{
		Wiki:   norm.NFC.String(wiki),
		Spaces: normalized,
		Page:   norm.NFC.String(page),
	}
}

// IsZero reports whether the reference is empty.
func (r DocumentReference) IsZero() bool {
	return r.Wiki == "" && len(r.Spaces) == 0 && r.Page == ""
}

// Equal compares two references name by name.
func (r DocumentReference) Equal(other DocumentReference) bool {
	if r.Wiki != other.Wiki || r.Page != other.Page || len(r.Spaces) != len(other.Spaces) {
		return false
	}
	for i := range r.Spaces {
		if r.Spaces[i] != other.Spaces[i] {
			return false
		}
	}
	return true
}

// String returns the default serialization.
func (r DocumentReference) String() string {
	return DefaultSerializer{}.Serialize(r)
}

// Serializer turns a reference into the string form bound as a query
// parameter or compared against stored event authors.
type Serializer interface {
	Serialize(ref DocumentReference) string
}

// SerializerFunc adapts a function to the Serializer interface.
type SerializerFunc func(ref DocumentReference) string

// Serialize calls f(ref).
func (f SerializerFunc) Serialize(ref DocumentReference) string {
	return f(ref)
}

// DefaultSerializer produces the full "wiki:Space.Page" form.
type DefaultSerializer struct{}

// Serialize implements Serializer.
func (DefaultSerializer) Serialize(ref DocumentReference) string {
	if ref.IsZero() {
		return ""
	}

	var b strings.Builder
	if ref.Wiki != "" {
		b.WriteString(escapeName(ref.Wiki))
		b.WriteByte(':')
	}
	for _, space := range ref.Spaces {
		b.WriteString(escapeName(space))
		b.WriteByte('.')
	}
	b.WriteString(escapeName(ref.Page))
	return b.String()
}

// LocalSerializer omits the wiki part, producing "Space.Page".
type LocalSerializer struct{}

// Serialize implements Serializer.
func (LocalSerializer) Serialize(ref DocumentReference) string {
	ref.Wiki = ""
	return DefaultSerializer{}.Serialize(ref)
}

func escapeName(name string) string {
	if !strings.ContainsAny(name, `\.:`) {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if r == '\\' || r == '.' || r == ':' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseDocumentReference resolves the serialized form. A missing wiki part is
// filled with defaultWiki and a missing space with DefaultSpace.
func ParseDocumentReference(s, defaultWiki string) (DocumentReference, error) {
	if s == "" {
		return DocumentReference{}, fmt.Errorf("parse reference: empty string")
	}

	wiki := defaultWiki
	rest := s
	if idx := indexUnescaped(s, ':'); idx >= 0 {
		wiki = unescapeName(s[:idx])
		rest = s[idx+1:]
	}

	parts := splitUnescaped(rest, '.')
	for i, p := range parts {
		if p == "" {
			return DocumentReference{}, fmt.Errorf("parse reference %q: empty name at position %d", s, i)
		}
	}

	page := parts[len(parts)-1]
	spaces := parts[:len(parts)-1]
	if len(spaces) == 0 {
		spaces = []string{DefaultSpace}
	}

	return NewDocumentReference(wiki, spaces, page), nil
}

// indexUnescaped returns the index of the first sep not preceded by '\'.
func indexUnescaped(s string, sep byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			return i
		}
	}
	return -1
}

// splitUnescaped splits on sep, honouring '\' escapes, and unescapes each part.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case c == sep:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, cur.String())
}

func unescapeName(s string) string {
	return splitUnescaped(s, 0)[0]
}
