package hql

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// ParamKey derives the name of the parameter bound to a literal:
// prefix + "_" + hex(SHA-256(content)).
//
// Identical literals map to the same key, so a literal used twice in one
// tree is bound once. Hashing also keeps the generated names from colliding
// with parameters added by other query builders.
func ParamKey(prefix, content string) string {
	sum := sha256.Sum256([]byte(content))
	return prefix + "_" + hex.EncodeToString(sum[:])
}

// dateText is the content hashed for date parameters.
func dateText(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

var (
	likeEscaper   = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	likeUnescaper = strings.NewReplacer("!!", "!", "!%", "%", "!_", "_")
)

// Escape prepares s for use in a LIKE pattern with ESCAPE '!': every '%',
// '_' and '!' is prefixed with '!'.
func Escape(s string) string {
	return likeEscaper.Replace(s)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return likeUnescaper.Replace(s)
}

// UnsupportedNodeError lists the nodes a conversion rendered as empty text.
type UnsupportedNodeError struct {
	Nodes []string
}

func (e *UnsupportedNodeError) Error() string {
	return "unsupported expression nodes rendered as empty text: " + strings.Join(e.Nodes, "; ")
}

// IsUnsupportedNode reports whether err is (or wraps) an UnsupportedNodeError.
func IsUnsupportedNode(err error) bool {
	var ue *UnsupportedNodeError
	return errors.As(err, &ue)
}
