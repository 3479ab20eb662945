package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScopeFilterType_DefaultIsInclusive(t *testing.T) {
	var zero ScopeFilterType
	assert.Equal(t, ScopeInclusive, zero)

	parsed, err := ParseScopeFilterType("")
	require.NoError(t, err)
	assert.Equal(t, ScopeInclusive, parsed)
}

func TestParseScopeFilterType(t *testing.T) {
	parsed, err := ParseScopeFilterType("Exclusive")
	require.NoError(t, err)
	assert.Equal(t, ScopeExclusive, parsed)

	_, err = ParseScopeFilterType("sometimes")
	assert.Error(t, err)
}

func TestScopeFilterType_TextEncoding(t *testing.T) {
	type scope struct {
		Type ScopeFilterType `json:"type" yaml:"type"`
	}

	data, err := json.Marshal(scope{Type: ScopeExclusive})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"EXCLUSIVE"}`, string(data))

	var fromYAML scope
	require.NoError(t, yaml.Unmarshal([]byte("type: exclusive\n"), &fromYAML))
	assert.Equal(t, ScopeExclusive, fromYAML.Type)

	_, err = ScopeFilterType(5).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "ScopeFilterType(5)", ScopeFilterType(5).String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("EMAIL")
	require.NoError(t, err)
	assert.Equal(t, FormatEmail, f)

	_, err = ParseFormat("sms")
	assert.Error(t, err)

	assert.Equal(t, "EXCLUSIVE", FilterExclusive.String())
}
