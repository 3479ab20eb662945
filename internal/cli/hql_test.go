package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wikistream/internal/hql"
)

const userEquals = `equals: [{property: user}, {string: "xwiki:XWiki.Bob"}]`

func TestHQLCommand_Text(t *testing.T) {
	path := writeExpression(t, userEquals)

	out, err := execute(t, "hql", path)
	require.NoError(t, err)

	key := hql.ParamKey("value", "xwiki:XWiki.Bob")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "event.user = :"+key, lines[0])
	assert.Equal(t, `  :`+key+` = "xwiki:XWiki.Bob"`, lines[1])
}

func TestHQLCommand_JSON(t *testing.T) {
	path := writeExpression(t, userEquals)

	out, err := execute(t, "--format", "json", "hql", path)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   HQLResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	key := hql.ParamKey("value", "xwiki:XWiki.Bob")
	assert.Equal(t, "event.user = :"+key, resp.Data.Query)
	assert.Equal(t, "xwiki:XWiki.Bob", resp.Data.Params[key])
	assert.Empty(t, resp.Data.Unsupported)
}

func TestHQLCommand_EntityUsesWikiFlag(t *testing.T) {
	path := writeExpression(t, `in: {left: {property: user}, values: [{entity: "XWiki.Carol"}]}`)

	out, err := execute(t, "hql", "--wiki", "dev", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"dev:XWiki.Carol"`)

	out, err = execute(t, "hql", "--local", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"XWiki.Carol"`)
	assert.NotContains(t, out, `xwiki:XWiki.Carol`)
}

func TestHQLCommand_FileNotFound(t *testing.T) {
	out, err := execute(t, "hql", "/nonexistent/filter.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
	assert.Contains(t, out, "expression file not found")
}

func TestHQLCommand_ParseError(t *testing.T) {
	path := writeExpression(t, `sometimes: [{property: user}]`)

	out, err := execute(t, "hql", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeParse)
	assert.Contains(t, out, "unknown node")
}

func TestHQLCommand_BadConfig(t *testing.T) {
	env := newTestEnv(t, "bogus: true\n")

	out, err := execute(t, "--config", env.configPath, "hql", writeExpression(t, userEquals))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeConfig)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", writeExpression(t, userEquals))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Expression valid")
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeExpression(t, `in: {left: {property: user}, values: []}`)

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "expression is invalid")
	assert.Contains(t, out, "$.in: empty value list")
}

func TestValidateCommand_InvalidJSON(t *testing.T) {
	path := writeExpression(t, `in: {left: {property: user}, values: []}`)

	out, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalid, resp.Error.Code)
}
