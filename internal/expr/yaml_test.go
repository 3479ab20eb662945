package expr

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wikistream/internal/model"
)

func TestDecode_FullTree(t *testing.T) {
	src := `
order_by:
  query:
    and:
      - not:
          in:
            left: {property: user}
            values:
              - {string: "xwiki:XWiki.Bob"}
              - {entity: "XWiki.Carol"}
      - or:
          - starts_with: [{property: page}, {string: "Sandbox."}]
          - greater_than: [{property: date}, {date: "2024-03-01"}]
  property: date
  order: desc
`
	node, err := Decode([]byte(src), DecodeOptions{DefaultWiki: "xwiki"})
	require.NoError(t, err)

	carol := model.NewDocumentReference("xwiki", []string{"XWiki"}, "Carol")
	want := OrderBy(
		And(
			Not(In(Prop(PropertyUser), String("xwiki:XWiki.Bob"), Entity(carol))),
			Or(
				StartsWith(Prop(PropertyPage), String("Sandbox.")),
				GreaterThan(Prop(PropertyDate), Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))),
			),
		),
		Prop(PropertyDate),
		DESC,
	)
	assert.Equal(t, want, node)
}

func TestDecode_Leaves(t *testing.T) {
	node, err := Decode([]byte(`equals: [{property: hidden}, {bool: false}]`), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, Eq(Prop(PropertyHidden), Bool(false)), node)

	node, err = Decode([]byte(`read_by: "dev:XWiki.Alice"`), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, ReadBy(model.NewDocumentReference("dev", []string{"XWiki"}, "Alice")), node)

	node, err = Decode([]byte(`lesser_than: [{property: date}, {not: {bool: true}}]`), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, LesserThan(Prop(PropertyDate), Not(Bool(true))), node)
}

func TestDecode_DateIgnoresLocalZone(t *testing.T) {
	local := time.Local
	time.Local = time.FixedZone("UTC+5", 5*60*60)
	t.Cleanup(func() { time.Local = local })

	node, err := Decode([]byte(`date: "2024-03-01 10:00"`), DecodeOptions{})
	require.NoError(t, err)

	v, ok := node.(DateValueNode)
	require.True(t, ok, "expected a date node, got %T", node)
	assert.True(t, v.Time.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)), "got %s", v.Time)
	assert.Equal(t, time.UTC, v.Time.Location())

	// An explicit offset still wins.
	node, err = Decode([]byte(`date: "2024-03-01T10:00:00+02:00"`), DecodeOptions{})
	require.NoError(t, err)
	assert.True(t, node.(DateValueNode).Time.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		msg  string
	}{
		{"empty", ``, "empty document"},
		{"two keys", `{string: a, bool: true}`, "exactly one key"},
		{"unknown node", `xor: []`, `unknown node "xor"`},
		{"unknown property", `property: nope`, "unknown event property"},
		{"bad date", `date: "not a date at all"`, "invalid date"},
		{"equals with operator", `equals: [{not: {bool: true}}, {string: x}]`, "operands must be values"},
		{"and arity", `and: [{bool: true}]`, "list of two operands"},
		{"in missing values", `in: {left: {property: user}}`, `missing key "values"`},
		{"order_by bad order", `order_by: {query: {bool: true}, property: date, order: up}`, "unknown order"},
		{"bad reference", `read_by: "x:A..B"`, "empty name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.src), DecodeOptions{DefaultWiki: "xwiki"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bool: true\n"), 0o644))

	node, err := LoadFile(path, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, Bool(true), node)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), DecodeOptions{})
	assert.Error(t, err)
}
