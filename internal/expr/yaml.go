package expr

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"

	"github.com/roach88/wikistream/internal/model"
)

// DecodeOptions controls how YAML expressions are resolved.
type DecodeOptions struct {
	// DefaultWiki fills in entity references written without a wiki part.
	DefaultWiki string
}

// LoadFile reads and decodes an expression file.
func LoadFile(path string, opts DecodeOptions) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expression file: %w", err)
	}
	node, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

// Decode parses a YAML expression. Each node is a single-key mapping:
//
//	property: user                        # PropertyValueNode
//	string: some text                     # StringValueNode
//	entity: xwiki:XWiki.Admin             # EntityReferenceNode
//	date: 2024-03-01 10:00                # DateValueNode (any common layout)
//	bool: true                            # BooleanValueNode
//	not: <node>
//	and: [<node>, <node>]                 # also or, equals, not_equals,
//	                                      # starts_with, greater_than, lesser_than
//	in: {left: <node>, values: [<value>, ...]}
//	order_by: {query: <node>, property: date, order: desc}
//	read_by: xwiki:XWiki.Admin            # InListOfReadEventsNode
func Decode(data []byte, opts DecodeOptions) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse expression: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse expression: empty document")
	}
	d := &decoder{opts: opts}
	return d.node(doc.Content[0])
}

type decoder struct {
	opts DecodeOptions
}

func (d *decoder) node(y *yaml.Node) (Node, error) {
	if y.Kind != yaml.MappingNode || len(y.Content) != 2 {
		return nil, d.errorf(y, "expected a mapping with exactly one key")
	}
	key, body := y.Content[0].Value, y.Content[1]

	switch key {
	case "property", "string", "entity", "date", "bool":
		return d.value(y)
	case "not":
		operand, err := d.node(body)
		if err != nil {
			return nil, err
		}
		return Not(operand), nil
	case "and", "or", "greater_than", "lesser_than":
		left, right, err := d.pair(body)
		if err != nil {
			return nil, err
		}
		switch key {
		case "and":
			return And(left, right), nil
		case "or":
			return Or(left, right), nil
		case "greater_than":
			return GreaterThan(left, right), nil
		default:
			return LesserThan(left, right), nil
		}
	case "equals", "not_equals", "starts_with":
		left, right, err := d.pair(body)
		if err != nil {
			return nil, err
		}
		lv, lok := left.(Value)
		rv, rok := right.(Value)
		if !lok || !rok {
			return nil, d.errorf(body, "%s operands must be values", key)
		}
		switch key {
		case "equals":
			return Eq(lv, rv), nil
		case "not_equals":
			return NotEq(lv, rv), nil
		default:
			return StartsWith(lv, rv), nil
		}
	case "in":
		return d.in(body)
	case "order_by":
		return d.orderBy(body)
	case "read_by":
		ref, err := d.reference(body)
		if err != nil {
			return nil, err
		}
		return ReadBy(ref), nil
	default:
		return nil, d.errorf(y.Content[0], "unknown node %q", key)
	}
}

func (d *decoder) value(y *yaml.Node) (Value, error) {
	if y.Kind != yaml.MappingNode || len(y.Content) != 2 {
		return nil, d.errorf(y, "expected a value mapping with exactly one key")
	}
	key, body := y.Content[0].Value, y.Content[1]
	if body.Kind != yaml.ScalarNode {
		return nil, d.errorf(body, "%s must be a scalar", key)
	}

	switch key {
	case "property":
		p, err := ParseEventProperty(body.Value)
		if err != nil {
			return nil, d.errorf(body, "%v", err)
		}
		return Prop(p), nil
	case "string":
		return String(body.Value), nil
	case "entity":
		ref, err := d.reference(body)
		if err != nil {
			return nil, err
		}
		return Entity(ref), nil
	case "date":
		// Dates without a zone are UTC whatever the host's local zone is.
		t, err := dateparse.ParseIn(body.Value, time.UTC)
		if err != nil {
			return nil, d.errorf(body, "invalid date %q: %v", body.Value, err)
		}
		return Date(t), nil
	case "bool":
		var b bool
		if err := body.Decode(&b); err != nil {
			return nil, d.errorf(body, "invalid bool %q", body.Value)
		}
		return Bool(b), nil
	default:
		return nil, d.errorf(y.Content[0], "unknown value %q", key)
	}
}

func (d *decoder) pair(y *yaml.Node) (Node, Node, error) {
	if y.Kind != yaml.SequenceNode || len(y.Content) != 2 {
		return nil, nil, d.errorf(y, "expected a list of two operands")
	}
	left, err := d.node(y.Content[0])
	if err != nil {
		return nil, nil, err
	}
	right, err := d.node(y.Content[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (d *decoder) in(y *yaml.Node) (Node, error) {
	fields, err := d.fields(y, "left", "values")
	if err != nil {
		return nil, err
	}
	left, err := d.node(fields["left"])
	if err != nil {
		return nil, err
	}
	list := fields["values"]
	if list.Kind != yaml.SequenceNode {
		return nil, d.errorf(list, "in values must be a list")
	}
	values := make([]Value, 0, len(list.Content))
	for _, item := range list.Content {
		v, err := d.value(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return In(left, values...), nil
}

func (d *decoder) orderBy(y *yaml.Node) (Node, error) {
	fields, err := d.fields(y, "query", "property", "order")
	if err != nil {
		return nil, err
	}
	query, err := d.node(fields["query"])
	if err != nil {
		return nil, err
	}
	p, err := ParseEventProperty(fields["property"].Value)
	if err != nil {
		return nil, d.errorf(fields["property"], "%v", err)
	}
	order, err := ParseOrder(fields["order"].Value)
	if err != nil {
		return nil, d.errorf(fields["order"], "%v", err)
	}
	return OrderBy(query, Prop(p), order), nil
}

// fields reads a mapping whose keys must be exactly the given names.
func (d *decoder) fields(y *yaml.Node, names ...string) (map[string]*yaml.Node, error) {
	if y.Kind != yaml.MappingNode {
		return nil, d.errorf(y, "expected a mapping with keys %s", strings.Join(names, ", "))
	}
	out := make(map[string]*yaml.Node, len(names))
	for i := 0; i+1 < len(y.Content); i += 2 {
		out[y.Content[i].Value] = y.Content[i+1]
	}
	for _, name := range names {
		if _, ok := out[name]; !ok {
			return nil, d.errorf(y, "missing key %q", name)
		}
	}
	if len(out) != len(names) {
		return nil, d.errorf(y, "unexpected keys: want only %s", strings.Join(names, ", "))
	}
	return out, nil
}

func (d *decoder) reference(y *yaml.Node) (model.DocumentReference, error) {
	if y.Kind != yaml.ScalarNode {
		return model.DocumentReference{}, d.errorf(y, "reference must be a scalar")
	}
	ref, err := model.ParseDocumentReference(y.Value, d.opts.DefaultWiki)
	if err != nil {
		return model.DocumentReference{}, d.errorf(y, "%v", err)
	}
	return ref, nil
}

func (d *decoder) errorf(y *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", y.Line, fmt.Sprintf(format, args...))
}
