package hql

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/wikistream/internal/expr"
	"github.com/roach88/wikistream/internal/model"
)

// ReadStatusParam is the parameter bound to the user of an
// InListOfReadEventsNode.
const ReadStatusParam = "userStatusRead"

// Query is the HQL text produced for an expression together with the values
// to bind to its named parameters.
type Query struct {
	// Text is the HQL fragment. Parameters appear as ":name".
	Text string

	// Params maps parameter names (without the colon) to bound values.
	Params map[string]any
}

// Observer is notified after every conversion.
type Observer interface {
	ConversionCompleted(params, unsupported int)
}

// Option configures a Converter.
type Option func(*Converter)

// WithStrict makes Convert fail instead of rendering unsupported nodes as
// empty text.
func WithStrict() Option {
	return func(c *Converter) { c.strict = true }
}

// WithLogger sets the logger used to report unsupported nodes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(c *Converter) { c.observer = o }
}

// Converter transforms expression trees into parameterized HQL for the
// event stream store.
//
// A Converter holds no per-call state and is safe for concurrent use.
type Converter struct {
	serializer model.Serializer
	strict     bool
	logger     *slog.Logger
	observer   Observer
}

// NewConverter creates a Converter. Entity references are bound in the form
// produced by serializer.
func NewConverter(serializer model.Serializer, opts ...Option) *Converter {
	if serializer == nil {
		serializer = model.DefaultSerializer{}
	}
	c := &Converter{
		serializer: serializer,
		logger:     slog.Default().With("component", "hql.converter"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders node as HQL.
//
// Nodes the converter cannot render (nil nodes, operators where a value is
// required, unknown properties or orders) become empty text. They are
// reported through an *UnsupportedNodeError returned together with the
// query; callers wanting the lenient behaviour may ignore that error. With
// WithStrict the query is discarded and only the error is returned.
func (c *Converter) Convert(node expr.Node) (*Query, error) {
	conv := &conversion{
		serializer: c.serializer,
		query:      &Query{Params: make(map[string]any)},
	}
	conv.query.Text = conv.block(node)

	if c.observer != nil {
		c.observer.ConversionCompleted(len(conv.query.Params), len(conv.unsupported))
	}

	if len(conv.unsupported) == 0 {
		return conv.query, nil
	}

	err := &UnsupportedNodeError{Nodes: conv.unsupported}
	if c.strict {
		return nil, err
	}
	c.logger.Warn("expression nodes rendered as empty text", "nodes", conv.unsupported)
	return conv.query, err
}

// conversion holds the state of a single Convert call.
type conversion struct {
	serializer  model.Serializer
	query       *Query
	unsupported []string
}

func (c *conversion) unsupportedNode(format string, args ...any) string {
	c.unsupported = append(c.unsupported, fmt.Sprintf(format, args...))
	return ""
}

// block dispatches on the node kind.
func (c *conversion) block(n expr.Node) string {
	node := expr.Unwrap(n)
	switch expr.KindOf(node) {
	case expr.KindValue:
		return c.value(node, false)
	case expr.KindUnary:
		return c.unary(node)
	case expr.KindBinary:
		return c.binary(node)
	case expr.KindOperator:
		return c.operator(node)
	default:
		return c.unsupportedNode("nil node")
	}
}

// value renders a leaf. When escape is true, literal content is escaped for
// use as a LIKE pattern.
func (c *conversion) value(n expr.Node, escape bool) string {
	switch v := expr.Unwrap(n).(type) {
	case expr.PropertyValueNode:
		column, ok := propertyColumns[v.Property]
		if !ok {
			return c.unsupportedNode("unknown event property %s", v.Property)
		}
		return column
	case expr.StringValueNode:
		content := v.Content
		if escape {
			content = Escape(content)
		}
		// The key hashes the raw content even when the bound value is escaped.
		return c.bind(ParamKey("value", v.Content), content)
	case expr.EntityReferenceNode:
		serialized := c.serializer.Serialize(v.Reference)
		if escape {
			serialized = Escape(serialized)
		}
		return c.bind(ParamKey("entity", serialized), serialized)
	case expr.DateValueNode:
		return c.bind(ParamKey("date", dateText(v.Time)), v.Time)
	case expr.BooleanValueNode:
		if v.Content {
			return "true"
		}
		return "false"
	case nil:
		return c.unsupportedNode("nil value")
	default:
		return c.unsupportedNode("%s node %T where a value is required", expr.KindOf(v), v)
	}
}

func (c *conversion) bind(key string, value any) string {
	c.query.Params[key] = value
	return ":" + key
}

func (c *conversion) unary(n expr.Node) string {
	switch op := n.(type) {
	case expr.NotNode:
		return fmt.Sprintf("NOT (%s)", c.block(op.Operand))
	default:
		return c.unsupportedNode("unary operator %T", n)
	}
}

func (c *conversion) binary(n expr.Node) string {
	switch op := n.(type) {
	case expr.AndNode:
		return fmt.Sprintf("(%s) AND (%s)", c.block(op.Left), c.block(op.Right))
	case expr.OrNode:
		return fmt.Sprintf("(%s) OR (%s)", c.block(op.Left), c.block(op.Right))
	case expr.EqualsNode:
		return fmt.Sprintf("%s = %s", c.value(op.Left, false), c.value(op.Right, false))
	case expr.NotEqualsNode:
		return fmt.Sprintf("%s <> %s", c.value(op.Left, false), c.value(op.Right, false))
	case expr.StartsWithNode:
		return fmt.Sprintf("%s LIKE concat(%s, '%%') ESCAPE '!'",
			c.value(op.Left, false), c.value(op.Right, true))
	case expr.GreaterThanNode:
		// Comparisons go through block, not value: operands may be any node.
		return fmt.Sprintf("%s >= %s", c.block(op.Left), c.block(op.Right))
	case expr.LesserThanNode:
		return fmt.Sprintf("%s <= %s", c.block(op.Left), c.block(op.Right))
	default:
		return c.unsupportedNode("binary operator %T", n)
	}
}

func (c *conversion) operator(n expr.Node) string {
	switch op := n.(type) {
	case expr.InNode:
		var b strings.Builder
		b.WriteString(c.block(op.Left))
		b.WriteString(" IN (")
		for i, v := range op.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.block(v))
		}
		b.WriteString(")")
		return b.String()
	case expr.OrderByNode:
		order := op.Order.String()
		if order == "" {
			c.unsupportedNode("unknown order %d", int(op.Order))
		}
		return fmt.Sprintf("%s ORDER BY %s %s", c.block(op.Query), c.block(op.Property), order)
	case expr.InListOfReadEventsNode:
		c.query.Params[ReadStatusParam] = c.serializer.Serialize(op.User)
		return "event IN (select status.activityEvent from ActivityEventStatusImpl status " +
			"where status.activityEvent = event and status.entityId = :" + ReadStatusParam +
			" and status.read = true)"
	default:
		return c.unsupportedNode("operator %T", n)
	}
}

// propertyColumns maps event properties to columns of the event entity.
var propertyColumns = map[expr.EventProperty]string{
	expr.PropertyID:              "event.id",
	expr.PropertyGroupID:         "event.requestId",
	expr.PropertyStream:          "event.stream",
	expr.PropertyDate:            "event.date",
	expr.PropertyApplication:     "event.application",
	expr.PropertyBody:            "event.body",
	expr.PropertyType:            "event.type",
	expr.PropertyHidden:          "event.hidden",
	expr.PropertyPage:            "event.page",
	expr.PropertyImportance:      "event.priority",
	expr.PropertySpace:           "event.space",
	expr.PropertyTitle:           "event.title",
	expr.PropertyUser:            "event.user",
	expr.PropertyWiki:            "event.wiki",
	expr.PropertyURL:             "event.url",
	expr.PropertyDocumentVersion: "event.version",
}

// Column returns the HQL column for an event property.
func Column(p expr.EventProperty) (string, bool) {
	col, ok := propertyColumns[p]
	return col, ok
}
