package expr

import (
	"time"

	"github.com/roach88/wikistream/internal/model"
)

// Prop returns a node referencing an event property.
func Prop(p EventProperty) PropertyValueNode {
	return PropertyValueNode{Property: p}
}

// String returns a string literal node.
func String(s string) StringValueNode {
	return StringValueNode{Content: s}
}

// Strings returns one string literal node per argument.
func Strings(values ...string) []Value {
	nodes := make([]Value, len(values))
	for i, v := range values {
		nodes[i] = StringValueNode{Content: v}
	}
	return nodes
}

// Entity returns an entity reference node.
func Entity(ref model.DocumentReference) EntityReferenceNode {
	return EntityReferenceNode{Reference: ref}
}

// Date returns a date literal node.
func Date(t time.Time) DateValueNode {
	return DateValueNode{Time: t}
}

// Bool returns a boolean literal node.
func Bool(b bool) BooleanValueNode {
	return BooleanValueNode{Content: b}
}

// Not negates n.
func Not(n Node) NotNode {
	return NotNode{Operand: n}
}

// And combines two nodes with a logical and.
func And(left, right Node) AndNode {
	return AndNode{binary{Left: left, Right: right}}
}

// Or combines two nodes with a logical or.
func Or(left, right Node) OrNode {
	return OrNode{binary{Left: left, Right: right}}
}

// AllOf folds nodes into a left-nested chain of AndNode. It returns nil for
// no nodes and the node itself for one.
func AllOf(nodes ...Node) Node {
	return fold(nodes, func(l, r Node) Node { return And(l, r) })
}

// AnyOf folds nodes into a left-nested chain of OrNode.
func AnyOf(nodes ...Node) Node {
	return fold(nodes, func(l, r Node) Node { return Or(l, r) })
}

func fold(nodes []Node, combine func(l, r Node) Node) Node {
	var acc Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if acc == nil {
			acc = n
			continue
		}
		acc = combine(acc, n)
	}
	return acc
}

// Eq compares two values for equality.
func Eq(left, right Value) EqualsNode {
	return EqualsNode{binary{Left: left, Right: right}}
}

// NotEq compares two values for inequality.
func NotEq(left, right Value) NotEqualsNode {
	return NotEqualsNode{binary{Left: left, Right: right}}
}

// StartsWith matches left values beginning with right.
func StartsWith(left, right Value) StartsWithNode {
	return StartsWithNode{binary{Left: left, Right: right}}
}

// GreaterThan compares left against right.
func GreaterThan(left, right Node) GreaterThanNode {
	return GreaterThanNode{binary{Left: left, Right: right}}
}

// LesserThan compares left against right.
func LesserThan(left, right Node) LesserThanNode {
	return LesserThanNode{binary{Left: left, Right: right}}
}

// In matches left against a list of values.
func In(left Node, values ...Value) InNode {
	return InNode{Left: left, Values: values}
}

// InStrings matches left against a list of string literals.
func InStrings(left Node, values ...string) InNode {
	return InNode{Left: left, Values: Strings(values...)}
}

// OrderBy orders query by property.
func OrderBy(query Node, property Value, order Order) OrderByNode {
	return OrderByNode{Query: query, Property: property, Order: order}
}

// ReadBy matches events the user has read.
func ReadBy(user model.DocumentReference) InListOfReadEventsNode {
	return InListOfReadEventsNode{User: user}
}
