package expr

import (
	"time"

	"github.com/roach88/wikistream/internal/model"
)

// Kind tags the variant a node belongs to.
type Kind int

const (
	// KindValue is a leaf: literal, property reference, entity, date or boolean.
	KindValue Kind = iota + 1
	// KindUnary is an operator with one operand.
	KindUnary
	// KindBinary is an operator with a left and a right operand.
	KindBinary
	// KindOperator covers the remaining operators (membership, ordering, sub-selects).
	KindOperator
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	case KindOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Node is a node of an expression tree.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	kind() Kind
}

// Value is a leaf node.
type Value interface {
	Node
	valueNode()
}

// UnaryOperator is implemented by nodes with a single operand.
type UnaryOperator interface {
	Node
	GetOperand() Node
}

// BinaryOperator is implemented by nodes with two operands.
type BinaryOperator interface {
	Node
	GetLeft() Node
	GetRight() Node
}

// KindOf returns the variant of n, or 0 for nil.
func KindOf(n Node) Kind {
	if n == nil {
		return 0
	}
	return n.kind()
}

// PropertyValueNode references a property of the event being filtered.
type PropertyValueNode struct {
	Property EventProperty
}

func (PropertyValueNode) kind() Kind { return KindValue }
func (PropertyValueNode) valueNode() {}

// StringValueNode is a string literal.
type StringValueNode struct {
	Content string
}

func (StringValueNode) kind() Kind { return KindValue }
func (StringValueNode) valueNode() {}

// EntityReferenceNode is a reference to a wiki entity, bound in its
// serialized form.
type EntityReferenceNode struct {
	Reference model.DocumentReference
}

func (EntityReferenceNode) kind() Kind { return KindValue }
func (EntityReferenceNode) valueNode() {}

// DateValueNode is a date literal.
type DateValueNode struct {
	Time time.Time
}

func (DateValueNode) kind() Kind { return KindValue }
func (DateValueNode) valueNode() {}

// BooleanValueNode is a boolean literal.
type BooleanValueNode struct {
	Content bool
}

func (BooleanValueNode) kind() Kind { return KindValue }
func (BooleanValueNode) valueNode() {}

// NotNode negates its operand.
type NotNode struct {
	Operand Node
}

func (NotNode) kind() Kind { return KindUnary }

// GetOperand implements UnaryOperator.
func (n NotNode) GetOperand() Node { return n.Operand }

// binary holds the operands shared by every binary operator.
type binary struct {
	Left  Node
	Right Node
}

func (binary) kind() Kind { return KindBinary }

// GetLeft implements BinaryOperator.
func (b binary) GetLeft() Node { return b.Left }

// GetRight implements BinaryOperator.
func (b binary) GetRight() Node { return b.Right }

// AndNode is true when both operands are.
type AndNode struct{ binary }

// OrNode is true when either operand is.
type OrNode struct{ binary }

// EqualsNode compares two values for equality.
type EqualsNode struct{ binary }

// NotEqualsNode compares two values for inequality.
type NotEqualsNode struct{ binary }

// StartsWithNode matches when Left starts with Right.
type StartsWithNode struct{ binary }

// GreaterThanNode matches when Left is greater than (or equal to) Right.
type GreaterThanNode struct{ binary }

// LesserThanNode matches when Left is lesser than (or equal to) Right.
type LesserThanNode struct{ binary }

// InNode matches when Left is one of Values.
type InNode struct {
	Left   Node
	Values []Value
}

func (InNode) kind() Kind { return KindOperator }

// Order is the sort direction of an OrderByNode.
type Order int

const (
	// ASC sorts in ascending order.
	ASC Order = iota + 1
	// DESC sorts in descending order.
	DESC
)

// String returns "ASC" or "DESC", or "" for an invalid order.
func (o Order) String() string {
	switch o {
	case ASC:
		return "ASC"
	case DESC:
		return "DESC"
	default:
		return ""
	}
}

// OrderByNode orders the results of Query by Property.
type OrderByNode struct {
	Query    Node
	Property Value
	Order    Order
}

func (OrderByNode) kind() Kind { return KindOperator }

// InListOfReadEventsNode matches events the given user has marked as read.
type InListOfReadEventsNode struct {
	User model.DocumentReference
}

func (InListOfReadEventsNode) kind() Kind { return KindOperator }

// Unwrap dereferences pointer nodes so callers can switch on value types.
// A nil pointer yields a nil Node.
func Unwrap(n Node) Node {
	switch v := n.(type) {
	case *PropertyValueNode:
		if v == nil {
			return nil
		}
		return *v
	case *StringValueNode:
		if v == nil {
			return nil
		}
		return *v
	case *EntityReferenceNode:
		if v == nil {
			return nil
		}
		return *v
	case *DateValueNode:
		if v == nil {
			return nil
		}
		return *v
	case *BooleanValueNode:
		if v == nil {
			return nil
		}
		return *v
	case *NotNode:
		if v == nil {
			return nil
		}
		return *v
	case *AndNode:
		if v == nil {
			return nil
		}
		return *v
	case *OrNode:
		if v == nil {
			return nil
		}
		return *v
	case *EqualsNode:
		if v == nil {
			return nil
		}
		return *v
	case *NotEqualsNode:
		if v == nil {
			return nil
		}
		return *v
	case *StartsWithNode:
		if v == nil {
			return nil
		}
		return *v
	case *GreaterThanNode:
		if v == nil {
			return nil
		}
		return *v
	case *LesserThanNode:
		if v == nil {
			return nil
		}
		return *v
	case *InNode:
		if v == nil {
			return nil
		}
		return *v
	case *OrderByNode:
		if v == nil {
			return nil
		}
		return *v
	case *InListOfReadEventsNode:
		if v == nil {
			return nil
		}
		return *v
	default:
		return n
	}
}
