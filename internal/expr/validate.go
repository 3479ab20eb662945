package expr

import (
	"fmt"
)

// ValidationResult lists the problems found in an expression tree.
//
// Problems are warnings, not errors: backends still render invalid trees,
// producing empty text for the parts they cannot handle.
type ValidationResult struct {
	// Valid is true when Warnings is empty.
	Valid bool

	// Warnings describes each problem with its path from the root.
	Warnings []string
}

// Validate walks the tree and reports nodes a backend cannot render
// faithfully:
//  1. nil nodes
//  2. unknown event properties or sort orders
//  3. non-value operands where a value is required (equals, not-equals,
//     starts-with)
//  4. IN with an empty value list (renders as "IN ()")
//  5. read-by-user sub-selects without a user
//
// Validate is a pure function with no side effects.
func Validate(node Node) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateNode(node, "$")

	return ValidationResult{
		Valid:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(path, format string, args ...any) {
	v.warnings = append(v.warnings, path+": "+fmt.Sprintf(format, args...))
}

func (v *validator) validateNode(n Node, path string) {
	switch node := Unwrap(n).(type) {
	case nil:
		v.addWarning(path, "nil node")
	case PropertyValueNode:
		if !node.Property.Valid() {
			v.addWarning(path, "unknown event property %s", node.Property)
		}
	case StringValueNode, DateValueNode, BooleanValueNode:
	case EntityReferenceNode:
		if node.Reference.IsZero() {
			v.addWarning(path, "empty entity reference")
		}
	case NotNode:
		v.validateNode(node.Operand, path+".not")
	case AndNode:
		v.validateNode(node.Left, path+".and[0]")
		v.validateNode(node.Right, path+".and[1]")
	case OrNode:
		v.validateNode(node.Left, path+".or[0]")
		v.validateNode(node.Right, path+".or[1]")
	case EqualsNode:
		v.validateValueOperands(node.binary, path+".equals")
	case NotEqualsNode:
		v.validateValueOperands(node.binary, path+".not_equals")
	case StartsWithNode:
		v.validateValueOperands(node.binary, path+".starts_with")
	case GreaterThanNode:
		v.validateNode(node.Left, path+".greater_than[0]")
		v.validateNode(node.Right, path+".greater_than[1]")
	case LesserThanNode:
		v.validateNode(node.Left, path+".lesser_than[0]")
		v.validateNode(node.Right, path+".lesser_than[1]")
	case InNode:
		v.validateNode(node.Left, path+".in.left")
		if len(node.Values) == 0 {
			v.addWarning(path+".in", "empty value list")
		}
		for i, val := range node.Values {
			v.validateNode(val, fmt.Sprintf("%s.in.values[%d]", path, i))
		}
	case OrderByNode:
		v.validateNode(node.Query, path+".order_by.query")
		v.validateNode(node.Property, path+".order_by.property")
		if node.Order.String() == "" {
			v.addWarning(path+".order_by", "unknown order %d", int(node.Order))
		}
	case InListOfReadEventsNode:
		if node.User.IsZero() {
			v.addWarning(path+".read_by", "empty user reference")
		}
	default:
		v.addWarning(path, "unsupported node type %T", n)
	}
}

// validateValueOperands checks operators whose operands must be values.
func (v *validator) validateValueOperands(b binary, path string) {
	for i, operand := range []Node{b.Left, b.Right} {
		p := fmt.Sprintf("%s[%d]", path, i)
		if _, ok := Unwrap(operand).(Value); !ok {
			v.addWarning(p, "operand must be a value, got %s", describe(operand))
			continue
		}
		v.validateNode(operand, p)
	}
}

func describe(n Node) string {
	if Unwrap(n) == nil {
		return "nil"
	}
	return fmt.Sprintf("%s node %T", KindOf(n), Unwrap(n))
}
