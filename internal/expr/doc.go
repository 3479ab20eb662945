// Package expr provides the expression tree used by notification sources to
// describe which events a user should see.
//
// An expression is an immutable tree of nodes. Every node falls into one of
// four kinds:
//
//	Kind          Nodes
//	----          -----
//	KindValue     PropertyValueNode, StringValueNode, EntityReferenceNode,
//	              DateValueNode, BooleanValueNode
//	KindUnary     NotNode
//	KindBinary    AndNode, OrNode, EqualsNode, NotEqualsNode, StartsWithNode,
//	              GreaterThanNode, LesserThanNode
//	KindOperator  InNode, OrderByNode, InListOfReadEventsNode
//
// SEALED INTERFACES:
//
// Node is sealed with an unexported method, so only types in this package
// can be nodes. Backends (see internal/hql) can therefore switch over the
// full set of node types:
//
//	switch n := expr.Unwrap(node).(type) {
//	case expr.AndNode:
//	    // ...
//	case expr.NotNode:
//	    // ...
//	}
//
// Nodes are plain values. Pointers to nodes also satisfy Node; Unwrap turns
// them back into values so switches only need the value cases.
//
// BUILDING TREES:
//
// Trees are usually built with the helpers in builder.go:
//
//	expr.Not(expr.InStrings(expr.Prop(expr.PropertyUser), "xwiki:XWiki.Bob"))
//
// Trees can also be read from YAML with Decode, which the CLI uses.
package expr
