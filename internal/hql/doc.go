// Package hql converts notification expression trees (internal/expr) into
// parameterized HQL for the event stream store.
//
// The converter never interpolates literals. Strings, entity references and
// dates become named parameters whose names are derived from a SHA-256 hash
// of their content:
//
//	value_<sha256 hex>    string literal
//	entity_<sha256 hex>   serialized entity reference
//	date_<sha256 hex>     date (RFC 3339, UTC)
//
// Identical literals therefore share a parameter. Property references become
// columns of the "event" alias, and booleans are written inline.
//
// Example:
//
//	conv := hql.NewConverter(model.DefaultSerializer{})
//	q, err := conv.Convert(expr.Not(expr.InStrings(expr.Prop(expr.PropertyUser), "xwiki:XWiki.Bob")))
//	// q.Text:   NOT (event.user IN (:value_5c3e...))
//	// q.Params: {"value_5c3e...": "xwiki:XWiki.Bob"}
//
// Starts-with operands are escaped for LIKE with '!' as the escape
// character (see Escape). Greater-than and lesser-than render as >= and <=.
package hql
