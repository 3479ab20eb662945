// Package meta describes the property types of the dynamic object model.
// A meta-class lists the fields an instance of a property class carries.
package meta

import "fmt"

// Property is a field of a class.
type Property interface {
	Name() string
	PrettyName() string
}

// BaseCollection is an ordered set of named properties.
type BaseCollection struct {
	fields map[string]Property
	order  []string
}

// SafePut stores prop under name, replacing any property already stored
// there without changing the field order.
func (c *BaseCollection) SafePut(name string, prop Property) {
	if c.fields == nil {
		c.fields = make(map[string]Property)
	}
	if _, ok := c.fields[name]; !ok {
		c.order = append(c.order, name)
	}
	c.fields[name] = prop
}

// Field returns the property stored under name.
func (c *BaseCollection) Field(name string) (Property, bool) {
	p, ok := c.fields[name]
	return p, ok
}

// FieldNames returns the property names in insertion order.
func (c *BaseCollection) FieldNames() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of properties.
func (c *BaseCollection) Len() int {
	return len(c.order)
}

// PropertyMetaClass describes a property class.
type PropertyMetaClass struct {
	BaseCollection
	name       string
	prettyName string
}

// Name returns the fully qualified name of the described class.
func (m *PropertyMetaClass) Name() string { return m.name }

// PrettyName returns the display name.
func (m *PropertyMetaClass) PrettyName() string { return m.prettyName }

func (m *PropertyMetaClass) String() string {
	return fmt.Sprintf("%s (%s)", m.prettyName, m.name)
}

// PropertyClass holds the attributes every property class shares.
type PropertyClass struct {
	name       string
	prettyName string
	size       int
	owner      *PropertyMetaClass
}

func (p *PropertyClass) Name() string              { return p.name }
func (p *PropertyClass) PrettyName() string        { return p.prettyName }
func (p *PropertyClass) Size() int                 { return p.size }
func (p *PropertyClass) Owner() *PropertyMetaClass { return p.owner }

func (p *PropertyClass) SetName(name string)             { p.name = name }
func (p *PropertyClass) SetPrettyName(prettyName string) { p.prettyName = prettyName }
func (p *PropertyClass) SetSize(size int)                { p.size = size }
