package meta

import (
	"fmt"
	"strconv"
	"strings"
)

// StaticListClass is a property whose value is picked from a fixed list.
type StaticListClass struct {
	PropertyClass
	values            []string
	displayType       string
	multiSelect       bool
	relationalStorage bool
}

// NewStaticListClass creates a list property owned by owner.
func NewStaticListClass(owner *PropertyMetaClass) *StaticListClass {
	return &StaticListClass{PropertyClass: PropertyClass{owner: owner}}
}

// SetValues parses a "|" separated list of allowed values.
func (c *StaticListClass) SetValues(values string) {
	c.values = nil
	for _, v := range strings.Split(values, "|") {
		if v = strings.TrimSpace(v); v != "" {
			c.values = append(c.values, v)
		}
	}
}

// Values returns the allowed values.
func (c *StaticListClass) Values() []string { return append([]string(nil), c.values...) }

// Allows reports whether v is an allowed value.
func (c *StaticListClass) Allows(v string) bool {
	for _, allowed := range c.values {
		if allowed == v {
			return true
		}
	}
	return false
}

func (c *StaticListClass) DisplayType() string         { return c.displayType }
func (c *StaticListClass) MultiSelect() bool           { return c.multiSelect }
func (c *StaticListClass) RelationalStorage() bool     { return c.relationalStorage }
func (c *StaticListClass) SetDisplayType(t string)     { c.displayType = t }
func (c *StaticListClass) SetMultiSelect(b bool)       { c.multiSelect = b }
func (c *StaticListClass) SetRelationalStorage(b bool) { c.relationalStorage = b }

// Number types understood by NumberClass.
const (
	NumberInteger = "integer"
	NumberLong    = "long"
	NumberFloat   = "float"
	NumberDouble  = "double"
)

// NumberClass is a numeric property.
type NumberClass struct {
	PropertyClass
	numberType string
}

// NewNumberClass creates a number property owned by owner. The number type
// defaults to long.
func NewNumberClass(owner *PropertyMetaClass) *NumberClass {
	return &NumberClass{PropertyClass: PropertyClass{owner: owner}, numberType: NumberLong}
}

// NumberType returns the number type.
func (c *NumberClass) NumberType() string { return c.numberType }

// SetNumberType sets the number type.
func (c *NumberClass) SetNumberType(t string) { c.numberType = t }

// FromString parses s according to the number type: int32, int64, float32
// or float64. An empty string parses to nil.
func (c *NumberClass) FromString(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	switch c.numberType {
	case NumberInteger:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", c.numberType, s, err)
		}
		return int32(v), nil
	case NumberLong, "":
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", NumberLong, s, err)
		}
		return v, nil
	case NumberFloat:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", c.numberType, s, err)
		}
		return float32(v), nil
	case NumberDouble:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", c.numberType, s, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown number type %q", c.numberType)
	}
}
