package meta

// NumberClassName is the class name NumberMetaClass describes.
const NumberClassName = "com.xpn.xwiki.objects.classes.NumberClass"

// NumberMetaClass describes NumberClass: its numberType and size fields.
type NumberMetaClass struct {
	PropertyMetaClass
}

// NewNumberMetaClass builds the Number meta-class.
func NewNumberMetaClass() *NumberMetaClass {
	m := &NumberMetaClass{}
	m.name = NumberClassName
	m.prettyName = "Number Class"

	typeClass := NewStaticListClass(&m.PropertyMetaClass)
	typeClass.SetName("numberType")
	typeClass.SetPrettyName("Number Type")
	typeClass.SetValues("integer|long|float|double")
	typeClass.SetRelationalStorage(false)
	typeClass.SetDisplayType("select")
	typeClass.SetMultiSelect(false)
	typeClass.SetSize(1)

	sizeClass := NewNumberClass(&m.PropertyMetaClass)
	sizeClass.SetName("size")
	sizeClass.SetPrettyName("Size")
	sizeClass.SetSize(5)
	sizeClass.SetNumberType(NumberInteger)

	m.SafePut("numberType", typeClass)
	m.SafePut("size", sizeClass)
	return m
}

// NewObject returns a fresh NumberClass.
func (m *NumberMetaClass) NewObject() *NumberClass {
	return NewNumberClass(nil)
}

// NumberType returns the numberType field.
func (m *NumberMetaClass) NumberType() *StaticListClass {
	p, _ := m.Field("numberType")
	c, _ := p.(*StaticListClass)
	return c
}

// Size returns the size field.
func (m *NumberMetaClass) Size() *NumberClass {
	p, _ := m.Field("size")
	c, _ := p.(*NumberClass)
	return c
}
