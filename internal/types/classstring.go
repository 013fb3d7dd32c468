package types

// ClassStringFlavor distinguishes the string handles that name code entities.
type ClassStringFlavor int

const (
	ClassStringPlain ClassStringFlavor = iota // class-string
	TraitString                               // trait-string
	CallableString                            // callable-string
)

var flavorNames = [...]string{
	ClassStringPlain: "class-string",
	TraitString:      "trait-string",
	CallableString:   "callable-string",
}

// String returns the keyword of f.
func (f ClassStringFlavor) String() string { return flavorNames[f] }

// ClassString represents class-string or class-string<Foo>: the name of a
// class that is an instance of As.
type ClassString struct {
	atomic
	Flavor ClassStringFlavor
	As     string // bound class name, "object" when unbounded
	AsType Atomic // *NamedObject or *GenericObject for bounded class-strings, else nil
}

// NewClassString creates class-string<as>. A nil as gives an unbounded class-string.
func NewClassString(as Atomic) (*ClassString, error) {
	if as == nil {
		return &ClassString{As: "object"}, nil
	}
	name, err := classBound(as)
	if err != nil {
		return nil, err
	}
	if name == "object" {
		as = nil
	}
	return &ClassString{As: name, AsType: as}, nil
}

func classBound(as Atomic) (string, error) {
	switch t := as.(type) {
	case *NamedObject:
		return t.Name, nil
	case *GenericObject:
		return t.Name, nil
	case *Basic:
		if t.kind == Object {
			return "object", nil
		}
	}
	return "", malformedf("class-string", "bound %s is not a class", as.ID())
}

func (c *ClassString) bounded() bool { return c.AsType != nil && c.As != "object" }

// Key implements Atomic.
func (c *ClassString) Key() string {
	if c.bounded() {
		return c.Flavor.String() + "<" + c.AsType.Key() + ">"
	}
	return c.Flavor.String()
}

// ID implements Atomic.
func (c *ClassString) ID() string {
	if c.bounded() {
		return c.Flavor.String() + "<" + c.AsType.ID() + ">"
	}
	return c.Flavor.String()
}

// String implements Atomic.
func (c *ClassString) String() string { return c.ID() }

// NamespacedString implements Atomic.
func (c *ClassString) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "string"
	}
	if c.bounded() {
		return c.Flavor.String() + "<" + c.AsType.NamespacedString(ctx) + ">"
	}
	return c.Flavor.String()
}

// NativeString implements Atomic.
func (c *ClassString) NativeString(ctx *DisplayContext) (string, bool) { return "string", true }

// Clone implements Atomic.
func (c *ClassString) Clone() Atomic {
	cl := &ClassString{Flavor: c.Flavor, As: c.As}
	if c.AsType != nil {
		cl.AsType = c.AsType.Clone()
	}
	return cl
}

// ChildNodes implements Atomic.
func (c *ClassString) ChildNodes() []Node {
	if c.AsType == nil {
		return nil
	}
	return []Node{c.AsType}
}

// TemplateParamClass represents class-string<T> for a template parameter T.
type TemplateParamClass struct {
	atomic
	Name   string
	Scope  string
	As     string // bound class name, "object" when unbounded
	AsType Atomic // *NamedObject or *GenericObject, or nil
}

// NewTemplateParamClass creates class-string<T> where T is bounded by as.
func NewTemplateParamClass(name, scope string, as Atomic) (*TemplateParamClass, error) {
	if as == nil {
		return &TemplateParamClass{Name: name, Scope: scope, As: "object"}, nil
	}
	bound, err := classBound(as)
	if err != nil {
		return nil, err
	}
	if bound == "object" {
		as = nil
	}
	return &TemplateParamClass{Name: name, Scope: scope, As: bound, AsType: as}, nil
}

// Bound returns the class-string the placeholder stands for when unresolved.
func (t *TemplateParamClass) Bound() *ClassString {
	c := &ClassString{As: t.As}
	if t.AsType != nil {
		c.AsType = t.AsType.Clone()
	}
	return c
}

// Key implements Atomic.
func (t *TemplateParamClass) Key() string { return "class-string<" + t.Name + ">" }

// ID implements Atomic.
func (t *TemplateParamClass) ID() string {
	as := t.As
	if t.AsType != nil {
		as = t.AsType.ID()
	}
	return "class-string<" + t.Name + ":" + t.Scope + " as " + as + ">"
}

// String implements Atomic.
func (t *TemplateParamClass) String() string { return t.ID() }

// NamespacedString implements Atomic.
func (t *TemplateParamClass) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "string"
	}
	return "class-string<" + t.Name + ">"
}

// NativeString implements Atomic.
func (t *TemplateParamClass) NativeString(ctx *DisplayContext) (string, bool) { return "string", true }

// Clone implements Atomic.
func (t *TemplateParamClass) Clone() Atomic {
	c := &TemplateParamClass{Name: t.Name, Scope: t.Scope, As: t.As}
	if t.AsType != nil {
		c.AsType = t.AsType.Clone()
	}
	return c
}

// ChildNodes implements Atomic.
func (t *TemplateParamClass) ChildNodes() []Node {
	if t.AsType == nil {
		return nil
	}
	return []Node{t.AsType}
}

// ClassStringMapScope is the scope of the placeholder declared by a class-string map.
const ClassStringMapScope = "class-string-map"

// ClassStringMap represents class-string-map<T as Foo, V>: an array keyed by
// class-string<T> whose values depend on T.
type ClassStringMap struct {
	atomic
	Param     string
	AsType    Atomic // *NamedObject bound of Param, nil for object
	ValueType *Union
}

// NewClassStringMap creates class-string-map<param as as, value>.
func NewClassStringMap(param string, as Atomic, value *Union) (*ClassStringMap, error) {
	if as != nil {
		bound, err := classBound(as)
		if err != nil {
			return nil, err
		}
		if bound == "object" {
			as = nil
		}
	}
	if value == nil {
		return nil, malformedf("class-string-map", "missing value type")
	}
	return &ClassStringMap{Param: param, AsType: as, ValueType: value}, nil
}

func (m *ClassStringMap) keyParam() *TemplateParamClass {
	k := &TemplateParamClass{Name: m.Param, Scope: ClassStringMapScope, As: "object"}
	if m.AsType != nil {
		k.AsType = m.AsType.Clone()
		k.As, _ = classBound(m.AsType)
	}
	return k
}

func (m *ClassStringMap) bound(elem func(Atomic) string) string {
	if m.AsType == nil {
		return "object"
	}
	return elem(m.AsType)
}

// Key implements Atomic.
func (m *ClassStringMap) Key() string {
	return "class-string-map<" + m.Param + " as " + m.bound(Atomic.Key) + ", " + m.ValueType.Key() + ">"
}

// ID implements Atomic.
func (m *ClassStringMap) ID() string {
	return "class-string-map<" + m.Param + " as " + m.bound(Atomic.ID) + ", " + m.ValueType.ID() + ">"
}

// String implements Atomic.
func (m *ClassStringMap) String() string { return m.ID() }

// NamespacedString implements Atomic.
func (m *ClassStringMap) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "array<string, " + m.ValueType.NamespacedString(ctx) + ">"
	}
	as := m.bound(func(a Atomic) string { return a.NamespacedString(ctx) })
	return "class-string-map<" + m.Param + " as " + as + ", " + m.ValueType.NamespacedString(ctx) + ">"
}

// NativeString implements Atomic.
func (m *ClassStringMap) NativeString(ctx *DisplayContext) (string, bool) { return "array", true }

// Clone implements Atomic.
func (m *ClassStringMap) Clone() Atomic {
	c := &ClassStringMap{Param: m.Param, ValueType: m.ValueType.Clone()}
	if m.AsType != nil {
		c.AsType = m.AsType.Clone()
	}
	return c
}

// ChildNodes implements Atomic.
func (m *ClassStringMap) ChildNodes() []Node {
	if m.AsType == nil {
		return []Node{m.ValueType}
	}
	return []Node{m.AsType, m.ValueType}
}
