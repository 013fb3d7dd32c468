package types

// TemplateParam is a placeholder for a template parameter T declared by
// Scope, a class name or "fn-" followed by a function name.
type TemplateParam struct {
	atomic
	Name  string
	Scope string
	As    *Union // declared upper bound
	Intersection
}

// NewTemplateParam creates a placeholder bounded by as; a nil bound is mixed.
func NewTemplateParam(name, scope string, as *Union) *TemplateParam {
	if as == nil {
		as = Of(Mixed)
	}
	return &TemplateParam{Name: name, Scope: scope, As: as}
}

// Key implements Atomic.
func (t *TemplateParam) Key() string { return t.Name + t.facetKeys() }

// ID implements Atomic.
func (t *TemplateParam) ID() string {
	id := t.Name + ":" + t.Scope + " as " + t.As.ID()
	if len(t.facets) > 0 {
		return "(" + id + ")" + t.facetIDs()
	}
	return id
}

// String implements Atomic.
func (t *TemplateParam) String() string { return t.ID() }

// NamespacedString implements Atomic.
func (t *TemplateParam) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return t.As.NamespacedString(ctx)
	}
	return t.Name + t.facetNamespaced(ctx)
}

// NativeString implements Atomic.
func (t *TemplateParam) NativeString(ctx *DisplayContext) (string, bool) { return "", false }

// Clone implements Atomic.
func (t *TemplateParam) Clone() Atomic {
	return &TemplateParam{Name: t.Name, Scope: t.Scope, As: t.As.Clone(), Intersection: t.cloneFacets()}
}

// ChildNodes implements Atomic.
func (t *TemplateParam) ChildNodes() []Node {
	return append([]Node{t.As}, t.facetNodes()...)
}

// TemplateKeyOf represents key-of<T> for a template parameter T.
type TemplateKeyOf struct {
	atomic
	Name  string
	Scope string
	As    *Union // bound of T
}

// Key implements Atomic.
func (t *TemplateKeyOf) Key() string { return "key-of<" + t.Name + ">" }

// ID implements Atomic.
func (t *TemplateKeyOf) ID() string { return "key-of<" + t.Name + ":" + t.Scope + ">" }

// String implements Atomic.
func (t *TemplateKeyOf) String() string { return t.ID() }

// NamespacedString implements Atomic.
func (t *TemplateKeyOf) NamespacedString(ctx *DisplayContext) string {
	return "key-of<" + t.Name + ">"
}

// NativeString implements Atomic.
func (t *TemplateKeyOf) NativeString(ctx *DisplayContext) (string, bool) { return "", false }

// Clone implements Atomic.
func (t *TemplateKeyOf) Clone() Atomic {
	return &TemplateKeyOf{Name: t.Name, Scope: t.Scope, As: t.As.Clone()}
}

// ChildNodes implements Atomic.
func (t *TemplateKeyOf) ChildNodes() []Node { return TypeParams{t.As}.nodes() }

// TemplateIndexedAccess represents T[K] for template parameters T and K.
type TemplateIndexedAccess struct {
	atomic
	ArrayParam  string
	OffsetParam string
	Scope       string
}

// Key implements Atomic.
func (t *TemplateIndexedAccess) Key() string { return t.ArrayParam + "[" + t.OffsetParam + "]" }

// ID implements Atomic.
func (t *TemplateIndexedAccess) ID() string { return t.ArrayParam + ":" + t.Scope + "[" + t.OffsetParam + "]" }

// String implements Atomic.
func (t *TemplateIndexedAccess) String() string { return t.ID() }

// NamespacedString implements Atomic.
func (t *TemplateIndexedAccess) NamespacedString(ctx *DisplayContext) string { return t.Key() }

// NativeString implements Atomic.
func (t *TemplateIndexedAccess) NativeString(ctx *DisplayContext) (string, bool) { return "", false }

// Clone implements Atomic.
func (t *TemplateIndexedAccess) Clone() Atomic {
	c := *t
	return &c
}

// ChildNodes implements Atomic.
func (t *TemplateIndexedAccess) ChildNodes() []Node { return nil }

// Conditional represents (T is Condition ? If : Else).
type Conditional struct {
	atomic
	Name      string
	Scope     string
	As        *Union // bound of T
	Condition *Union
	If        *Union
	Else      *Union
}

// Key implements Atomic.
func (c *Conditional) Key() string {
	return "(" + c.Name + " is " + c.Condition.Key() + " ? " + c.If.Key() + " : " + c.Else.Key() + ")"
}

// ID implements Atomic.
func (c *Conditional) ID() string {
	return "(" + c.Name + ":" + c.Scope + " is " + c.Condition.ID() + " ? " + c.If.ID() + " : " + c.Else.ID() + ")"
}

// String implements Atomic.
func (c *Conditional) String() string { return c.ID() }

// NamespacedString implements Atomic.
func (c *Conditional) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return Combine(c.If, c.Else).NamespacedString(ctx)
	}
	return "(" + c.Name + " is " + c.Condition.NamespacedString(ctx) + " ? " +
		c.If.NamespacedString(ctx) + " : " + c.Else.NamespacedString(ctx) + ")"
}

// NativeString implements Atomic.
func (c *Conditional) NativeString(ctx *DisplayContext) (string, bool) { return "", false }

// Clone implements Atomic.
func (c *Conditional) Clone() Atomic {
	return &Conditional{
		Name:      c.Name,
		Scope:     c.Scope,
		As:        c.As.Clone(),
		Condition: c.Condition.Clone(),
		If:        c.If.Clone(),
		Else:      c.Else.Clone(),
	}
}

// ChildNodes implements Atomic.
func (c *Conditional) ChildNodes() []Node {
	return TypeParams{c.As, c.Condition, c.If, c.Else}.nodes()
}

// TypeAlias refers to a type alias declared by a class, as in Foo::MyShape.
type TypeAlias struct {
	atomic
	Class string
	Alias string
}

// Key implements Atomic.
func (t *TypeAlias) Key() string { return t.Class + "::" + t.Alias }

// ID implements Atomic.
func (t *TypeAlias) ID() string { return t.Key() }

// String implements Atomic.
func (t *TypeAlias) String() string { return t.ID() }

// NamespacedString implements Atomic.
func (t *TypeAlias) NamespacedString(ctx *DisplayContext) string {
	return ctx.ClassName(t.Class, true) + "::" + t.Alias
}

// NativeString implements Atomic.
func (t *TypeAlias) NativeString(ctx *DisplayContext) (string, bool) { return "", false }

// Clone implements Atomic.
func (t *TypeAlias) Clone() Atomic { return &TypeAlias{Class: t.Class, Alias: t.Alias} }

// ChildNodes implements Atomic.
func (t *TypeAlias) ChildNodes() []Node { return nil }

// KeyOfClassConstant represents key-of<Foo::BAR> for an array constant.
type KeyOfClassConstant struct {
	atomic
	Class string
	Const string
}

// Key implements Atomic.
func (k *KeyOfClassConstant) Key() string { return "key-of<" + k.Class + "::" + k.Const + ">" }

// ID implements Atomic.
func (k *KeyOfClassConstant) ID() string { return k.Key() }

// String implements Atomic.
func (k *KeyOfClassConstant) String() string { return k.ID() }

// NamespacedString implements Atomic.
func (k *KeyOfClassConstant) NamespacedString(ctx *DisplayContext) string {
	return "key-of<" + ctx.ClassName(k.Class, true) + "::" + k.Const + ">"
}

// NativeString implements Atomic.
func (k *KeyOfClassConstant) NativeString(ctx *DisplayContext) (string, bool) { return "", false }

// Clone implements Atomic.
func (k *KeyOfClassConstant) Clone() Atomic { return &KeyOfClassConstant{Class: k.Class, Const: k.Const} }

// ChildNodes implements Atomic.
func (k *KeyOfClassConstant) ChildNodes() []Node { return nil }

// ValueOfClassConstant represents value-of<Foo::BAR> for an array constant.
type ValueOfClassConstant struct {
	atomic
	Class string
	Const string
}

// Key implements Atomic.
func (v *ValueOfClassConstant) Key() string { return "value-of<" + v.Class + "::" + v.Const + ">" }

// ID implements Atomic.
func (v *ValueOfClassConstant) ID() string { return v.Key() }

// String implements Atomic.
func (v *ValueOfClassConstant) String() string { return v.ID() }

// NamespacedString implements Atomic.
func (v *ValueOfClassConstant) NamespacedString(ctx *DisplayContext) string {
	return "value-of<" + ctx.ClassName(v.Class, true) + "::" + v.Const + ">"
}

// NativeString implements Atomic.
func (v *ValueOfClassConstant) NativeString(ctx *DisplayContext) (string, bool) { return "", false }

// Clone implements Atomic.
func (v *ValueOfClassConstant) Clone() Atomic { return &ValueOfClassConstant{Class: v.Class, Const: v.Const} }

// ChildNodes implements Atomic.
func (v *ValueOfClassConstant) ChildNodes() []Node { return nil }
