package types

// NamedObject represents an instance of a named class, as in Foo or Foo&Bar.
type NamedObject struct {
	atomic
	Name      string // fully qualified class name
	WasStatic bool   // written as static
	Intersection
}

// NewNamedObject creates a new named object type.
func NewNamedObject(name string) *NamedObject {
	return &NamedObject{Name: name}
}

// Key implements Atomic.
func (n *NamedObject) Key() string { return n.Name + n.facetKeys() }

// ID implements Atomic.
func (n *NamedObject) ID() string {
	if len(n.facets) > 0 {
		return n.Name + n.facetIDs()
	}
	if n.WasStatic {
		return n.Name + "&static"
	}
	return n.Name
}

// String implements Atomic.
func (n *NamedObject) String() string { return n.ID() }

// NamespacedString implements Atomic.
func (n *NamedObject) NamespacedString(ctx *DisplayContext) string {
	if n.Name == "static" || (n.WasStatic && ctx != nil && SameClass(n.Name, ctx.ThisClass)) {
		return "static" + n.facetNamespaced(ctx)
	}
	return ctx.ClassName(n.Name, true) + n.facetNamespaced(ctx)
}

// NativeString implements Atomic.
func (n *NamedObject) NativeString(ctx *DisplayContext) (string, bool) {
	facets, ok := n.facetNative(ctx)
	if !ok {
		return "", false
	}
	if n.WasStatic && ctx != nil && SameClass(n.Name, ctx.ThisClass) && ctx.AtLeast(8, 0) {
		return "static" + facets, true
	}
	return ctx.ClassName(n.Name, false) + facets, true
}

// Clone implements Atomic.
func (n *NamedObject) Clone() Atomic {
	return &NamedObject{Name: n.Name, WasStatic: n.WasStatic, Intersection: n.cloneFacets()}
}

// ChildNodes implements Atomic.
func (n *NamedObject) ChildNodes() []Node { return n.facetNodes() }

// GenericObject represents an instance of a generic class, as in Collection<int, User>.
type GenericObject struct {
	atomic
	Name   string
	Params TypeParams

	// Remapped marks params produced by template substitution.
	// It is metadata and does not take part in equality.
	Remapped bool
	Intersection
}

// NewGenericObject creates a new generic object type. It needs at least one param.
func NewGenericObject(name string, params ...*Union) (*GenericObject, error) {
	if len(params) == 0 {
		return nil, malformedf("generic object", "%s needs at least one type parameter", name)
	}
	for i, p := range params {
		if p == nil {
			return nil, malformedf("generic object", "%s parameter %d is nil", name, i)
		}
	}
	return &GenericObject{Name: name, Params: params}, nil
}

// Key implements Atomic.
func (g *GenericObject) Key() string { return g.Name + "<" + g.Params.keys() + ">" + g.facetKeys() }

// ID implements Atomic.
func (g *GenericObject) ID() string { return g.Name + "<" + g.Params.ids() + ">" + g.facetIDs() }

// String implements Atomic.
func (g *GenericObject) String() string { return g.ID() }

// NamespacedString implements Atomic.
func (g *GenericObject) NamespacedString(ctx *DisplayContext) string {
	name := ctx.ClassName(g.Name, true)
	if ctx.phpdoc() {
		return name + g.facetNamespaced(ctx)
	}
	return name + "<" + g.Params.namespaced(ctx) + ">" + g.facetNamespaced(ctx)
}

// NativeString implements Atomic.
func (g *GenericObject) NativeString(ctx *DisplayContext) (string, bool) {
	facets, ok := g.facetNative(ctx)
	if !ok {
		return "", false
	}
	return ctx.ClassName(g.Name, false) + facets, true
}

// Clone implements Atomic.
func (g *GenericObject) Clone() Atomic {
	return &GenericObject{Name: g.Name, Params: g.Params.Clone(), Remapped: g.Remapped, Intersection: g.cloneFacets()}
}

// ChildNodes implements Atomic.
func (g *GenericObject) ChildNodes() []Node {
	return append(g.Params.nodes(), g.facetNodes()...)
}
