package types

import "strings"

// ObjectWithProperties represents an object shape such as object{name: string}.
type ObjectWithProperties struct {
	atomic
	props []Property
	Intersection
}

// NewObjectWithProperties creates an object shape. Property keys must be unique strings.
func NewObjectWithProperties(props []Property) (*ObjectWithProperties, error) {
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		if p.Key.IsInt {
			return nil, malformedf("object shape", "property %d is not a name", p.Key.Int)
		}
		if seen[p.Key.Str] {
			return nil, malformedf("object shape", "duplicate property %s", p.Key.Str)
		}
		if p.Type == nil {
			return nil, malformedf("object shape", "property %s has no type", p.Key.Str)
		}
		seen[p.Key.Str] = true
	}
	return &ObjectWithProperties{props: append([]Property(nil), props...)}, nil
}

// Properties returns the properties in insertion order.
func (o *ObjectWithProperties) Properties() []Property {
	return append([]Property(nil), o.props...)
}

// SetProperty replaces the type of an existing property and reports whether it exists.
func (o *ObjectWithProperties) SetProperty(name string, t *Union) bool {
	for i, p := range o.props {
		if p.Key.Str == name {
			o.props[i].Type = t
			return true
		}
	}
	return false
}

func (o *ObjectWithProperties) render(elem func(*Union) string) string {
	var b strings.Builder
	b.WriteString("object{")
	for i, p := range o.props {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Key.display())
		if p.Type.PossiblyUndefined {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(elem(p.Type))
	}
	b.WriteByte('}')
	return b.String()
}

// Key implements Atomic.
func (o *ObjectWithProperties) Key() string { return o.render((*Union).Key) + o.facetKeys() }

// ID implements Atomic.
func (o *ObjectWithProperties) ID() string { return o.render((*Union).ID) + o.facetIDs() }

// String implements Atomic.
func (o *ObjectWithProperties) String() string { return o.ID() }

// NamespacedString implements Atomic.
func (o *ObjectWithProperties) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "object"
	}
	return o.render(func(u *Union) string { return u.NamespacedString(ctx) }) + o.facetNamespaced(ctx)
}

// NativeString implements Atomic.
func (o *ObjectWithProperties) NativeString(ctx *DisplayContext) (string, bool) {
	return Typ[Object].NativeString(ctx)
}

// Clone implements Atomic.
func (o *ObjectWithProperties) Clone() Atomic {
	c := &ObjectWithProperties{props: make([]Property, len(o.props)), Intersection: o.cloneFacets()}
	for i, p := range o.props {
		c.props[i] = Property{Key: p.Key, Type: p.Type.Clone()}
	}
	return c
}

// ChildNodes implements Atomic.
func (o *ObjectWithProperties) ChildNodes() []Node {
	nodes := make([]Node, 0, len(o.props)+len(o.facets))
	for _, p := range o.props {
		nodes = append(nodes, p.Type)
	}
	return append(nodes, o.facetNodes()...)
}
