package types

import "strings"

// Intersection holds the extra facets of an intersection type such as
// Foo&Bar. It is embedded by the variants that may carry facets.
type Intersection struct {
	facets []Atomic
}

// Facets returns the facets in insertion order, or nil.
func (x *Intersection) Facets() []Atomic {
	if len(x.facets) == 0 {
		return nil
	}
	return append([]Atomic(nil), x.facets...)
}

// AddFacet adds a to the intersection, replacing a facet with the same key.
// Only object-like types may be facets.
func (x *Intersection) AddFacet(a Atomic) error {
	switch a.(type) {
	case *NamedObject, *GenericObject, *TemplateParam, *Iterable, *ObjectWithProperties:
	default:
		return malformedf("intersection", "%s cannot be an intersection facet", a.ID())
	}
	for i, f := range x.facets {
		if f.Key() == a.Key() {
			x.facets[i] = a
			return nil
		}
	}
	x.facets = append(x.facets, a)
	return nil
}

// SetFacets replaces all facets without validation.
// It is used by rewrites that map facets one to one.
func (x *Intersection) SetFacets(facets []Atomic) {
	x.facets = facets
}

func (x *Intersection) cloneFacets() Intersection {
	if len(x.facets) == 0 {
		return Intersection{}
	}
	c := make([]Atomic, len(x.facets))
	for i, f := range x.facets {
		c[i] = f.Clone()
	}
	return Intersection{facets: c}
}

func (x *Intersection) facetKeys() string {
	var b strings.Builder
	for _, f := range x.facets {
		b.WriteByte('&')
		b.WriteString(f.Key())
	}
	return b.String()
}

func (x *Intersection) facetIDs() string {
	var b strings.Builder
	for _, f := range x.facets {
		b.WriteByte('&')
		if tp, ok := f.(*TemplateParam); ok && len(tp.facets) == 0 {
			b.WriteString("(" + tp.ID() + ")")
			continue
		}
		b.WriteString(f.ID())
	}
	return b.String()
}

func (x *Intersection) facetNamespaced(ctx *DisplayContext) string {
	var b strings.Builder
	for _, f := range x.facets {
		b.WriteByte('&')
		b.WriteString(f.NamespacedString(ctx))
	}
	return b.String()
}

// facetNative renders the facets natively; intersections need PHP 8.1.
func (x *Intersection) facetNative(ctx *DisplayContext) (string, bool) {
	if len(x.facets) == 0 {
		return "", true
	}
	if !ctx.AtLeast(8, 1) {
		return "", false
	}
	var b strings.Builder
	for _, f := range x.facets {
		s, ok := f.NativeString(ctx)
		if !ok || strings.ContainsAny(s, "|?") {
			return "", false
		}
		b.WriteByte('&')
		b.WriteString(s)
	}
	return b.String(), true
}

func (x *Intersection) facetNodes() []Node {
	nodes := make([]Node, len(x.facets))
	for i, f := range x.facets {
		nodes[i] = f
	}
	return nodes
}

func equalFacets(x, y *Intersection) bool {
	if len(x.facets) != len(y.facets) {
		return false
	}
	for i, f := range x.facets {
		if !Equal(f, y.facets[i]) {
			return false
		}
	}
	return true
}
