package types

import "strings"

// TypeParams is an ordered list of type arguments, as in Foo<int, string>.
type TypeParams []*Union

// Clone returns a deep copy of p.
func (p TypeParams) Clone() TypeParams {
	if p == nil {
		return nil
	}
	c := make(TypeParams, len(p))
	for i, u := range p {
		c[i] = u.Clone()
	}
	return c
}

func (p TypeParams) keys() string {
	parts := make([]string, len(p))
	for i, u := range p {
		parts[i] = u.Key()
	}
	return strings.Join(parts, ", ")
}

func (p TypeParams) ids() string {
	parts := make([]string, len(p))
	for i, u := range p {
		parts[i] = u.ID()
	}
	return strings.Join(parts, ", ")
}

func (p TypeParams) namespaced(ctx *DisplayContext) string {
	parts := make([]string, len(p))
	for i, u := range p {
		parts[i] = u.NamespacedString(ctx)
	}
	return strings.Join(parts, ", ")
}

func (p TypeParams) nodes() []Node {
	nodes := make([]Node, 0, len(p))
	for _, u := range p {
		if u != nil {
			nodes = append(nodes, u)
		}
	}
	return nodes
}

// Equal reports whether p and q are pairwise equal.
func (p TypeParams) Equal(q TypeParams) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !EqualUnions(p[i], q[i]) {
			return false
		}
	}
	return true
}

// KeyValue returns the key and value slots of an array-like atomic:
// arrays, lists (keyed by int), keyed arrays (their generic view),
// iterables and class-string maps. The returned unions must not be modified.
func KeyValue(a Atomic) (key, value *Union, ok bool) {
	switch t := a.(type) {
	case *Array:
		return t.KeyType, t.ValueType, true
	case *NonEmptyArray:
		return t.KeyType, t.ValueType, true
	case *List:
		return Of(Int), t.ValueType, true
	case *NonEmptyList:
		return Of(Int), t.ValueType, true
	case *KeyedArray:
		return t.GenericKeyType(), t.GenericValueType(), true
	case *Iterable:
		return t.KeyType, t.ValueType, true
	case *ClassStringMap:
		return NewUnion(t.keyParam()), t.ValueType, true
	}
	return nil, nil, false
}
