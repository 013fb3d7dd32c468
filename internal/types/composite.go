package types

import "fmt"

// Array represents array<K, V>.
type Array struct {
	atomic
	KeyType   *Union
	ValueType *Union
}

// NewArray creates a new array type with the given key and value types.
// A nil key is array-key and a nil value is mixed.
func NewArray(key, value *Union) *Array {
	return &Array{KeyType: orKind(key, ArrayKey), ValueType: orKind(value, Mixed)}
}

// orKind returns u, or the basic type of kind when u is nil.
func orKind(u *Union, kind BasicKind) *Union {
	if u == nil {
		return Of(kind)
	}
	return u
}

// Key implements Atomic.
func (a *Array) Key() string { return "array" }

// ID implements Atomic.
func (a *Array) ID() string { return "array<" + TypeParams{a.KeyType, a.ValueType}.ids() + ">" }

// String implements Atomic.
func (a *Array) String() string { return a.ID() }

// NamespacedString implements Atomic.
func (a *Array) NamespacedString(ctx *DisplayContext) string {
	return "array<" + TypeParams{a.KeyType, a.ValueType}.namespaced(ctx) + ">"
}

// NativeString implements Atomic.
func (a *Array) NativeString(ctx *DisplayContext) (string, bool) { return "array", true }

// Clone implements Atomic.
func (a *Array) Clone() Atomic {
	return &Array{KeyType: a.KeyType.Clone(), ValueType: a.ValueType.Clone()}
}

// ChildNodes implements Atomic.
func (a *Array) ChildNodes() []Node { return TypeParams{a.KeyType, a.ValueType}.nodes() }

// NonEmptyArray represents non-empty-array<K, V>.
type NonEmptyArray struct {
	atomic
	KeyType   *Union
	ValueType *Union
	Count     int // known element count, 0 if unknown
}

// NewNonEmptyArray creates a new non-empty array type; nil slots default
// as in NewArray.
func NewNonEmptyArray(key, value *Union) *NonEmptyArray {
	return &NonEmptyArray{KeyType: orKind(key, ArrayKey), ValueType: orKind(value, Mixed)}
}

// Key implements Atomic.
func (a *NonEmptyArray) Key() string { return "non-empty-array" }

// ID implements Atomic.
func (a *NonEmptyArray) ID() string {
	return "non-empty-array<" + TypeParams{a.KeyType, a.ValueType}.ids() + ">" + countSuffix(a.Count)
}

// String implements Atomic.
func (a *NonEmptyArray) String() string { return a.ID() }

// NamespacedString implements Atomic.
func (a *NonEmptyArray) NamespacedString(ctx *DisplayContext) string {
	name := "non-empty-array"
	if ctx.phpdoc() {
		name = "array"
	}
	return name + "<" + TypeParams{a.KeyType, a.ValueType}.namespaced(ctx) + ">"
}

// NativeString implements Atomic.
func (a *NonEmptyArray) NativeString(ctx *DisplayContext) (string, bool) { return "array", true }

// Clone implements Atomic.
func (a *NonEmptyArray) Clone() Atomic {
	return &NonEmptyArray{KeyType: a.KeyType.Clone(), ValueType: a.ValueType.Clone(), Count: a.Count}
}

// ChildNodes implements Atomic.
func (a *NonEmptyArray) ChildNodes() []Node { return TypeParams{a.KeyType, a.ValueType}.nodes() }

// List represents list<T>: an array with sequential integer keys from 0.
type List struct {
	atomic
	ValueType *Union
}

// NewList creates a new list type. A nil value is mixed.
func NewList(value *Union) *List {
	return &List{ValueType: orKind(value, Mixed)}
}

// Key implements Atomic.
func (l *List) Key() string { return "list" }

// ID implements Atomic.
func (l *List) ID() string { return "list<" + l.ValueType.ID() + ">" }

// String implements Atomic.
func (l *List) String() string { return l.ID() }

// NamespacedString implements Atomic.
func (l *List) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "array<int, " + l.ValueType.NamespacedString(ctx) + ">"
	}
	return "list<" + l.ValueType.NamespacedString(ctx) + ">"
}

// NativeString implements Atomic.
func (l *List) NativeString(ctx *DisplayContext) (string, bool) { return "array", true }

// Clone implements Atomic.
func (l *List) Clone() Atomic { return &List{ValueType: l.ValueType.Clone()} }

// ChildNodes implements Atomic.
func (l *List) ChildNodes() []Node { return TypeParams{l.ValueType}.nodes() }

// NonEmptyList represents non-empty-list<T>.
type NonEmptyList struct {
	atomic
	ValueType *Union
	Count     int // known element count, 0 if unknown
}

// NewNonEmptyList creates a new non-empty list type. A nil value is mixed.
func NewNonEmptyList(value *Union) *NonEmptyList {
	return &NonEmptyList{ValueType: orKind(value, Mixed)}
}

// Key implements Atomic.
func (l *NonEmptyList) Key() string { return "non-empty-list" }

// ID implements Atomic.
func (l *NonEmptyList) ID() string { return "non-empty-list<" + l.ValueType.ID() + ">" + countSuffix(l.Count) }

// String implements Atomic.
func (l *NonEmptyList) String() string { return l.ID() }

// NamespacedString implements Atomic.
func (l *NonEmptyList) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "array<int, " + l.ValueType.NamespacedString(ctx) + ">"
	}
	return "non-empty-list<" + l.ValueType.NamespacedString(ctx) + ">"
}

// NativeString implements Atomic.
func (l *NonEmptyList) NativeString(ctx *DisplayContext) (string, bool) { return "array", true }

// Clone implements Atomic.
func (l *NonEmptyList) Clone() Atomic {
	return &NonEmptyList{ValueType: l.ValueType.Clone(), Count: l.Count}
}

// ChildNodes implements Atomic.
func (l *NonEmptyList) ChildNodes() []Node { return TypeParams{l.ValueType}.nodes() }

// Iterable represents iterable<K, V>: an array or a Traversable.
type Iterable struct {
	atomic
	KeyType   *Union
	ValueType *Union
	Intersection
}

// NewIterable creates a new iterable type. Nil slots are mixed.
func NewIterable(key, value *Union) *Iterable {
	return &Iterable{KeyType: orKind(key, Mixed), ValueType: orKind(value, Mixed)}
}

// Key implements Atomic.
func (i *Iterable) Key() string { return "iterable" + i.facetKeys() }

// ID implements Atomic.
func (i *Iterable) ID() string {
	return "iterable<" + TypeParams{i.KeyType, i.ValueType}.ids() + ">" + i.facetIDs()
}

// String implements Atomic.
func (i *Iterable) String() string { return i.ID() }

// NamespacedString implements Atomic.
func (i *Iterable) NamespacedString(ctx *DisplayContext) string {
	return "iterable<" + TypeParams{i.KeyType, i.ValueType}.namespaced(ctx) + ">" + i.facetNamespaced(ctx)
}

// NativeString implements Atomic.
func (i *Iterable) NativeString(ctx *DisplayContext) (string, bool) {
	if len(i.facets) > 0 || !ctx.AtLeast(7, 1) {
		return "", false
	}
	return "iterable", true
}

// Clone implements Atomic.
func (i *Iterable) Clone() Atomic {
	return &Iterable{KeyType: i.KeyType.Clone(), ValueType: i.ValueType.Clone(), Intersection: i.cloneFacets()}
}

// ChildNodes implements Atomic.
func (i *Iterable) ChildNodes() []Node {
	return append(TypeParams{i.KeyType, i.ValueType}.nodes(), i.facetNodes()...)
}

func countSuffix(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("(count=%d)", n)
}
