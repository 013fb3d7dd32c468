package types

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// PropertyKey is a keyed-array property name: an int or a string.
type PropertyKey struct {
	Str   string
	Int   int64
	IsInt bool
}

// IntKey returns the integer property key i.
func IntKey(i int64) PropertyKey { return PropertyKey{Int: i, IsInt: true} }

// StringKey returns the string property key s.
func StringKey(s string) PropertyKey { return PropertyKey{Str: s} }

// String returns the key as written in a shape.
func (k PropertyKey) String() string {
	if k.IsInt {
		return strconv.FormatInt(k.Int, 10)
	}
	return k.Str
}

// display quotes string keys that are not plain identifiers.
func (k PropertyKey) display() string {
	if k.IsInt {
		return k.String()
	}
	if k.Str == "" {
		return "''"
	}
	for i, c := range k.Str {
		ident := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9')
		if !ident {
			return quote(k.Str)
		}
	}
	return k.Str
}

// literal returns the literal type of the key.
func (k PropertyKey) literal() Atomic {
	if k.IsInt {
		return NewLiteralInt(k.Int)
	}
	return NewLiteralString(k.Str)
}

// less orders integer keys numerically before string keys.
func (k PropertyKey) less(o PropertyKey) bool {
	if k.IsInt != o.IsInt {
		return k.IsInt
	}
	if k.IsInt {
		return k.Int < o.Int
	}
	return k.Str < o.Str
}

// Property is one entry of a keyed array or object shape.
// Type.PossiblyUndefined marks an optional entry.
type Property struct {
	Key  PropertyKey
	Type *Union
}

// KeyedArray represents a shaped record such as array{name: string, age?: int}
// or a sealed list such as list{int, string}.
type KeyedArray struct {
	atomic
	props []Property

	// Sealed records admit no keys beyond the listed ones.
	Sealed bool

	// IsList marks a record whose keys are 0..n-1.
	IsList bool

	// Fallback types of the entries beyond the listed ones, for unsealed records.
	PreviousKeyType   *Union
	PreviousValueType *Union
}

// NewKeyedArray creates a sealed keyed array from props.
func NewKeyedArray(props []Property) (*KeyedArray, error) {
	if len(props) == 0 {
		return nil, malformedf("keyed array", "a shape needs at least one property")
	}
	seen := make(map[PropertyKey]bool, len(props))
	for _, p := range props {
		if seen[p.Key] {
			return nil, malformedf("keyed array", "duplicate key %s", p.Key.display())
		}
		if p.Type == nil {
			return nil, malformedf("keyed array", "property %s has no type", p.Key.display())
		}
		seen[p.Key] = true
	}
	return &KeyedArray{props: append([]Property(nil), props...), Sealed: true}, nil
}

// NewSealedList creates list{T0, T1, ...}.
func NewSealedList(types ...*Union) (*KeyedArray, error) {
	props := make([]Property, len(types))
	for i, t := range types {
		props[i] = Property{Key: IntKey(int64(i)), Type: t}
	}
	k, err := NewKeyedArray(props)
	if err != nil {
		return nil, err
	}
	k.IsList = true
	return k, nil
}

// Properties returns the properties in insertion order.
func (k *KeyedArray) Properties() []Property {
	return append([]Property(nil), k.props...)
}

// Property returns the type of the property with the given key.
func (k *KeyedArray) Property(key PropertyKey) (*Union, bool) {
	for _, p := range k.props {
		if p.Key == key {
			return p.Type, true
		}
	}
	return nil, false
}

// SetProperty replaces the type of an existing property and reports whether it exists.
func (k *KeyedArray) SetProperty(key PropertyKey, t *Union) bool {
	for i, p := range k.props {
		if p.Key == key {
			k.props[i].Type = t
			return true
		}
	}
	return false
}

func (k *KeyedArray) sorted() []Property {
	if k.IsList {
		return k.props
	}
	props := k.Properties()
	slices.SortStableFunc(props, func(a, b Property) int {
		switch {
		case a.Key.less(b.Key):
			return -1
		case b.Key.less(a.Key):
			return 1
		}
		return 0
	})
	return props
}

func (k *KeyedArray) render(elem func(*Union) string) string {
	var b strings.Builder
	if k.IsList {
		b.WriteString("list{")
	} else {
		b.WriteString("array{")
	}
	for i, p := range k.sorted() {
		if i > 0 {
			b.WriteString(", ")
		}
		if !k.IsList || p.Type.PossiblyUndefined {
			b.WriteString(p.Key.display())
			if p.Type.PossiblyUndefined {
				b.WriteByte('?')
			}
			b.WriteString(": ")
		}
		b.WriteString(elem(p.Type))
	}
	if !k.Sealed {
		b.WriteString(", ...")
		switch {
		case k.IsList && k.PreviousValueType != nil:
			b.WriteString("<" + elem(k.PreviousValueType) + ">")
		case k.PreviousKeyType != nil && k.PreviousValueType != nil:
			b.WriteString("<" + elem(k.PreviousKeyType) + ", " + elem(k.PreviousValueType) + ">")
		}
	}
	b.WriteByte('}')
	return b.String()
}

// Key returns "array"; all shapes share a union slot.
func (k *KeyedArray) Key() string { return "array" }

// ID implements Atomic.
func (k *KeyedArray) ID() string { return k.render((*Union).ID) }

// String implements Atomic.
func (k *KeyedArray) String() string { return k.ID() }

// NamespacedString implements Atomic.
func (k *KeyedArray) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return k.GenericArray().NamespacedString(ctx)
	}
	return k.render(func(u *Union) string { return u.NamespacedString(ctx) })
}

// NativeString implements Atomic.
func (k *KeyedArray) NativeString(ctx *DisplayContext) (string, bool) { return "array", true }

// Clone implements Atomic.
func (k *KeyedArray) Clone() Atomic {
	c := &KeyedArray{
		props:             make([]Property, len(k.props)),
		Sealed:            k.Sealed,
		IsList:            k.IsList,
		PreviousKeyType:   k.PreviousKeyType.Clone(),
		PreviousValueType: k.PreviousValueType.Clone(),
	}
	for i, p := range k.props {
		c.props[i] = Property{Key: p.Key, Type: p.Type.Clone()}
	}
	return c
}

// ChildNodes implements Atomic.
func (k *KeyedArray) ChildNodes() []Node {
	nodes := make([]Node, 0, len(k.props)+2)
	for _, p := range k.props {
		nodes = append(nodes, p.Type)
	}
	if k.PreviousKeyType != nil {
		nodes = append(nodes, k.PreviousKeyType)
	}
	if k.PreviousValueType != nil {
		nodes = append(nodes, k.PreviousValueType)
	}
	return nodes
}

// GenericKeyType returns the union of the property keys and, for unsealed
// records, the fallback key type.
func (k *KeyedArray) GenericKeyType() *Union {
	keys := make([]Atomic, 0, len(k.props))
	for _, p := range k.props {
		keys = append(keys, p.Key.literal())
	}
	u := Combine(NewUnion(keys...))
	if !k.Sealed {
		fallback := k.PreviousKeyType
		if fallback == nil {
			fallback = Of(ArrayKey)
			if k.IsList {
				fallback = Of(Int)
			}
		}
		u = Combine(u, fallback)
	}
	return u
}

// GenericValueType returns the union of the property types and, for
// unsealed records, the fallback value type.
func (k *KeyedArray) GenericValueType() *Union {
	values := make([]*Union, 0, len(k.props)+1)
	for _, p := range k.props {
		values = append(values, p.Type)
	}
	if !k.Sealed {
		if k.PreviousValueType != nil {
			values = append(values, k.PreviousValueType)
		} else {
			values = append(values, Of(Mixed))
		}
	}
	u := Combine(values...)
	u.PossiblyUndefined = false
	return u
}

// GenericArray returns the generic array view of the record.
func (k *KeyedArray) GenericArray() Atomic {
	allDefined := true
	for _, p := range k.props {
		if p.Type.PossiblyUndefined {
			allDefined = false
		}
	}
	count := 0
	if allDefined && k.Sealed {
		count = len(k.props)
	}
	value := k.GenericValueType()
	if k.IsList {
		if allDefined {
			return &NonEmptyList{ValueType: value, Count: count}
		}
		return NewList(value)
	}
	key := k.GenericKeyType()
	if allDefined {
		return &NonEmptyArray{KeyType: key, ValueType: value, Count: count}
	}
	return NewArray(key, value)
}
