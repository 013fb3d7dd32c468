package types

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Union is an ordered set of atomic types, deduplicated by slot key.
type Union struct {
	types []Atomic
	slots map[string]int

	// PossiblyUndefined marks a keyed-array property or argument that may be absent.
	PossiblyUndefined bool

	// HadTemplate records that template substitution produced this union.
	HadTemplate bool
}

func (*Union) aNode() {}

// NewUnion returns a union of ts. An empty union is never.
// A later atomic with the same slot key replaces the earlier one in place.
func NewUnion(ts ...Atomic) *Union {
	u := &Union{slots: make(map[string]int, len(ts))}
	for _, t := range ts {
		u.Add(t)
	}
	if len(u.types) == 0 {
		u.Add(Typ[Never])
	}
	return u
}

// slotKey returns the key under which a is stored in a union.
// Literals keep their values apart and placeholders keep their scopes apart.
func slotKey(a Atomic) string {
	switch t := a.(type) {
	case *LiteralInt, *LiteralFloat, *LiteralString, *LiteralClassString:
		return a.ID()
	case *TemplateParam:
		return t.Name + ":" + t.Scope + t.facetKeys()
	}
	return a.Key()
}

// Add inserts a into u, replacing an atomic with the same slot key.
func (u *Union) Add(a Atomic) {
	if u.slots == nil {
		u.slots = make(map[string]int)
	}
	k := slotKey(a)
	if i, ok := u.slots[k]; ok {
		u.types[i] = a
		return
	}
	if len(u.types) == 1 && isNeverAtomic(u.types[0]) && !isNeverAtomic(a) {
		u.types = u.types[:0]
		u.slots = map[string]int{}
	}
	u.slots[k] = len(u.types)
	u.types = append(u.types, a)
}

// Remove deletes the atomic stored under slot key k and reports whether it was present.
func (u *Union) Remove(k string) bool {
	i, ok := u.slots[k]
	if !ok {
		return false
	}
	u.types = append(u.types[:i], u.types[i+1:]...)
	u.reindex()
	return true
}

func (u *Union) reindex() {
	u.slots = make(map[string]int, len(u.types))
	for i, t := range u.types {
		u.slots[slotKey(t)] = i
	}
}

// Atomics returns the atomic types in insertion order.
func (u *Union) Atomics() []Atomic {
	return slices.Clone(u.types)
}

// Len returns the number of atomic types.
func (u *Union) Len() int {
	return len(u.types)
}

// Single returns the only atomic of u, or nil.
func (u *Union) Single() Atomic {
	if len(u.types) != 1 {
		return nil
	}
	return u.types[0]
}

// Has reports whether u holds an atomic with slot key k.
func (u *Union) Has(k string) bool {
	_, ok := u.slots[k]
	return ok
}

// IsSingle reports whether u holds exactly one atomic.
func (u *Union) IsSingle() bool { return len(u.types) == 1 }

// IsMixed reports whether u is exactly mixed.
func (u *Union) IsMixed() bool { return u.isSingleKind(Mixed) }

// IsNever reports whether u is exactly never.
func (u *Union) IsNever() bool { return u.isSingleKind(Never) }

// IsNull reports whether u is exactly null.
func (u *Union) IsNull() bool { return u.isSingleKind(Null) }

// IsVoid reports whether u is exactly void.
func (u *Union) IsVoid() bool { return u.isSingleKind(Void) }

// IsArrayKey reports whether u is exactly array-key.
func (u *Union) IsArrayKey() bool { return u.isSingleKind(ArrayKey) }

func (u *Union) isSingleKind(kind BasicKind) bool {
	if len(u.types) != 1 {
		return false
	}
	b, ok := u.types[0].(*Basic)
	return ok && b.kind == kind
}

// HasMixed reports whether any atomic of u is mixed.
func (u *Union) HasMixed() bool { return u.Has("mixed") }

// IsNullable reports whether u admits null.
func (u *Union) IsNullable() bool { return u.Has("null") || u.HasMixed() }

// HasTemplate reports whether u contains a template placeholder at any depth.
func (u *Union) HasTemplate() bool {
	found := false
	Walk(u, func(n Node) bool {
		switch n.(type) {
		case *TemplateParam, *TemplateParamClass, *TemplateKeyOf, *TemplateIndexedAccess, *Conditional:
			found = true
		}
		return !found
	})
	return found
}

// Clone returns a deep copy of u.
func (u *Union) Clone() *Union {
	if u == nil {
		return nil
	}
	c := &Union{
		types:             make([]Atomic, len(u.types)),
		slots:             make(map[string]int, len(u.slots)),
		PossiblyUndefined: u.PossiblyUndefined,
		HadTemplate:       u.HadTemplate,
	}
	for i, t := range u.types {
		c.types[i] = t.Clone()
	}
	for k, i := range u.slots {
		c.slots[k] = i
	}
	return c
}

// ChildNodes returns the atomics of u.
func (u *Union) ChildNodes() []Node {
	nodes := make([]Node, len(u.types))
	for i, t := range u.types {
		nodes[i] = t
	}
	return nodes
}

// Key returns the sorted atomic keys joined by "|".
func (u *Union) Key() string {
	keys := make([]string, 0, len(u.types))
	for _, t := range u.types {
		k := t.Key()
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return strings.Join(keys, "|")
}

// ID returns the sorted atomic ids joined by "|".
// Bounded placeholders are parenthesized when they share the union.
func (u *Union) ID() string {
	ids := make([]string, len(u.types))
	for i, t := range u.types {
		id := t.ID()
		if len(u.types) > 1 {
			if tp, ok := t.(*TemplateParam); ok && len(tp.Facets()) == 0 {
				id = "(" + id + ")"
			}
		}
		ids[i] = id
	}
	slices.Sort(ids)
	return strings.Join(ids, "|")
}

// String returns the ID of u, or "<nil>".
func (u *Union) String() string {
	if u == nil {
		return "<nil>"
	}
	return u.ID()
}

// NamespacedString renders u for a docblock, keeping insertion order.
func (u *Union) NamespacedString(ctx *DisplayContext) string {
	parts := make([]string, 0, len(u.types))
	for _, t := range u.types {
		s := t.NamespacedString(ctx)
		if !slices.Contains(parts, s) {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "|")
}

// NativeString renders u as a native declaration: T, ?T, or A|B from PHP 8.0.
func (u *Union) NativeString(ctx *DisplayContext) (string, bool) {
	var (
		natives           []string
		nullable          bool
		hasTrue, hasFalse bool
	)
	for _, t := range u.types {
		if b, ok := t.(*Basic); ok {
			switch b.kind {
			case Null:
				nullable = true
				continue
			case True:
				hasTrue = true
				continue
			case False:
				hasFalse = true
				continue
			}
		}
		s, ok := t.NativeString(ctx)
		if !ok {
			return "", false
		}
		natives = appendUnique(natives, s)
	}
	switch {
	case hasTrue && hasFalse:
		natives = appendUnique(natives, "bool")
	case hasTrue || hasFalse:
		// false joins a union from 8.0, true and standalone false need 8.2
		if (hasTrue || len(natives) == 0) && !ctx.AtLeast(8, 2) {
			return "", false
		}
		if hasTrue {
			natives = append(natives, "true")
		} else {
			natives = append(natives, "false")
		}
	}

	switch len(natives) {
	case 0:
		if nullable {
			return Typ[Null].NativeString(ctx)
		}
		return "", false
	case 1:
		s := natives[0]
		if !nullable || s == "mixed" {
			return s, true
		}
		if s == "void" || s == "never" {
			return "", false
		}
		if strings.Contains(s, "&") {
			if !ctx.AtLeast(8, 2) {
				return "", false
			}
			return "(" + s + ")|null", true
		}
		if !ctx.AtLeast(7, 1) {
			return "", false
		}
		return "?" + s, true
	}

	if !ctx.AtLeast(8, 0) {
		return "", false
	}
	for i, s := range natives {
		switch {
		case s == "mixed" || s == "void" || s == "never":
			return "", false
		case strings.Contains(s, "&"):
			if !ctx.AtLeast(8, 2) {
				return "", false
			}
			natives[i] = "(" + s + ")"
		}
	}
	if nullable {
		natives = append(natives, "null")
	}
	return strings.Join(natives, "|"), true
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

func isNeverAtomic(a Atomic) bool {
	b, ok := a.(*Basic)
	return ok && b.kind == Never
}
