package template

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
	"golang.org/x/exp/slices"

	"github.com/you-not-fish/phptype/internal/types"
)

// ReplaceWithArgTypes returns a copy of u with every placeholder replaced by
// its binding in result. Placeholders without a binding are replaced by
// their declared bound. u is never modified.
func ReplaceWithArgTypes(u *types.Union, result *TemplateResult, cb Codebase) *types.Union {
	if u == nil {
		return nil
	}
	if result == nil {
		result = NewTemplateResult()
	}
	s := &argTypes{result: result, cb: cb}
	return s.union(u.Clone())
}

// ReplaceAtomicWithArgTypes is ReplaceWithArgTypes for a single atomic.
// The result is a union since a placeholder may expand to several atomics.
func ReplaceAtomicWithArgTypes(a types.Atomic, result *TemplateResult, cb Codebase) *types.Union {
	return ReplaceWithArgTypes(types.NewUnion(a), result, cb)
}

type argTypes struct {
	result *TemplateResult
	cb     Codebase
}

// union substitutes u, which the caller owns, and returns the result.
// u itself is returned when it holds no placeholder at the top level.
func (s *argTypes) union(u *types.Union) *types.Union {
	if u == nil {
		return nil
	}
	var kept, added []types.Atomic
	replaced := false
	for _, a := range u.Atomics() {
		s.atomic(a)
		repl, ok := s.placeholder(a)
		if !ok {
			kept = append(kept, a)
			continue
		}
		replaced = true
		added = append(added, repl.Atomics()...)
	}
	if !replaced {
		return u
	}
	r := types.CombineAtomics(append(kept, added...)...)
	r.PossiblyUndefined = u.PossiblyUndefined
	return r
}

// key substitutes a key slot. An unconstrained key is array-key.
func (s *argTypes) key(u *types.Union) *types.Union {
	r := s.union(u)
	if r != nil && r.IsMixed() {
		return types.Of(types.ArrayKey)
	}
	return r
}

// atomic substitutes the children of a in place.
func (s *argTypes) atomic(a types.Atomic) {
	switch t := a.(type) {
	case *types.Array:
		t.KeyType, t.ValueType = s.key(t.KeyType), s.union(t.ValueType)
	case *types.NonEmptyArray:
		t.KeyType, t.ValueType = s.key(t.KeyType), s.union(t.ValueType)
	case *types.List:
		t.ValueType = s.union(t.ValueType)
	case *types.NonEmptyList:
		t.ValueType = s.union(t.ValueType)
	case *types.Iterable:
		t.KeyType, t.ValueType = s.union(t.KeyType), s.union(t.ValueType)
		s.facets(t)
	case *types.ClassStringMap:
		t.ValueType = s.union(t.ValueType)
	case *types.KeyedArray:
		for _, p := range t.Properties() {
			t.SetProperty(p.Key, s.union(p.Type))
		}
		if t.PreviousKeyType != nil {
			t.PreviousKeyType = s.key(t.PreviousKeyType)
		}
		t.PreviousValueType = s.union(t.PreviousValueType)
	case *types.ObjectWithProperties:
		for _, p := range t.Properties() {
			t.SetProperty(p.Key.Str, s.union(p.Type))
		}
		s.facets(t)
	case *types.GenericObject:
		for i, p := range t.Params {
			t.Params[i] = s.union(p)
		}
		t.Remapped = true
		s.facets(t)
	case *types.NamedObject:
		s.facets(t)
	case *types.TemplateParam:
		t.As = s.union(t.As)
		s.facets(t)
	case *types.Callable:
		s.signature(t.Signature)
	case *types.Closure:
		s.signature(t.Signature)
		s.facets(t)
	case *types.ClassString:
		if t.AsType != nil {
			t.As, t.AsType = s.classBound(t.AsType)
		}
	case *types.TemplateParamClass:
		if t.AsType != nil {
			t.As, t.AsType = s.classBound(t.AsType)
		}
	case *types.Conditional:
		t.As = s.union(t.As)
		t.Condition = s.union(t.Condition)
		t.If = s.union(t.If)
		t.Else = s.union(t.Else)
	}
}

func (s *argTypes) signature(sig *types.Signature) {
	if sig == nil {
		return
	}
	for _, p := range sig.Params {
		p.Type = s.union(p.Type)
	}
	sig.Return = s.union(sig.Return)
}

// classBound substitutes the object bound of a class-string.
func (s *argTypes) classBound(as types.Atomic) (string, types.Atomic) {
	switch t := s.union(types.NewUnion(as)).Single().(type) {
	case *types.NamedObject:
		return t.Name, t
	case *types.GenericObject:
		return t.Name, t
	}
	return "object", nil
}

// facets flattens template facets into the facets their bindings carry.
func (s *argTypes) facets(f faceted) {
	fs := f.Facets()
	if fs == nil {
		return
	}
	seen := set.New[string](len(fs))
	var out []types.Atomic
	add := func(a types.Atomic) {
		if seen.Insert(a.Key()) {
			out = append(out, a)
		}
	}
	for _, x := range fs {
		s.atomic(x)
		tp, ok := x.(*types.TemplateParam)
		if !ok {
			add(x)
			continue
		}
		repl, _ := s.placeholder(tp)
		for _, r := range repl.Atomics() {
			if !canBeFacet(r) {
				continue
			}
			own := r.(faceted).Facets()
			r.(faceted).SetFacets(nil)
			add(r)
			for _, o := range own {
				add(o)
			}
		}
	}
	f.SetFacets(out)
}

// placeholder returns the replacement of a template placeholder, or false
// when a is not one.
func (s *argTypes) placeholder(a types.Atomic) (*types.Union, bool) {
	switch t := a.(type) {
	case *types.TemplateParam:
		return s.templateParam(t), true
	case *types.TemplateParamClass:
		return s.templateParamClass(t), true
	case *types.TemplateIndexedAccess:
		array, _ := s.rootBound(t.ArrayParam, t.Scope)
		offset, ok := s.rootBound(t.OffsetParam, t.Scope)
		if !ok {
			if b, found := s.result.firstUpperBoundNamed(t.OffsetParam); found {
				offset = b.Type
			}
		}
		if p := property(array, offset); p != nil {
			return p, true
		}
		return types.Of(types.Mixed), true
	case *types.TemplateKeyOf:
		if b, ok := s.rootBound(t.Name, t.Scope); ok && b.IsSingle() {
			if k := keyOf(b.Single()); k != nil {
				return k, true
			}
		}
		if t.As != nil && t.As.IsSingle() {
			if k := keyOf(t.As.Single()); k != nil {
				return s.union(k), true
			}
		}
		return types.Of(types.ArrayKey), true
	case *types.Conditional:
		return s.conditional(t), true
	}
	return nil, false
}

func (s *argTypes) rootBound(name, scope string) (*types.Union, bool) {
	b, ok := s.result.RootUpperBound(name, scope)
	if !ok {
		return nil, false
	}
	return b.Type, true
}

func (s *argTypes) templateParam(t *types.TemplateParam) *types.Union {
	repl, ok := s.rootBound(t.Name, t.Scope)
	switch {
	case ok:
		repl = repl.Clone()
		if repl.IsMixed() && !t.As.IsMixed() {
			repl = t.As.Clone()
		}
	default:
		if repl = s.extended(t); repl == nil {
			repl = t.As.Clone()
		}
	}
	facets := t.Facets()
	if len(facets) == 0 {
		return repl
	}
	parts := repl.Atomics()
	for i, p := range parts {
		parts[i] = withFacets(p, facets)
	}
	r := types.NewUnion(parts...)
	r.PossiblyUndefined = repl.PossiblyUndefined
	return r
}

// withFacets intersects a, which the caller owns, with facets.
// A plain object gives way to the first facet.
func withFacets(a types.Atomic, facets []types.Atomic) types.Atomic {
	if len(facets) == 0 {
		return a
	}
	if isKind(a, types.Object) {
		return withFacets(facets[0].Clone(), facets[1:])
	}
	f, ok := a.(faceted)
	if !ok || !canBeFacet(a) {
		return a
	}
	seen := set.New[string](len(facets))
	seen.Insert(strings.SplitN(a.Key(), "&", 2)[0])
	var merged []types.Atomic
	for _, x := range append(slices.Clone(facets), f.Facets()...) {
		if seen.Insert(x.Key()) {
			merged = append(merged, x.Clone())
		}
	}
	f.SetFacets(merged)
	return a
}

// extended resolves a class template that is only bound through a
// subclass: the subclass binding is mapped through the arguments the
// subclass passes to the template's class.
func (s *argTypes) extended(t *types.TemplateParam) *types.Union {
	if s.cb == nil || strings.HasPrefix(t.Scope, "fn-") {
		return nil
	}
	decl, ok := s.cb.TemplateParams(t.Scope)
	if !ok {
		return nil
	}
	idx := slices.IndexFunc(decl, func(p Param) bool { return p.Name == t.Name })
	if idx < 0 {
		return nil
	}
	for _, k := range s.result.BoundParams() {
		if types.SameClass(k.Scope, t.Scope) || strings.HasPrefix(k.Scope, "fn-") {
			continue
		}
		ext, ok := s.cb.ExtendedParams(k.Scope, t.Scope)
		if !ok || idx >= len(ext) {
			continue
		}
		if tp, ok := ext[idx].Single().(*types.TemplateParam); ok && types.SameClass(tp.Scope, k.Scope) {
			if b, ok := s.result.UpperBound(tp.Name, tp.Scope); ok {
				return b.Type.Clone()
			}
			continue
		}
		return s.union(ext[idx].Clone())
	}
	return nil
}

func (s *argTypes) templateParamClass(t *types.TemplateParamClass) *types.Union {
	b, ok := s.result.UpperBound(t.Name, t.Scope)
	if !ok {
		return types.NewUnion(t.Bound())
	}
	var parts []types.Atomic
	for _, p := range b.Type.Atomics() {
		switch x := p.(type) {
		case *types.NamedObject:
			parts = append(parts, &types.ClassString{As: x.Name, AsType: x.Clone()})
		case *types.GenericObject:
			parts = append(parts, &types.ClassString{As: x.Name, AsType: x.Clone()})
		case *types.TemplateParam:
			c := &types.TemplateParamClass{Name: x.Name, Scope: x.Scope, As: "object"}
			switch as := x.As.Single().(type) {
			case *types.NamedObject:
				c.As, c.AsType = as.Name, as.Clone()
			case *types.GenericObject:
				c.As, c.AsType = as.Name, as.Clone()
			}
			parts = append(parts, c)
		default:
			parts = append(parts, &types.ClassString{As: "object"})
		}
	}
	return types.NewUnion(parts...)
}

// conditional picks the branch of (T is C ? If : Else) that T's binding
// decides, or both when it decides neither.
func (s *argTypes) conditional(t *types.Conditional) *types.Union {
	b, ok := s.result.UpperBound(t.Name, t.Scope)
	if !ok {
		return types.Combine(t.If, t.Else)
	}
	bound := b.Type
	if t.As.IsNullable() && bound.IsVoid() {
		bound = types.Of(types.Null)
	}
	switch {
	case ContainedBy(s.cb, bound, t.Condition):
		return t.If.Clone()
	case containedParts(s.cb, bound, t.Condition) == nil:
		return t.Else.Clone()
	}
	return types.Combine(t.If, t.Else)
}
