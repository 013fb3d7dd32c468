package template

import (
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/you-not-fish/phptype/internal/types"
)

// ReplaceWithStandins substitutes the templates in play in u, aligning u
// with input to infer their bindings.
//
// With replace set, placeholders in play are replaced by their standins
// and a new union is returned; otherwise u itself is returned and only the
// bindings in ctx.Result are updated. With addUpperBound set, an input
// bound to a placeholder is returned in its place (widening) and, when
// replace is unset, recorded as a lower bound. input may be nil.
func ReplaceWithStandins(ctx *Context, u, input *types.Union, replace, addUpperBound bool, depth int) (*types.Union, error) {
	s := &standins{Context: ctx, replace: replace, addUpperBound: addUpperBound}
	return s.union(u, input, depth)
}

// ReplaceAtomicWithStandins substitutes the child slots of a against the
// matching slots of input. It returns a itself when no slot changed.
func ReplaceAtomicWithStandins(ctx *Context, a, input types.Atomic, replace, addUpperBound bool, depth int) (types.Atomic, error) {
	s := &standins{Context: ctx, replace: replace, addUpperBound: addUpperBound}
	return s.atomic(a, input, depth)
}

// standins holds the mode of one substitution.
type standins struct {
	*Context
	replace       bool
	addUpperBound bool
}

// contravariant returns the mode used for callable parameters.
func (s *standins) contravariant() *standins {
	c := *s
	c.addUpperBound = !s.addUpperBound
	return &c
}

func (s *standins) union(u, input *types.Union, depth int) (*types.Union, error) {
	if u == nil || s.Result == nil {
		return u, nil
	}
	atoms := u.Atomics()
	out := make([]types.Atomic, 0, len(atoms))
	changed := false
	for _, a := range atoms {
		rs, err := s.handle(a, u, input, depth)
		if err != nil {
			return nil, err
		}
		if len(rs) != 1 || rs[0] != a {
			changed = true
		}
		out = append(out, rs...)
	}
	if !s.replace || !changed {
		return u, nil
	}
	r := types.CombineAtomics(out...)
	r.PossiblyUndefined = u.PossiblyUndefined
	r.HadTemplate = true
	return r, nil
}

// handle substitutes one atomic of u and returns its replacements.
func (s *standins) handle(a types.Atomic, u, input *types.Union, depth int) ([]types.Atomic, error) {
	key := baseKey(a)
	switch t := a.(type) {
	case *types.TemplateParam:
		if _, ok := s.Result.Declared(t.Name, t.Scope); ok {
			return s.templateParam(t, input, depth, u.IsNullable())
		}
	case *types.TemplateParamClass:
		if s.replace && s.Result.declaresName(t.Name) {
			return s.templateParamClass(t, input, depth, u.IsSingle()), nil
		}
	case *types.TemplateIndexedAccess:
		if s.replace {
			array, _ := s.Result.Declared(t.ArrayParam, t.Scope)
			if off, ok := s.Result.firstUpperBoundNamed(t.OffsetParam); ok {
				if p := property(array, off.Type); p != nil {
					return p.Atomics(), nil
				}
			}
		}
		return []types.Atomic{a}, nil
	case *types.TemplateKeyOf:
		if s.replace {
			if k := keyOfDeclared(s.Result, t.Name, t.Scope); k != nil {
				return k.Atomics(), nil
			}
		}
		return []types.Atomic{a}, nil
	}

	matching := s.findMatching(a, key, input)
	if len(matching) == 0 {
		r, err := s.atomic(a, nil, depth+1)
		if err != nil {
			return nil, err
		}
		return []types.Atomic{r}, nil
	}
	out := make([]types.Atomic, 0, len(matching))
	for _, m := range matching {
		r, err := s.atomic(a, m, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *standins) templateParam(tp *types.TemplateParam, input *types.Union, depth int, wasNullable bool) ([]types.Atomic, error) {
	r := s.Result
	declared, _ := r.Declared(tp.Name, tp.Scope)
	if declared.Key() == baseKey(tp) {
		return declared.Atomics(), nil
	}

	var facets []types.Atomic
	for _, f := range tp.Facets() {
		fu, err := s.union(types.NewUnion(f), nil, depth+1)
		if err != nil {
			return nil, err
		}
		if a := fu.Single(); a != nil && canBeFacet(a) {
			facets = append(facets, a)
		}
	}

	if !s.replace {
		if s.addUpperBound && input != nil {
			s.recordLowerBound(tp, declared, input, depth)
		}
		return []types.Atomic{tp}, nil
	}

	out, err := s.replacement(tp, declared, input, depth)
	if err != nil {
		return nil, err
	}

	as, err := s.union(tp.As.Clone(), input, depth+1)
	if err != nil {
		return nil, err
	}
	var param *types.Union
	if input != nil {
		if tp.As.IsMixed() || s.Codebase == nil {
			param = input.Clone()
		} else {
			param = containedParts(s.Codebase, input, as)
		}
	}
	switch {
	case param != nil:
		if wasNullable && param.IsNullable() && !param.IsNull() {
			param.Remove("null")
		}
		if s.addUpperBound {
			return param.Atomics(), nil
		}
		if prev, ok := r.UpperBound(tp.Name, tp.Scope); ok && !prev.Guess {
			sameOffset := prev.ArgOffset == s.ArgOffset
			if prev.Depth > depth && sameOffset {
				if len(out) == 0 {
					return []types.Atomic{tp}, nil
				}
				return out, nil
			}
			if prev.Depth == depth || !sameOffset {
				param = types.Combine(param, prev.Type)
			}
		}
		r.SetUpperBound(tp.Name, tp.Scope, Bound{Type: param, Depth: depth, ArgOffset: s.ArgOffset})
	case input == nil:
		if _, ok := r.UpperBound(tp.Name, tp.Scope); !ok {
			r.SetUpperBound(tp.Name, tp.Scope, Bound{Type: tp.As.Clone(), Depth: depth, ArgOffset: s.ArgOffset, Guess: true})
		}
	}

	if len(facets) > 0 {
		for _, a := range out {
			f, ok := a.(faceted)
			if !ok || !canBeFacet(a) {
				continue
			}
			merged := f.Facets()
			for _, x := range facets {
				merged = append(merged, x.Clone())
			}
			f.SetFacets(merged)
		}
	}
	return out, nil
}

// replacement returns the atomics a placeholder in play is replaced with.
// Every returned atomic is a fresh copy.
func (s *standins) replacement(tp *types.TemplateParam, declared, input *types.Union, depth int) ([]types.Atomic, error) {
	var out []types.Atomic
	if declared.HasMixed() && !tp.As.HasMixed() {
		for _, a := range tp.As.Atomics() {
			out = append(out, a.Clone())
		}
		return out, nil
	}

	repl := declared
	if depth < MaxDepth {
		var err error
		repl, err = s.union(declared, input, depth+1)
		if err != nil {
			return nil, err
		}
	}
	for _, a := range repl.Atomics() {
		switch t := a.(type) {
		case *types.TemplateKeyOf:
			if k := keyOfDeclared(s.Result, t.Name, t.Scope); k != nil {
				out = append(out, k.Clone().Atomics()...)
				s.Result.SetUpperBound(tp.Name, tp.Scope, Bound{Type: k, Depth: depth, ArgOffset: s.ArgOffset})
				continue
			}
		case *types.TemplateParam:
			if !s.callerScope(t.Scope) {
				for _, b := range t.As.Atomics() {
					out = append(out, b.Clone())
				}
				continue
			}
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

// recordLowerBound narrows the lower bound of tp with input.
func (s *standins) recordLowerBound(tp *types.TemplateParam, declared, input *types.Union, depth int) {
	cb := s.Codebase
	if !ContainedBy(cb, input, declared) {
		return
	}
	lower := input.Clone()
	if prev, ok := s.Result.LowerBound(tp.Name, tp.Scope); ok {
		switch {
		case ContainedBy(cb, prev.Type, input) && ContainedBy(cb, input, prev.Type):
			lower = prev.Type
		default:
			if x := intersect(cb, input, prev.Type); x != nil {
				lower = x
			} else {
				s.Result.Unintersectable = append(s.Result.Unintersectable, input.Clone())
				lower = types.Of(types.Mixed)
			}
		}
	}
	s.Result.SetLowerBound(tp.Name, tp.Scope, Bound{Type: lower, Depth: depth, ArgOffset: s.ArgOffset})
}

// templateParamClass replaces class-string<T> by the class-string of its
// bound and records the classes named by input as T's bound.
func (s *standins) templateParamClass(t *types.TemplateParamClass, input *types.Union, depth int, wasSingle bool) []types.Atomic {
	if input != nil {
		var valid []types.Atomic
		for _, in := range input.Atomics() {
			switch x := in.(type) {
			case *types.LiteralClassString:
				valid = append(valid, types.NewNamedObject(x.Value))
			case *types.TemplateParamClass:
				as := types.Of(types.Object)
				if x.AsType != nil {
					as = types.NewUnion(x.AsType.Clone())
				}
				valid = append(valid, types.NewTemplateParam(x.Name, x.Scope, as))
			case *types.ClassString:
				switch {
				case x.AsType != nil:
					valid = append(valid, x.AsType.Clone())
				case x.As != "object":
					valid = append(valid, types.NewNamedObject(x.As))
				default:
					valid = append(valid, types.Typ[types.Object])
				}
			}
		}
		var bound *types.Union
		switch {
		case len(valid) > 0:
			bound = types.CombineAtomics(valid...)
		case wasSingle:
			bound = types.Of(types.Mixed)
		}
		if bound != nil {
			if prev, ok := s.Result.UpperBound(t.Name, t.Scope); ok && !prev.Guess {
				bound = types.Combine(bound, prev.Type)
			}
			s.Result.SetUpperBound(t.Name, t.Scope, Bound{Type: bound, Depth: depth, ArgOffset: s.ArgOffset})
		}
	}
	return []types.Atomic{t.Bound()}
}

// findMatching returns the atomics of input that a is aligned with.
func (s *standins) findMatching(a types.Atomic, key string, input *types.Union) []types.Atomic {
	if input == nil || input.HasMixed() {
		return nil
	}
	seen := set.New[string](input.Len())
	var out []types.Atomic
	add := func(m types.Atomic) {
		if seen.Insert(m.ID()) {
			out = append(out, m)
		}
	}
	for _, in := range input.Atomics() {
		inKey := baseKey(in)
		switch {
		case inKey == key:
			add(in)
			continue
		case strings.HasPrefix(inKey, key+"&"):
			add(in)
			continue
		case key == "array" && types.IsArrayLike(in), key == "list" && isList(in):
			add(in)
			continue
		case key == "iterable" && types.IsArrayLike(in):
			if _, ok := in.(*types.ClassStringMap); !ok {
				add(in)
			}
			continue
		}
		switch in.(type) {
		case *types.Closure:
			switch a.(type) {
			case *types.Closure, *types.Callable:
				add(in)
			}
			continue
		case *types.Callable:
			if _, ok := a.(*types.Callable); ok {
				add(in)
			}
			continue
		}
		if m := s.matchAncestor(a, in); m != nil {
			add(m)
		}
	}
	return out
}

// matchAncestor aligns an object input with a declared object or iterable
// of one of its ancestors. A plain object input is expressed as the generic
// ancestor it extends.
func (s *standins) matchAncestor(a, in types.Atomic) types.Atomic {
	if s.Codebase == nil {
		return nil
	}
	var name string
	switch x := in.(type) {
	case *types.NamedObject:
		name = x.Name
	case *types.GenericObject:
		name = x.Name
	default:
		return nil
	}

	var base string
	switch t := a.(type) {
	case *types.GenericObject:
		base = t.Name
	case *types.Iterable:
		if types.SameClass(name, "Traversable") {
			return in
		}
		base = "Traversable"
	default:
		return nil
	}
	if !isSubclass(s.Codebase, name, base) {
		return nil
	}
	if _, ok := s.Codebase.ExtendedParams(name, base); !ok {
		return nil
	}
	if _, ok := in.(*types.GenericObject); ok {
		return in
	}
	params, _ := MappedParams(s.Codebase, in, &types.GenericObject{Name: base})
	if len(params) == 0 {
		return nil
	}
	return &types.GenericObject{Name: base, Params: params, Remapped: true}
}

// inputParam returns the child of input aligned with the slot at offset of
// the declared container decl, or nil when input has no such child.
func (s *standins) inputParam(decl, input types.Atomic, offset int) (*types.Union, error) {
	at := func(p types.TypeParams) *types.Union {
		if offset < len(p) {
			return p[offset]
		}
		return nil
	}
	switch in := input.(type) {
	case nil:
		return nil, nil
	case *types.GenericObject:
		switch d := decl.(type) {
		case *types.GenericObject:
			params, _ := MappedParams(s.Codebase, in, d)
			return at(params), nil
		case *types.Iterable:
			params, _ := MappedParams(s.Codebase, in, &types.GenericObject{Name: "Traversable"})
			return at(params), nil
		}
		return at(in.Params), nil
	case *types.Iterable:
		return at(types.TypeParams{in.KeyType, in.ValueType}), nil
	case *types.Array:
		return at(types.TypeParams{in.KeyType, in.ValueType}), nil
	case *types.NonEmptyArray:
		return at(types.TypeParams{in.KeyType, in.ValueType}), nil
	case *types.KeyedArray, *types.List, *types.NonEmptyList, *types.ClassStringMap:
		if offset > 1 {
			return nil, unexpectedOffset(in.ID(), offset)
		}
		k, v, _ := types.KeyValue(in)
		return at(types.TypeParams{k, v}), nil
	}
	return nil, nil
}

// slot substitutes the child u at offset of decl against input.
func (s *standins) slot(u *types.Union, decl, input types.Atomic, offset, depth int) (*types.Union, error) {
	in, err := s.inputParam(decl, input, offset)
	if err != nil {
		return nil, err
	}
	return s.union(u, in, depth)
}

// slots substitutes the children of decl in order, the i-th at offset i.
func (s *standins) slots(ps types.TypeParams, decl, input types.Atomic, depth int) (types.TypeParams, bool, error) {
	out := make(types.TypeParams, len(ps))
	changed := false
	for i, p := range ps {
		r, err := s.slot(p, decl, input, i, depth)
		if err != nil {
			return nil, false, err
		}
		out[i] = r
		changed = changed || r != p
	}
	return out, changed, nil
}

func (s *standins) atomic(a, input types.Atomic, depth int) (types.Atomic, error) {
	switch t := a.(type) {
	case *types.Basic, *types.LiteralInt, *types.LiteralFloat, *types.LiteralString, *types.LiteralClassString,
		*types.TypeAlias, *types.KeyOfClassConstant, *types.ValueOfClassConstant,
		*types.TemplateKeyOf, *types.TemplateIndexedAccess, *types.TemplateParamClass:
		return a, nil

	case *types.Array:
		ps, changed, err := s.slots(types.TypeParams{t.KeyType, t.ValueType}, t, input, depth)
		if err != nil || !changed {
			return a, err
		}
		return &types.Array{KeyType: ps[0].Clone(), ValueType: ps[1].Clone()}, nil

	case *types.NonEmptyArray:
		ps, changed, err := s.slots(types.TypeParams{t.KeyType, t.ValueType}, t, input, depth)
		if err != nil || !changed {
			return a, err
		}
		return &types.NonEmptyArray{KeyType: ps[0].Clone(), ValueType: ps[1].Clone(), Count: t.Count}, nil

	case *types.List:
		v, err := s.slot(t.ValueType, t, input, 1, depth)
		if err != nil || v == t.ValueType {
			return a, err
		}
		return &types.List{ValueType: v.Clone()}, nil

	case *types.NonEmptyList:
		v, err := s.slot(t.ValueType, t, input, 1, depth)
		if err != nil || v == t.ValueType {
			return a, err
		}
		return &types.NonEmptyList{ValueType: v.Clone(), Count: t.Count}, nil

	case *types.ClassStringMap:
		v, err := s.slot(t.ValueType, t, input, 1, depth)
		if err != nil || v == t.ValueType {
			return a, err
		}
		c := t.Clone().(*types.ClassStringMap)
		c.ValueType = v.Clone()
		return c, nil

	case *types.Iterable:
		ps, changed, err := s.slots(types.TypeParams{t.KeyType, t.ValueType}, t, input, depth)
		if err != nil {
			return nil, err
		}
		facets, fchanged, err := s.facets(t, depth)
		if err != nil || !(changed || fchanged) {
			return a, err
		}
		c := t.Clone().(*types.Iterable)
		c.KeyType, c.ValueType = ps[0].Clone(), ps[1].Clone()
		c.SetFacets(facets)
		return c, nil

	case *types.GenericObject:
		ps, changed, err := s.slots(t.Params, t, input, depth)
		if err != nil {
			return nil, err
		}
		facets, fchanged, err := s.facets(t, depth)
		if err != nil || !(changed || fchanged) {
			return a, err
		}
		c := t.Clone().(*types.GenericObject)
		c.Params = ps.Clone()
		c.SetFacets(facets)
		return c, nil

	case *types.NamedObject:
		facets, changed, err := s.facets(t, depth)
		if err != nil || !changed {
			return a, err
		}
		c := t.Clone().(*types.NamedObject)
		c.SetFacets(facets)
		return c, nil

	case *types.TemplateParam:
		as, err := s.union(t.As, nil, depth)
		if err != nil {
			return nil, err
		}
		facets, fchanged, err := s.facets(t, depth)
		if err != nil || (as == t.As && !fchanged) {
			return a, err
		}
		c := t.Clone().(*types.TemplateParam)
		c.As = as.Clone()
		c.SetFacets(facets)
		return c, nil

	case *types.KeyedArray:
		return s.keyedArray(t, input, depth)

	case *types.ObjectWithProperties:
		return s.objectShape(t, input, depth)

	case *types.Callable:
		sig, err := s.signature(t.Signature, input, depth)
		if err != nil || sig == t.Signature {
			return a, err
		}
		return &types.Callable{Signature: sig}, nil

	case *types.Closure:
		sig, err := s.signature(t.Signature, input, depth)
		if err != nil {
			return nil, err
		}
		facets, fchanged, err := s.facets(t, depth)
		if err != nil || (sig == t.Signature && !fchanged) {
			return a, err
		}
		c := t.Clone().(*types.Closure)
		c.Signature = sig.Clone()
		c.SetFacets(facets)
		return c, nil

	case *types.Conditional:
		cond, err := s.union(t.Condition, nil, depth)
		if err != nil || cond == t.Condition {
			return a, err
		}
		c := t.Clone().(*types.Conditional)
		c.Condition = cond.Clone()
		return c, nil

	case *types.ClassString:
		return s.classString(t, input, depth)
	}
	panic("template: unhandled atomic " + a.ID())
}

// facets substitutes the facets of f. Results that are no longer legal
// facets are dropped. The returned facets are fresh copies.
func (s *standins) facets(f faceted, depth int) ([]types.Atomic, bool, error) {
	fs := f.Facets()
	if fs == nil {
		return nil, false, nil
	}
	out := make([]types.Atomic, 0, len(fs))
	changed := false
	for _, x := range fs {
		u := types.NewUnion(x)
		r, err := s.union(u, nil, depth)
		if err != nil {
			return nil, false, err
		}
		if r == u {
			out = append(out, x.Clone())
			continue
		}
		changed = true
		if a := r.Single(); a != nil && canBeFacet(a) {
			out = append(out, a.Clone())
		}
	}
	return out, changed, nil
}

func (s *standins) keyedArray(t *types.KeyedArray, input types.Atomic, depth int) (types.Atomic, error) {
	in, _ := input.(*types.KeyedArray)
	props := t.Properties()
	repl := make([]*types.Union, len(props))
	changed := false
	for i, p := range props {
		var ip *types.Union
		if in != nil {
			ip, _ = in.Property(p.Key)
		}
		r, err := s.union(p.Type, ip, depth)
		if err != nil {
			return nil, err
		}
		repl[i] = r
		changed = changed || r != p.Type
	}
	prevKey, err := s.union(t.PreviousKeyType, nil, depth)
	if err != nil {
		return nil, err
	}
	prevValue, err := s.union(t.PreviousValueType, nil, depth)
	if err != nil {
		return nil, err
	}
	if !changed && prevKey == t.PreviousKeyType && prevValue == t.PreviousValueType {
		return t, nil
	}
	c := t.Clone().(*types.KeyedArray)
	for i, p := range props {
		if repl[i] != p.Type {
			c.SetProperty(p.Key, repl[i].Clone())
		}
	}
	c.PreviousKeyType, c.PreviousValueType = prevKey.Clone(), prevValue.Clone()
	return c, nil
}

func (s *standins) objectShape(t *types.ObjectWithProperties, input types.Atomic, depth int) (types.Atomic, error) {
	in, _ := input.(*types.ObjectWithProperties)
	props := t.Properties()
	repl := make([]*types.Union, len(props))
	changed := false
	for i, p := range props {
		var ip *types.Union
		if in != nil {
			for _, q := range in.Properties() {
				if q.Key == p.Key {
					ip = q.Type
				}
			}
		}
		r, err := s.union(p.Type, ip, depth)
		if err != nil {
			return nil, err
		}
		repl[i] = r
		changed = changed || r != p.Type
	}
	facets, fchanged, err := s.facets(t, depth)
	if err != nil {
		return nil, err
	}
	if !changed && !fchanged {
		return t, nil
	}
	c := t.Clone().(*types.ObjectWithProperties)
	for i, p := range props {
		if repl[i] != p.Type {
			c.SetProperty(p.Key.Str, repl[i].Clone())
		}
	}
	c.SetFacets(facets)
	return c, nil
}

// signature substitutes the parameters of sig contravariantly and then its
// return type, aligned with the signature of a callable input.
func (s *standins) signature(sig *types.Signature, input types.Atomic, depth int) (*types.Signature, error) {
	if sig == nil {
		return nil, nil
	}
	var insig *types.Signature
	switch in := input.(type) {
	case *types.Callable:
		insig = in.Signature
	case *types.Closure:
		insig = in.Signature
	}

	contra := s.contravariant()
	params := make([]*types.Union, len(sig.Params))
	changed := false
	for i, p := range sig.Params {
		if p.Type == nil {
			continue
		}
		var in *types.Union
		if insig != nil && i < len(insig.Params) {
			in = insig.Params[i].Type
		}
		r, err := contra.union(p.Type, in, depth)
		if err != nil {
			return nil, err
		}
		params[i] = r
		changed = changed || r != p.Type
	}
	var ret *types.Union
	if sig.Return != nil {
		var in *types.Union
		if insig != nil {
			in = insig.Return
		}
		var err error
		ret, err = s.union(sig.Return, in, depth)
		if err != nil {
			return nil, err
		}
		changed = changed || ret != sig.Return
	}
	if !changed {
		return sig, nil
	}
	c := sig.Clone()
	for i, p := range params {
		if p != nil && p != sig.Params[i].Type {
			c.Params[i].Type = p.Clone()
		}
	}
	if ret != sig.Return {
		c.Return = ret.Clone()
	}
	return c, nil
}

// classString specializes a class-string to the class named by input.
func (s *standins) classString(t *types.ClassString, input types.Atomic, depth int) (types.Atomic, error) {
	if t.AsType == nil || t.As == "object" {
		switch in := input.(type) {
		case *types.LiteralClassString:
			return &types.ClassString{Flavor: t.Flavor, As: in.Value, AsType: types.NewNamedObject(in.Value)}, nil
		case *types.ClassString:
			if in.AsType != nil && in.As != "object" {
				return &types.ClassString{Flavor: t.Flavor, As: in.As, AsType: in.AsType.Clone()}, nil
			}
		}
		return t, nil
	}

	var obj *types.Union
	switch in := input.(type) {
	case *types.LiteralClassString:
		obj = types.NewUnion(types.NewNamedObject(in.Value))
	case *types.ClassString:
		obj = types.Of(types.Object)
		if in.AsType != nil && in.As != "object" {
			obj = types.NewUnion(in.AsType.Clone())
		}
	}
	bound := types.NewUnion(t.AsType)
	as, err := s.union(bound, obj, depth)
	if err != nil || as == bound {
		return t, err
	}
	switch a := as.Single().(type) {
	case *types.NamedObject:
		return &types.ClassString{Flavor: t.Flavor, As: a.Name, AsType: a.Clone()}, nil
	case *types.GenericObject:
		return &types.ClassString{Flavor: t.Flavor, As: a.Name, AsType: a.Clone()}, nil
	}
	return &types.ClassString{Flavor: t.Flavor, As: "object"}, nil
}
