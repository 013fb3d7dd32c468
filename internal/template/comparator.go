package template

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/you-not-fish/phptype/internal/types"
)

// ContainedBy reports whether every value of input is a value of container.
// The check is conservative: shapes it cannot decide are not contained.
// A nil codebase limits class relations to identical names.
func ContainedBy(cb Codebase, input, container *types.Union) bool {
	for _, a := range input.Atomics() {
		if !atomicContainedBy(cb, a, container) {
			return false
		}
	}
	return true
}

// containedParts returns the atomics of input that container contains,
// or nil when there are none.
func containedParts(cb Codebase, input, container *types.Union) *types.Union {
	var parts []types.Atomic
	for _, a := range input.Atomics() {
		if atomicContainedBy(cb, a, container) {
			parts = append(parts, a.Clone())
		}
	}
	if len(parts) == 0 {
		return nil
	}
	u := types.NewUnion(parts...)
	u.PossiblyUndefined = input.PossiblyUndefined
	return u
}

// intersect returns the atomics of a and b that the other union contains,
// or nil when they have none in common.
func intersect(cb Codebase, a, b *types.Union) *types.Union {
	seen := set.New[string](a.Len() + b.Len())
	var parts []types.Atomic
	collect := func(from, into *types.Union) {
		for _, t := range from.Atomics() {
			if atomicContainedBy(cb, t, into) && seen.Insert(t.ID()) {
				parts = append(parts, t.Clone())
			}
		}
	}
	collect(a, b)
	collect(b, a)
	if len(parts) == 0 {
		return nil
	}
	return types.NewUnion(parts...)
}

func atomicContainedBy(cb Codebase, a types.Atomic, container *types.Union) bool {
	if container.HasMixed() {
		return true
	}
	for _, c := range container.Atomics() {
		if isContainedBy(cb, a, c) {
			return true
		}
	}
	return isKind(a, types.Bool) && container.Has("true") && container.Has("false")
}

func isContainedBy(cb Codebase, a, c types.Atomic) bool {
	if types.Equal(a, c) {
		return true
	}
	switch in := a.(type) {
	case *types.Basic:
		switch in.Kind() {
		case types.Never:
			return true
		case types.Mixed:
			return isKind(c, types.Mixed)
		}
	case *types.TemplateParam:
		if tp, ok := c.(*types.TemplateParam); ok && tp.Name == in.Name && tp.Scope == in.Scope {
			return true
		}
		return ContainedBy(cb, in.As, types.NewUnion(c))
	}

	switch ct := c.(type) {
	case *types.Basic:
		return basicContains(ct.Kind(), a)
	case *types.LiteralClassString:
		lit, ok := a.(*types.LiteralClassString)
		return ok && types.SameClass(lit.Value, ct.Value)
	case *types.NamedObject:
		return objectContains(cb, ct.Name, a) && facetsContain(cb, ct.Facets(), a)
	case *types.GenericObject:
		return genericContains(cb, ct, a) && facetsContain(cb, ct.Facets(), a)
	case *types.ObjectWithProperties:
		in, ok := a.(*types.ObjectWithProperties)
		return ok && propertiesContain(cb, ct.Properties(), in.Properties())
	case *types.Array:
		return types.IsArrayLike(a) && slotsContain(cb, ct.KeyType, ct.ValueType, a)
	case *types.NonEmptyArray:
		return isNonEmpty(a) && slotsContain(cb, ct.KeyType, ct.ValueType, a)
	case *types.List:
		return isList(a) && slotsContain(cb, nil, ct.ValueType, a)
	case *types.NonEmptyList:
		return isList(a) && isNonEmpty(a) && slotsContain(cb, nil, ct.ValueType, a)
	case *types.Iterable:
		return iterableContains(cb, ct, a)
	case *types.KeyedArray:
		in, ok := a.(*types.KeyedArray)
		return ok && keyedContains(cb, ct, in)
	case *types.ClassStringMap:
		return false
	case *types.Callable:
		return callableContains(cb, ct.Signature, a)
	case *types.Closure:
		switch in := a.(type) {
		case *types.Closure:
			return signatureContains(cb, ct.Signature, in.Signature)
		case *types.NamedObject:
			return ct.Signature == nil && types.SameClass(in.Name, "Closure")
		}
	case *types.ClassString:
		return classStringContains(cb, ct, a)
	case *types.TemplateParamClass:
		return classStringContains(cb, ct.Bound(), a)
	case *types.TemplateParam:
		return atomicContainedBy(cb, a, ct.As)
	}
	return false
}

func kindContains(a, b types.BasicKind) bool {
	if a == b {
		return true
	}
	switch a {
	case types.Bool:
		return b == types.True || b == types.False
	case types.Numeric:
		return b == types.Int || b == types.Float
	case types.ArrayKey:
		return b == types.Int || b == types.String
	case types.Scalar:
		return types.Typ[b].Info()&types.IsScalar != 0 || b == types.ArrayKey
	}
	return false
}

func basicContains(kind types.BasicKind, a types.Atomic) bool {
	switch in := a.(type) {
	case *types.Basic:
		return kindContains(kind, in.Kind())
	case *types.LiteralInt:
		return kindContains(kind, types.Int)
	case *types.LiteralFloat:
		return kindContains(kind, types.Float)
	case *types.LiteralString, *types.LiteralClassString, *types.ClassString, *types.TemplateParamClass:
		return kindContains(kind, types.String)
	}
	return kind == types.Object && types.IsObjectLike(a)
}

func isSubclass(cb Codebase, class, ancestor string) bool {
	if types.SameClass(class, ancestor) {
		return true
	}
	return cb != nil && cb.IsSubclass(class, ancestor)
}

// objectContains reports whether a is an instance of class, directly or
// through one of its facets.
func objectContains(cb Codebase, class string, a types.Atomic) bool {
	if name, ok := types.ClassNameOf(a); ok && isSubclass(cb, name, class) {
		return true
	}
	if f, ok := a.(faceted); ok {
		for _, facet := range f.Facets() {
			if name, ok := types.ClassNameOf(facet); ok && isSubclass(cb, name, class) {
				return true
			}
		}
	}
	return false
}

func facetsContain(cb Codebase, facets []types.Atomic, a types.Atomic) bool {
	for _, f := range facets {
		if !isContainedBy(cb, a, f) {
			return false
		}
	}
	return true
}

func genericContains(cb Codebase, ct *types.GenericObject, a types.Atomic) bool {
	switch in := a.(type) {
	case *types.NamedObject:
		return isSubclass(cb, in.Name, ct.Name)
	case *types.GenericObject:
		if !isSubclass(cb, in.Name, ct.Name) {
			return false
		}
		params, _ := MappedParams(cb, in, ct)
		for i, p := range ct.Params {
			if i < len(params) && !ContainedBy(cb, params[i], p) {
				return false
			}
		}
		return true
	}
	return false
}

func propertiesContain(cb Codebase, container, input []types.Property) bool {
	for _, cp := range container {
		var ip *types.Union
		for _, p := range input {
			if p.Key == cp.Key {
				ip = p.Type
			}
		}
		if ip == nil {
			if !cp.Type.PossiblyUndefined {
				return false
			}
			continue
		}
		if ip.PossiblyUndefined && !cp.Type.PossiblyUndefined {
			return false
		}
		if !ContainedBy(cb, ip, cp.Type) {
			return false
		}
	}
	return true
}

// slotsContain compares the key and value views of an array-like input.
// A nil key slot is not compared.
func slotsContain(cb Codebase, key, value *types.Union, a types.Atomic) bool {
	k, v, ok := types.KeyValue(a)
	if !ok {
		return false
	}
	if key != nil && !ContainedBy(cb, k, key) {
		return false
	}
	return ContainedBy(cb, v, value)
}

func isList(a types.Atomic) bool {
	switch t := a.(type) {
	case *types.List, *types.NonEmptyList:
		return true
	case *types.KeyedArray:
		return t.IsList
	}
	return false
}

func isNonEmpty(a types.Atomic) bool {
	switch t := a.(type) {
	case *types.NonEmptyArray, *types.NonEmptyList:
		return true
	case *types.KeyedArray:
		for _, p := range t.Properties() {
			if !p.Type.PossiblyUndefined {
				return true
			}
		}
	}
	return false
}

func iterableContains(cb Codebase, ct *types.Iterable, a types.Atomic) bool {
	if !facetsContain(cb, ct.Facets(), a) {
		return false
	}
	switch in := a.(type) {
	case *types.Iterable:
		return slotsContain(cb, ct.KeyType, ct.ValueType, in)
	case *types.NamedObject:
		return isSubclass(cb, in.Name, "Traversable")
	case *types.GenericObject:
		if !isSubclass(cb, in.Name, "Traversable") {
			return false
		}
		traversable := &types.GenericObject{Name: "Traversable", Params: types.TypeParams{ct.KeyType, ct.ValueType}}
		return genericContains(cb, traversable, in)
	}
	return types.IsArrayLike(a) && slotsContain(cb, ct.KeyType, ct.ValueType, a)
}

func keyedContains(cb Codebase, ct, in *types.KeyedArray) bool {
	if ct.IsList && !in.IsList {
		return false
	}
	if !propertiesContain(cb, ct.Properties(), in.Properties()) {
		return false
	}
	for _, p := range in.Properties() {
		if _, ok := ct.Property(p.Key); ok {
			continue
		}
		if ct.Sealed {
			return false
		}
		if ct.PreviousValueType != nil && !ContainedBy(cb, p.Type, ct.PreviousValueType) {
			return false
		}
	}
	return !ct.Sealed || in.Sealed
}

func callableContains(cb Codebase, sig *types.Signature, a types.Atomic) bool {
	switch in := a.(type) {
	case *types.Callable:
		return signatureContains(cb, sig, in.Signature)
	case *types.Closure:
		return signatureContains(cb, sig, in.Signature)
	case *types.ClassString:
		return sig == nil && in.Flavor == types.CallableString
	case *types.NamedObject:
		return sig == nil && types.SameClass(in.Name, "Closure")
	}
	return false
}

// signatureContains compares parameters contravariantly and the return
// type covariantly. A missing signature on either side is accepted.
func signatureContains(cb Codebase, sig, in *types.Signature) bool {
	if sig == nil || in == nil {
		return true
	}
	if sig.Purity == types.Pure && in.Purity != types.Pure {
		return false
	}
	for i, p := range sig.Params {
		if i >= len(in.Params) {
			break
		}
		if p.Type != nil && in.Params[i].Type != nil && !ContainedBy(cb, p.Type, in.Params[i].Type) {
			return false
		}
	}
	if sig.Return != nil && in.Return != nil {
		return ContainedBy(cb, in.Return, sig.Return)
	}
	return true
}

func classStringContains(cb Codebase, ct *types.ClassString, a types.Atomic) bool {
	bounded := ct.AsType != nil && ct.As != "object"
	switch in := a.(type) {
	case *types.LiteralClassString:
		return ct.Flavor == types.ClassStringPlain && (!bounded || isSubclass(cb, in.Value, ct.As))
	case *types.ClassString:
		if in.Flavor != ct.Flavor {
			return false
		}
		if !bounded {
			return true
		}
		if in.AsType == nil || in.As == "object" {
			return false
		}
		return isContainedBy(cb, in.AsType, ct.AsType)
	case *types.TemplateParamClass:
		return ct.Flavor == types.ClassStringPlain && (!bounded || (in.As != "object" && isSubclass(cb, in.As, ct.As)))
	}
	return false
}
