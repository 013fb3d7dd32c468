package types

// Combine returns the simplified union of us. The inputs are not modified.
//
//   - mixed absorbs everything, never is dropped unless nothing else remains;
//   - a base type absorbs its literals (int absorbs int(5)), true|false is bool;
//   - arrays, lists and iterables merge pairwise, keyed arrays merge by property;
//   - generic objects of the same class and arity merge their parameters.
func Combine(us ...*Union) *Union {
	var (
		all       []Atomic
		undefined bool
	)
	for _, u := range us {
		if u == nil {
			continue
		}
		all = append(all, u.types...)
		undefined = undefined || u.PossiblyUndefined
	}
	r := CombineAtomics(all...)
	r.PossiblyUndefined = undefined
	return r
}

// CombineAtomics returns the simplified union of ts.
func CombineAtomics(ts ...Atomic) *Union {
	out := make([]Atomic, 0, len(ts))
	for _, t := range ts {
		if b, ok := t.(*Basic); ok {
			switch b.kind {
			case Mixed:
				return Of(Mixed)
			case Never:
				continue
			}
		}
		out = append(out, t.Clone())
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); {
			if m, ok := merge(out[i], out[j]); ok {
				out[i] = m
				out = append(out[:j], out[j+1:]...)
				j = i + 1
				continue
			}
			j++
		}
	}
	return NewUnion(out...)
}

// merge combines two atomics owned by the result.
func merge(a, b Atomic) (Atomic, bool) {
	if Equal(a, b) {
		return a, true
	}
	if absorbs(a, b) {
		return a, true
	}
	if absorbs(b, a) {
		return b, true
	}

	switch x := a.(type) {
	case *Basic:
		if y, ok := b.(*Basic); ok && isTrueFalse(x.kind, y.kind) {
			return Typ[Bool], true
		}
	case *GenericObject:
		if y, ok := b.(*GenericObject); ok && x.Name == y.Name && len(x.Params) == len(y.Params) &&
			len(x.facets) == 0 && len(y.facets) == 0 {
			params := make(TypeParams, len(x.Params))
			for i := range x.Params {
				params[i] = Combine(x.Params[i], y.Params[i])
			}
			return &GenericObject{Name: x.Name, Params: params, Remapped: x.Remapped || y.Remapped}, true
		}
	case *TemplateParam:
		if y, ok := b.(*TemplateParam); ok && slotKey(x) == slotKey(y) {
			c := x.Clone().(*TemplateParam)
			c.As = Combine(x.As, y.As)
			return c, true
		}
	case *Iterable:
		if y, ok := b.(*Iterable); ok && len(x.facets) == 0 && len(y.facets) == 0 {
			return NewIterable(Combine(x.KeyType, y.KeyType), Combine(x.ValueType, y.ValueType)), true
		}
	case *KeyedArray:
		if y, ok := b.(*KeyedArray); ok {
			return mergeKeyedArrays(x, y), true
		}
	}
	if IsArrayLike(a) && IsArrayLike(b) {
		return mergeArrays(a, b)
	}
	return nil, false
}

func isTrueFalse(a, b BasicKind) bool {
	return (a == True && b == False) || (a == False && b == True)
}

// absorbs reports whether every value of b is a value of a, for the
// simple cases that union simplification handles.
func absorbs(a, b Atomic) bool {
	switch x := a.(type) {
	case *Basic:
		switch y := b.(type) {
		case *Basic:
			return absorbsKind(x.kind, y.kind)
		case *LiteralInt:
			return absorbsKind(x.kind, Int)
		case *LiteralFloat:
			return absorbsKind(x.kind, Float)
		case *LiteralString, *LiteralClassString, *ClassString, *TemplateParamClass:
			return absorbsKind(x.kind, String)
		case *NamedObject, *GenericObject, *ObjectWithProperties, *Closure:
			return false
		}
	case *ClassString:
		if x.bounded() || x.Flavor != ClassStringPlain {
			return false
		}
		switch y := b.(type) {
		case *LiteralClassString:
			return true
		case *ClassString:
			return y.Flavor == ClassStringPlain
		}
	case *GenericObject:
		if y, ok := b.(*NamedObject); ok {
			return x.Name == y.Name && len(x.facets) == 0 && len(y.facets) == 0 && !y.WasStatic
		}
	case *Callable:
		if x.Signature == nil {
			switch b.(type) {
			case *Callable, *Closure:
				return true
			}
		}
	}
	return false
}

func absorbsKind(a, b BasicKind) bool {
	if a == b {
		return true
	}
	switch a {
	case Bool:
		return b == True || b == False
	case Numeric:
		return b == Int || b == Float
	case ArrayKey:
		return b == Int || b == String
	case Scalar:
		return Typ[b].info&IsScalar != 0
	}
	return false
}

// mergeArrays merges two array-like atomics into the least general
// container family that covers both.
func mergeArrays(a, b Atomic) (Atomic, bool) {
	if _, ok := a.(*ClassStringMap); ok {
		return nil, false
	}
	if _, ok := b.(*ClassStringMap); ok {
		return nil, false
	}
	if k, ok := a.(*KeyedArray); ok {
		a = k.GenericArray()
	}
	if k, ok := b.(*KeyedArray); ok {
		b = k.GenericArray()
	}

	ak, av, _ := KeyValue(a)
	bk, bv, _ := KeyValue(b)
	value := Combine(av, bv)
	nonEmpty := isNonEmptyArray(a) && isNonEmptyArray(b)

	if isListLike(a) && isListLike(b) {
		if nonEmpty {
			return &NonEmptyList{ValueType: value, Count: sameCount(a, b)}, true
		}
		return NewList(value), true
	}
	key := Combine(ak, bk)
	if nonEmpty {
		return &NonEmptyArray{KeyType: key, ValueType: value, Count: sameCount(a, b)}, true
	}
	return NewArray(key, value), true
}

func isListLike(a Atomic) bool {
	switch a.(type) {
	case *List, *NonEmptyList:
		return true
	}
	return false
}

func isNonEmptyArray(a Atomic) bool {
	switch a.(type) {
	case *NonEmptyArray, *NonEmptyList:
		return true
	}
	return false
}

func countOf(a Atomic) int {
	switch t := a.(type) {
	case *NonEmptyArray:
		return t.Count
	case *NonEmptyList:
		return t.Count
	}
	return 0
}

func sameCount(a, b Atomic) int {
	if countOf(a) == countOf(b) {
		return countOf(a)
	}
	return 0
}

// mergeKeyedArrays merges two shapes property by property. A property
// missing on one side becomes possibly undefined.
func mergeKeyedArrays(x, y *KeyedArray) *KeyedArray {
	r := &KeyedArray{
		Sealed: x.Sealed && y.Sealed,
		IsList: x.IsList && y.IsList,
	}
	for _, p := range x.props {
		t := p.Type.Clone()
		if q, ok := y.Property(p.Key); ok {
			t = Combine(p.Type, q)
		} else {
			t.PossiblyUndefined = true
		}
		r.props = append(r.props, Property{Key: p.Key, Type: t})
	}
	for _, q := range y.props {
		if _, ok := x.Property(q.Key); ok {
			continue
		}
		t := q.Type.Clone()
		t.PossiblyUndefined = true
		r.props = append(r.props, Property{Key: q.Key, Type: t})
	}
	if !r.Sealed {
		r.PreviousKeyType = combineOptional(x.PreviousKeyType, y.PreviousKeyType)
		r.PreviousValueType = combineOptional(x.PreviousValueType, y.PreviousValueType)
	}
	return r
}

func combineOptional(x, y *Union) *Union {
	switch {
	case x == nil && y == nil:
		return nil
	case x == nil:
		return y.Clone()
	case y == nil:
		return x.Clone()
	}
	return Combine(x, y)
}
