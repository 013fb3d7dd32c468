package types

import (
	"fmt"
	"math"
)

// Equal reports whether x and y are structurally identical atomic types.
// The Remapped flag of generic objects is metadata and is ignored.
// Equal types have identical IDs.
func Equal(x, y Atomic) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return equal(x, y)
}

func equal(x, y Atomic) bool {
	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *LiteralInt:
		if y, ok := y.(*LiteralInt); ok {
			return x.Value == y.Value
		}
	case *LiteralFloat:
		if y, ok := y.(*LiteralFloat); ok {
			// by bits, as the ids of 0 and -0 differ
			return math.Float64bits(x.Value) == math.Float64bits(y.Value)
		}
	case *LiteralString:
		if y, ok := y.(*LiteralString); ok {
			return x.Value == y.Value
		}
	case *LiteralClassString:
		if y, ok := y.(*LiteralClassString); ok {
			return x.Value == y.Value
		}
	case *Array:
		if y, ok := y.(*Array); ok {
			return EqualUnions(x.KeyType, y.KeyType) && EqualUnions(x.ValueType, y.ValueType)
		}
	case *NonEmptyArray:
		if y, ok := y.(*NonEmptyArray); ok {
			return x.Count == y.Count && EqualUnions(x.KeyType, y.KeyType) && EqualUnions(x.ValueType, y.ValueType)
		}
	case *List:
		if y, ok := y.(*List); ok {
			return EqualUnions(x.ValueType, y.ValueType)
		}
	case *NonEmptyList:
		if y, ok := y.(*NonEmptyList); ok {
			return x.Count == y.Count && EqualUnions(x.ValueType, y.ValueType)
		}
	case *Iterable:
		if y, ok := y.(*Iterable); ok {
			return EqualUnions(x.KeyType, y.KeyType) && EqualUnions(x.ValueType, y.ValueType) &&
				equalFacets(&x.Intersection, &y.Intersection)
		}
	case *KeyedArray:
		if y, ok := y.(*KeyedArray); ok {
			return equalKeyedArrays(x, y)
		}
	case *NamedObject:
		if y, ok := y.(*NamedObject); ok {
			return x.Name == y.Name && x.WasStatic == y.WasStatic &&
				equalFacets(&x.Intersection, &y.Intersection)
		}
	case *GenericObject:
		if y, ok := y.(*GenericObject); ok {
			return x.Name == y.Name && x.Params.Equal(y.Params) &&
				equalFacets(&x.Intersection, &y.Intersection)
		}
	case *ObjectWithProperties:
		if y, ok := y.(*ObjectWithProperties); ok {
			return equalProperties(x.props, y.props) && equalFacets(&x.Intersection, &y.Intersection)
		}
	case *Callable:
		if y, ok := y.(*Callable); ok {
			return equalSignatures(x.Signature, y.Signature)
		}
	case *Closure:
		if y, ok := y.(*Closure); ok {
			return equalSignatures(x.Signature, y.Signature) && equalFacets(&x.Intersection, &y.Intersection)
		}
	case *ClassString:
		if y, ok := y.(*ClassString); ok {
			return x.Flavor == y.Flavor && x.As == y.As && Equal(x.AsType, y.AsType)
		}
	case *TemplateParamClass:
		if y, ok := y.(*TemplateParamClass); ok {
			return x.Name == y.Name && x.Scope == y.Scope && x.As == y.As && Equal(x.AsType, y.AsType)
		}
	case *ClassStringMap:
		if y, ok := y.(*ClassStringMap); ok {
			return x.Param == y.Param && Equal(x.AsType, y.AsType) && EqualUnions(x.ValueType, y.ValueType)
		}
	case *TemplateParam:
		if y, ok := y.(*TemplateParam); ok {
			return x.Name == y.Name && x.Scope == y.Scope && EqualUnions(x.As, y.As) &&
				equalFacets(&x.Intersection, &y.Intersection)
		}
	case *TemplateKeyOf:
		if y, ok := y.(*TemplateKeyOf); ok {
			return x.Name == y.Name && x.Scope == y.Scope && equalOptional(x.As, y.As)
		}
	case *TemplateIndexedAccess:
		if y, ok := y.(*TemplateIndexedAccess); ok {
			return *x == *y
		}
	case *Conditional:
		if y, ok := y.(*Conditional); ok {
			return x.Name == y.Name && x.Scope == y.Scope && EqualUnions(x.As, y.As) &&
				EqualUnions(x.Condition, y.Condition) && EqualUnions(x.If, y.If) && EqualUnions(x.Else, y.Else)
		}
	case *TypeAlias:
		if y, ok := y.(*TypeAlias); ok {
			return x.Class == y.Class && x.Alias == y.Alias
		}
	case *KeyOfClassConstant:
		if y, ok := y.(*KeyOfClassConstant); ok {
			return x.Class == y.Class && x.Const == y.Const
		}
	case *ValueOfClassConstant:
		if y, ok := y.(*ValueOfClassConstant); ok {
			return x.Class == y.Class && x.Const == y.Const
		}
	default:
		panic(fmt.Sprintf("types: unexpected atomic %T", x))
	}
	return false
}

func equalKeyedArrays(x, y *KeyedArray) bool {
	if x.Sealed != y.Sealed || x.IsList != y.IsList {
		return false
	}
	if !equalOptional(x.PreviousKeyType, y.PreviousKeyType) || !equalOptional(x.PreviousValueType, y.PreviousValueType) {
		return false
	}
	if x.IsList {
		return equalProperties(x.props, y.props)
	}
	return equalProperties(x.sorted(), y.sorted())
}

func equalProperties(x, y []Property) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i].Key != y[i].Key || !EqualUnions(x[i].Type, y[i].Type) {
			return false
		}
	}
	return true
}

// EqualUnions reports whether x and y hold pairwise equal atomics,
// regardless of order, and agree on PossiblyUndefined.
func EqualUnions(x, y *Union) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	if len(x.types) != len(y.types) || x.PossiblyUndefined != y.PossiblyUndefined {
		return false
	}
	for k, i := range x.slots {
		j, ok := y.slots[k]
		if !ok || !Equal(x.types[i], y.types[j]) {
			return false
		}
	}
	return true
}

// IsObjectLike reports whether a denotes an object.
func IsObjectLike(a Atomic) bool {
	switch t := a.(type) {
	case *NamedObject, *GenericObject, *ObjectWithProperties, *Closure:
		return true
	case *Basic:
		return t.kind == Object
	}
	return false
}

// IsArrayLike reports whether a denotes a PHP array.
func IsArrayLike(a Atomic) bool {
	switch a.(type) {
	case *Array, *NonEmptyArray, *List, *NonEmptyList, *KeyedArray, *ClassStringMap:
		return true
	}
	return false
}

// IsPlaceholder reports whether a is an unresolved template placeholder.
func IsPlaceholder(a Atomic) bool {
	switch a.(type) {
	case *TemplateParam, *TemplateParamClass, *TemplateKeyOf, *TemplateIndexedAccess, *Conditional:
		return true
	}
	return false
}

// ClassNameOf returns the class an object-like atomic is an instance of.
func ClassNameOf(a Atomic) (string, bool) {
	switch t := a.(type) {
	case *NamedObject:
		return t.Name, true
	case *GenericObject:
		return t.Name, true
	case *Closure:
		return "Closure", true
	}
	return "", false
}
