package types

import "strings"

// universe maps the keyword names of docblock type syntax to constructors
// of the types they denote. Generic keywords map to their unparameterized form.
var universe = map[string]func() Atomic{
	"mixed":     basic(Mixed),
	"void":      basic(Void),
	"never":     basic(Never),
	"no-return": basic(Never),
	"null":      basic(Null),
	"bool":      basic(Bool),
	"boolean":   basic(Bool),
	"true":      basic(True),
	"false":     basic(False),
	"int":       basic(Int),
	"integer":   basic(Int),
	"float":     basic(Float),
	"double":    basic(Float),
	"string":    basic(String),
	"numeric":   basic(Numeric),
	"array-key": basic(ArrayKey),
	"scalar":    basic(Scalar),
	"object":    basic(Object),
	"resource":  basic(Resource),

	"closed-resource": basic(ClosedResource),

	// refinements the engine does not track
	"positive-int":     basic(Int),
	"negative-int":     basic(Int),
	"non-empty-string": basic(String),
	"numeric-string":   basic(String),
	"lowercase-string": basic(String),

	"array": func() Atomic { return NewArray(Of(ArrayKey), Of(Mixed)) },
	"non-empty-array": func() Atomic {
		return NewNonEmptyArray(Of(ArrayKey), Of(Mixed))
	},
	"list":            func() Atomic { return NewList(Of(Mixed)) },
	"non-empty-list":  func() Atomic { return NewNonEmptyList(Of(Mixed)) },
	"iterable":        func() Atomic { return NewIterable(Of(Mixed), Of(Mixed)) },
	"callable":        func() Atomic { return &Callable{} },
	"class-string":    func() Atomic { return &ClassString{As: "object"} },
	"trait-string":    func() Atomic { return &ClassString{Flavor: TraitString, As: "object"} },
	"callable-string": func() Atomic { return &ClassString{Flavor: CallableString, As: "object"} },
}

func basic(kind BasicKind) func() Atomic {
	return func() Atomic { return Typ[kind] }
}

// Lookup returns the type denoted by a keyword such as "int" or "array-key".
// Keywords are case-insensitive.
func Lookup(name string) (Atomic, bool) {
	mk, ok := universe[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return mk(), true
}

// IsKeyword reports whether name is a reserved type keyword.
func IsKeyword(name string) bool {
	_, ok := universe[strings.ToLower(name)]
	return ok
}
