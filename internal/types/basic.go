package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Mixed
	Void
	Never
	Null

	// Scalars
	Bool
	True
	False
	Int
	Float
	String
	Numeric
	ArrayKey
	Scalar

	// Opaque values
	Object
	Resource
	ClosedResource
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	IsBoolean BasicInfo = 1 << iota
	IsInteger
	IsFloat
	IsString
	IsTop
	IsBottom
	IsNumeric = IsInteger | IsFloat
	IsScalar  = IsBoolean | IsNumeric | IsString
	IsKeyLike = IsInteger | IsString
)

// Basic represents a type without parameters: scalars, mixed, never, null and friends.
type Basic struct {
	atomic
	kind BasicKind
	info BasicInfo
	name string

	// minimum PHP version with a native spelling; major < 0 means none
	major, minor int
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// Key implements Atomic.
func (b *Basic) Key() string { return b.name }

// ID implements Atomic.
func (b *Basic) ID() string { return b.name }

// String implements Atomic.
func (b *Basic) String() string { return b.name }

// NamespacedString implements Atomic.
func (b *Basic) NamespacedString(ctx *DisplayContext) string {
	return b.name
}

// NativeString implements Atomic.
func (b *Basic) NativeString(ctx *DisplayContext) (string, bool) {
	if b.major < 0 || !ctx.AtLeast(b.major, b.minor) {
		return "", false
	}
	return b.name, true
}

// Clone returns b; basic types carry no mutable state.
func (b *Basic) Clone() Atomic { return b }

// ChildNodes implements Atomic.
func (b *Basic) ChildNodes() []Node { return nil }

// Typ holds the basic types, indexed by BasicKind.
// Typ[Invalid] is nil, representing an invalid type.
var Typ = []*Basic{
	Invalid:        nil,
	Mixed:          {kind: Mixed, info: IsTop, name: "mixed", major: 8},
	Void:           {kind: Void, name: "void", major: 7, minor: 1},
	Never:          {kind: Never, info: IsBottom, name: "never", major: 8, minor: 1},
	Null:           {kind: Null, name: "null", major: 8, minor: 2},
	Bool:           {kind: Bool, info: IsBoolean, name: "bool"},
	True:           {kind: True, info: IsBoolean, name: "true", major: 8, minor: 2},
	False:          {kind: False, info: IsBoolean, name: "false", major: 8, minor: 2},
	Int:            {kind: Int, info: IsInteger, name: "int"},
	Float:          {kind: Float, info: IsFloat, name: "float"},
	String:         {kind: String, info: IsString, name: "string"},
	Numeric:        {kind: Numeric, info: IsNumeric, name: "numeric", major: -1},
	ArrayKey:       {kind: ArrayKey, info: IsKeyLike, name: "array-key", major: -1},
	Scalar:         {kind: Scalar, info: IsScalar, name: "scalar", major: -1},
	Object:         {kind: Object, name: "object", major: 7, minor: 2},
	Resource:       {kind: Resource, name: "resource", major: -1},
	ClosedResource: {kind: ClosedResource, name: "closed-resource", major: -1},
}

// Of returns a union holding the single basic type of the given kind.
func Of(kind BasicKind) *Union {
	return NewUnion(Typ[kind])
}
