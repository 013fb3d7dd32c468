// Package types implements the atomic type representation of the PHP type
// system: a closed catalog of type shapes, the unions that hold them, and
// their canonical string projections.
package types

// Node is a node of a type tree: either a *Union or an Atomic.
type Node interface {
	aNode()
}

// Atomic is the interface implemented by all atomic types.
type Atomic interface {
	Node

	// Key returns the deduplication key of the type within a union.
	// It is coarser than ID: literal values collapse to their base type.
	Key() string

	// ID returns the full structural identity of the type.
	ID() string

	// String returns ID.
	String() string

	// NamespacedString renders the type for a docblock relative to ctx.
	NamespacedString(ctx *DisplayContext) string

	// NativeString renders the type as a native PHP declaration.
	// It reports false when the configured PHP version has no spelling for it.
	NativeString(ctx *DisplayContext) (string, bool)

	// Clone returns a deep copy.
	Clone() Atomic

	// ChildNodes returns the direct children in fixed order.
	ChildNodes() []Node

	// anAtomic is a marker method to restrict implementations to this package.
	anAtomic()
}

// atomic is a base struct for all atomic type implementations.
type atomic struct{}

func (atomic) aNode()    {}
func (atomic) anAtomic() {}
