// Package template implements template substitution over atomic types:
// standin substitution, which aligns a declared type with an actual input
// to infer template bindings, and argument substitution, which rewrites a
// declared type using final bindings.
package template

import (
	"strings"

	"github.com/you-not-fish/phptype/internal/types"
)

// MaxDepth bounds the substitution of a template standin into itself.
// A standin reached at this depth is spliced in as a clone without descent.
const MaxDepth = 10

// Param is a template parameter declared by a class.
type Param struct {
	Name      string
	As        *types.Union
	Covariant bool
}

// Codebase resolves class-level template declarations.
type Codebase interface {
	// TemplateParams returns the template parameters declared by class.
	TemplateParams(class string) ([]Param, bool)

	// ExtendedParams returns the arguments class passes to the template
	// parameters of ancestor, in the order ancestor declares them, expressed
	// in terms of the template parameters of class.
	ExtendedParams(class, ancestor string) ([]*types.Union, bool)

	// IsSubclass reports whether class is ancestor or extends or implements it.
	IsSubclass(class, ancestor string) bool
}

// Context carries the state of one standin substitution.
type Context struct {
	Result   *TemplateResult
	Codebase Codebase // may be nil

	// CallingClass and CallingFunction identify the caller, so that
	// placeholders of the caller's own scopes survive substitution.
	CallingClass    string
	CallingFunction string

	// ArgOffset is the offset of the argument being matched, or NoOffset.
	ArgOffset int
}

// NewContext returns a context over result with no caller and no argument offset.
func NewContext(result *TemplateResult, cb Codebase) *Context {
	return &Context{Result: result, Codebase: cb, ArgOffset: NoOffset}
}

// callerScope reports whether scope belongs to the caller.
func (ctx *Context) callerScope(scope string) bool {
	return scope == ctx.CallingClass || scope == "fn-"+ctx.CallingFunction
}

// baseKey trims the type arguments off an atomic key: Foo<int> gives Foo.
func baseKey(a types.Atomic) string {
	k := a.Key()
	if i := strings.IndexByte(k, '<'); i > 0 {
		return k[:i]
	}
	return k
}

// faceted is implemented by the atomics that embed types.Intersection.
type faceted interface {
	types.Atomic
	Facets() []types.Atomic
	SetFacets([]types.Atomic)
}

// canBeFacet reports whether a is legal as an intersection facet.
func canBeFacet(a types.Atomic) bool {
	switch a.(type) {
	case *types.NamedObject, *types.GenericObject, *types.TemplateParam, *types.Iterable, *types.ObjectWithProperties:
		return true
	}
	return false
}

func isKind(a types.Atomic, kind types.BasicKind) bool {
	b, ok := a.(*types.Basic)
	return ok && b.Kind() == kind
}

// keyOfDeclared returns the key type of a template in play whose standin is
// a single array, list or keyed array.
func keyOfDeclared(r *TemplateResult, name, scope string) *types.Union {
	declared, ok := r.Declared(name, scope)
	if !ok || !declared.IsSingle() {
		return nil
	}
	return keyOf(declared.Single())
}

func keyOf(a types.Atomic) *types.Union {
	switch t := a.(type) {
	case *types.KeyedArray:
		return t.GenericKeyType()
	case *types.List, *types.NonEmptyList:
		return types.Of(types.Int)
	case *types.Array:
		return t.KeyType.Clone()
	case *types.NonEmptyArray:
		return t.KeyType.Clone()
	}
	return nil
}

// property returns a clone of the property of the single keyed array in
// array selected by the single literal in offset.
func property(array, offset *types.Union) *types.Union {
	if array == nil || offset == nil || !array.IsSingle() || !offset.IsSingle() ||
		array.IsMixed() || offset.IsMixed() {
		return nil
	}
	k, ok := array.Single().(*types.KeyedArray)
	if !ok {
		return nil
	}
	var key types.PropertyKey
	switch lit := offset.Single().(type) {
	case *types.LiteralString:
		key = types.StringKey(lit.Value)
	case *types.LiteralInt:
		key = types.IntKey(lit.Value)
	default:
		return nil
	}
	p, ok := k.Property(key)
	if !ok {
		return nil
	}
	return p.Clone()
}
