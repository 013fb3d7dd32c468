package template

import (
	"github.com/you-not-fish/phptype/internal/types"
)

// MappedParams expresses the type arguments of input in terms of the
// template parameters of container's class, following the arguments each
// class in between passes to its parent. input is a named or generic
// object or an iterable (Traversable<K, V>); container is a named or
// generic object or an iterable. It also returns the covariance flags of
// container's class templates.
//
// Arguments input does not give fall back to the declared bounds of its
// class templates. With no codebase, or when the classes are unrelated,
// input's own arguments are returned.
func MappedParams(cb Codebase, input, container types.Atomic) (types.TypeParams, []bool) {
	var (
		name   string
		params types.TypeParams
	)
	switch in := input.(type) {
	case *types.GenericObject:
		name, params = in.Name, in.Params
	case *types.NamedObject:
		name = in.Name
	case *types.Iterable:
		name, params = "Traversable", types.TypeParams{in.KeyType, in.ValueType}
	default:
		return nil, nil
	}

	var target string
	switch c := container.(type) {
	case *types.GenericObject:
		target = c.Name
	case *types.NamedObject:
		target = c.Name
	case *types.Iterable:
		target = "Traversable"
	default:
		return params.Clone(), nil
	}

	var covariant []bool
	if cb != nil {
		if decl, ok := cb.TemplateParams(target); ok {
			covariant = make([]bool, len(decl))
			for i, p := range decl {
				covariant[i] = p.Covariant
			}
		}
	}

	if cb == nil || types.SameClass(name, target) {
		return params.Clone(), covariant
	}
	ext, ok := cb.ExtendedParams(name, target)
	if !ok {
		return params.Clone(), covariant
	}

	bindings := NewTemplateResult()
	if decl, ok := cb.TemplateParams(name); ok {
		for i, p := range decl {
			if i >= len(params) {
				break
			}
			for _, scope := range scopesOf(ext, name) {
				bindings.SetUpperBound(p.Name, scope, Bound{Type: params[i], ArgOffset: NoOffset})
			}
		}
	}
	out := make(types.TypeParams, len(ext))
	for i, e := range ext {
		out[i] = ReplaceWithArgTypes(e, bindings, cb)
	}
	return out, covariant
}

// scopesOf returns the distinct spellings of class used as a template
// scope in us. Class names are case-insensitive, binding keys are not.
func scopesOf(us []*types.Union, class string) []string {
	scopes := []string{class}
	for _, u := range us {
		types.Walk(u, func(n types.Node) bool {
			tp, ok := n.(*types.TemplateParam)
			if !ok || !types.SameClass(tp.Scope, class) {
				return true
			}
			for _, s := range scopes {
				if s == tp.Scope {
					return true
				}
			}
			scopes = append(scopes, tp.Scope)
			return true
		})
	}
	return scopes
}
