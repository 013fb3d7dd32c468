package template

import (
	"github.com/hashicorp/go-set/v3"
	"golang.org/x/exp/slices"

	"github.com/you-not-fish/phptype/internal/types"
)

// NoOffset is the argument offset of a substitution outside any call argument.
const NoOffset = -1

// ParamKey identifies a template parameter by name and defining scope.
// The scope is a class name or "fn-" followed by a function name.
type ParamKey struct {
	Name  string
	Scope string
}

func (k ParamKey) String() string { return k.Name + ":" + k.Scope }

func keyLess(a, b ParamKey) int {
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	case a.Scope < b.Scope:
		return -1
	case a.Scope > b.Scope:
		return 1
	}
	return 0
}

// Bound is one recorded bound of a template parameter.
type Bound struct {
	Type      *types.Union
	Depth     int  // substitution depth at which the bound was found
	ArgOffset int  // argument offset it came from, or NoOffset
	Guess     bool // declared bound recorded before any input was seen
}

// TemplateResult is the binding table of one call: the declared standins
// of the templates in play and the bounds inferred for them.
// Bound histories are append-only; the last entry is current.
type TemplateResult struct {
	templates map[ParamKey]*types.Union
	upper     map[ParamKey][]Bound
	lower     map[ParamKey][]Bound

	// Unintersectable collects lower bounds that had no common subtype.
	Unintersectable []*types.Union
}

// NewTemplateResult returns an empty binding table.
func NewTemplateResult() *TemplateResult {
	return &TemplateResult{
		templates: make(map[ParamKey]*types.Union),
		upper:     make(map[ParamKey][]Bound),
		lower:     make(map[ParamKey][]Bound),
	}
}

// Declare puts the template name of scope in play with the given standin,
// usually its declared bound.
func (r *TemplateResult) Declare(name, scope string, standin *types.Union) {
	r.templates[ParamKey{name, scope}] = standin
}

// Declared returns the standin of a template in play.
func (r *TemplateResult) Declared(name, scope string) (*types.Union, bool) {
	u, ok := r.templates[ParamKey{name, scope}]
	return u, ok
}

// declaresName reports whether a template called name is in play in any scope.
func (r *TemplateResult) declaresName(name string) bool {
	for k := range r.templates {
		if k.Name == name {
			return true
		}
	}
	return false
}

// Templates returns the keys of the templates in play, sorted.
func (r *TemplateResult) Templates() []ParamKey {
	return sortedKeys(r.templates)
}

// SetUpperBound records b as the current upper bound of name in scope.
func (r *TemplateResult) SetUpperBound(name, scope string, b Bound) {
	k := ParamKey{name, scope}
	r.upper[k] = append(r.upper[k], b)
}

// UpperBound returns the current upper bound of name in scope.
func (r *TemplateResult) UpperBound(name, scope string) (Bound, bool) {
	return last(r.upper[ParamKey{name, scope}])
}

// UpperBounds returns the history of upper bounds of name in scope.
func (r *TemplateResult) UpperBounds(name, scope string) []Bound {
	return slices.Clone(r.upper[ParamKey{name, scope}])
}

// BoundParams returns the sorted keys that have an upper bound.
func (r *TemplateResult) BoundParams() []ParamKey {
	return sortedKeys(r.upper)
}

// firstUpperBoundNamed returns the current upper bound of the first scope,
// in sorted order, that binds a template called name.
func (r *TemplateResult) firstUpperBoundNamed(name string) (Bound, bool) {
	for _, k := range sortedKeys(r.upper) {
		if k.Name == name {
			return last(r.upper[k])
		}
	}
	return Bound{}, false
}

// SetLowerBound records b as the current lower bound of name in scope.
func (r *TemplateResult) SetLowerBound(name, scope string, b Bound) {
	k := ParamKey{name, scope}
	r.lower[k] = append(r.lower[k], b)
}

// LowerBound returns the current lower bound of name in scope.
func (r *TemplateResult) LowerBound(name, scope string) (Bound, bool) {
	return last(r.lower[ParamKey{name, scope}])
}

// RootUpperBound returns the upper bound of name in scope after following
// bounds that are themselves a single template parameter (T bound to U
// bound to int gives int). Cycles stop at the last bound reached.
func (r *TemplateResult) RootUpperBound(name, scope string) (Bound, bool) {
	return r.root(name, scope, set.New[string](4))
}

func (r *TemplateResult) root(name, scope string, visited *set.Set[string]) (Bound, bool) {
	if visited.Contains(scope) {
		return Bound{}, false
	}
	b, ok := r.UpperBound(name, scope)
	if !ok {
		return Bound{}, false
	}
	tp, ok := b.Type.Single().(*types.TemplateParam)
	if !ok {
		return b, true
	}
	visited.Insert(scope)
	if rb, ok := r.root(tp.Name, tp.Scope, visited); ok {
		return rb, true
	}
	return b, true
}

func last(bs []Bound) (Bound, bool) {
	if len(bs) == 0 {
		return Bound{}, false
	}
	return bs[len(bs)-1], true
}

func sortedKeys[V any](m map[ParamKey]V) []ParamKey {
	keys := make([]ParamKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, keyLess)
	return keys
}
