// Package codebase is an in-memory store of class declarations. It answers
// the template queries of the substitution engine: the template parameters
// a class declares and the arguments it passes to each of its ancestors.
package codebase

import (
	"github.com/hashicorp/go-set/v3"
	"golang.org/x/exp/slices"

	"github.com/you-not-fish/phptype/internal/template"
	"github.com/you-not-fish/phptype/internal/types"
)

// Class is a declared class or interface.
type Class struct {
	Name      string
	Templates []template.Param

	// Parents are the direct parents, extended or implemented.
	Parents []Parent

	// ancestors maps the folded name of every transitive ancestor to the
	// arguments this class passes to it. Nil until resolved.
	ancestors map[string]Parent
}

// Parent is an ancestor with the arguments passed to its template
// parameters, in declaration order. Args are expressed in terms of the
// template parameters of the inheriting class.
type Parent struct {
	Name string
	Args []*types.Union
}

// Store holds class declarations keyed by folded name.
// Inheritance is resolved lazily on the first query after a change.
type Store struct {
	classes  map[string]*Class
	resolved bool
}

// New returns an empty store.
func New() *Store {
	return &Store{classes: make(map[string]*Class)}
}

// Add puts c in the store, replacing a class of the same name.
// Parents need not be declared yet.
func (s *Store) Add(c *Class) {
	s.classes[types.FoldName(c.Name)] = c
	s.invalidate()
}

func (s *Store) invalidate() {
	if !s.resolved {
		return
	}
	for _, c := range s.classes {
		c.ancestors = nil
	}
	s.resolved = false
}

// Class returns the declaration of name.
func (s *Store) Class(name string) (*Class, bool) {
	c, ok := s.classes[types.FoldName(name)]
	return c, ok
}

// Classes returns every declared class sorted by name.
func (s *Store) Classes() []*Class {
	out := make([]*Class, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Class) int {
		switch fa, fb := types.FoldName(a.Name), types.FoldName(b.Name); {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	})
	return out
}

// Resolve flattens the inheritance of every class. It reports the first
// circular inheritance found; classes on a cycle keep the ancestors
// reached before it. Queries call Resolve on demand and ignore its error.
func (s *Store) Resolve() error {
	if s.resolved {
		return nil
	}
	s.resolved = true
	var first error
	for _, c := range s.Classes() {
		if err := s.resolve(c, set.New[string](4)); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// resolve computes the ancestors of c. The arguments c passes to an
// indirect ancestor are those its parent passes, with the parent's
// template parameters replaced by the arguments c passes to the parent.
func (s *Store) resolve(c *Class, visiting *set.Set[string]) error {
	if c.ancestors != nil {
		return nil
	}
	key := types.FoldName(c.Name)
	if !visiting.Insert(key) {
		return declErrorf(c.Name, "circular inheritance")
	}
	defer visiting.Remove(key)

	ancestors := make(map[string]Parent)
	defer func() { c.ancestors = ancestors }()

	for _, p := range c.Parents {
		pk := types.FoldName(p.Name)
		if pk == key {
			return declErrorf(c.Name, "class extends itself")
		}
		ancestors[pk] = p
	}
	for _, p := range c.Parents {
		parent, ok := s.classes[types.FoldName(p.Name)]
		if !ok {
			continue
		}
		if err := s.resolve(parent, visiting); err != nil {
			return err
		}
		r := ownBindings(c)
		for i, tp := range parent.Templates {
			if i < len(p.Args) {
				r.SetUpperBound(tp.Name, parent.Name, template.Bound{Type: p.Args[i], ArgOffset: template.NoOffset})
			}
		}
		for ak, a := range parent.ancestors {
			if _, ok := ancestors[ak]; ok {
				continue
			}
			mapped := Parent{Name: a.Name}
			for _, arg := range a.Args {
				mapped.Args = append(mapped.Args, template.ReplaceWithArgTypes(arg, r, nil))
			}
			ancestors[ak] = mapped
		}
	}
	return nil
}

// ownBindings binds the template parameters of c to themselves, so that
// they stay in place in mapped arguments.
func ownBindings(c *Class) *template.TemplateResult {
	r := template.NewTemplateResult()
	for _, p := range c.Templates {
		r.SetUpperBound(p.Name, c.Name, template.Bound{
			Type:      types.NewUnion(types.NewTemplateParam(p.Name, c.Name, p.As)),
			ArgOffset: template.NoOffset,
		})
	}
	return r
}

func (s *Store) ancestors(class string) (map[string]Parent, bool) {
	_ = s.Resolve()
	c, ok := s.Class(class)
	if !ok {
		return nil, false
	}
	return c.ancestors, true
}

// Ancestors returns every transitive ancestor of class sorted by name,
// with the arguments class passes to it.
func (s *Store) Ancestors(class string) []Parent {
	m, ok := s.ancestors(class)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Parent, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// TemplateParams returns the template parameters declared by class.
func (s *Store) TemplateParams(class string) ([]template.Param, bool) {
	c, ok := s.Class(class)
	if !ok || len(c.Templates) == 0 {
		return nil, false
	}
	return c.Templates, true
}

// ExtendedParams returns the arguments class passes to ancestor. It fails
// when ancestor is not an ancestor or takes no arguments from class.
func (s *Store) ExtendedParams(class, ancestor string) ([]*types.Union, bool) {
	m, ok := s.ancestors(class)
	if !ok {
		return nil, false
	}
	p, ok := m[types.FoldName(ancestor)]
	if !ok || len(p.Args) == 0 {
		return nil, false
	}
	return p.Args, true
}

// IsSubclass reports whether class is ancestor or inherits from it.
func (s *Store) IsSubclass(class, ancestor string) bool {
	if types.SameClass(class, ancestor) {
		return true
	}
	m, ok := s.ancestors(class)
	if !ok {
		return false
	}
	_, ok = m[types.FoldName(ancestor)]
	return ok
}

var _ template.Codebase = (*Store)(nil)
