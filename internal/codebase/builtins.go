package codebase

// builtins declares the generic interfaces and classes of the PHP runtime
// that template resolution relies on.
var builtins = []Decl{
	{Name: `\Traversable`, Templates: []TemplateDecl{{Name: "TKey"}, {Name: "TValue", Covariant: true}}},
	{
		Name:      `\Iterator`,
		Templates: []TemplateDecl{{Name: "TKey"}, {Name: "TValue", Covariant: true}},
		Extends:   []string{`\Traversable<TKey, TValue>`},
	},
	{
		Name:      `\IteratorAggregate`,
		Templates: []TemplateDecl{{Name: "TKey"}, {Name: "TValue", Covariant: true}},
		Extends:   []string{`\Traversable<TKey, TValue>`},
	},
	{
		Name: `\Generator`,
		Templates: []TemplateDecl{
			{Name: "TKey", Covariant: true},
			{Name: "TValue", Covariant: true},
			{Name: "TSend"},
			{Name: "TReturn", Covariant: true},
		},
		Implements: []string{`\Iterator<TKey, TValue>`},
	},
	{
		Name:       `\ArrayIterator`,
		Templates:  []TemplateDecl{{Name: "TKey", As: "array-key"}, {Name: "TValue"}},
		Implements: []string{`\Iterator<TKey, TValue>`, `\ArrayAccess<TKey, TValue>`, `\Countable`},
	},
	{Name: `\ArrayAccess`, Templates: []TemplateDecl{{Name: "TKey"}, {Name: "TValue"}}},
	{Name: `\Countable`},
	{Name: `\Stringable`},
	{Name: `\Closure`},
}

// AddBuiltins declares the runtime classes Traversable, Iterator,
// IteratorAggregate, Generator, ArrayIterator, ArrayAccess, Countable,
// Stringable and Closure.
func (s *Store) AddBuiltins() {
	if err := s.Declare(builtins, nil); err != nil {
		panic(err)
	}
}
