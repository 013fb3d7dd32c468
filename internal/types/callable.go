package types

import "strings"

// Purity records whether a callable is known to be free of side effects.
type Purity int

const (
	PurityUnknown Purity = iota
	Pure
	Impure
)

func (p Purity) prefix() string {
	switch p {
	case Pure:
		return "pure-"
	case Impure:
		return "impure-"
	}
	return ""
}

// Param is a callable parameter.
type Param struct {
	Name     string
	Type     *Union // nil means unspecified (mixed)
	Optional bool
	Variadic bool
	ByRef    bool
}

func (p *Param) render(elem func(*Union) string) string {
	s := "mixed"
	if p.Type != nil {
		s = elem(p.Type)
	}
	if p.ByRef {
		s += "&"
	}
	switch {
	case p.Variadic:
		s += "..."
	case p.Optional:
		s += "="
	}
	return s
}

func (p *Param) clone() *Param {
	c := *p
	c.Type = p.Type.Clone()
	return &c
}

// Signature is the parameter list and return type of a callable.
type Signature struct {
	Params []*Param
	Return *Union // nil means unspecified
	Purity Purity
}

func (s *Signature) render(elem func(*Union) string) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.render(elem))
	}
	b.WriteByte(')')
	if s.Return != nil {
		b.WriteByte(':')
		b.WriteString(elem(s.Return))
	}
	return b.String()
}

// Clone returns a deep copy of s.
func (s *Signature) Clone() *Signature {
	if s == nil {
		return nil
	}
	c := &Signature{Params: make([]*Param, len(s.Params)), Return: s.Return.Clone(), Purity: s.Purity}
	for i, p := range s.Params {
		c.Params[i] = p.clone()
	}
	return c
}

func (s *Signature) nodes() []Node {
	if s == nil {
		return nil
	}
	nodes := make([]Node, 0, len(s.Params)+1)
	for _, p := range s.Params {
		if p.Type != nil {
			nodes = append(nodes, p.Type)
		}
	}
	if s.Return != nil {
		nodes = append(nodes, s.Return)
	}
	return nodes
}

func equalSignatures(x, y *Signature) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.Purity != y.Purity || len(x.Params) != len(y.Params) {
		return false
	}
	for i, p := range x.Params {
		q := y.Params[i]
		if p.Optional != q.Optional || p.Variadic != q.Variadic || p.ByRef != q.ByRef {
			return false
		}
		if !equalOptional(p.Type, q.Type) {
			return false
		}
	}
	return equalOptional(x.Return, y.Return)
}

func equalOptional(x, y *Union) bool {
	if x == nil || y == nil {
		return x == y
	}
	return EqualUnions(x, y)
}

// Callable represents callable or callable(int): string.
type Callable struct {
	atomic
	Signature *Signature // nil for a bare callable
}

func (c *Callable) render(elem func(*Union) string) string {
	if c.Signature == nil {
		return "callable"
	}
	return c.Signature.Purity.prefix() + "callable" + c.Signature.render(elem)
}

// Key implements Atomic.
func (c *Callable) Key() string { return c.render((*Union).Key) }

// ID implements Atomic.
func (c *Callable) ID() string { return c.render((*Union).ID) }

// String implements Atomic.
func (c *Callable) String() string { return c.ID() }

// NamespacedString implements Atomic.
func (c *Callable) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "callable"
	}
	return c.render(func(u *Union) string { return u.NamespacedString(ctx) })
}

// NativeString implements Atomic.
func (c *Callable) NativeString(ctx *DisplayContext) (string, bool) { return "callable", true }

// Clone implements Atomic.
func (c *Callable) Clone() Atomic { return &Callable{Signature: c.Signature.Clone()} }

// ChildNodes implements Atomic.
func (c *Callable) ChildNodes() []Node { return c.Signature.nodes() }

// Closure represents an instance of Closure, optionally with a signature.
type Closure struct {
	atomic
	Signature *Signature // nil for a bare Closure
	Intersection
}

func (c *Closure) render(elem func(*Union) string) string {
	if c.Signature == nil {
		return "Closure"
	}
	return c.Signature.Purity.prefix() + "Closure" + c.Signature.render(elem)
}

// Key implements Atomic.
func (c *Closure) Key() string { return c.render((*Union).Key) + c.facetKeys() }

// ID implements Atomic.
func (c *Closure) ID() string { return c.render((*Union).ID) + c.facetIDs() }

// String implements Atomic.
func (c *Closure) String() string { return c.ID() }

// NamespacedString implements Atomic.
func (c *Closure) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return ctx.ClassName("Closure", false) + c.facetNamespaced(ctx)
	}
	return c.render(func(u *Union) string { return u.NamespacedString(ctx) }) + c.facetNamespaced(ctx)
}

// NativeString implements Atomic.
func (c *Closure) NativeString(ctx *DisplayContext) (string, bool) {
	facets, ok := c.facetNative(ctx)
	if !ok {
		return "", false
	}
	return ctx.ClassName("Closure", false) + facets, true
}

// Clone implements Atomic.
func (c *Closure) Clone() Atomic {
	return &Closure{Signature: c.Signature.Clone(), Intersection: c.cloneFacets()}
}

// ChildNodes implements Atomic.
func (c *Closure) ChildNodes() []Node {
	return append(c.Signature.nodes(), c.facetNodes()...)
}
