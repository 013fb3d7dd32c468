// Package typeparser parses docblock type strings such as
// "array<string, list<T>>|null" into types.
package typeparser

import (
	"strconv"
	"strings"

	"github.com/you-not-fish/phptype/internal/types"
)

// Options control name resolution.
type Options struct {
	// Templates are the placeholders in scope, by name.
	Templates map[string]*types.TemplateParam

	// Self is the class denoted by self and static.
	Self string

	// Namespace and Aliases qualify relative class names.
	Namespace string
	Aliases   map[string]string
}

// Parse parses a type string. A nil opts resolves names as written.
func Parse(s string, opts *Options) (*types.Union, error) {
	if opts == nil {
		opts = &Options{}
	}
	ast := &unionExpr{}
	if err := typeParser.ParseString(s, ast); err != nil {
		return nil, syntaxError(s, err)
	}
	c := &converter{src: s, opts: opts}
	return c.union(ast)
}

// MustParse is Parse for inputs known to be valid. It panics on error.
func MustParse(s string) *types.Union {
	u, err := Parse(s, nil)
	if err != nil {
		panic(err)
	}
	return u
}

type converter struct {
	src  string
	opts *Options
}

func (c *converter) errorf(format string, args ...interface{}) error {
	return invalidf(c.src, format, args...)
}

func (c *converter) union(x *unionExpr) (*types.Union, error) {
	var parts []types.Atomic
	for _, p := range x.Parts {
		u, err := c.intersection(p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, u.Atomics()...)
	}
	return types.CombineAtomics(parts...), nil
}

func (c *converter) intersection(x *intersectionExpr) (*types.Union, error) {
	first, err := c.postfix(x.Parts[0])
	if err != nil || len(x.Parts) == 1 {
		return first, err
	}
	if !first.IsSingle() {
		return nil, c.errorf("%s cannot be intersected", first)
	}
	head, ok := first.Single().(interface {
		types.Atomic
		AddFacet(types.Atomic) error
	})
	if !ok {
		return nil, c.errorf("%s cannot be intersected", first)
	}
	for _, p := range x.Parts[1:] {
		u, err := c.postfix(p)
		if err != nil {
			return nil, err
		}
		if !u.IsSingle() {
			return nil, c.errorf("%s cannot be an intersection facet", u)
		}
		if err := head.AddFacet(u.Single()); err != nil {
			return nil, err
		}
	}
	return types.NewUnion(head), nil
}

func (c *converter) postfix(x *postfixExpr) (*types.Union, error) {
	u, err := c.term(x.Term)
	if err != nil {
		return nil, err
	}
	for _, s := range x.Suffixes {
		if s.Index == nil {
			u = types.NewUnion(types.NewArray(types.Of(types.ArrayKey), u))
			continue
		}
		if u, err = c.indexedAccess(u, s.Index); err != nil {
			return nil, err
		}
	}
	if x.Nullable {
		u = types.CombineAtomics(append(u.Atomics(), types.Typ[types.Null])...)
	}
	return u, nil
}

// indexedAccess builds T[K] for template parameters T and K of one scope.
func (c *converter) indexedAccess(array *types.Union, index *unionExpr) (*types.Union, error) {
	offset, err := c.union(index)
	if err != nil {
		return nil, err
	}
	at, ok1 := array.Single().(*types.TemplateParam)
	ot, ok2 := offset.Single().(*types.TemplateParam)
	if !ok1 || !ok2 || !array.IsSingle() || !offset.IsSingle() {
		return nil, c.errorf("%s[%s] needs template parameters on both sides", array, offset)
	}
	if at.Scope != ot.Scope {
		return nil, c.errorf("%s and %s are declared by different scopes", at.Name, ot.Name)
	}
	return types.NewUnion(&types.TemplateIndexedAccess{ArrayParam: at.Name, OffsetParam: ot.Name, Scope: at.Scope}), nil
}

func (c *converter) term(x *termExpr) (*types.Union, error) {
	switch {
	case x.Paren != nil:
		return c.paren(x.Paren)
	case x.Float != nil:
		v, err := strconv.ParseFloat(*x.Float, 64)
		if err != nil {
			return nil, c.errorf("bad float literal %s", *x.Float)
		}
		return types.NewUnion(types.NewLiteralFloat(v)), nil
	case x.Int != nil:
		v, err := strconv.ParseInt(*x.Int, 10, 64)
		if err != nil {
			return nil, c.errorf("bad int literal %s", *x.Int)
		}
		return types.NewUnion(types.NewLiteralInt(v)), nil
	case x.String != nil:
		return types.NewUnion(types.NewLiteralString(*x.String)), nil
	}
	return c.named(x.Named)
}

func (c *converter) paren(x *parenExpr) (*types.Union, error) {
	u, err := c.union(x.Type)
	if err != nil || x.Cond == nil {
		return u, err
	}
	tp, ok := u.Single().(*types.TemplateParam)
	if !ok || !u.IsSingle() {
		return nil, c.errorf("conditional subject %s is not a template parameter", u)
	}
	cond := &types.Conditional{Name: tp.Name, Scope: tp.Scope, As: tp.As.Clone()}
	if cond.Condition, err = c.union(x.Cond.Condition); err != nil {
		return nil, err
	}
	if cond.If, err = c.union(x.Cond.If); err != nil {
		return nil, err
	}
	if cond.Else, err = c.union(x.Cond.Else); err != nil {
		return nil, err
	}
	return types.NewUnion(cond), nil
}

func (c *converter) named(x *namedExpr) (*types.Union, error) {
	var (
		a   types.Atomic
		err error
	)
	switch {
	case x.Member != nil:
		a = c.member(x.Name, *x.Member)
	case x.Args != nil:
		a, err = c.generic(x.Name, x.Args)
	case x.Shape:
		a, err = c.shape(x)
	case x.Call:
		a, err = c.callable(x)
	default:
		a, err = c.plain(x.Name)
	}
	if err != nil {
		return nil, err
	}
	return types.NewUnion(a), nil
}

// member builds Foo::class or the type alias Foo::Alias.
func (c *converter) member(class, name string) types.Atomic {
	if strings.EqualFold(name, "class") {
		return types.NewLiteralClassString(c.className(class))
	}
	return &types.TypeAlias{Class: c.className(class), Alias: name}
}

func (c *converter) plain(name string) (types.Atomic, error) {
	if tp, ok := c.opts.Templates[name]; ok {
		return tp.Clone(), nil
	}
	switch strings.ToLower(name) {
	case "self", "static":
		if c.opts.Self == "" {
			return nil, c.errorf("%s outside a class", name)
		}
		return &types.NamedObject{Name: c.opts.Self, WasStatic: strings.EqualFold(name, "static")}, nil
	case "pure-callable":
		return &types.Callable{Signature: &types.Signature{Purity: types.Pure}}, nil
	}
	if a, ok := types.Lookup(name); ok {
		return a, nil
	}
	return types.NewNamedObject(c.className(name)), nil
}

// className qualifies a class name written in the current namespace.
func (c *converter) className(name string) string {
	if strings.HasPrefix(name, `\`) {
		return name[1:]
	}
	first, rest, nested := strings.Cut(name, `\`)
	for alias, fq := range c.opts.Aliases {
		if strings.EqualFold(alias, first) {
			if nested {
				return fq + `\` + rest
			}
			return fq
		}
	}
	if c.opts.Namespace == "" {
		return name
	}
	return c.opts.Namespace + `\` + name
}

func (c *converter) args(xs []*argExpr) ([]*types.Union, error) {
	out := make([]*types.Union, len(xs))
	for i, x := range xs {
		if x.As != nil {
			return nil, c.errorf("unexpected bound on type argument %d", i+1)
		}
		u, err := c.union(x.Type)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

func (c *converter) generic(name string, xs []*argExpr) (types.Atomic, error) {
	lower := strings.ToLower(name)
	switch lower {
	case "class-string-map":
		return c.classStringMap(xs)
	case "key-of", "value-of":
		return c.keyOrValueOf(lower == "key-of", xs)
	}
	if _, ok := c.opts.Templates[name]; ok {
		return nil, c.errorf("template %s takes no type arguments", name)
	}

	args, err := c.args(xs)
	if err != nil {
		return nil, err
	}
	arity := func(min, max int) error {
		if len(args) < min || len(args) > max {
			return c.errorf("%s takes %d to %d type arguments, got %d", name, min, max, len(args))
		}
		return nil
	}
	keyValue := func() (*types.Union, *types.Union) {
		if len(args) == 1 {
			return types.Of(types.ArrayKey), args[0]
		}
		return args[0], args[1]
	}

	switch lower {
	case "array", "non-empty-array":
		if err := arity(1, 2); err != nil {
			return nil, err
		}
		k, v := keyValue()
		if lower == "array" {
			return types.NewArray(k, v), nil
		}
		return types.NewNonEmptyArray(k, v), nil
	case "iterable":
		if err := arity(1, 2); err != nil {
			return nil, err
		}
		k, v := keyValue()
		if len(args) == 1 {
			k = types.Of(types.Mixed)
		}
		return types.NewIterable(k, v), nil
	case "list", "non-empty-list":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		if lower == "list" {
			return types.NewList(args[0]), nil
		}
		return types.NewNonEmptyList(args[0]), nil
	case "class-string", "trait-string", "callable-string":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return c.classString(lower, args[0])
	}
	if types.IsKeyword(name) {
		return nil, c.errorf("%s takes no type arguments", name)
	}
	return types.NewGenericObject(c.className(name), args...)
}

func (c *converter) classString(keyword string, arg *types.Union) (types.Atomic, error) {
	if !arg.IsSingle() {
		return nil, c.errorf("%s bound %s is not a single class", keyword, arg)
	}
	if tp, ok := arg.Single().(*types.TemplateParam); ok {
		if keyword != "class-string" {
			return nil, c.errorf("%s cannot be bounded by a template", keyword)
		}
		var as types.Atomic
		if tp.As.IsSingle() {
			switch b := tp.As.Single().(type) {
			case *types.NamedObject, *types.GenericObject:
				as = b
			}
		}
		return types.NewTemplateParamClass(tp.Name, tp.Scope, as)
	}
	cs, err := types.NewClassString(arg.Single())
	if err != nil {
		return nil, err
	}
	switch keyword {
	case "trait-string":
		cs.Flavor = types.TraitString
	case "callable-string":
		cs.Flavor = types.CallableString
	}
	return cs, nil
}

// classStringMap builds class-string-map<T as Foo, V>, where T is local to
// the map and may be used in V.
func (c *converter) classStringMap(xs []*argExpr) (types.Atomic, error) {
	if len(xs) != 2 {
		return nil, c.errorf("class-string-map takes 2 type arguments, got %d", len(xs))
	}
	name, ok := bareName(xs[0].Type)
	if !ok {
		return nil, c.errorf("class-string-map needs a parameter name")
	}
	as := types.Of(types.Object)
	if xs[0].As != nil {
		var err error
		if as, err = c.union(xs[0].As); err != nil {
			return nil, err
		}
	}
	if !as.IsSingle() {
		return nil, c.errorf("class-string-map bound %s is not a single class", as)
	}

	inner := *c.opts
	inner.Templates = make(map[string]*types.TemplateParam, len(c.opts.Templates)+1)
	for k, v := range c.opts.Templates {
		inner.Templates[k] = v
	}
	inner.Templates[name] = types.NewTemplateParam(name, types.ClassStringMapScope, as)
	value, err := (&converter{src: c.src, opts: &inner}).union(xs[1].Type)
	if err != nil {
		return nil, err
	}
	return types.NewClassStringMap(name, as.Single(), value)
}

func (c *converter) keyOrValueOf(key bool, xs []*argExpr) (types.Atomic, error) {
	keyword := "value-of"
	if key {
		keyword = "key-of"
	}
	if len(xs) != 1 || xs[0].As != nil {
		return nil, c.errorf("%s takes 1 type argument", keyword)
	}
	if n := single(xs[0].Type); n != nil && n.Member != nil && !strings.EqualFold(*n.Member, "class") {
		if key {
			return &types.KeyOfClassConstant{Class: c.className(n.Name), Const: *n.Member}, nil
		}
		return &types.ValueOfClassConstant{Class: c.className(n.Name), Const: *n.Member}, nil
	}
	arg, err := c.union(xs[0].Type)
	if err != nil {
		return nil, err
	}
	if !arg.IsSingle() {
		return nil, c.errorf("%s<%s> needs a single array", keyword, arg)
	}
	if tp, ok := arg.Single().(*types.TemplateParam); ok {
		if !key {
			return nil, c.errorf("value-of<%s> is not supported for templates", tp.Name)
		}
		return &types.TemplateKeyOf{Name: tp.Name, Scope: tp.Scope, As: tp.As.Clone()}, nil
	}
	k, v, ok := types.KeyValue(arg.Single())
	if !ok {
		return nil, c.errorf("%s<%s> needs an array", keyword, arg)
	}
	r := v
	if key {
		r = k
	}
	if !r.IsSingle() {
		return nil, c.errorf("%s<%s> is not a single type", keyword, arg)
	}
	return r.Single(), nil
}

func (c *converter) shape(x *namedExpr) (types.Atomic, error) {
	lower := strings.ToLower(x.Name)
	switch lower {
	case "array", "non-empty-array", "list", "non-empty-list", "object":
	default:
		return nil, c.errorf("%s cannot have a shape", x.Name)
	}

	props := make([]types.Property, 0, len(x.Entries))
	list := true
	for i, e := range x.Entries {
		u, err := c.union(e.Type)
		if err != nil {
			return nil, err
		}
		key := types.IntKey(int64(i))
		if k := e.Key; k != nil {
			switch {
			case k.Name != nil:
				key = types.StringKey(*k.Name)
			default:
				n, err := strconv.ParseInt(*k.Index, 10, 64)
				if err != nil {
					return nil, c.errorf("bad key %s", *k.Index)
				}
				key = types.IntKey(n)
			}
			if k.Optional {
				u.PossiblyUndefined = true
			}
		}
		if !key.IsInt || key.Int != int64(i) {
			list = false
		}
		props = append(props, types.Property{Key: key, Type: u})
	}

	if lower == "object" {
		if x.Open {
			return nil, c.errorf("object shapes cannot be open")
		}
		return types.NewObjectWithProperties(props)
	}
	if (lower == "list" || lower == "non-empty-list") && !list {
		return nil, c.errorf("%s keys must be 0..n-1", x.Name)
	}
	if len(props) == 0 {
		if x.Open {
			return c.plain(x.Name)
		}
		return types.NewArray(types.Of(types.Never), types.Of(types.Never)), nil
	}
	k, err := types.NewKeyedArray(props)
	if err != nil {
		return nil, err
	}
	k.IsList = list
	if x.Open {
		k.Sealed = false
		k.PreviousKeyType = types.Of(types.ArrayKey)
		if list {
			k.PreviousKeyType = types.Of(types.Int)
		}
		k.PreviousValueType = types.Of(types.Mixed)
	}
	return k, nil
}

func (c *converter) callable(x *namedExpr) (types.Atomic, error) {
	sig := &types.Signature{}
	for _, p := range x.Params {
		u, err := c.union(p.Type)
		if err != nil {
			return nil, err
		}
		param := &types.Param{Type: u, Optional: p.Optional, Variadic: p.Variadic}
		if p.Name != nil {
			param.Name = strings.TrimPrefix(*p.Name, "$")
		}
		sig.Params = append(sig.Params, param)
	}
	if x.Return != nil {
		r, err := c.postfix(x.Return)
		if err != nil {
			return nil, err
		}
		sig.Return = r
	}

	switch strings.ToLower(x.Name) {
	case "callable":
		return &types.Callable{Signature: sig}, nil
	case "pure-callable":
		sig.Purity = types.Pure
		return &types.Callable{Signature: sig}, nil
	case "closure":
		return &types.Closure{Signature: sig}, nil
	case "pure-closure":
		sig.Purity = types.Pure
		return &types.Closure{Signature: sig}, nil
	}
	return nil, c.errorf("%s cannot have a signature", x.Name)
}

// single returns the lone name of a type expression, or nil.
func single(u *unionExpr) *namedExpr {
	if len(u.Parts) != 1 || len(u.Parts[0].Parts) != 1 {
		return nil
	}
	p := u.Parts[0].Parts[0]
	if p.Nullable || len(p.Suffixes) > 0 {
		return nil
	}
	return p.Term.Named
}

func bareName(u *unionExpr) (string, bool) {
	n := single(u)
	if n == nil || n.Member != nil || n.Args != nil || n.Shape || n.Call {
		return "", false
	}
	return n.Name, true
}
