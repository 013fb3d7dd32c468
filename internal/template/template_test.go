package template

import (
	"testing"

	"github.com/alecthomas/repr"

	"github.com/you-not-fish/phptype/internal/types"
)

type testClass struct {
	templates []Param
	parents   map[string][]*types.Union // folded ancestor name to its arguments
}

// testCodebase is a class table keyed by folded class name. Its parent
// lists are already transitive.
type testCodebase map[string]testClass

func (cb testCodebase) class(name string) (testClass, bool) {
	c, ok := cb[types.FoldName(name)]
	return c, ok
}

func (cb testCodebase) TemplateParams(class string) ([]Param, bool) {
	c, ok := cb.class(class)
	if !ok || len(c.templates) == 0 {
		return nil, false
	}
	return c.templates, true
}

func (cb testCodebase) ExtendedParams(class, ancestor string) ([]*types.Union, bool) {
	c, ok := cb.class(class)
	if !ok {
		return nil, false
	}
	args, ok := c.parents[types.FoldName(ancestor)]
	return args, ok && len(args) > 0
}

func (cb testCodebase) IsSubclass(class, ancestor string) bool {
	if types.SameClass(class, ancestor) {
		return true
	}
	c, ok := cb.class(class)
	if !ok {
		return false
	}
	_, ok = c.parents[types.FoldName(ancestor)]
	return ok
}

func newTestCodebase() testCodebase {
	collectionT := types.NewTemplateParam("T", "Collection", nil)
	acKey := types.NewTemplateParam("TKey", "ArrayCollection", types.Of(types.ArrayKey))
	acValue := types.NewTemplateParam("TValue", "ArrayCollection", nil)
	return testCodebase{
		"traversable": {
			templates: []Param{{Name: "TKey", As: types.Of(types.Mixed)}, {Name: "TValue", As: types.Of(types.Mixed)}},
		},
		"collection": {
			templates: []Param{{Name: "T", As: types.Of(types.Mixed), Covariant: true}},
			parents: map[string][]*types.Union{
				"traversable": {types.Of(types.Int), of(collectionT)},
			},
		},
		"arraycollection": {
			templates: []Param{{Name: "TKey", As: types.Of(types.ArrayKey)}, {Name: "TValue", As: types.Of(types.Mixed)}},
			parents: map[string][]*types.Union{
				"collection":  {of(acValue)},
				"traversable": {of(acKey), of(acValue)},
			},
		},
		"intcollection": {
			parents: map[string][]*types.Union{
				"collection":  {types.Of(types.Int)},
				"traversable": {types.Of(types.Int), types.Of(types.Int)},
			},
		},
		"foo": {},
		"bar": {parents: map[string][]*types.Union{"foo": nil}},
		"baz": {},
	}
}

func of(ts ...types.Atomic) *types.Union { return types.NewUnion(ts...) }

func named(name string) *types.NamedObject { return types.NewNamedObject(name) }

func param(name, scope string, as *types.Union) *types.Union {
	return of(types.NewTemplateParam(name, scope, as))
}

func generic(t *testing.T, name string, params ...*types.Union) *types.GenericObject {
	t.Helper()
	g, err := types.NewGenericObject(name, params...)
	if err != nil {
		t.Fatalf("NewGenericObject(%s) failed: %v", name, err)
	}
	return g
}

func prop(name string, u *types.Union) types.Property {
	return types.Property{Key: types.StringKey(name), Type: u}
}

func keyed(t *testing.T, props ...types.Property) *types.KeyedArray {
	t.Helper()
	k, err := types.NewKeyedArray(props)
	if err != nil {
		t.Fatalf("NewKeyedArray() failed: %v", err)
	}
	return k
}

// declare returns a result with the given function templates in play,
// each standing in for its bound.
func declare(tps ...*types.TemplateParam) *TemplateResult {
	r := NewTemplateResult()
	for _, tp := range tps {
		r.Declare(tp.Name, tp.Scope, tp.As)
	}
	return r
}

func assertUnion(t *testing.T, what string, got *types.Union, want string) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %q", what, want)
		return
	}
	if got.ID() != want {
		t.Errorf("%s = %q, want %q\n%s", what, got.ID(), want, repr.String(got, repr.Indent("  ")))
	}
}

func assertBound(t *testing.T, r *TemplateResult, name, scope, want string) {
	t.Helper()
	b, ok := r.UpperBound(name, scope)
	if !ok {
		t.Errorf("UpperBound(%s, %s) missing, want %q", name, scope, want)
		return
	}
	if b.Type.ID() != want {
		t.Errorf("UpperBound(%s, %s) = %q, want %q", name, scope, b.Type.ID(), want)
	}
}

func TestMappedParams(t *testing.T) {
	cb := newTestCodebase()
	collection := generic(t, "Collection", types.Of(types.Mixed))

	tests := []struct {
		name      string
		input     types.Atomic
		container types.Atomic
		want      []string
	}{
		{"same class", generic(t, "Collection", types.Of(types.Int)), collection, []string{"int"}},
		{"subclass", generic(t, "ArrayCollection", types.Of(types.String), of(named("Foo"))), collection, []string{"Foo"}},
		{"subclass without arguments", named("ArrayCollection"), collection, []string{"mixed"}},
		{"concrete subclass", named("IntCollection"), collection, []string{"int"}},
		{
			"to traversable",
			generic(t, "ArrayCollection", types.Of(types.String), of(named("Foo"))),
			types.NewIterable(types.Of(types.Mixed), types.Of(types.Mixed)),
			[]string{"string", "Foo"},
		},
		{"unrelated", generic(t, "Baz", types.Of(types.Int)), collection, []string{"int"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := MappedParams(cb, tt.input, tt.container)
			if len(got) != len(tt.want) {
				t.Fatalf("MappedParams() = %s, want %v", repr.String(got), tt.want)
			}
			for i, w := range tt.want {
				assertUnion(t, "MappedParams()["+w+"]", got[i], w)
			}
		})
	}

	t.Run("covariance", func(t *testing.T) {
		_, cov := MappedParams(cb, generic(t, "Collection", types.Of(types.Int)), collection)
		if len(cov) != 1 || !cov[0] {
			t.Errorf("MappedParams() covariance = %v, want [true]", cov)
		}
	})

	t.Run("no codebase", func(t *testing.T) {
		got, cov := MappedParams(nil, generic(t, "ArrayCollection", types.Of(types.String), types.Of(types.Int)), collection)
		if len(got) != 2 || cov != nil {
			t.Errorf("MappedParams(nil) = %s, %v, want input arguments", repr.String(got), cov)
		}
	})
}

func TestContextCallerScope(t *testing.T) {
	ctx := NewContext(NewTemplateResult(), nil)
	ctx.CallingClass = "Foo"
	ctx.CallingFunction = "bar"

	for scope, want := range map[string]bool{"Foo": true, "fn-bar": true, "Baz": false, "fn-foo": false} {
		if got := ctx.callerScope(scope); got != want {
			t.Errorf("callerScope(%q) = %v, want %v", scope, got, want)
		}
	}
	if ctx.ArgOffset != NoOffset {
		t.Errorf("NewContext().ArgOffset = %d, want NoOffset", ctx.ArgOffset)
	}
}

func TestUnexpectedOffsetError(t *testing.T) {
	err := unexpectedOffset("list<int>", 2)
	if !IsUnexpectedOffset(err) {
		t.Fatalf("IsUnexpectedOffset(%v) = false", err)
	}
	if want := "unexpected offset 2 into list<int>"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if IsUnexpectedOffset(nil) {
		t.Errorf("IsUnexpectedOffset(nil) = true")
	}
}
