package template

import (
	"strings"
	"testing"

	"github.com/you-not-fish/phptype/internal/types"
)

func TestStandinNoOp(t *testing.T) {
	in := of(types.NewArray(types.Of(types.Int), types.Of(types.String)))
	input := of(types.NewArray(types.Of(types.Int), types.Of(types.String)))

	t.Run("nothing in play", func(t *testing.T) {
		got, err := ReplaceWithStandins(NewContext(NewTemplateResult(), nil), in, input, true, false, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got != in {
			t.Errorf("ReplaceWithStandins() = %s, want the same union", got)
		}
	})

	t.Run("no placeholder", func(t *testing.T) {
		r := declare(types.NewTemplateParam("T", "fn-f", nil))
		got, err := ReplaceWithStandins(NewContext(r, newTestCodebase()), in, input, true, false, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got != in {
			t.Errorf("ReplaceWithStandins() = %s, want the same union", got)
		}
		if len(r.BoundParams()) != 0 {
			t.Errorf("ReplaceWithStandins() bound %v", r.BoundParams())
		}
	})

	t.Run("not replacing", func(t *testing.T) {
		tp := types.NewTemplateParam("T", "fn-f", nil)
		decl := of(types.NewList(of(tp)))
		got, err := ReplaceWithStandins(NewContext(declare(tp), nil), decl, of(types.NewList(types.Of(types.Int))), false, false, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got != decl {
			t.Errorf("ReplaceWithStandins(replace=false) = %s, want the same union", got)
		}
	})
}

func TestStandinSelfReference(t *testing.T) {
	tp := types.NewTemplateParam("T", "fn-f", nil)
	r := NewTemplateResult()
	r.Declare("T", "fn-f", of(types.NewList(of(tp))))

	got, err := ReplaceWithStandins(NewContext(r, nil), of(tp), nil, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("ReplaceWithStandins() = nil")
	}
	n := strings.Count(got.ID(), "list<")
	if n == 0 || n > MaxDepth {
		t.Errorf("ReplaceWithStandins() = %s, want between 1 and %d nested lists", got, MaxDepth)
	}
	if !strings.Contains(got.ID(), "T:fn-f") {
		t.Errorf("ReplaceWithStandins() = %s, want the innermost placeholder kept", got)
	}
}

func TestStandinInference(t *testing.T) {
	key := types.NewTemplateParam("TKey", "fn-f", types.Of(types.ArrayKey))
	value := types.NewTemplateParam("TValue", "fn-f", nil)
	elem := types.NewTemplateParam("T", "fn-f", nil)
	bounded := types.NewTemplateParam("T", "fn-f", of(named("Foo")))

	tests := []struct {
		name   string
		tps    []*types.TemplateParam
		decl   *types.Union
		input  *types.Union
		want   string // substituted declaration
		bounds map[string]string
	}{
		{
			"array slots",
			[]*types.TemplateParam{key, value},
			of(types.NewArray(of(key), of(value))),
			of(types.NewArray(types.Of(types.Int), types.Of(types.String))),
			"array<array-key, mixed>",
			map[string]string{"TKey": "int", "TValue": "string"},
		},
		{
			"list input against array",
			[]*types.TemplateParam{key, value},
			of(types.NewArray(of(key), of(value))),
			of(types.NewList(types.Of(types.String))),
			"array<array-key, mixed>",
			map[string]string{"TKey": "int", "TValue": "string"},
		},
		{
			"non-empty list against list",
			[]*types.TemplateParam{elem},
			of(types.NewList(of(elem))),
			of(types.NewNonEmptyList(types.Of(types.Int))),
			"list<mixed>",
			map[string]string{"T": "int"},
		},
		{
			"keyed array against array",
			[]*types.TemplateParam{key, value},
			of(types.NewArray(of(key), of(value))),
			of(keyed(t, prop("a", types.Of(types.Int)), prop("b", types.Of(types.String)))),
			"array<array-key, mixed>",
			map[string]string{"TKey": "string(a)|string(b)", "TValue": "int|string"},
		},
		{
			"array against iterable",
			[]*types.TemplateParam{key, value},
			of(types.NewIterable(of(key), of(value))),
			of(types.NewArray(types.Of(types.String), of(named("Foo")))),
			"iterable<array-key, mixed>",
			map[string]string{"TKey": "string", "TValue": "Foo"},
		},
		{
			"generic object",
			[]*types.TemplateParam{elem},
			of(generic(t, "Collection", of(elem))),
			of(generic(t, "Collection", types.Of(types.Int))),
			"Collection<mixed>",
			map[string]string{"T": "int"},
		},
		{
			"generic subclass",
			[]*types.TemplateParam{elem},
			of(generic(t, "Collection", of(elem))),
			of(generic(t, "ArrayCollection", types.Of(types.String), of(named("Foo")))),
			"Collection<mixed>",
			map[string]string{"T": "Foo"},
		},
		{
			"concrete subclass",
			[]*types.TemplateParam{elem},
			of(generic(t, "Collection", of(elem))),
			of(named("IntCollection")),
			"Collection<mixed>",
			map[string]string{"T": "int"},
		},
		{
			"traversable subclass against iterable",
			[]*types.TemplateParam{key, value},
			of(types.NewIterable(of(key), of(value))),
			of(generic(t, "ArrayCollection", types.Of(types.String), of(named("Foo")))),
			"iterable<array-key, mixed>",
			map[string]string{"TKey": "string", "TValue": "Foo"},
		},
		{
			"nullable",
			[]*types.TemplateParam{elem},
			of(elem, types.Typ[types.Null]),
			of(types.Typ[types.Int], types.Typ[types.Null]),
			"mixed",
			map[string]string{"T": "int"},
		},
		{
			"bounded",
			[]*types.TemplateParam{bounded},
			of(bounded),
			of(named("Bar"), types.Typ[types.Int]),
			"Foo",
			map[string]string{"T": "Bar"},
		},
		{
			"keyed record",
			[]*types.TemplateParam{elem},
			of(keyed(t, prop("id", of(elem)), prop("name", types.Of(types.String)))),
			of(keyed(t, prop("id", types.Of(types.Int)), prop("name", types.Of(types.String)))),
			"array{id: mixed, name: string}",
			map[string]string{"T": "int"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := declare(tt.tps...)
			got, err := ReplaceWithStandins(NewContext(r, newTestCodebase()), tt.decl, tt.input, true, false, 0)
			if err != nil {
				t.Fatal(err)
			}
			assertUnion(t, "ReplaceWithStandins()", got, tt.want)
			for name, want := range tt.bounds {
				assertBound(t, r, name, "fn-f", want)
			}
			if len(r.BoundParams()) != len(tt.bounds) {
				t.Errorf("BoundParams() = %v, want %d entries", r.BoundParams(), len(tt.bounds))
			}
		})
	}
}

func TestStandinCallable(t *testing.T) {
	tp := types.NewTemplateParam("T", "fn-f", nil)
	ret := types.NewTemplateParam("U", "fn-f", nil)
	decl := of(&types.Callable{Signature: &types.Signature{
		Params: []*types.Param{{Name: "x", Type: of(tp)}},
		Return: of(ret),
	}})
	input := of(&types.Closure{Signature: &types.Signature{
		Params: []*types.Param{{Name: "y", Type: types.Of(types.Int)}},
		Return: types.Of(types.String),
	}})

	r := declare(tp, ret)
	got, err := ReplaceWithStandins(NewContext(r, nil), decl, input, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertUnion(t, "ReplaceWithStandins()", got, "callable(int):mixed")
	assertBound(t, r, "U", "fn-f", "string")
	if _, ok := r.UpperBound("T", "fn-f"); ok {
		t.Errorf("parameter template was bound as an upper bound")
	}
}

func TestStandinWidening(t *testing.T) {
	tp := types.NewTemplateParam("T", "fn-f", nil)
	r := declare(tp)
	got, err := ReplaceWithStandins(NewContext(r, nil), of(types.NewList(of(tp))), of(types.NewList(types.Of(types.Int))), true, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertUnion(t, "ReplaceWithStandins(addUpperBound)", got, "list<int>")
	if _, ok := r.UpperBound("T", "fn-f"); ok {
		t.Errorf("widening recorded an upper bound")
	}
}

func TestStandinClassStrings(t *testing.T) {
	t.Run("template class-string", func(t *testing.T) {
		tpc, err := types.NewTemplateParamClass("T", "fn-f", nil)
		if err != nil {
			t.Fatal(err)
		}
		r := declare(types.NewTemplateParam("T", "fn-f", types.Of(types.Object)))
		got, err := ReplaceWithStandins(NewContext(r, nil), of(tpc), of(types.NewLiteralClassString("Foo")), true, false, 0)
		if err != nil {
			t.Fatal(err)
		}
		assertUnion(t, "ReplaceWithStandins()", got, "class-string")
		assertBound(t, r, "T", "fn-f", "Foo")
	})

	t.Run("template class-string without class input", func(t *testing.T) {
		tpc, _ := types.NewTemplateParamClass("T", "fn-f", nil)
		r := declare(types.NewTemplateParam("T", "fn-f", types.Of(types.Object)))
		if _, err := ReplaceWithStandins(NewContext(r, nil), of(tpc), types.Of(types.String), true, false, 0); err != nil {
			t.Fatal(err)
		}
		assertBound(t, r, "T", "fn-f", "mixed")
	})

	specialize := []struct {
		name  string
		decl  func() types.Atomic
		input types.Atomic
		want  string
	}{
		{
			"literal",
			func() types.Atomic { cs, _ := types.NewClassString(nil); return cs },
			types.NewLiteralClassString("Foo"),
			"class-string<Foo>",
		},
		{
			"bounded input",
			func() types.Atomic { cs, _ := types.NewClassString(nil); return cs },
			func() types.Atomic { cs, _ := types.NewClassString(named("Bar")); return cs }(),
			"class-string<Bar>",
		},
		{
			"unbounded input",
			func() types.Atomic { cs, _ := types.NewClassString(nil); return cs },
			func() types.Atomic { cs, _ := types.NewClassString(nil); return cs }(),
			"class-string",
		},
	}
	for _, tt := range specialize {
		t.Run("specialize "+tt.name, func(t *testing.T) {
			r := declare(types.NewTemplateParam("T", "fn-f", nil))
			got, err := ReplaceWithStandins(NewContext(r, nil), of(tt.decl()), of(tt.input), true, false, 0)
			if err != nil {
				t.Fatal(err)
			}
			assertUnion(t, "ReplaceWithStandins()", got, tt.want)
		})
		t.Run("specialize "+tt.name+" with no templates", func(t *testing.T) {
			got, err := ReplaceWithStandins(NewContext(NewTemplateResult(), nil), of(tt.decl()), of(tt.input), true, false, 0)
			if err != nil {
				t.Fatal(err)
			}
			assertUnion(t, "ReplaceWithStandins()", got, tt.want)
		})
	}

	t.Run("generic bound", func(t *testing.T) {
		tp := types.NewTemplateParam("T", "fn-f", nil)
		cs, err := types.NewClassString(generic(t, "Collection", of(tp)))
		if err != nil {
			t.Fatal(err)
		}
		input, _ := types.NewClassString(generic(t, "Collection", types.Of(types.Int)))
		r := declare(tp)
		if _, err := ReplaceWithStandins(NewContext(r, newTestCodebase()), of(cs), of(input), true, false, 0); err != nil {
			t.Fatal(err)
		}
		assertBound(t, r, "T", "fn-f", "int")
	})
}

func TestStandinKeyOfAndIndexedAccess(t *testing.T) {
	shape := of(keyed(t, prop("a", types.Of(types.Int)), prop("b", types.Of(types.String))))
	r := NewTemplateResult()
	r.Declare("TArray", "fn-f", shape)
	r.Declare("TKey", "fn-f", types.Of(types.String))
	r.SetUpperBound("TKey", "fn-f", Bound{Type: of(types.NewLiteralString("b")), ArgOffset: NoOffset})
	ctx := NewContext(r, nil)

	got, err := ReplaceWithStandins(ctx, of(&types.TemplateKeyOf{Name: "TArray", Scope: "fn-f", As: shape}), nil, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertUnion(t, "key-of", got, "string(a)|string(b)")

	access := &types.TemplateIndexedAccess{ArrayParam: "TArray", OffsetParam: "TKey", Scope: "fn-f"}
	got, err = ReplaceWithStandins(ctx, of(access), nil, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertUnion(t, "indexed access", got, "string")

	missing := &types.TemplateIndexedAccess{ArrayParam: "TOther", OffsetParam: "TKey", Scope: "fn-f"}
	in := of(missing)
	got, err = ReplaceWithStandins(ctx, in, nil, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("unresolved indexed access = %s, want the same union", got)
	}
}

func TestStandinUnexpectedOffset(t *testing.T) {
	a := types.NewTemplateParam("A", "fn-f", nil)
	b := types.NewTemplateParam("B", "fn-f", nil)
	c := types.NewTemplateParam("C", "fn-f", nil)
	triple := generic(t, "Triple", of(a), of(b), of(c))

	inputs := map[string]types.Atomic{
		"keyed array": keyed(t, prop("x", types.Of(types.Int))),
		"list":        types.NewList(types.Of(types.Int)),
		"class-string-map": func() types.Atomic {
			m, _ := types.NewClassStringMap("T", nil, types.Of(types.Int))
			return m
		}(),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			ctx := NewContext(declare(a, b, c), nil)
			_, err := ReplaceAtomicWithStandins(ctx, triple, input, true, false, 0)
			if !IsUnexpectedOffset(err) {
				t.Errorf("ReplaceAtomicWithStandins() error = %v, want an unexpected offset", err)
			}
		})
	}

	t.Run("unmatched inputs", func(t *testing.T) {
		ctx := NewContext(declare(a, b, c), nil)
		decl := of(types.NewList(of(triple)))
		input := of(types.NewList(of(types.NewList(types.Of(types.Int)))))
		if _, err := ReplaceWithStandins(ctx, decl, input, true, false, 0); err != nil {
			t.Errorf("ReplaceWithStandins() error = %v, want nil for unmatched classes", err)
		}
		if _, err := ReplaceAtomicWithStandins(ctx, types.NewList(of(triple)), types.NewList(of(keyed(t, prop("x", types.Of(types.Int))))), true, false, 0); err != nil {
			t.Errorf("ReplaceAtomicWithStandins() error = %v, want nil for unmatched classes", err)
		}
	})

	t.Run("two slots are fine", func(t *testing.T) {
		pair := generic(t, "Pair", of(a), of(b))
		ctx := NewContext(declare(a, b), nil)
		if _, err := ReplaceAtomicWithStandins(ctx, pair, types.NewList(types.Of(types.Int)), true, false, 0); err != nil {
			t.Errorf("ReplaceAtomicWithStandins() error = %v", err)
		}
		assertBound(t, ctx.Result, "A", "fn-f", "int")
		assertBound(t, ctx.Result, "B", "fn-f", "int")
	})
}

func TestStandinBoundMerging(t *testing.T) {
	tp := types.NewTemplateParam("T", "fn-f", nil)

	t.Run("different arguments widen", func(t *testing.T) {
		r := declare(tp)
		ctx := NewContext(r, nil)
		ctx.ArgOffset = 0
		mustStandin(t, ctx, of(tp), types.Of(types.Int))
		ctx.ArgOffset = 1
		mustStandin(t, ctx, of(tp), types.Of(types.String))
		assertBound(t, r, "T", "fn-f", "int|string")
		if got := len(r.UpperBounds("T", "fn-f")); got != 2 {
			t.Errorf("len(UpperBounds()) = %d, want 2", got)
		}
	})

	t.Run("same depth widens", func(t *testing.T) {
		r := declare(tp)
		ctx := NewContext(r, nil)
		mustStandin(t, ctx, of(tp), types.Of(types.Int))
		mustStandin(t, ctx, of(tp), types.Of(types.Float))
		assertBound(t, r, "T", "fn-f", "float|int")
	})

	t.Run("deeper bound wins", func(t *testing.T) {
		r := declare(tp)
		ctx := NewContext(r, nil)
		mustStandin(t, ctx, of(types.NewList(of(tp))), of(types.NewList(types.Of(types.Int))))
		mustStandin(t, ctx, of(tp), types.Of(types.String))
		assertBound(t, r, "T", "fn-f", "int")
	})

	t.Run("deeper input replaces a shallower bound", func(t *testing.T) {
		r := declare(tp)
		ctx := NewContext(r, nil)
		mustStandin(t, ctx, of(tp), types.Of(types.String))
		mustStandin(t, ctx, of(types.NewList(of(tp))), of(types.NewList(types.Of(types.Int))))
		assertBound(t, r, "T", "fn-f", "int")
	})

	t.Run("guess", func(t *testing.T) {
		bounded := types.NewTemplateParam("T", "fn-f", of(named("Foo")))
		r := declare(bounded)
		ctx := NewContext(r, newTestCodebase())
		mustStandin(t, ctx, of(bounded), nil)
		b, ok := r.UpperBound("T", "fn-f")
		if !ok || !b.Guess || b.Type.ID() != "Foo" {
			t.Fatalf("UpperBound() = %+v, want a Foo guess", b)
		}
		mustStandin(t, ctx, of(bounded), of(named("Bar")))
		assertBound(t, r, "T", "fn-f", "Bar")
		if b, _ := r.UpperBound("T", "fn-f"); b.Guess {
			t.Errorf("UpperBound().Guess = true after a real input")
		}
	})
}

func mustStandin(t *testing.T, ctx *Context, decl, input *types.Union) *types.Union {
	t.Helper()
	got, err := ReplaceWithStandins(ctx, decl, input, true, false, 0)
	if err != nil {
		t.Fatalf("ReplaceWithStandins(%s, %s) failed: %v", decl, input, err)
	}
	return got
}

func TestStandinLowerBounds(t *testing.T) {
	tp := types.NewTemplateParam("T", "fn-f", nil)
	r := declare(tp)
	ctx := NewContext(r, newTestCodebase())

	lower := func(input *types.Union) {
		t.Helper()
		got, err := ReplaceWithStandins(ctx, of(tp), input, false, true, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got.Single() != tp {
			t.Errorf("ReplaceWithStandins(replace=false) rewrote the placeholder")
		}
	}

	lower(types.Of(types.Int))
	lower(of(types.Typ[types.Int], types.Typ[types.String]))
	b, ok := r.LowerBound("T", "fn-f")
	if !ok || b.Type.ID() != "int" {
		t.Fatalf("LowerBound() = %+v, want int", b)
	}

	lower(types.Of(types.String))
	b, _ = r.LowerBound("T", "fn-f")
	if b.Type.ID() != "mixed" {
		t.Errorf("LowerBound() = %q, want mixed", b.Type.ID())
	}
	if len(r.Unintersectable) != 1 {
		t.Errorf("len(Unintersectable) = %d, want 1", len(r.Unintersectable))
	}
	if _, ok := r.UpperBound("T", "fn-f"); ok {
		t.Errorf("lower bound inference recorded an upper bound")
	}
}

func TestStandinForeignScope(t *testing.T) {
	foreign := types.NewTemplateParam("U", "Other", types.Of(types.Int))
	tp := types.NewTemplateParam("T", "fn-f", nil)
	r := NewTemplateResult()
	r.Declare("T", "fn-f", of(foreign))

	ctx := NewContext(r, nil)
	assertUnion(t, "foreign scope", mustStandin(t, ctx, of(tp), nil), "int")

	ctx = NewContext(r, nil)
	ctx.CallingClass = "Other"
	assertUnion(t, "caller scope", mustStandin(t, ctx, of(tp), nil), "U:Other as int")
}

func TestStandinCloneIsolation(t *testing.T) {
	tp := types.NewTemplateParam("T", "fn-f", nil)
	decl := of(types.NewArray(types.Of(types.String), of(tp)), types.NewList(types.Of(types.Int)))
	before := decl.ID()

	got := mustStandin(t, NewContext(declare(tp), nil), decl, of(types.NewArray(types.Of(types.String), types.Of(types.Float))))
	for _, a := range got.Atomics() {
		if l, ok := a.(*types.List); ok {
			l.ValueType.Add(types.Typ[types.String])
		}
		if arr, ok := a.(*types.Array); ok {
			arr.KeyType.Add(types.Typ[types.Int])
		}
	}
	if decl.ID() != before {
		t.Errorf("mutating the result changed the declaration: %s, want %s", decl.ID(), before)
	}
}

func TestStandinFacets(t *testing.T) {
	tp := types.NewTemplateParam("T", "fn-f", types.Of(types.Object))
	if err := tp.AddFacet(named("Countable")); err != nil {
		t.Fatal(err)
	}
	r := NewTemplateResult()
	r.Declare("T", "fn-f", of(named("Foo")))

	got := mustStandin(t, NewContext(r, nil), of(tp), nil)
	assertUnion(t, "ReplaceWithStandins()", got, "Foo&Countable")
}
