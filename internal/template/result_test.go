package template

import (
	"testing"

	"github.com/you-not-fish/phptype/internal/types"
)

func TestTemplateResultDeclare(t *testing.T) {
	r := NewTemplateResult()
	r.Declare("U", "fn-f", types.Of(types.Mixed))
	r.Declare("T", "fn-g", types.Of(types.Int))
	r.Declare("T", "fn-f", types.Of(types.String))

	want := []string{"T:fn-f", "T:fn-g", "U:fn-f"}
	got := r.Templates()
	if len(got) != len(want) {
		t.Fatalf("Templates() = %v, want %v", got, want)
	}
	for i, k := range got {
		if k.String() != want[i] {
			t.Errorf("Templates()[%d] = %s, want %s", i, k, want[i])
		}
	}

	if u, ok := r.Declared("T", "fn-g"); !ok || u.ID() != "int" {
		t.Errorf("Declared(T, fn-g) = %s, %v, want int", u, ok)
	}
	if _, ok := r.Declared("T", "fn-h"); ok {
		t.Errorf("Declared(T, fn-h) found an undeclared template")
	}
	if !r.declaresName("U") || r.declaresName("V") {
		t.Errorf("declaresName() does not match the declared names")
	}
}

func TestTemplateResultBounds(t *testing.T) {
	r := NewTemplateResult()
	r.SetUpperBound("T", "fn-f", Bound{Type: types.Of(types.Int), ArgOffset: 0})
	r.SetUpperBound("T", "fn-f", Bound{Type: types.Of(types.String), ArgOffset: 1, Depth: 2})

	b, ok := r.UpperBound("T", "fn-f")
	if !ok || b.Type.ID() != "string" || b.ArgOffset != 1 || b.Depth != 2 {
		t.Errorf("UpperBound(T, fn-f) = %+v, want the last bound", b)
	}

	history := r.UpperBounds("T", "fn-f")
	if len(history) != 2 || history[0].Type.ID() != "int" {
		t.Fatalf("UpperBounds(T, fn-f) = %v, want [int string]", history)
	}
	history[0] = Bound{Type: types.Of(types.Float)}
	if r.UpperBounds("T", "fn-f")[0].Type.ID() != "int" {
		t.Errorf("UpperBounds() returned the internal history")
	}

	if _, ok := r.LowerBound("T", "fn-f"); ok {
		t.Errorf("LowerBound(T, fn-f) found a bound that was never set")
	}
	r.SetLowerBound("T", "fn-f", Bound{Type: types.Of(types.Int)})
	if lb, ok := r.LowerBound("T", "fn-f"); !ok || lb.Type.ID() != "int" {
		t.Errorf("LowerBound(T, fn-f) = %+v, want int", lb)
	}
}

func TestTemplateResultFirstUpperBoundNamed(t *testing.T) {
	r := NewTemplateResult()
	r.SetUpperBound("TKey", "fn-g", Bound{Type: types.Of(types.String)})
	r.SetUpperBound("TKey", "fn-f", Bound{Type: types.Of(types.Int)})

	b, ok := r.firstUpperBoundNamed("TKey")
	if !ok || b.Type.ID() != "int" {
		t.Errorf("firstUpperBoundNamed(TKey) = %+v, want the fn-f bound", b)
	}
	if _, ok := r.firstUpperBoundNamed("TValue"); ok {
		t.Errorf("firstUpperBoundNamed(TValue) found a bound")
	}
}

func TestTemplateResultRootUpperBound(t *testing.T) {
	tests := []struct {
		name   string
		bounds map[ParamKey]*types.Union
		want   string
	}{
		{
			"direct",
			map[ParamKey]*types.Union{{"T", "fn-f"}: types.Of(types.Int)},
			"int",
		},
		{
			"chain",
			map[ParamKey]*types.Union{
				{"T", "fn-f"}: param("U", "fn-g", nil),
				{"U", "fn-g"}: param("V", "Foo", nil),
				{"V", "Foo"}:  types.Of(types.Int),
			},
			"int",
		},
		{
			"chain ends unbound",
			map[ParamKey]*types.Union{{"T", "fn-f"}: param("U", "fn-g", nil)},
			"U:fn-g as mixed",
		},
		{
			"cycle",
			map[ParamKey]*types.Union{
				{"T", "fn-f"}: param("U", "fn-g", nil),
				{"U", "fn-g"}: param("T", "fn-f", nil),
			},
			"T:fn-f as mixed",
		},
		{
			"template inside a union is a root",
			map[ParamKey]*types.Union{
				{"T", "fn-f"}: of(types.NewTemplateParam("U", "fn-g", nil), types.Typ[types.Int]),
				{"U", "fn-g"}: types.Of(types.String),
			},
			"(U:fn-g as mixed)|int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTemplateResult()
			for k, u := range tt.bounds {
				r.SetUpperBound(k.Name, k.Scope, Bound{Type: u, ArgOffset: NoOffset})
			}
			b, ok := r.RootUpperBound("T", "fn-f")
			if !ok {
				t.Fatalf("RootUpperBound(T, fn-f) missing, want %q", tt.want)
			}
			assertUnion(t, "RootUpperBound(T, fn-f)", b.Type, tt.want)
		})
	}

	if _, ok := NewTemplateResult().RootUpperBound("T", "fn-f"); ok {
		t.Errorf("RootUpperBound() on an empty result found a bound")
	}
}
