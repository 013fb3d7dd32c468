package typeparser

import (
	"errors"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/ztrue/tracerr"

	"github.com/you-not-fish/phptype/internal/types"
)

func templates() *Options {
	return &Options{
		Templates: map[string]*types.TemplateParam{
			"T":    types.NewTemplateParam("T", "fn-f", nil),
			"TKey": types.NewTemplateParam("TKey", "fn-f", types.Of(types.ArrayKey)),
			"TArr": types.NewTemplateParam("TArr", "fn-f", types.Of(types.Mixed)),
			"U":    types.NewTemplateParam("U", "Foo", types.NewUnion(types.NewNamedObject("Foo"))),
		},
		Self: "Foo",
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"int", "int"},
		{"INTEGER", "int"},
		{"?int", "int|null"},
		{"int|string|null", "int|null|string"},
		{"true|false", "bool"},
		{"5", "int(5)"},
		{"-5", "int(-5)"},
		{"1.5", "float(1.5)"},
		{`"foo"`, "string(foo)"},
		{`'a b'`, "string(a b)"},
		{"array", "array<array-key, mixed>"},
		{"array<int>", "array<array-key, int>"},
		{"array<string, list<int>>", "array<string, list<int>>"},
		{"non-empty-array<int, string>", "non-empty-array<int, string>"},
		{"non-empty-list<int>", "non-empty-list<int>"},
		{"int[]", "array<array-key, int>"},
		{"int[][]", "array<array-key, array<array-key, int>>"},
		{"iterable<string>", "iterable<mixed, string>"},
		{"iterable<int, string>", "iterable<int, string>"},
		{"array{a: int, b?: string}", "array{a: int, b?: string}"},
		{"array{a: int, ...}", "array{a: int, ...<array-key, mixed>}"},
		{"array{'quoted key': int}", "array{'quoted key': int}"},
		{"list{int, string}", "list{int, string}"},
		{"array{int, string}", "list{int, string}"},
		{"array{}", "array<never, never>"},
		{"object{a: int}", "object{a: int}"},
		{"Foo", "Foo"},
		{`\Foo\Bar`, `Foo\Bar`},
		{"Foo<int, string>", "Foo<int, string>"},
		{"Foo&Bar", "Foo&Bar"},
		{"Foo::class", "Foo::class"},
		{"Foo::Alias", "Foo::Alias"},
		{"key-of<Foo::BAR>", "key-of<Foo::BAR>"},
		{"value-of<Foo::BAR>", "value-of<Foo::BAR>"},
		{"key-of<array<string, int>>", "string"},
		{"value-of<list<int>>", "int"},
		{"callable", "callable"},
		{"callable(int, string=): void", "callable(int, string=):void"},
		{"callable(int $x, string ...$rest)", "callable(int, string...)"},
		{"pure-callable(int): string", "pure-callable(int):string"},
		{"Closure(int): bool", "Closure(int):bool"},
		{"Closure", "Closure"},
		{"class-string", "class-string"},
		{"class-string<Foo>", "class-string<Foo>"},
		{"trait-string", "trait-string"},
		{"callable-string", "callable-string"},
		{"class-string-map<T as Foo, T>", "class-string-map<T as Foo, T:class-string-map as Foo>"},
		{"(int|string)[]", "array<array-key, int|string>"},
		{"array-key", "array-key"},
		{"no-return", "never"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src, nil)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.src, err)
			}
			if got.ID() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q\n%s", tt.src, got.ID(), tt.want, repr.String(got, repr.Indent("  ")))
			}
		})
	}
}

func TestParseTemplates(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"T", "T:fn-f as mixed"},
		{"list<T>", "list<T:fn-f as mixed>"},
		{"?T", "(T:fn-f as mixed)|null"},
		{"T&Countable", "(T:fn-f as mixed)&Countable"},
		{"class-string<T>", "class-string<T:fn-f as object>"},
		{"class-string<U>", "class-string<U:Foo as Foo>"},
		{"key-of<TArr>", "key-of<TArr:fn-f>"},
		{"TArr[TKey]", "TArr:fn-f[TKey]"},
		{"(T is int ? string : bool)", "(T:fn-f is int ? string : bool)"},
		{"self", "Foo"},
		{"static", "Foo&static"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src, templates())
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.src, err)
			}
			if got.ID() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q\n%s", tt.src, got.ID(), tt.want, repr.String(got, repr.Indent("  ")))
			}
		})
	}
}

func TestParseKinds(t *testing.T) {
	u, err := Parse("array{a?: int}", nil)
	if err != nil {
		t.Fatal(err)
	}
	k, ok := u.Single().(*types.KeyedArray)
	if !ok {
		t.Fatalf("Parse() = %T, want *types.KeyedArray", u.Single())
	}
	p, _ := k.Property(types.StringKey("a"))
	if !p.PossiblyUndefined || !k.Sealed || k.IsList {
		t.Errorf("Parse() = %s, want a sealed record with an optional key", repr.String(k))
	}

	u, _ = Parse("static", &Options{Self: "Foo"})
	if n, ok := u.Single().(*types.NamedObject); !ok || !n.WasStatic {
		t.Errorf("Parse(static) = %s, want a static named object", u)
	}

	u, _ = Parse("class-string-map<T as Foo, list<T>>", nil)
	m, ok := u.Single().(*types.ClassStringMap)
	if !ok || m.Param != "T" {
		t.Fatalf("Parse() = %s, want a class-string-map over T", u)
	}
	if !m.ValueType.HasTemplate() {
		t.Errorf("class-string-map value %s does not use its parameter", m.ValueType)
	}
}

func TestParseNames(t *testing.T) {
	opts := &Options{
		Namespace: `App\Model`,
		Aliases:   map[string]string{"Coll": `Doctrine\Collection`},
	}
	tests := []struct {
		src  string
		want string
	}{
		{"User", `App\Model\User`},
		{`\User`, "User"},
		{"Coll", `Doctrine\Collection`},
		{`coll\Item`, `Doctrine\Collection\Item`},
		{"int", "int"},
		{"User::class", `App\Model\User::class`},
	}

	for _, tt := range tests {
		got, err := Parse(tt.src, opts)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.src, err)
		}
		if got.ID() != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.src, got.ID(), tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		opts *Options
	}{
		{"", nil},
		{"array<", nil},
		{"array<int, string, bool>", nil},
		{"list<int, string>", nil},
		{"int&string", nil},
		{"Foo&int", nil},
		{"list{a: int}", nil},
		{"self", nil},
		{"int[string]", nil},
		{"(int is int ? int : int)", nil},
		{"class-string<int>", nil},
		{"T<int>", templates()},
		{"value-of<TArr>", templates()},
		{"int<string>", nil},
		{"Foo(int)", nil},
		{"array{a: int, a: string}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src, tt.opts)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want an error", tt.src, got)
			}
			if !IsSyntaxError(err) && !types.IsMalformed(err) {
				t.Errorf("Parse(%q) error %v is neither a syntax nor a malformed type error", tt.src, err)
			}
		})
	}
}

func TestSyntaxErrorColumn(t *testing.T) {
	_, err := Parse("array<int,>", nil)
	if err == nil {
		t.Fatal("Parse() succeeded")
	}
	var e *SyntaxError
	if !errors.As(tracerr.Unwrap(err), &e) {
		t.Fatalf("Parse() error %v is not a SyntaxError", err)
	}
	if e.Column < 10 || e.Column > 11 {
		t.Errorf("SyntaxError.Column = %d, want the column of the bad token", e.Column)
	}
}

func TestMustParse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustParse() did not panic on a bad type")
		}
	}()
	if got := MustParse("list<int>"); got.ID() != "list<int>" {
		t.Errorf("MustParse() = %s", got)
	}
	MustParse("list<")
}
