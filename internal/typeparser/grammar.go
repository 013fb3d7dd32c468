package typeparser

import (
	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/alecthomas/participle/lexer/stateful"
)

// Lower-case rules are elided by the lexer.
var typeLexer = lexer.Must(stateful.NewSimple([]stateful.Rule{
	{Name: "whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
	{Name: "Float", Pattern: `-?\d+\.\d+`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Variable", Pattern: `\$[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Ident", Pattern: `\\?[A-Za-z_][A-Za-z0-9_]*(?:[\\-][A-Za-z_][A-Za-z0-9_]*)*`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Punct", Pattern: `[|&?<>,:{}()\[\]=]`},
}))

var typeParser = participle.MustBuild(&unionExpr{},
	participle.Lexer(typeLexer),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

// A|B
type unionExpr struct {
	Parts []*intersectionExpr `@@ ( "|" @@ )*`
}

// A&B
type intersectionExpr struct {
	Parts []*postfixExpr `@@ ( "&" @@ )*`
}

// ?T, T[] and T[K]
type postfixExpr struct {
	Nullable bool          `@"?"?`
	Term     *termExpr     `@@`
	Suffixes []*suffixExpr `@@*`
}

type suffixExpr struct {
	Open  bool       `@"["`
	Index *unionExpr `@@? "]"`
}

type termExpr struct {
	Paren  *parenExpr `  "(" @@ ")"`
	Float  *string    `| @Float`
	Int    *string    `| @Int`
	String *string    `| @String`
	Named  *namedExpr `| @@`
}

// (T) or (T is C ? A : B)
type parenExpr struct {
	Type *unionExpr `@@`
	Cond *condExpr  `( "is" @@ )?`
}

type condExpr struct {
	Condition *unionExpr `@@ "?"`
	If        *unionExpr `@@ ":"`
	Else      *unionExpr `@@`
}

// A name with an optional tail: Foo::class, Foo<T>, array{...} or
// callable(...): R.
type namedExpr struct {
	Name    string       `@Ident`
	Member  *string      `(  "::" @Ident`
	Args    []*argExpr   ` | "<" @@ ( "," @@ )* ">"`
	Shape   bool         ` | @"{"`
	Entries []*entryExpr `   ( @@ ( "," @@ )* )? ","?`
	Open    bool         `   @"..."? "}"`
	Call    bool         ` | @"("`
	Params  []*paramExpr `   ( @@ ( "," @@ )* )? ")"`
	Return  *postfixExpr `   ( ":" @@ )? )?`
}

// A type argument. The bound is only legal in class-string-map<T as Foo, V>.
type argExpr struct {
	Type *unionExpr `@@`
	As   *unionExpr `( "as" @@ )?`
}

type entryExpr struct {
	Key  *keyExpr   `( @@ ":" )?`
	Type *unionExpr `@@`
}

type keyExpr struct {
	Name     *string `( @Ident | @String`
	Index    *string `| @Int )`
	Optional bool    `@"?"?`
}

type paramExpr struct {
	Type     *unionExpr `@@`
	Variadic bool       `( @"..."`
	Optional bool       `| @"=" )?`
	Name     *string    `@Variable?`
}
