package types

import (
	"fmt"
	"strconv"
	"strings"
)

// LiteralInt represents a known integer value.
type LiteralInt struct {
	atomic
	Value int64
}

// NewLiteralInt returns the int literal v.
func NewLiteralInt(v int64) *LiteralInt { return &LiteralInt{Value: v} }

// Key implements Atomic.
func (l *LiteralInt) Key() string { return "int" }

// ID implements Atomic.
func (l *LiteralInt) ID() string { return fmt.Sprintf("int(%d)", l.Value) }

// String implements Atomic.
func (l *LiteralInt) String() string { return l.ID() }

// NamespacedString implements Atomic.
func (l *LiteralInt) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "int"
	}
	return strconv.FormatInt(l.Value, 10)
}

// NativeString implements Atomic.
func (l *LiteralInt) NativeString(ctx *DisplayContext) (string, bool) { return "int", true }

// Clone implements Atomic.
func (l *LiteralInt) Clone() Atomic { return &LiteralInt{Value: l.Value} }

// ChildNodes implements Atomic.
func (l *LiteralInt) ChildNodes() []Node { return nil }

// LiteralFloat represents a known float value.
type LiteralFloat struct {
	atomic
	Value float64
}

// NewLiteralFloat returns the float literal v.
func NewLiteralFloat(v float64) *LiteralFloat { return &LiteralFloat{Value: v} }

// Key implements Atomic.
func (l *LiteralFloat) Key() string { return "float" }

// ID implements Atomic.
func (l *LiteralFloat) ID() string { return "float(" + formatFloat(l.Value) + ")" }

// String implements Atomic.
func (l *LiteralFloat) String() string { return l.ID() }

// NamespacedString implements Atomic.
func (l *LiteralFloat) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "float"
	}
	return formatFloat(l.Value)
}

// NativeString implements Atomic.
func (l *LiteralFloat) NativeString(ctx *DisplayContext) (string, bool) { return "float", true }

// Clone implements Atomic.
func (l *LiteralFloat) Clone() Atomic { return &LiteralFloat{Value: l.Value} }

// ChildNodes implements Atomic.
func (l *LiteralFloat) ChildNodes() []Node { return nil }

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// LiteralString represents a known string value.
type LiteralString struct {
	atomic
	Value string
}

// NewLiteralString returns the string literal v.
func NewLiteralString(v string) *LiteralString { return &LiteralString{Value: v} }

// Key implements Atomic.
func (l *LiteralString) Key() string { return "string" }

// ID implements Atomic.
func (l *LiteralString) ID() string { return "string(" + l.Value + ")" }

// String implements Atomic.
func (l *LiteralString) String() string { return l.ID() }

// NamespacedString implements Atomic.
func (l *LiteralString) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "string"
	}
	return quote(l.Value)
}

// NativeString implements Atomic.
func (l *LiteralString) NativeString(ctx *DisplayContext) (string, bool) { return "string", true }

// Clone implements Atomic.
func (l *LiteralString) Clone() Atomic { return &LiteralString{Value: l.Value} }

// ChildNodes implements Atomic.
func (l *LiteralString) ChildNodes() []Node { return nil }

// LiteralClassString represents the name of a known class, as in Foo::class.
type LiteralClassString struct {
	atomic
	Value string // fully qualified class name
}

// NewLiteralClassString returns the Foo::class literal of class.
func NewLiteralClassString(class string) *LiteralClassString {
	return &LiteralClassString{Value: class}
}

// Key implements Atomic.
func (l *LiteralClassString) Key() string { return "class-string" }

// ID implements Atomic.
func (l *LiteralClassString) ID() string { return l.Value + "::class" }

// String implements Atomic.
func (l *LiteralClassString) String() string { return l.ID() }

// NamespacedString implements Atomic.
func (l *LiteralClassString) NamespacedString(ctx *DisplayContext) string {
	if ctx.phpdoc() {
		return "string"
	}
	if l.Value == "static" {
		return "static::class"
	}
	return ctx.ClassName(l.Value, true) + "::class"
}

// NativeString implements Atomic.
func (l *LiteralClassString) NativeString(ctx *DisplayContext) (string, bool) { return "string", true }

// Clone implements Atomic.
func (l *LiteralClassString) Clone() Atomic { return &LiteralClassString{Value: l.Value} }

// ChildNodes implements Atomic.
func (l *LiteralClassString) ChildNodes() []Node { return nil }

// quote renders s as a single-quoted PHP string.
func quote(s string) string {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(append(buf, '\''))
}

// baseOfLiteral returns the basic type a literal widens to, or nil.
func baseOfLiteral(a Atomic) *Basic {
	switch a.(type) {
	case *LiteralInt:
		return Typ[Int]
	case *LiteralFloat:
		return Typ[Float]
	case *LiteralString:
		return Typ[String]
	}
	return nil
}
