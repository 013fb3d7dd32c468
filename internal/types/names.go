package types

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName returns the case-folded form of a class name.
// PHP class names are case-insensitive.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimPrefix(name, `\`))
}

// SameClass reports whether a and b name the same class.
func SameClass(a, b string) bool {
	if a == b {
		return true
	}
	return FoldName(a) == FoldName(b)
}
