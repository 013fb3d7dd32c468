package types

import (
	"strings"

	"golang.org/x/exp/slices"
)

// DisplayContext controls how NamespacedString and NativeString render
// class names and which PHP version gates native spellings.
type DisplayContext struct {
	Namespace    string            // current namespace, without leading backslash
	Aliases      map[string]string // imported alias -> fully qualified class
	ThisClass    string            // class rendered as "self"
	PhpdocFormat bool              // lower long-form syntax to plain phpdoc
	PHPMajor     int               // 0 means the latest version
	PHPMinor     int
}

// AtLeast reports whether the configured PHP version is at least major.minor.
func (c *DisplayContext) AtLeast(major, minor int) bool {
	if c == nil || (c.PHPMajor == 0 && c.PHPMinor == 0) {
		return true
	}
	if c.PHPMajor != major {
		return c.PHPMajor > major
	}
	return c.PHPMinor >= minor
}

func (c *DisplayContext) phpdoc() bool {
	return c != nil && c.PhpdocFormat
}

// ClassName renders a fully qualified class name relative to the context.
func (c *DisplayContext) ClassName(name string, allowSelf bool) string {
	if c == nil {
		return name
	}
	if allowSelf && c.ThisClass != "" && SameClass(name, c.ThisClass) {
		return "self"
	}

	aliases := make([]string, 0, len(c.Aliases))
	for alias := range c.Aliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		if SameClass(c.Aliases[alias], name) {
			return alias
		}
	}

	if c.Namespace != "" {
		prefix := c.Namespace + `\`
		if len(name) > len(prefix) && SameClass(name[:len(prefix)], prefix) {
			candidate := name[len(prefix):]
			first, _, _ := strings.Cut(candidate, `\`)
			if !c.hasAlias(first) {
				return candidate
			}
		}
	} else if !strings.Contains(name, `\`) {
		return name
	}

	if c.ThisClass != "" {
		prefix := c.ThisClass + `\`
		if len(name) > len(prefix) && SameClass(name[:len(prefix)], prefix) {
			return name[len(prefix):]
		}
	}
	return `\` + name
}

func (c *DisplayContext) hasAlias(name string) bool {
	for alias := range c.Aliases {
		if SameClass(alias, name) {
			return true
		}
	}
	return false
}
