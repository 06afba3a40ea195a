package assert

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Predicate checks a single extracted node and reports whether it passes,
// with a human-readable reason for reporting when it does not.
type Predicate func(node *yaml.Node) (ok bool, reason string)

// Defined checks presence: ok is false when want is true and node is nil,
// or want is false and node is non-nil.
func Defined(want bool) Predicate {
	return func(node *yaml.Node) (bool, string) {
		present := node != nil
		if present == want {
			return true, ""
		}
		if want {
			return false, "must be defined"
		}
		return false, "must not be defined"
	}
}

// Pattern checks the node's scalar value against a regular expression.
func Pattern(expr string) (Predicate, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("assert: invalid pattern %q: %w", expr, err)
	}
	return func(node *yaml.Node) (bool, string) {
		if node == nil {
			return true, "" // absence is Defined's concern, not Pattern's
		}
		if re.MatchString(node.Value) {
			return true, ""
		}
		return false, fmt.Sprintf("must match pattern %q", expr)
	}, nil
}

// MinLength checks a scalar string's rune length has at least n runes.
func MinLength(n int) Predicate {
	return func(node *yaml.Node) (bool, string) {
		if node == nil {
			return true, ""
		}
		if len([]rune(node.Value)) >= n {
			return true, ""
		}
		return false, fmt.Sprintf("must be at least %d characters", n)
	}
}

// MaxLength checks a scalar string's rune length is at most n runes.
func MaxLength(n int) Predicate {
	return func(node *yaml.Node) (bool, string) {
		if node == nil {
			return true, ""
		}
		if len([]rune(node.Value)) <= n {
			return true, ""
		}
		return false, fmt.Sprintf("must be at most %d characters", n)
	}
}

// Enum checks the node's scalar value is one of allowed.
func Enum(allowed []string) Predicate {
	return func(node *yaml.Node) (bool, string) {
		if node == nil {
			return true, ""
		}
		for _, v := range allowed {
			if node.Value == v {
				return true, ""
			}
		}
		return false, fmt.Sprintf("must be one of %v", allowed)
	}
}

// Const checks the node's scalar value equals want exactly.
func Const(want string) Predicate {
	return func(node *yaml.Node) (bool, string) {
		if node == nil {
			return true, ""
		}
		if node.Value == want {
			return true, ""
		}
		return false, fmt.Sprintf("must equal %q", want)
	}
}

// identifierCasingPatterns match the programmatic-identifier casing styles
// spectral/redocly-style configs historically name; ASCII-scoped by
// convention since identifiers in these positions (operationId, component
// names, property names) are overwhelmingly ASCII.
var identifierCasingPatterns = map[string]*regexp.Regexp{
	"camelCase":  regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
	"PascalCase": regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`),
	"kebab-case": regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`),
	"snake_case": regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`),
	"macroCase":  regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`),
	"COBOL-CASE": regexp.MustCompile(`^[A-Z][A-Z0-9]*(-[A-Z0-9]+)*$`),
	"flatcase":   regexp.MustCompile(`^[a-z][a-z0-9]*$`),
}

// Casing checks the node's scalar value against a named casing style.
// "Title Case" (free text, as in a summary or description heading) is
// checked with golang.org/x/text/cases' locale-aware title transform
// rather than a regex, since title-casing rules (which words get
// capitalized) are language-dependent in a way identifier casing is not.
func Casing(style string) (Predicate, error) {
	if style == "Title Case" {
		titler := cases.Title(language.English)
		return func(node *yaml.Node) (bool, string) {
			if node == nil {
				return true, ""
			}
			if titler.String(node.Value) == node.Value {
				return true, ""
			}
			return false, "must be Title Case"
		}, nil
	}

	re, ok := identifierCasingPatterns[style]
	if !ok {
		return nil, fmt.Errorf("assert: unknown casing style %q", style)
	}
	return func(node *yaml.Node) (bool, string) {
		if node == nil {
			return true, ""
		}
		if re.MatchString(node.Value) {
			return true, ""
		}
		return false, fmt.Sprintf("must be %s", style)
	}, nil
}
