package format

import "fmt"

type Formatter interface {
	Format(results []error) (string, error)
}

// New resolves a formatter by the name accepted on the CLI's --format flag
// (spec.md §6 "text|json|checkstyle|summary").
func New(name string) (Formatter, error) {
	switch name {
	case "", "text", "stylish":
		return NewTextFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "checkstyle":
		return NewCheckstyleFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
