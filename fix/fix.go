// Package fix provides a generic, non-interactive validation.Fix builder for
// rules that can express their remediation as a single function over the
// typed document.
package fix

import (
	"fmt"

	"github.com/speclint/speclint/validation"
)

// Fix is a non-interactive validation.Fix that applies ApplyFunc to a
// document of type T.
type Fix[T any] struct {
	// Desc describes what the fix does.
	Desc string

	// ApplyFunc is the function that applies the fix.
	ApplyFunc func(doc T) error
}

var _ validation.Fix = Fix[any]{}

func (f Fix[T]) Description() string {
	return f.Desc
}

func (f Fix[T]) Apply(doc any) error {
	tDoc, ok := doc.(T)
	if !ok {
		return fmt.Errorf("invalid document type: expected %T, got %T", *new(T), doc)
	}
	if f.ApplyFunc != nil {
		return f.ApplyFunc(tDoc)
	}
	return nil
}

func (f Fix[T]) Interactive() bool {
	return false
}

func (f Fix[T]) Prompts() []validation.Prompt {
	return nil
}

func (f Fix[T]) SetInput([]string) error {
	return nil
}
