package linter

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// IgnoreFile is the decoded shape of a .speclint-ignore.yaml file: each
// source URI maps to the "ruleId@pointer" locations to silence there
// (spec.md §4.H mentions this only in passing as "a list of locations to
// silence"; this is the concrete shape that reference supplements).
type IgnoreFile map[string][]string

// LoadIgnoreFile reads and decodes an ignore file from path.
func LoadIgnoreFile(path string) (IgnoreFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ignore file %q: %w", path, err)
	}
	var ig IgnoreFile
	if err := yaml.Unmarshal(data, &ig); err != nil {
		return nil, fmt.Errorf("parse ignore file %q: %w", path, err)
	}
	return ig, nil
}

// Apply splits results into the findings that survive suppression and the
// count an ignore entry silenced. A finding is suppressed when its source
// URI has a "<ruleId>@<pointer>" entry matching the finding exactly.
func (ig IgnoreFile) Apply(results []error) (kept []error, ignored int) {
	if len(ig) == 0 {
		return results, 0
	}
	for _, err := range results {
		var vErr *validation.Error
		if errors.As(err, &vErr) && ig.suppresses(vErr) {
			ignored++
			continue
		}
		kept = append(kept, err)
	}
	return kept, ignored
}

func (ig IgnoreFile) suppresses(vErr *validation.Error) bool {
	uri, pointer := splitDocumentLocation(vErr.DocumentLocation)
	entries, ok := ig[uri]
	if !ok {
		return false
	}
	want := vErr.Rule + "@" + pointer
	for _, entry := range entries {
		if entry == want {
			return true
		}
	}
	return false
}

func splitDocumentLocation(loc string) (uri, pointer string) {
	idx := strings.Index(loc, "#")
	if idx < 0 {
		return loc, ""
	}
	return loc[:idx], loc[idx+1:]
}
