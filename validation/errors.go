package validation

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Severity is the level of a reported Error.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// LocationStep is one entry in a Problem's location chain: the source
// document it points into, an RFC 6901 pointer within that document, and
// whether the finding should be rendered against the pointer's key (rather
// than its value) when the key itself is the offending token.
type LocationStep struct {
	SourceURI   string
	Pointer     string
	ReportOnKey bool
}

// Error is this engine's Problem record: a single finding produced while
// walking a document, carrying everything needed to report, sort, and
// de-duplicate it. It implements the error interface so it can flow through
// ordinary Go error-handling while still exposing the richer fields rule
// code and formatters need.
type Error struct {
	// Rule is the id of the rule or compiled assertion that produced this
	// finding (falls back to a synthesised id for assertions without one).
	Rule string

	Severity Severity

	// UnderlyingError carries the human-readable message. Kept as an error
	// (not a bare string) so standard wrapping/unwrapping still works for
	// findings that originate from a lower-level failure (e.g. a parse or
	// resolve error surfaced as a lint finding).
	UnderlyingError error

	// Suggest holds optional suggested replacement values/fixes text.
	Suggest []string

	// Location is the innermost-first chain of steps describing where the
	// finding was reported; Location[0] is the reported node itself. The
	// walker populates this once it knows the source and pointer the Node
	// came from; NewValidationError leaves it empty.
	Location []LocationStep

	// From, when set, is the $ref site through which the walker reached the
	// node this finding is about, per the ref-transparency property.
	From *LocationStep

	// Node backs GetLineNumber/GetColumnNumber.
	Node *yaml.Node

	// DocumentLocation is a flattened "sourceUri#pointer" string used for
	// sorting and for rendering a finding that crosses a $ref boundary back
	// to the document it actually appears in.
	DocumentLocation string

	// Fix, when non-nil, is a suggested automatic or interactive fix for
	// this finding.
	Fix Fix
}

// NewValidationError builds an Error for a finding discovered against a
// parsed node.
func NewValidationError(severity Severity, rule string, err error, node *yaml.Node) *Error {
	return &Error{
		Rule:            rule,
		Severity:        severity,
		UnderlyingError: err,
		Node:            node,
	}
}

// NewValueError is NewValidationError for a finding whose message is a plain
// string rather than a pre-built error.
func NewValueError(severity Severity, rule, message string, node *yaml.Node) *Error {
	return NewValidationError(severity, rule, fmt.Errorf("%s", message), node)
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d:%d] %v", e.GetLineNumber(), e.GetColumnNumber(), e.UnderlyingError)
}

// Unwrap exposes UnderlyingError to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.UnderlyingError
}

// GetLineNumber returns the 1-based line of the reported node, or -1 if this
// Error was not built against a live node.
func (e *Error) GetLineNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Line
}

// GetColumnNumber returns the 1-based column of the reported node, or -1.
func (e *Error) GetColumnNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Column
}

// Pointer returns the RFC 6901 pointer of the innermost location step, or
// "" if Location is empty.
func (e *Error) Pointer() string {
	if len(e.Location) == 0 {
		return ""
	}
	return e.Location[0].Pointer
}

// SourceURI returns the source of the innermost location step, or "" if
// Location is empty.
func (e *Error) SourceURI() string {
	if len(e.Location) == 0 {
		return ""
	}
	return e.Location[0].SourceURI
}

// WithFrom returns a copy of e with From set to step, used by the walker
// when a finding surfaces through a $ref boundary.
func (e *Error) WithFrom(step LocationStep) *Error {
	clone := *e
	clone.From = &step
	return &clone
}

// DedupeKey returns the (ruleId, locationChain, message) tuple the
// collector de-duplicates findings on.
func (e *Error) DedupeKey() string {
	key := e.Rule + "|"
	for _, l := range e.Location {
		key += l.SourceURI + "#" + l.Pointer + ";"
	}
	key += "|"
	if e.UnderlyingError != nil {
		key += e.UnderlyingError.Error()
	}
	return key
}
