package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/speclint/speclint/validation"
)

// TextFormatter renders the "stylish" one-finding-per-line format. Colour
// is on by default and follows fatih/color's own NO_COLOR/terminal
// detection; set Color to false to turn it off. Setting it to true does not
// force colour on where fatih/color's detection has turned it off.
type TextFormatter struct {
	Color *bool
}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (f *TextFormatter) colorize(severity validation.Severity, s string) string {
	if f.Color != nil && !*f.Color {
		return s
	}
	switch severity {
	case validation.SeverityError:
		return color.RedString(s)
	case validation.SeverityWarning:
		return color.YellowString(s)
	default:
		return color.CyanString(s)
	}
}

type textRow struct {
	location string
	severity string
	sev      validation.Severity
	rule     string
	message  string
	fixable  bool
}

func (f *TextFormatter) Format(results []error) (string, error) {
	rows := make([]textRow, 0, len(results))

	errorCount := 0
	warningCount := 0
	hintCount := 0

	for _, err := range results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			msg := vErr.UnderlyingError.Error()
			if vErr.DocumentLocation != "" {
				msg = fmt.Sprintf("%s (document: %s)", msg, vErr.DocumentLocation)
			}

			rows = append(rows, textRow{
				location: fmt.Sprintf("%d:%d", vErr.GetLineNumber(), vErr.GetColumnNumber()),
				severity: vErr.Severity.String(),
				sev:      vErr.Severity,
				rule:     vErr.Rule,
				message:  msg,
				fixable:  vErr.Fix != nil,
			})

			switch vErr.Severity {
			case validation.SeverityError:
				errorCount++
			case validation.SeverityWarning:
				warningCount++
			case validation.SeverityHint:
				hintCount++
			}
		} else {
			rows = append(rows, textRow{location: "-", severity: "error", rule: "internal", message: err.Error()})
			errorCount++
		}
	}

	var locWidth, sevWidth, ruleWidth int
	for _, r := range rows {
		locWidth = max(locWidth, len(r.location))
		sevWidth = max(sevWidth, len(r.severity))
		ruleWidth = max(ruleWidth, len(r.rule))
	}

	var sb strings.Builder
	for _, r := range rows {
		fixable := ""
		if r.fixable {
			fixable = " [fixable]"
		}
		// Pad before colorizing: ANSI escape sequences would otherwise count
		// toward the field width and misalign every column after them.
		sev := f.colorize(r.sev, fmt.Sprintf("%-*s", sevWidth, r.severity))
		rule := f.colorize(r.sev, fmt.Sprintf("%-*s", ruleWidth, r.rule))
		fmt.Fprintf(&sb, "%*s %s %s %s%s\n", locWidth, r.location, sev, rule, r.message, fixable)
	}

	if len(results) > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("✖ %d problems (%d errors, %d warnings, %d hints)\n", len(results), errorCount, warningCount, hintCount))
	}

	return sb.String(), nil
}
