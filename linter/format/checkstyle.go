package format

import (
	"encoding/xml"
	"errors"
	"strings"

	"github.com/speclint/speclint/validation"
)

// CheckstyleFormatter renders results as Checkstyle-compatible XML, the
// format most CI dashboards (Jenkins, GitLab, SonarQube) already know how
// to ingest without a speclint-specific plugin.
type CheckstyleFormatter struct{}

func NewCheckstyleFormatter() *CheckstyleFormatter {
	return &CheckstyleFormatter{}
}

type checkstyleRoot struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string           `xml:"name,attr"`
	Errors []checkstyleItem `xml:"error"`
}

type checkstyleItem struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

func (f *CheckstyleFormatter) Format(results []error) (string, error) {
	byFile := map[string][]checkstyleItem{}
	var order []string

	addItem := func(file string, item checkstyleItem) {
		if _, seen := byFile[file]; !seen {
			order = append(order, file)
		}
		byFile[file] = append(byFile[file], item)
	}

	for _, err := range results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			file := documentFile(vErr.DocumentLocation)
			addItem(file, checkstyleItem{
				Line:     vErr.GetLineNumber(),
				Column:   vErr.GetColumnNumber(),
				Severity: checkstyleSeverity(vErr.Severity),
				Message:  vErr.UnderlyingError.Error(),
				Source:   vErr.Rule,
			})
			continue
		}
		addItem("", checkstyleItem{Severity: "error", Message: err.Error(), Source: "internal"})
	}

	root := checkstyleRoot{Version: "4.3"}
	for _, file := range order {
		root.Files = append(root.Files, checkstyleFile{Name: file, Errors: byFile[file]})
	}

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out) + "\n", nil
}

func checkstyleSeverity(s validation.Severity) string {
	switch s {
	case validation.SeverityError:
		return "error"
	case validation.SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// documentFile strips the "#pointer" suffix DocumentLocation carries,
// since checkstyle groups findings by file, not by in-document location.
func documentFile(documentLocation string) string {
	if idx := strings.Index(documentLocation, "#"); idx >= 0 {
		return documentLocation[:idx]
	}
	return documentLocation
}
