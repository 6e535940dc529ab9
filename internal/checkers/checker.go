// Package checkers implements rule-based plausibility checks over the
// extracted text of transaction documents. These run without a model and
// catch mechanical input mistakes: wrong digits, impossible dates, blank
// placeholders, broken numbering.
package checkers

import "strings"

// Severity grades a check result.
type Severity string

const (
	// SeverityError marks a clear input mistake or missing required entry.
	SeverityError Severity = "error"
	// SeverityWarning marks something suspicious that needs review.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks reference information.
	SeverityInfo Severity = "info"
)

// Result is one reported issue.
type Result struct {
	Severity Severity
	Category string
	Message  string
	Detail   string
	Position string // surrounding text excerpt
}

// Checker runs a document-type-specific rule set over plain text.
type Checker interface {
	// Name is the checker's display name.
	Name() string
	// Run executes the checks and returns the issues found.
	Run(text string) []Result
}

// ForDocumentType returns the checker for a document type identifier
// (contract, disclosure, equipment), or nil for an unknown type.
func ForDocumentType(docType string) Checker {
	switch docType {
	case "contract":
		return ContractChecker{}
	case "disclosure":
		return DisclosureChecker{}
	case "equipment":
		return EquipmentChecker{}
	default:
		return nil
	}
}

// nearby returns the text surrounding the byte offset pos, for locating an
// issue in the source document. Rune fragments cut at the window edges are
// dropped.
func nearby(text string, pos, length int) string {
	start := max(0, pos-length)
	end := min(len(text), pos+length)
	excerpt := strings.ToValidUTF8(text[start:end], "")
	excerpt = strings.ReplaceAll(excerpt, "\n", " ")
	return strings.TrimSpace(excerpt)
}
