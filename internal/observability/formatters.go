// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/masato/disclosure-verifier/internal/checkers"
	"github.com/masato/disclosure-verifier/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
)

// statusMarks map a finding status to its display marker.
var statusMarks = map[types.Status]string{
	types.StatusError:      "✖",
	types.StatusWarning:    "⚠",
	types.StatusSuggestion: "→",
}

// Printer handles formatted output for CLI results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFindings outputs a human-readable summary of verification findings,
// grouped in their merged order.
func (p *Printer) PrintFindings(findings []types.Finding) {
	if len(findings) == 0 {
		p.printBox("照合結果", "指摘はありません。")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("指摘件数: %d\n", len(findings)))

	for _, f := range findings {
		mark, ok := statusMarks[f.Status]
		if !ok {
			mark = "?"
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s [%s] %s\n", mark, f.Category, f.Item))
		sb.WriteString(fmt.Sprintf("  %s\n", f.Message))
		if f.Evidence != "" {
			sb.WriteString(fmt.Sprintf("  正: %s\n", f.Evidence))
		}
		if f.Target != "" {
			sb.WriteString(fmt.Sprintf("  案: %s\n", f.Target))
		}
		if f.ImageIndex != nil {
			sb.WriteString(fmt.Sprintf("  画像: %d ページ目\n", *f.ImageIndex+1))
		}
	}

	p.printBox("照合結果", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCheckResults outputs the results of a rule-based document check.
func (p *Printer) PrintCheckResults(checkerName string, results []checkers.Result) {
	if len(results) == 0 {
		p.printBox(checkerName, "指摘はありません。")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("指摘件数: %d\n", len(results)))

	for _, r := range results {
		mark := "?"
		switch r.Severity {
		case checkers.SeverityError:
			mark = "✖"
		case checkers.SeverityWarning:
			mark = "⚠"
		case checkers.SeverityInfo:
			mark = "→"
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s [%s] %s\n", mark, r.Category, r.Message))
		if r.Detail != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", r.Detail))
		}
		if r.Position != "" {
			sb.WriteString(fmt.Sprintf("  該当箇所: %s\n", r.Position))
		}
	}

	p.printBox(checkerName, strings.TrimSuffix(sb.String(), "\n"))
}
