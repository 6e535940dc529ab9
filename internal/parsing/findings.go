// Package parsing recovers structured findings from free-form model
// responses. The model is instructed to emit a compact JSON array, but in
// practice responses arrive wrapped in markdown fences, prefixed with
// commentary, or truncated mid-object by token limits; this package repairs
// what it can and surfaces the rest as a ResponseParseError.
package parsing

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/masato/disclosure-verifier/internal/types"
)

var (
	reTrailingComma = regexp.MustCompile(`,\s*]`)
	reObjectEnd     = regexp.MustCompile(`}\s*,`)
	reSingleOpen    = regexp.MustCompile(`^\s*\[\s*\{`)
	reTrailingSep   = regexp.MustCompile(`,\s*$`)
)

// ParseFindings extracts an ordered list of findings from raw response
// text. Silently discarding a valid prefix of a truncated array is
// preferable to failing the whole request, so truncation repair is
// attempted before giving up. A top-level JSON value that is not an array
// is a defined no-findings outcome, not an error. If no structure at all
// can be recovered, the returned ResponseParseError carries the original
// raw text.
func ParseFindings(raw string) ([]types.Finding, error) {
	text := stripFences(raw)

	start := strings.IndexByte(text, '[')
	if start < 0 {
		// A parseable non-array top level (object, string, number) is the
		// no-findings outcome; anything else is unrecoverable.
		if json.Valid([]byte(text)) {
			return []types.Finding{}, nil
		}
		return nil, &ResponseParseError{
			Message: "response contains no JSON array",
			Raw:     raw,
		}
	}
	text = strings.TrimRight(text[start:], " \t\r\n")

	if strings.HasSuffix(text, "]") {
		if findings, ok := tryParse(text); ok {
			return findings, nil
		}
	}

	// Truncation repair: cut back to the last complete object boundary and
	// close the array, trying earlier boundaries if the parse still fails.
	for _, end := range objectEndsReversed(text) {
		candidate := text[:end] + "]"
		if findings, ok := tryParse(candidate); ok {
			return findings, nil
		}
	}

	// Last resort: a single-element array opening that was cut off after
	// its only (complete) object.
	if reSingleOpen.MatchString(text) {
		candidate := reTrailingSep.ReplaceAllString(text, "") + "]"
		if findings, ok := tryParse(candidate); ok {
			return findings, nil
		}
	}

	return nil, &ResponseParseError{
		Message: "no valid findings array could be recovered",
		Raw:     raw,
	}
}

// tryParse attempts a structural parse after collapsing trailing-comma
// artifacts. The bool result distinguishes "parsed" from "keep trying".
func tryParse(text string) ([]types.Finding, bool) {
	trimmed := reTrailingComma.ReplaceAllString(text, "]")

	var findings []types.Finding
	if err := json.Unmarshal([]byte(trimmed), &findings); err != nil {
		return nil, false
	}
	if findings == nil {
		findings = []types.Finding{}
	}
	return findings, true
}

// stripFences removes markdown code-fence markers, both as whole fence
// lines and as inline tokens.
func stripFences(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case "```", "```json", "```python":
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// objectEndsReversed returns the positions just past each `}` that is
// followed by a separator, last occurrence first, so truncation candidates
// are tried from the longest salvageable prefix backward.
func objectEndsReversed(text string) []int {
	matches := reObjectEnd.FindAllStringIndex(text, -1)
	ends := make([]int, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		ends = append(ends, matches[i][0]+1)
	}
	return ends
}
