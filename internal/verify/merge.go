package verify

import "github.com/masato/disclosure-verifier/internal/types"

// gatingCategories are findings that question whether the verification could
// run against a complete document set. They lead the merged output so the
// reader resolves missing material before individual mismatches.
var gatingCategories = map[string]bool{
	"添付資料不足": true,
	"資料不足":   true,
}

// MergeFindings orders the two passes' findings for presentation: gating
// categories from the cross pass first, then the form-check findings, then
// the remaining cross-pass findings.
func MergeFindings(crossFindings, formFindings []types.Finding) []types.Finding {
	merged := make([]types.Finding, 0, len(crossFindings)+len(formFindings))

	for _, f := range crossFindings {
		if gatingCategories[f.Category] {
			merged = append(merged, f)
		}
	}
	merged = append(merged, formFindings...)
	for _, f := range crossFindings {
		if !gatingCategories[f.Category] {
			merged = append(merged, f)
		}
	}

	return merged
}

// shiftImageIndexes offsets every non-nil image index in place. The form
// pass sees only the target pages, so its indexes must be shifted past the
// evidence pages before the passes are merged.
func shiftImageIndexes(findings []types.Finding, offset int) {
	for i := range findings {
		if findings[i].ImageIndex == nil {
			continue
		}
		shifted := *findings[i].ImageIndex + offset
		findings[i].ImageIndex = &shifted
	}
}
