package checkers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reTransactionMode = regexp.MustCompile(`取引態様[：:]\s*([^\n]*)`)

// disclosureKeywords are section headings a disclosure statement normally
// carries. Too few of them suggests the wrong document was uploaded.
var disclosureKeywords = []string{
	"重要事項の説明",
	"取引態様",
	"登記",
	"権利の種類",
	"法令上の制限",
	"私道負担",
	"設備",
	"支払金",
	"契約解除",
	"損害賠償",
}

// DisclosureChecker checks disclosure statements for missing required
// entries and malformed values.
type DisclosureChecker struct{}

func (DisclosureChecker) Name() string { return "重要事項説明書チェック" }

func (DisclosureChecker) Run(text string) []Result {
	var results []Result

	found := 0
	for _, k := range disclosureKeywords {
		if strings.Contains(text, k) {
			found++
		}
	}
	if found < 3 {
		results = append(results, Result{
			Severity: SeverityInfo,
			Category: "書類種別",
			Message:  "重要事項説明書として認識される項目が少ないです",
			Detail:   "契約書や設備表の可能性があります。書類を確認してください。",
		})
	}

	for _, m := range reTransactionMode.FindAllStringSubmatchIndex(text, -1) {
		val := strings.TrimSpace(text[m[2]:m[3]])
		if utf8.RuneCountInString(val) < 2 {
			detail := val
			if detail == "" {
				detail = "(空)"
			}
			results = append(results, Result{
				Severity: SeverityWarning,
				Category: "取引態様",
				Message:  "取引態様の記載が空または短いです",
				Detail:   detail,
				Position: nearby(text, m[0], 50),
			})
		}
	}

	results = append(results, checkDates(text, reMonthDayOnly)...)

	if strings.Contains(text, "（　）") || strings.Contains(text, "（  ）") {
		results = append(results, Result{
			Severity: SeverityWarning,
			Category: "空欄",
			Message:  "空欄「（　）」が含まれています。必要項目の記入を確認してください。",
		})
	}

	return results
}
