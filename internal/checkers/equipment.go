package checkers

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var equipmentNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(\d+)\s*[．.)）]`),
	regexp.MustCompile(`(?m)^\s*[（(]\s*(\d+)\s*[）)]`),
}

// equipmentWords identify a fixtures-and-equipment schedule.
var equipmentWords = []string{"設備", "付属設備", "キッチン", "浴室", "トイレ", "エアコン", "給湯"}

// EquipmentChecker checks equipment schedules for numbering mistakes and
// blank rows.
type EquipmentChecker struct{}

func (EquipmentChecker) Name() string { return "設備表チェック" }

func (EquipmentChecker) Run(text string) []Result {
	var results []Result

	counts := make(map[int]int)
	for _, re := range equipmentNumberPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			counts[n]++
		}
	}

	if len(counts) > 0 {
		nums := make([]int, 0, len(counts))
		for n := range counts {
			nums = append(nums, n)
		}
		sort.Ints(nums)

		for _, n := range nums {
			if counts[n] > 1 {
				results = append(results, Result{
					Severity: SeverityWarning,
					Category: "番号重複",
					Message:  fmt.Sprintf("設備番号「%d」が重複している可能性があります", n),
					Detail:   "番号の重複がないか確認してください。",
				})
			}
		}

		var missing []int
		for n := nums[0]; n <= nums[len(nums)-1]; n++ {
			if counts[n] == 0 {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			shown := missing
			suffix := ""
			if len(missing) > 5 {
				shown = missing[:5]
				suffix = "他"
			}
			results = append(results, Result{
				Severity: SeverityInfo,
				Category: "番号連続性",
				Message:  fmt.Sprintf("番号の飛びがあります: %v%s", shown, suffix),
				Detail:   "意図した番号付けか確認してください。",
			})
		}
	}

	hasWord := false
	for _, w := range equipmentWords {
		if strings.Contains(text, w) {
			hasWord = true
			break
		}
	}
	if !hasWord {
		results = append(results, Result{
			Severity: SeverityInfo,
			Category: "書類種別",
			Message:  "設備表として認識される語が少ないです。設備表のPDFか確認してください。",
		})
	}

	if strings.Contains(text, "（　）") ||
		strings.Contains(text, strings.Repeat("－", 5)) ||
		strings.Contains(text, strings.Repeat("ー", 5)) {
		results = append(results, Result{
			Severity: SeverityWarning,
			Category: "空欄",
			Message:  "空欄や長いハイフンが含まれています。記入漏れを確認してください。",
		})
	}

	return results
}
