package checkers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reSmallManYen  = regexp.MustCompile(`(\d{1,2})\s*万円`)
	reRewaDate     = regexp.MustCompile(`令和\s*(\d{1,2})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	reWesternDate  = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	reLargeYen     = regexp.MustCompile(`([0-9]{4,})\s*円`)
	reMonthDayOnly = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
)

// contractPlaceholders are literal blank markers a finished contract must
// not contain.
var contractPlaceholders = []string{"（　）", "（  ）", "＿＿＿", "___", "未記入", "未定"}

// ContractChecker checks sale contracts for input mistakes: implausible
// amount digits, impossible dates, leftover blanks.
type ContractChecker struct{}

func (ContractChecker) Name() string { return "契約書チェック" }

func (ContractChecker) Run(text string) []Result {
	var results []Result

	// a single-digit 万円 amount in a sale contract is usually a dropped digit
	for _, m := range reSmallManYen.FindAllStringSubmatchIndex(text, -1) {
		val, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || val <= 0 || val >= 10 {
			continue
		}
		results = append(results, Result{
			Severity: SeverityWarning,
			Category: "金額",
			Message:  "万円の桁が少ない可能性があります（桁抜けの確認を推奨）",
			Detail:   fmt.Sprintf("「%s」", text[m[0]:m[1]]),
			Position: nearby(text, m[0], 40),
		})
	}

	results = append(results, checkDates(text, reRewaDate)...)
	results = append(results, checkDates(text, reWesternDate)...)

	for _, ph := range contractPlaceholders {
		if strings.Contains(text, ph) {
			results = append(results, Result{
				Severity: SeverityWarning,
				Category: "空欄・未記入",
				Message:  fmt.Sprintf("未記入・プレースホルダの可能性: 「%s」", ph),
				Detail:   "契約前に記入漏れがないか確認してください。",
			})
		}
	}

	// 4+ digit yen amounts without thousands separators
	for _, m := range reLargeYen.FindAllStringSubmatchIndex(text, -1) {
		digits := text[m[2]:m[3]]
		if !strings.ContainsAny(digits, ",，") {
			results = append(results, Result{
				Severity: SeverityInfo,
				Category: "金額",
				Message:  "円の表記にカンマがありません（読みやすさの確認）",
				Detail:   text[m[0]:m[1]],
			})
		}
	}

	return results
}

// checkDates validates the month and day groups of a date pattern. The
// month and day are the last two capture groups.
func checkDates(text string, re *regexp.Regexp) []Result {
	var results []Result
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		groups := (len(m) - 2) / 2
		month, errM := strconv.Atoi(text[m[2*(groups-1)]:m[2*(groups-1)+1]])
		day, errD := strconv.Atoi(text[m[2*groups]:m[2*groups+1]])
		if errM != nil || errD != nil {
			continue
		}
		if month < 1 || month > 12 {
			results = append(results, Result{
				Severity: SeverityError,
				Category: "日付",
				Message:  "月が不正です（1〜12の範囲）",
				Detail:   text[m[0]:m[1]],
				Position: nearby(text, m[0], 30),
			})
		}
		if day < 1 || day > 31 {
			results = append(results, Result{
				Severity: SeverityError,
				Category: "日付",
				Message:  "日が不正です（1〜31の範囲）",
				Detail:   text[m[0]:m[1]],
				Position: nearby(text, m[0], 30),
			})
		}
	}
	return results
}
