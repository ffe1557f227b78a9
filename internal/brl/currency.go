// Package brl coerces Brazilian-formatted currency and date strings into
// canonical values, and renders them back into spreadsheet-safe text.
package brl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCurrency converts a Brazilian-formatted money string into a float.
// When the string contains a comma it is treated as the decimal separator
// and periods as thousands separators, so "1.234,56" parses to 1234.56.
// Empty, sentinel, or unparseable input yields 0.0 — dirty source data must
// never halt the pipeline.
func ParseCurrency(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" || strings.EqualFold(s, "nan") {
		return 0
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// FormatCurrency renders a value with two decimal places and a comma decimal
// separator, the shape comma-locale spreadsheets expect on import.
func FormatCurrency(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}

// FormatDecimal renders a one-decimal value (the 0-5 rating scale) with a
// comma decimal separator.
func FormatDecimal(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', 1, 64), ".", ",")
}

// FormatBRL renders a display amount with the "R$" prefix, period thousands
// grouping, and a comma decimal separator, e.g. "R$ 1.234.567,89". CSV cells
// use the ungrouped FormatCurrency; this is for human-facing summaries.
func FormatBRL(v float64) string {
	intPart, frac, _ := strings.Cut(fmt.Sprintf("%.2f", v), ".")

	var sign string
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	groups := make([]string, 0, len(intPart)/3+1)
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return "R$ " + sign + strings.Join(groups, ".") + "," + frac
}
