package validation

import "strings"

// FilterAmountInput restricts text typed into an amount field to a decimal
// number with at most two fractional digits. It drops every character other
// than digits and '.', keeps only the last '.', truncates the fraction to two
// digits, and turns a lone "." into "0.".
//
// This is a keystroke filter, not validation: "12." is a valid result.
func FilterAmountInput(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if last := strings.LastIndexByte(cleaned, '.'); last >= 0 {
		intPart := strings.ReplaceAll(cleaned[:last], ".", "")
		fracPart := cleaned[last+1:]
		if len(fracPart) > 2 {
			fracPart = fracPart[:2]
		}
		cleaned = intPart + "." + fracPart
	}

	if cleaned == "." {
		return "0."
	}
	return cleaned
}
