package classifier

import (
	"regexp"
	"strconv"
	"strings"
)

// Labeled monetary figure: "Amount: 50,000", "Rs. 1200", "INR 10000".
var amountPattern = regexp.MustCompile(`(?i)(?:Amount|Rs\.?|INR)\s*:?\s*([\d,]+)`)

// ExtractAmount returns the first labeled monetary figure in text, or 0
// when none is present. Comma grouping is stripped before parsing.
func ExtractAmount(text string) int64 {
	match := amountPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}

	amount, err := strconv.ParseInt(strings.ReplaceAll(match[1], ",", ""), 10, 64)
	if err != nil {
		return 0
	}

	return amount
}
