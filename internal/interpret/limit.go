package interpret

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

var limitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`last\s+(\d{1,4})`),
	regexp.MustCompile(`(\d{1,4})\s+(?:transactions?|vouchers?|entries)`),
	regexp.MustCompile(`top\s+(\d{1,4})`),
}

// RequestedLimit extracts how many rows the user asked for. Phrases like
// "last 5", "20 transactions" or "top 3" are honored and clamped to
// [1, 100]; "all transactions" and "show all" ask for the maximum; with no
// count the default is 10.
func RequestedLimit(text string) int {
	t := normalize(text)
	if strings.Contains(t, "all transactions") || strings.Contains(t, "show all") {
		return maxLimit
	}
	for _, re := range limitPatterns {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n < 1 {
			n = 1
		}
		if n > maxLimit {
			n = maxLimit
		}
		return n
	}
	return defaultLimit
}

var accountCodePattern = regexp.MustCompile(`\b([1-9]\d{3})\b`)
var isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// AccountCode extracts a 4-digit account code named in the text, if any.
// ISO dates are stripped first so a year like 2024 is not mistaken for a
// code.
func AccountCode(text string) string {
	t := isoDatePattern.ReplaceAllString(text, " ")
	m := accountCodePattern.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	return m[1]
}
