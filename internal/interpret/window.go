package interpret

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hesabkit/hesabchat/internal/domain"
)

var (
	rangeFromTo   = regexp.MustCompile(`from\s+(\d{4}-\d{2}-\d{2})\s+(?:to|until|through)\s+(\d{4}-\d{2}-\d{2})`)
	rangeBetween  = regexp.MustCompile(`between\s+(\d{4}-\d{2}-\d{2})\s+and\s+(\d{4}-\d{2}-\d{2})`)
	rangePastN    = regexp.MustCompile(`past\s+(\d{1,3})\s+(day|week|month|year)s?`)
	keywordRanges = []string{
		"today", "yesterday", "this week", "last week",
		"this month", "last month", "this year", "last year",
	}
)

// ParseWindow turns free text into a date window. Patterns are tried in a
// fixed precedence order and the first match wins; a pattern whose tokens
// fail to parse is skipped rather than reported as an error. Text is
// expected lowercased. When nothing matches the window is unbounded with
// the label "all time".
func ParseWindow(text string, now time.Time) domain.TimeWindow {
	if w, ok := explicitRange(rangeFromTo, text); ok {
		return w
	}
	if w, ok := explicitRange(rangeBetween, text); ok {
		return w
	}
	if w, ok := pastUnits(text, now); ok {
		return w
	}
	for _, kw := range keywordRanges {
		if strings.Contains(text, kw) {
			return keywordWindow(kw, now)
		}
	}
	return domain.TimeWindow{Label: "all time"}
}

// HasTimeHint reports whether the text names any recognizable date range.
func HasTimeHint(text string, now time.Time) bool {
	return ParseWindow(text, now).Label != "all time"
}

func explicitRange(re *regexp.Regexp, text string) (domain.TimeWindow, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return domain.TimeWindow{}, false
	}
	first, ok1 := domain.ParseDay(m[1])
	second, ok2 := domain.ParseDay(m[2])
	if !ok1 || !ok2 {
		return domain.TimeWindow{}, false
	}
	if second.Before(first) {
		first, second = second, first
	}
	start := startOfDay(first)
	end := endOfDay(second)
	label := fmt.Sprintf("%s to %s", first.Format("2006-01-02"), second.Format("2006-01-02"))
	return domain.TimeWindow{Start: &start, End: &end, Label: label}, true
}

func pastUnits(text string, now time.Time) (domain.TimeWindow, bool) {
	m := rangePastN.FindStringSubmatch(text)
	if m == nil {
		return domain.TimeWindow{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return domain.TimeWindow{}, false
	}
	var from time.Time
	switch m[2] {
	case "day":
		from = now.AddDate(0, 0, -n)
	case "week":
		from = now.AddDate(0, 0, -7*n)
	case "month":
		from = now.AddDate(0, -n, 0)
	case "year":
		from = now.AddDate(-n, 0, 0)
	default:
		return domain.TimeWindow{}, false
	}
	start := startOfDay(from)
	end := endOfDay(now)
	return domain.TimeWindow{Start: &start, End: &end, Label: strings.TrimSpace(m[0])}, true
}

func keywordWindow(kw string, now time.Time) domain.TimeWindow {
	var start, end time.Time
	switch kw {
	case "today":
		start, end = startOfDay(now), endOfDay(now)
	case "yesterday":
		y := now.AddDate(0, 0, -1)
		start, end = startOfDay(y), endOfDay(y)
	case "this week":
		start, end = startOfDay(isoWeekStart(now)), endOfDay(now)
	case "last week":
		// Rolling 7 days ending now, not the calendar-previous week.
		start, end = startOfDay(now.AddDate(0, 0, -7)), endOfDay(now)
	case "this month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(now)
	case "last month":
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start = firstOfThis.AddDate(0, -1, 0)
		end = endOfDay(firstOfThis.AddDate(0, 0, -1))
	case "this year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(now)
	case "last year":
		start = time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(time.Date(now.Year()-1, 12, 31, 0, 0, 0, 0, now.Location()))
	}
	return domain.TimeWindow{Start: &start, End: &end, Label: kw}
}

func isoWeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday closes the ISO week
	}
	return t.AddDate(0, 0, -(wd - 1))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is the last second before the next midnight.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
