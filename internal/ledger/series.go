package ledger

import (
	"sort"

	"github.com/hesabkit/hesabchat/internal/domain"
)

const (
	expenseAccountPrefix = "6"
	bankAccountPrefix    = "111"
)

// ExpenseByMonth sums expense-account debits per calendar month. Months
// are the first 7 characters of the transaction date; only months with a
// positive total are emitted, ordered ascending.
func ExpenseByMonth(txs []domain.Transaction) []domain.SeriesPoint {
	totals := map[string]int64{}
	for _, tx := range txs {
		if len(tx.Date) < 7 {
			continue
		}
		month := tx.Date[:7]
		for _, line := range tx.Lines {
			if hasPrefix(line.AccountCode, expenseAccountPrefix) {
				totals[month] += line.Debit
			}
		}
	}
	return sortedPoints(totals, func(v int64) bool { return v > 0 })
}

// BalanceFromAccountLines builds a cumulative day-by-day balance from an
// account's detail lines, netting debit minus credit per day.
func BalanceFromAccountLines(lines []domain.AccountLine) []domain.SeriesPoint {
	perDay := map[string]int64{}
	for _, line := range lines {
		day := dayLabel(line.Date)
		if day == "" {
			continue
		}
		perDay[day] += line.Debit - line.Credit
	}
	return runningTotal(perDay)
}

// BalanceFromTransactions builds the same cumulative balance, sourcing
// bank-account postings (codes starting "111") from whole transactions.
// Used when no account detail report is available.
func BalanceFromTransactions(txs []domain.Transaction) []domain.SeriesPoint {
	perDay := map[string]int64{}
	for _, tx := range txs {
		day := dayLabel(tx.Date)
		if day == "" {
			continue
		}
		var net int64
		for _, line := range tx.Lines {
			if hasPrefix(line.AccountCode, bankAccountPrefix) {
				net += line.Debit - line.Credit
			}
		}
		if net != 0 {
			perDay[day] += net
		}
	}
	return runningTotal(perDay)
}

// ApplyWindow keeps the balance points dated inside the window. A window
// with no activity does not produce an empty chart: when an end bound
// exists, the latest point at or before it is carried forward as the last
// known balance.
func ApplyWindow(points []domain.SeriesPoint, w domain.TimeWindow) []domain.SeriesPoint {
	if w.Unbounded() {
		return points
	}
	inside := make([]domain.SeriesPoint, 0, len(points))
	for _, p := range points {
		d, ok := domain.ParseDay(p.Label)
		if !ok || w.Contains(d) {
			inside = append(inside, p)
		}
	}
	if len(inside) > 0 || w.End == nil {
		return inside
	}
	var carried *domain.SeriesPoint
	for i := range points {
		d, ok := domain.ParseDay(points[i].Label)
		if !ok || d.After(*w.End) {
			continue
		}
		if carried == nil || points[i].Label > carried.Label {
			carried = &points[i]
		}
	}
	if carried == nil {
		return nil
	}
	return []domain.SeriesPoint{*carried}
}

func runningTotal(perDay map[string]int64) []domain.SeriesPoint {
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days) // ISO day labels sort chronologically
	points := make([]domain.SeriesPoint, 0, len(days))
	var total int64
	for _, day := range days {
		total += perDay[day]
		points = append(points, domain.SeriesPoint{Label: day, Value: total})
	}
	return points
}

func sortedPoints(totals map[string]int64, keep func(int64) bool) []domain.SeriesPoint {
	labels := make([]string, 0, len(totals))
	for label, v := range totals {
		if keep(v) {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	points := make([]domain.SeriesPoint, 0, len(labels))
	for _, label := range labels {
		points = append(points, domain.SeriesPoint{Label: label, Value: totals[label]})
	}
	return points
}

func dayLabel(date string) string {
	d, ok := domain.ParseDay(date)
	if !ok {
		return ""
	}
	return d.Format("2006-01-02")
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
