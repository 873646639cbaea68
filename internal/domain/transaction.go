package domain

import "time"

// Transaction is one journal entry as returned by the backend. Date is a
// calendar day in ISO form ("yyyy-MM-dd"); some historical rows carry a
// trailing time component, which is ignored.
type Transaction struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Reference   string       `json:"reference,omitempty"`
	Description string       `json:"description,omitempty"`
	Lines       []Line       `json:"lines,omitempty"`
	EntityLinks []EntityLink `json:"entity_links,omitempty"`
}

// Line is one debit/credit posting within a transaction. Amounts are
// integers in the smallest currency unit; debit and credit are never
// negative.
type Line struct {
	AccountCode string `json:"account_code"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
	Description string `json:"line_description,omitempty"`
}

// Day parses the transaction date down to its calendar day. The second
// return is false when the date does not start with a valid ISO day.
func (t Transaction) Day() (time.Time, bool) {
	return ParseDay(t.Date)
}

// ParseDay reads the leading "yyyy-MM-dd" of a date string, truncating any
// trailing time portion.
func ParseDay(s string) (time.Time, bool) {
	if len(s) > 10 {
		s = s[:10]
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
