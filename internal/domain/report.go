package domain

// SeriesPoint is one (label, value) sample of a chart series. Labels are
// day or month strings; values are signed integer amounts.
type SeriesPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Series is an ordered list of points with a display title.
type Series struct {
	Title  string        `json:"title"`
	Points []SeriesPoint `json:"points"`
}

// KpiCard is a single dashboard figure.
type KpiCard struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// MonthlySeriesRow is a (period, value) pair from the dashboard report.
type MonthlySeriesRow struct {
	Period string `json:"period"`
	Value  int64  `json:"value"`
}

// ExpenseCategoryRow is one slice of the expense-by-category breakdown.
type ExpenseCategoryRow struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// AlertItem is one dashboard alert.
type AlertItem struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// OwnerDashboard is the subset of the owner report the client renders.
type OwnerDashboard struct {
	GeneratedOn          string               `json:"generated_on"`
	Kpis                 []KpiCard            `json:"kpis"`
	ExpenseByCategory    []ExpenseCategoryRow `json:"expense_by_category"`
	MonthlyExpenseSeries []MonthlySeriesRow   `json:"monthly_expense_series"`
	HealthScore          int                  `json:"health_score"`
	Alerts               []AlertItem          `json:"alerts"`
}

// LedgerSummaryRow is one account's turnover and balance line.
type LedgerSummaryRow struct {
	AccountCode    string `json:"account_code"`
	AccountName    string `json:"account_name"`
	DebitTurnover  int64  `json:"debit_turnover"`
	CreditTurnover int64  `json:"credit_turnover"`
	DebitBalance   int64  `json:"debit_balance"`
	CreditBalance  int64  `json:"credit_balance"`
}

// LedgerSummary is the whole-ledger turnover report.
type LedgerSummary struct {
	Rows                []LedgerSummaryRow `json:"rows"`
	TotalDebitTurnover  int64              `json:"total_debit_turnover"`
	TotalCreditTurnover int64              `json:"total_credit_turnover"`
	TotalDebitBalance   int64              `json:"total_debit_balance"`
	TotalCreditBalance  int64              `json:"total_credit_balance"`
}

// MissingReference flags a transaction saved without a reference number.
type MissingReference struct {
	TransactionID      string `json:"transaction_id"`
	Date               string `json:"date"`
	Description        string `json:"description,omitempty"`
	SuggestedReference string `json:"suggested_reference,omitempty"`
}

// Invoice is a sales or purchase invoice record.
type Invoice struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	IssueDate   string `json:"issue_date"`
	DueDate     string `json:"due_date"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

// AccountLine is one posting inside an account detail report.
type AccountLine struct {
	Date            string `json:"transaction_date"`
	Reference       string `json:"reference,omitempty"`
	Description     string `json:"description,omitempty"`
	Debit           int64  `json:"debit"`
	Credit          int64  `json:"credit"`
	LineDescription string `json:"line_description,omitempty"`
}

// AccountDetail is a single account's ledger with its posting lines.
type AccountDetail struct {
	AccountCode    string        `json:"account_code"`
	AccountName    string        `json:"account_name"`
	DebitTurnover  int64         `json:"debit_turnover"`
	CreditTurnover int64         `json:"credit_turnover"`
	DebitBalance   int64         `json:"debit_balance"`
	CreditBalance  int64         `json:"credit_balance"`
	Lines          []AccountLine `json:"lines"`
}

// Attachment is an uploaded receipt or invoice file.
type Attachment struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
}

// OCRExtraction is the backend's read of an uploaded document.
type OCRExtraction struct {
	VendorName string  `json:"vendor_name,omitempty"`
	Number     string  `json:"invoice_or_receipt_no,omitempty"`
	Date       string  `json:"date,omitempty"`
	Amount     int64   `json:"amount,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	RawText    string  `json:"raw_text,omitempty"`
}
