package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hesabkit/hesabchat/internal/domain"
)

const barWidth = 40

// RenderEntry prints one conversation entry in a plain, ASCII-only format.
func RenderEntry(w io.Writer, entry domain.ConversationEntry) {
	switch entry.Actor {
	case domain.ActorUser:
		return // the user already sees their own line
	case domain.ActorSystem:
		fmt.Fprintf(w, "! %s\n", entry.Text)
	default:
		fmt.Fprintf(w, "%s\n", entry.Text)
	}
	if entry.Payload == nil {
		return
	}
	switch entry.Payload.Kind {
	case domain.PayloadTransactions:
		renderTransactions(w, entry.Payload.Transactions)
	case domain.PayloadSeries:
		renderSeries(w, entry.Payload.Series)
	case domain.PayloadDashboard:
		renderDashboard(w, entry.Payload.Dashboard)
	case domain.PayloadLedger:
		renderLedger(w, entry.Payload.Ledger)
	case domain.PayloadMissing:
		renderMissing(w, entry.Payload.Missing)
	case domain.PayloadInvoices:
		renderInvoices(w, entry.Payload.Invoices)
	case domain.PayloadDraft:
		renderDraft(w, entry.Payload.Draft)
	case domain.PayloadExtraction:
		renderExtraction(w, entry.Payload.Extraction)
	case domain.PayloadSaved:
		// the entry text already carries the confirmation
	}
}

func renderTransactions(w io.Writer, txs []domain.Transaction) {
	for _, tx := range txs {
		var debit int64
		for _, line := range tx.Lines {
			debit += line.Debit
		}
		desc := tx.Description
		if desc == "" {
			desc = "(no description)"
		}
		ref := tx.Reference
		if ref == "" {
			ref = "-"
		}
		fmt.Fprintf(w, "  %s  %-12s %14s  %s\n", tx.Date, ref, humanize.Comma(debit), desc)
	}
}

func renderSeries(w io.Writer, series *domain.Series) {
	if series == nil || len(series.Points) == 0 {
		fmt.Fprintln(w, "  (no data points)")
		return
	}
	var max int64 = 1
	for _, p := range series.Points {
		if v := abs64(p.Value); v > max {
			max = v
		}
	}
	for _, p := range series.Points {
		n := int(abs64(p.Value) * int64(barWidth) / max)
		fmt.Fprintf(w, "  %-10s %15s %s\n", p.Label, humanize.Comma(p.Value), strings.Repeat("#", n))
	}
}

func renderDashboard(w io.Writer, d *domain.OwnerDashboard) {
	if d == nil {
		return
	}
	fmt.Fprintf(w, "  health score: %d\n", d.HealthScore)
	for _, kpi := range d.Kpis {
		unit := kpi.Unit
		if unit != "" {
			unit = " " + unit
		}
		fmt.Fprintf(w, "  %-28s %s%s\n", kpi.Label, humanize.Commaf(kpi.Value), unit)
	}
	for _, row := range d.ExpenseByCategory {
		fmt.Fprintf(w, "  expense %-20s %s\n", row.Category, humanize.Comma(row.Amount))
	}
	for _, alert := range d.Alerts {
		fmt.Fprintf(w, "  [%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	}
}

func renderLedger(w io.Writer, l *domain.LedgerSummary) {
	if l == nil {
		return
	}
	for _, row := range l.Rows {
		fmt.Fprintf(w, "  %-6s %-24s D %15s  C %15s\n",
			row.AccountCode, row.AccountName,
			humanize.Comma(row.DebitBalance), humanize.Comma(row.CreditBalance))
	}
	fmt.Fprintf(w, "  totals: D %s  C %s\n",
		humanize.Comma(l.TotalDebitTurnover), humanize.Comma(l.TotalCreditTurnover))
}

func renderMissing(w io.Writer, items []domain.MissingReference) {
	for _, item := range items {
		suggestion := item.SuggestedReference
		if suggestion != "" {
			suggestion = " (suggest " + suggestion + ")"
		}
		fmt.Fprintf(w, "  %s  %s%s\n", item.Date, item.Description, suggestion)
	}
}

func renderInvoices(w io.Writer, invoices []domain.Invoice) {
	for _, inv := range invoices {
		fmt.Fprintf(w, "  %-10s %-8s %-8s due %s  %s %s\n",
			inv.Number, inv.Kind, inv.Status, inv.DueDate,
			humanize.Comma(inv.Amount), inv.Currency)
	}
}

func renderDraft(w io.Writer, draft *domain.Draft) {
	if draft == nil {
		return
	}
	fmt.Fprintf(w, "  draft voucher for %s", draft.Suggestion.Date)
	if draft.Suggestion.Description != "" {
		fmt.Fprintf(w, ": %s", draft.Suggestion.Description)
	}
	fmt.Fprintln(w)
	for _, line := range draft.Suggestion.Lines {
		fmt.Fprintf(w, "    %-6s D %15s  C %15s\n",
			line.AccountCode, humanize.Comma(line.Debit), humanize.Comma(line.Credit))
	}
	if len(draft.AttachmentIDs) > 0 {
		fmt.Fprintf(w, "    with %d attachment(s)\n", len(draft.AttachmentIDs))
	}
	fmt.Fprintln(w, "  type /save to confirm")
}

func renderExtraction(w io.Writer, x *domain.OCRExtraction) {
	if x == nil {
		return
	}
	fmt.Fprintf(w, "  vendor: %s  no: %s  date: %s  amount: %s %s (confidence %.2f)\n",
		x.VendorName, x.Number, x.Date, humanize.Comma(x.Amount), x.Currency, x.Confidence)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
