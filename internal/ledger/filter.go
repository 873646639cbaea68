// Package ledger holds the pure transaction filtering and chart series
// math applied to rows fetched from the backend.
package ledger

import (
	"sort"
	"strings"

	"github.com/hesabkit/hesabchat/internal/domain"
)

// SortDesc returns the transactions ordered newest first. Rows whose dates
// do not parse sort as oldest; equal dates are broken by descending id so
// the order is total.
func SortDesc(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		di, oki := out[i].Day()
		dj, okj := out[j].Day()
		if oki != okj {
			return oki // parsable dates come before unparsable ones
		}
		if oki && !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// FilterWindow drops rows dated outside the window. Rows whose dates do
// not parse are kept: a malformed date should not hide a transaction.
func FilterWindow(txs []domain.Transaction, w domain.TimeWindow) []domain.Transaction {
	if w.Unbounded() {
		return txs
	}
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		d, ok := tx.Day()
		if !ok || w.Contains(d) {
			out = append(out, tx)
		}
	}
	return out
}

// MentionsName reports whether the transaction refers to the entity name
// anywhere: description, reference, or a linked entity's name. Historical
// rows may lack an explicit entity link, so this is the retrieval
// fallback's re-match.
func MentionsName(tx domain.Transaction, name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false
	}
	if strings.Contains(strings.ToLower(tx.Description), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Reference), needle) {
		return true
	}
	for _, link := range tx.EntityLinks {
		if strings.Contains(strings.ToLower(link.EntityName), needle) {
			return true
		}
	}
	return false
}

// FilterByName keeps rows that mention the entity name.
func FilterByName(txs []domain.Transaction, name string) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if MentionsName(tx, name) {
			out = append(out, tx)
		}
	}
	return out
}

// FilterByHints keeps rows whose entity links carry a role or type equal
// to one of the hinted categories.
func FilterByHints(txs []domain.Transaction, hints domain.TypeHints) []domain.Transaction {
	if hints.Empty() {
		return txs
	}
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if linksMatchHints(tx.EntityLinks, hints) {
			out = append(out, tx)
		}
	}
	return out
}

func linksMatchHints(links []domain.EntityLink, hints domain.TypeHints) bool {
	for _, link := range links {
		if hints.Has(domain.TypeHint(strings.ToLower(link.Role))) ||
			hints.Has(domain.TypeHint(strings.ToLower(link.EntityType))) {
			return true
		}
	}
	return false
}

// Head returns at most n leading rows.
func Head(txs []domain.Transaction, n int) []domain.Transaction {
	if n < 0 {
		n = 0
	}
	if len(txs) > n {
		return txs[:n]
	}
	return txs
}
