package interpret

import (
	"strings"

	"github.com/hesabkit/hesabchat/internal/domain"
)

var hintKeywords = map[domain.TypeHint][]string{
	domain.HintClient:   {"client", "customer"},
	domain.HintSupplier: {"supplier", "vendor"},
	domain.HintEmployee: {"employee", "staff", "payee"},
	domain.HintBank:     {"bank"},
}

// TypeHints detects which entity categories the text alludes to via fixed
// keyword sets. Text is expected lowercased.
func TypeHints(text string) domain.TypeHints {
	hints := domain.TypeHints{}
	for hint, words := range hintKeywords {
		for _, w := range words {
			if strings.Contains(text, w) {
				hints[hint] = true
				break
			}
		}
	}
	return hints
}

// MatchEntity picks the entity whose name appears inside the query text.
// Candidates are entities whose lowercased name is a substring of the text.
// Ties are broken by hinted type first, then longest name, then
// lexicographic name order, so the winner does not depend on list order.
//
// Substring matching means an entity literally named "Bank" also matches
// inside "Bank of X"; the longest-name rule resolves that deterministically
// but does not remove the ambiguity.
func MatchEntity(text string, entities []domain.Entity) (domain.Entity, bool) {
	hints := TypeHints(text)
	var best domain.Entity
	found := false
	for _, e := range entities {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" || !strings.Contains(text, name) {
			continue
		}
		if !found || betterCandidate(e, best, hints) {
			best = e
			found = true
		}
	}
	return best, found
}

func betterCandidate(a, b domain.Entity, hints domain.TypeHints) bool {
	ah, bh := hints.Has(domain.TypeHint(strings.ToLower(a.Type))), hints.Has(domain.TypeHint(strings.ToLower(b.Type)))
	if ah != bh {
		return ah
	}
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if len(an) != len(bn) {
		return len(an) > len(bn)
	}
	return an < bn
}
