// Package interpret holds the client-side query interpretation heuristics:
// intent classification, time-window parsing and entity matching over
// free-form chat text. Everything here is a pure function so each rule is
// independently testable.
package interpret

import (
	"strings"
	"time"
)

// Intent is a locally resolvable command detected in a chat message.
type Intent string

const (
	IntentNone             Intent = ""
	IntentSave             Intent = "save"
	IntentDashboard        Intent = "dashboard"
	IntentLedger           Intent = "ledger"
	IntentMissingRefs      Intent = "missing_references"
	IntentInvoices         Intent = "invoices"
	IntentTransactionQuery Intent = "transaction_query"
	IntentHistoryQuery     Intent = "history_query"
)

// intentRule pairs an intent with its predicate. Rules are evaluated
// top-down with first-match-wins semantics.
type intentRule struct {
	intent Intent
	match  func(text string, now time.Time) bool
}

var intentRules = []intentRule{
	{IntentSave, func(t string, _ time.Time) bool { return isSave(t) }},
	{IntentDashboard, func(t string, _ time.Time) bool { return isDashboard(t) }},
	{IntentLedger, func(t string, _ time.Time) bool { return isLedger(t) }},
	{IntentMissingRefs, func(t string, _ time.Time) bool { return isMissingRefs(t) }},
	{IntentInvoices, func(t string, _ time.Time) bool { return isInvoices(t) }},
	{IntentTransactionQuery, IsTransactionQuery},
	{IntentHistoryQuery, func(t string, _ time.Time) bool { return IsHistoryQuery(t) }},
}

// Classify decides which local command a message matches, if any. A
// message matching no rule is forwarded to the backend chat endpoint by
// the caller.
func Classify(text string, now time.Time) Intent {
	t := normalize(text)
	if t == "" {
		return IntentNone
	}
	for _, rule := range intentRules {
		if rule.match(t, now) {
			return rule.intent
		}
	}
	return IntentNone
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func isSave(t string) bool {
	if strings.HasPrefix(t, "/save") {
		return true
	}
	if t == "save" || t == "save it" || t == "save this" {
		return true
	}
	return strings.Contains(t, "save") &&
		(strings.Contains(t, "transaction") || strings.Contains(t, "voucher") || strings.Contains(t, "draft"))
}

func isDashboard(t string) bool {
	return strings.HasPrefix(t, "/dashboard") || strings.Contains(t, "dashboard") || strings.Contains(t, "owner report")
}

func isLedger(t string) bool {
	return strings.HasPrefix(t, "/ledger") || strings.Contains(t, "ledger")
}

func isMissingRefs(t string) bool {
	if strings.HasPrefix(t, "/missing") {
		return true
	}
	return strings.Contains(t, "missing") && strings.Contains(t, "reference")
}

func isInvoices(t string) bool {
	return strings.HasPrefix(t, "/invoices") || strings.Contains(t, "invoice")
}

var (
	txSubjects = []string{"transaction", "voucher", "entry", "entries"}
	txVerbs    = []string{"show", "list", "get", "find", "recent", "last"}
)

// IsTransactionQuery reports whether the text asks for a list of
// transactions the client can resolve locally. Either the subject and a
// verb are both present, or a verb combines with an entity-type hint and a
// recognizable time range.
func IsTransactionQuery(t string, now time.Time) bool {
	verb := containsAny(t, txVerbs)
	if verb && containsAny(t, txSubjects) {
		return true
	}
	return verb && !TypeHints(t).Empty() && HasTimeHint(t, now)
}

var historyMarkers = []string{
	"history", "historical", "trend", "chart", "balance",
	"current balance", "expense trend", "expense history",
	"spend trend", "cash trend", "bank balance", "bank account balance",
}

var (
	moneyWords   = []string{"money", "balance", "cash", "spent", "spend", "expense"}
	accountWords = []string{"account", "bank", "expenses", "expense"}
)

// IsHistoryQuery reports whether the text asks for a chart or running
// balance the client can build from fetched data.
func IsHistoryQuery(t string) bool {
	if strings.HasPrefix(t, "/history") || strings.HasPrefix(t, "/chart") {
		return true
	}
	if (strings.Contains(t, "how much") || strings.Contains(t, "tell me")) &&
		containsAny(t, moneyWords) && containsAny(t, accountWords) {
		return true
	}
	return containsAny(t, historyMarkers)
}

var fallbackPhrases = []string{
	"i didn't understand",
	"i did not understand",
	"couldn't understand",
	"could not understand",
	"i'm not sure what you mean",
	"not sure what you mean",
	"didn't catch that",
	"don't understand",
	"do not understand",
	"please rephrase",
}

// IsFallbackReply detects a backend reply that admits it could not
// interpret the message, so the orchestrator can re-attempt locally.
func IsFallbackReply(reply string) bool {
	t := strings.ToLower(reply)
	return containsAny(t, fallbackPhrases)
}

func containsAny(t string, words []string) bool {
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}
