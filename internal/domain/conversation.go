package domain

import "time"

// Actor identifies who produced a conversation entry.
type Actor string

const (
	ActorUser      Actor = "user"
	ActorAssistant Actor = "assistant"
	ActorSystem    Actor = "system"
)

// ConversationEntry is one line of the chat log. Entries are append-only:
// the orchestrator creates them and never mutates or deletes them.
type ConversationEntry struct {
	ID        string        `json:"id"`
	Actor     Actor         `json:"actor"`
	Text      string        `json:"text"`
	Payload   *EntryPayload `json:"payload,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// EntryPayload carries the structured result attached to an entry.
// At most one of the optional fields is set, selected by Kind.
type EntryPayload struct {
	Kind         PayloadKind        `json:"kind"`
	Transactions []Transaction      `json:"transactions,omitempty"`
	Series       *Series            `json:"series,omitempty"`
	Dashboard    *OwnerDashboard    `json:"dashboard,omitempty"`
	Ledger       *LedgerSummary     `json:"ledger,omitempty"`
	Missing      []MissingReference `json:"missing,omitempty"`
	Invoices     []Invoice          `json:"invoices,omitempty"`
	Draft        *Draft             `json:"draft,omitempty"`
	Extraction   *OCRExtraction     `json:"extraction,omitempty"`
	Saved        *Transaction       `json:"saved,omitempty"`
}

// PayloadKind names the structured payload attached to an entry.
type PayloadKind string

const (
	PayloadTransactions PayloadKind = "transactions"
	PayloadSeries       PayloadKind = "series"
	PayloadDashboard    PayloadKind = "dashboard"
	PayloadLedger       PayloadKind = "ledger"
	PayloadMissing      PayloadKind = "missing_references"
	PayloadInvoices     PayloadKind = "invoices"
	PayloadDraft        PayloadKind = "draft"
	PayloadExtraction   PayloadKind = "extraction"
	PayloadSaved        PayloadKind = "saved_transaction"
)

// ChatMessage is one turn of history sent to the backend chat endpoint.
// Only user and assistant turns are forwarded; system entries stay local.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Draft is a staged, unsaved voucher suggestion. At most one Draft is
// pending at a time; a newer suggestion implicitly replaces it.
type Draft struct {
	Suggestion    TransactionSuggestion `json:"suggestion"`
	Mentions      []EntityMention       `json:"mentions,omitempty"`
	ResolvedLinks []ResolvedEntityLink  `json:"resolved_links,omitempty"`
	AttachmentIDs []string              `json:"attachment_ids,omitempty"`
}

// TransactionSuggestion mirrors the backend's suggested voucher: the same
// shape as a transaction create so the user can confirm it as-is.
type TransactionSuggestion struct {
	Date        string `json:"date"`
	Reference   string `json:"reference,omitempty"`
	Description string `json:"description,omitempty"`
	Lines       []Line `json:"lines"`
}

// ChatReply is the backend chat endpoint's decoded response.
type ChatReply struct {
	Message       string
	Suggestion    *TransactionSuggestion
	Mentions      []EntityMention
	ResolvedLinks []ResolvedEntityLink
}
