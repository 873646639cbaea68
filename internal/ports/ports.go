// Package ports defines the interfaces between the conversation core and
// its external collaborators.
//
// Following the Ports and Adapters pattern, the orchestrator in
// internal/services depends only on these contracts; the concrete HTTP
// gateway, SQLite journal and cache adapters live under
// internal/infrastructure.
package ports

import (
	"context"

	"github.com/hesabkit/hesabchat/internal/domain"
)

// Gateway is the JSON/HTTP accounting backend. Every call is idempotent
// except SaveTransaction and UploadAttachment. The backend address is a
// mutable setting so the user can correct it mid-conversation.
type Gateway interface {
	Address() string
	SetAddress(address string)

	SendChat(ctx context.Context, history []domain.ChatMessage, attachmentIDs []string) (domain.ChatReply, error)
	SaveTransaction(ctx context.Context, draft domain.Draft) (domain.Transaction, error)
	UploadAttachment(ctx context.Context, data []byte, filename, contentType string) (domain.Attachment, error)
	ExtractAttachment(ctx context.Context, attachmentID string) (domain.OCRExtraction, error)

	FetchOwnerDashboard(ctx context.Context) (domain.OwnerDashboard, error)
	FetchLedgerSummary(ctx context.Context) (domain.LedgerSummary, error)
	FetchMissingReferences(ctx context.Context) ([]domain.MissingReference, error)
	FetchInvoices(ctx context.Context) ([]domain.Invoice, error)
	FetchEntities(ctx context.Context) ([]domain.Entity, error)

	FetchTransactions(ctx context.Context, skip, limit int) ([]domain.Transaction, error)
	FetchEntityTransactions(ctx context.Context, entityID string) ([]domain.Transaction, error)
	FetchAccountDetail(ctx context.Context, accountCode string) (domain.AccountDetail, error)
}

// EntitySource yields the entity list, possibly through a
// freshness-bounded cache in front of the gateway.
type EntitySource interface {
	Entities(ctx context.Context) ([]domain.Entity, error)
}

// ConversationJournal persists conversation entries for later inspection.
// Appends are best-effort: a journal failure never fails the operation
// that produced the entry.
type ConversationJournal interface {
	Append(entry domain.ConversationEntry) error
	Records(limit int, search string) ([]domain.ConversationEntry, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Logger provides structured logging for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
