package services

import (
	"context"
	"io"
	"time"

	"github.com/hesabkit/hesabchat/internal/domain"
	"github.com/hesabkit/hesabchat/internal/pkg/logger"
	"github.com/hesabkit/hesabchat/internal/ports"
)

// A fixed Wednesday so "this month" and friends are stable.
var fixedNow = time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

type stubGateway struct {
	address string

	reply           domain.ChatReply
	chatErr         error
	chatHistory     []domain.ChatMessage
	chatAttachments []string
	chatCalls       int

	savedDraft *domain.Draft
	savedTx    domain.Transaction
	saveErr    error

	uploaded   domain.Attachment
	uploadErr  error
	extraction domain.OCRExtraction
	extractErr error

	dashboard    domain.OwnerDashboard
	dashboardErr error
	summary      domain.LedgerSummary
	summaryErr   error
	missing      []domain.MissingReference
	missingErr   error
	invoices     []domain.Invoice
	invoicesErr  error
	entities     []domain.Entity
	entitiesErr  error

	globalTxs     []domain.Transaction
	globalErr     error
	globalLimit   int
	globalCalls   int
	entityTxs     map[string][]domain.Transaction
	entityTxErr   error
	entityFetched string
	detail        domain.AccountDetail
	detailErr     error
	detailCode    string
}

var _ ports.Gateway = (*stubGateway)(nil)

func (g *stubGateway) Address() string           { return g.address }
func (g *stubGateway) SetAddress(address string) { g.address = address }

func (g *stubGateway) SendChat(_ context.Context, history []domain.ChatMessage, attachmentIDs []string) (domain.ChatReply, error) {
	g.chatCalls++
	g.chatHistory = history
	g.chatAttachments = attachmentIDs
	return g.reply, g.chatErr
}

func (g *stubGateway) SaveTransaction(_ context.Context, draft domain.Draft) (domain.Transaction, error) {
	g.savedDraft = &draft
	return g.savedTx, g.saveErr
}

func (g *stubGateway) UploadAttachment(_ context.Context, _ []byte, _, _ string) (domain.Attachment, error) {
	return g.uploaded, g.uploadErr
}

func (g *stubGateway) ExtractAttachment(_ context.Context, _ string) (domain.OCRExtraction, error) {
	return g.extraction, g.extractErr
}

func (g *stubGateway) FetchOwnerDashboard(context.Context) (domain.OwnerDashboard, error) {
	return g.dashboard, g.dashboardErr
}

func (g *stubGateway) FetchLedgerSummary(context.Context) (domain.LedgerSummary, error) {
	return g.summary, g.summaryErr
}

func (g *stubGateway) FetchMissingReferences(context.Context) ([]domain.MissingReference, error) {
	return g.missing, g.missingErr
}

func (g *stubGateway) FetchInvoices(context.Context) ([]domain.Invoice, error) {
	return g.invoices, g.invoicesErr
}

func (g *stubGateway) FetchEntities(context.Context) ([]domain.Entity, error) {
	return g.entities, g.entitiesErr
}

func (g *stubGateway) FetchTransactions(_ context.Context, _, limit int) ([]domain.Transaction, error) {
	g.globalCalls++
	g.globalLimit = limit
	return g.globalTxs, g.globalErr
}

func (g *stubGateway) FetchEntityTransactions(_ context.Context, entityID string) ([]domain.Transaction, error) {
	g.entityFetched = entityID
	return g.entityTxs[entityID], g.entityTxErr
}

func (g *stubGateway) FetchAccountDetail(_ context.Context, accountCode string) (domain.AccountDetail, error) {
	g.detailCode = accountCode
	return g.detail, g.detailErr
}

type stubEntitySource struct {
	entities []domain.Entity
	err      error
}

func (s stubEntitySource) Entities(context.Context) ([]domain.Entity, error) {
	return s.entities, s.err
}

type stubJournal struct {
	appended []domain.ConversationEntry
	err      error
}

func (j *stubJournal) Append(entry domain.ConversationEntry) error {
	j.appended = append(j.appended, entry)
	return j.err
}

func (j *stubJournal) Records(int, string) ([]domain.ConversationEntry, error) { return nil, nil }
func (j *stubJournal) Clear() error                                            { return nil }
func (j *stubJournal) ExportJSON(string) error                                 { return nil }
func (j *stubJournal) Path() string                                            { return "stub" }

func newTestService(gateway *stubGateway) *ChatService {
	return &ChatService{
		Gateway:  gateway,
		Entities: stubEntitySource{entities: gateway.entities, err: gateway.entitiesErr},
		Logger:   logger.NewWithWriter(io.Discard, false),
		Now:      func() time.Time { return fixedNow },
	}
}

func lastEntry(snap Snapshot) domain.ConversationEntry {
	if len(snap.Entries) == 0 {
		return domain.ConversationEntry{}
	}
	return snap.Entries[len(snap.Entries)-1]
}
