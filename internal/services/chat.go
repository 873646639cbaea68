// Package services holds the conversation orchestrator: the single
// stateful component that classifies each user message and either resolves
// it locally or delegates it to the backend chat endpoint.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hesabkit/hesabchat/internal/domain"
	"github.com/hesabkit/hesabchat/internal/interpret"
	"github.com/hesabkit/hesabchat/internal/ports"
)

// ChatService owns one conversation. User operations (send, attach, save)
// run strictly sequentially: a guard taken at operation start and released
// on every exit path blocks overlapping operations with ErrBusy. All
// mutable state lives behind the service; callers observe it through
// immutable snapshots.
type ChatService struct {
	Gateway  ports.Gateway
	Entities ports.EntitySource
	Journal  ports.ConversationJournal
	Logger   ports.Logger

	// Now is the clock used for window parsing; defaults to time.Now.
	Now func() time.Time
	// Notify, when set, receives a snapshot after every completed
	// operation.
	Notify func(Snapshot)

	op sync.Mutex // serializes user operations

	mu          sync.Mutex // guards the fields below
	entries     []domain.ConversationEntry
	composer    string
	attachments []domain.Attachment
	draft       *domain.Draft
}

// Snapshot is an immutable view of the observable conversation state.
type Snapshot struct {
	Entries        []domain.ConversationEntry
	Attachments    []domain.Attachment
	Draft          *domain.Draft
	Composer       string
	BackendAddress string
}

// Send processes one user message end to end: classify, resolve locally or
// call the backend, and append the outcome to the conversation. Failures
// inside the operation become system entries; only ErrBusy is returned to
// the caller, when another operation is still in flight.
func (s *ChatService) Send(ctx context.Context, text string) (Snapshot, error) {
	release, err := s.acquire()
	if err != nil {
		return s.SnapshotState(), err
	}
	defer release()

	text = strings.TrimSpace(text)
	if text == "" {
		return s.finish(), nil
	}
	s.append(domain.ConversationEntry{Actor: domain.ActorUser, Text: text})

	switch interpret.Classify(text, s.now()) {
	case interpret.IntentSave:
		s.saveDraft(ctx)
	case interpret.IntentDashboard:
		s.runDashboard(ctx)
	case interpret.IntentLedger:
		s.runLedger(ctx)
	case interpret.IntentMissingRefs:
		s.runMissingReferences(ctx)
	case interpret.IntentInvoices:
		s.runInvoices(ctx)
	case interpret.IntentTransactionQuery:
		s.runTransactionQuery(ctx, text)
	case interpret.IntentHistoryQuery:
		s.runHistoryQuery(ctx, text)
	default:
		s.runBackendChat(ctx, text)
	}
	return s.finish(), nil
}

// SaveDraft persists the pending draft outside of a chat message, e.g.
// from a confirmation button.
func (s *ChatService) SaveDraft(ctx context.Context) (Snapshot, error) {
	release, err := s.acquire()
	if err != nil {
		return s.SnapshotState(), err
	}
	defer release()
	s.saveDraft(ctx)
	return s.finish(), nil
}

// Attach uploads a file and stages it for the next draft.
func (s *ChatService) Attach(ctx context.Context, filename string, data []byte, contentType string) (Snapshot, error) {
	release, err := s.acquire()
	if err != nil {
		return s.SnapshotState(), err
	}
	defer release()

	attachment, err := s.Gateway.UploadAttachment(ctx, data, filename, contentType)
	if err != nil {
		s.systemError(fmt.Sprintf("could not upload %s", filename), err, false)
		return s.finish(), nil
	}
	s.mu.Lock()
	s.attachments = append(s.attachments, attachment)
	s.mu.Unlock()
	s.append(domain.ConversationEntry{
		Actor: domain.ActorSystem,
		Text:  fmt.Sprintf("attached %s (%d bytes)", attachment.FileName, attachment.SizeBytes),
	})
	return s.finish(), nil
}

// ScanLastAttachment asks the backend to OCR the most recently staged
// upload and shows the extraction.
func (s *ChatService) ScanLastAttachment(ctx context.Context) (Snapshot, error) {
	release, err := s.acquire()
	if err != nil {
		return s.SnapshotState(), err
	}
	defer release()

	s.mu.Lock()
	var last *domain.Attachment
	if n := len(s.attachments); n > 0 {
		last = &s.attachments[n-1]
	}
	s.mu.Unlock()

	if last == nil {
		s.append(domain.ConversationEntry{Actor: domain.ActorSystem, Text: "nothing attached yet"})
		return s.finish(), nil
	}
	extraction, err := s.Gateway.ExtractAttachment(ctx, last.ID)
	if err != nil {
		s.systemError(fmt.Sprintf("could not scan %s", last.FileName), err, false)
		return s.finish(), nil
	}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    fmt.Sprintf("read %s", last.FileName),
		Payload: &domain.EntryPayload{Kind: domain.PayloadExtraction, Extraction: &extraction},
	})
	return s.finish(), nil
}

// SetBackendAddress updates the backend base URL setting.
func (s *ChatService) SetBackendAddress(address string) {
	s.Gateway.SetAddress(strings.TrimSpace(address))
}

// SetComposer stores the in-progress message buffer.
func (s *ChatService) SetComposer(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composer = text
}

// SnapshotState returns an immutable copy of the observable state.
func (s *ChatService) SnapshotState() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Entries:        make([]domain.ConversationEntry, len(s.entries)),
		Attachments:    make([]domain.Attachment, len(s.attachments)),
		Composer:       s.composer,
		BackendAddress: s.Gateway.Address(),
	}
	copy(snap.Entries, s.entries)
	copy(snap.Attachments, s.attachments)
	if s.draft != nil {
		draft := *s.draft
		snap.Draft = &draft
	}
	return snap
}

func (s *ChatService) acquire() (func(), error) {
	if !s.op.TryLock() {
		return nil, domain.ErrBusy
	}
	return s.op.Unlock, nil
}

func (s *ChatService) finish() Snapshot {
	snap := s.SnapshotState()
	if s.Notify != nil {
		s.Notify(snap)
	}
	return snap
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// append stamps and records one conversation entry. The journal write is
// best-effort; a journal failure never fails the operation.
func (s *ChatService) append(entry domain.ConversationEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
	if s.Journal != nil {
		if err := s.Journal.Append(entry); err != nil && s.Logger != nil {
			s.Logger.Warn("journal append failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// systemError renders a failure as one system entry. Report fetches echo
// the configured backend address so the user can correct it.
func (s *ChatService) systemError(what string, err error, echoAddress bool) {
	if s.Logger != nil {
		s.Logger.Error(what, err, nil)
	}
	text := fmt.Sprintf("%s: %v", what, err)
	if echoAddress {
		text += fmt.Sprintf(" (backend: %s, check the configured address)", s.Gateway.Address())
	}
	s.append(domain.ConversationEntry{Actor: domain.ActorSystem, Text: text})
}

func (s *ChatService) saveDraft(ctx context.Context) {
	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()
	if draft == nil {
		s.systemError("save failed", domain.ErrNoActiveDraft, false)
		return
	}

	saved, err := s.Gateway.SaveTransaction(ctx, *draft)
	if err != nil {
		s.systemError("could not save the transaction", err, false)
		return
	}
	// Draft and staged attachments clear on success only.
	s.mu.Lock()
	s.draft = nil
	s.attachments = nil
	s.mu.Unlock()
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    fmt.Sprintf("saved transaction %s (%s)", saved.ID, saved.Date),
		Payload: &domain.EntryPayload{Kind: domain.PayloadSaved, Saved: &saved},
	})
}

func (s *ChatService) runDashboard(ctx context.Context) {
	dashboard, err := s.Gateway.FetchOwnerDashboard(ctx)
	if err != nil {
		s.systemError("could not load the dashboard", err, true)
		return
	}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    "here is the owner dashboard",
		Payload: &domain.EntryPayload{Kind: domain.PayloadDashboard, Dashboard: &dashboard},
	})
}

func (s *ChatService) runLedger(ctx context.Context) {
	summary, err := s.Gateway.FetchLedgerSummary(ctx)
	if err != nil {
		s.systemError("could not load the ledger summary", err, true)
		return
	}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    fmt.Sprintf("ledger summary (%d accounts)", len(summary.Rows)),
		Payload: &domain.EntryPayload{Kind: domain.PayloadLedger, Ledger: &summary},
	})
}

func (s *ChatService) runMissingReferences(ctx context.Context) {
	items, err := s.Gateway.FetchMissingReferences(ctx)
	if err != nil {
		s.systemError("could not load missing references", err, true)
		return
	}
	text := "every transaction has a reference"
	if len(items) > 0 {
		text = fmt.Sprintf("%d transactions are missing a reference", len(items))
	}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    text,
		Payload: &domain.EntryPayload{Kind: domain.PayloadMissing, Missing: items},
	})
}

func (s *ChatService) runInvoices(ctx context.Context) {
	invoices, err := s.Gateway.FetchInvoices(ctx)
	if err != nil {
		s.systemError("could not load invoices", err, true)
		return
	}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    fmt.Sprintf("%d invoices", len(invoices)),
		Payload: &domain.EntryPayload{Kind: domain.PayloadInvoices, Invoices: invoices},
	})
}

// runBackendChat forwards the message to the AI endpoint. When the reply
// admits it could not interpret the message and the text matches a local
// query, the query is re-attempted locally instead of surfacing the
// generic reply.
func (s *ChatService) runBackendChat(ctx context.Context, text string) {
	history := s.chatHistory()
	s.mu.Lock()
	attachmentIDs := make([]string, 0, len(s.attachments))
	for _, a := range s.attachments {
		attachmentIDs = append(attachmentIDs, a.ID)
	}
	s.mu.Unlock()

	reply, err := s.Gateway.SendChat(ctx, history, attachmentIDs)
	if err != nil {
		s.systemError("the assistant is unavailable", err, false)
		return
	}

	if interpret.IsFallbackReply(reply.Message) {
		t := strings.ToLower(strings.TrimSpace(text))
		if interpret.IsTransactionQuery(t, s.now()) {
			s.runTransactionQuery(ctx, text)
			return
		}
		if interpret.IsHistoryQuery(t) {
			s.runHistoryQuery(ctx, text)
			return
		}
	}

	entry := domain.ConversationEntry{Actor: domain.ActorAssistant, Text: reply.Message}
	if reply.Suggestion != nil {
		draft := domain.Draft{
			Suggestion:    *reply.Suggestion,
			Mentions:      reply.Mentions,
			ResolvedLinks: reply.ResolvedLinks,
			AttachmentIDs: attachmentIDs,
		}
		// A fresh suggestion silently replaces any prior unsaved draft.
		s.mu.Lock()
		s.draft = &draft
		s.mu.Unlock()
		entry.Payload = &domain.EntryPayload{Kind: domain.PayloadDraft, Draft: &draft}
	}
	s.append(entry)
}

// chatHistory shapes the log for the backend: user and assistant turns
// only, oldest first. System entries stay local.
func (s *ChatService) chatHistory() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]domain.ChatMessage, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.Actor == domain.ActorSystem || entry.Text == "" {
			continue
		}
		history = append(history, domain.ChatMessage{Role: string(entry.Actor), Content: entry.Text})
	}
	return history
}
