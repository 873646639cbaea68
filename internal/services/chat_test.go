package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hesabkit/hesabchat/internal/domain"
)

func TestSendRejectsOverlappingOperations(t *testing.T) {
	svc := newTestService(&stubGateway{})

	svc.op.Lock()
	defer svc.op.Unlock()

	_, err := svc.Send(context.Background(), "show last 5 transactions")
	if !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("Send() error = %v, want ErrBusy", err)
	}
}

func TestSendIgnoresBlankMessages(t *testing.T) {
	svc := newTestService(&stubGateway{})

	snap, err := svc.Send(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(snap.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(snap.Entries))
	}
}

func TestSendDashboard(t *testing.T) {
	gateway := &stubGateway{
		dashboard: domain.OwnerDashboard{Kpis: []domain.KpiCard{{Key: "cash", Label: "Cash"}}},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show me the dashboard")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	entry := lastEntry(snap)
	if entry.Actor != domain.ActorAssistant {
		t.Fatalf("actor = %q, want assistant", entry.Actor)
	}
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadDashboard {
		t.Fatalf("payload = %+v, want dashboard", entry.Payload)
	}
}

func TestSendDashboardFailureEchoesAddress(t *testing.T) {
	gateway := &stubGateway{
		address:      "http://10.0.0.9:8000",
		dashboardErr: errors.New("connection refused"),
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "/dashboard")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	entry := lastEntry(snap)
	if entry.Actor != domain.ActorSystem {
		t.Fatalf("actor = %q, want system", entry.Actor)
	}
	if !strings.Contains(entry.Text, "http://10.0.0.9:8000") {
		t.Fatalf("expected the backend address in %q", entry.Text)
	}
}

func TestSendSaveWithoutDraft(t *testing.T) {
	svc := newTestService(&stubGateway{})

	snap, err := svc.Send(context.Background(), "/save")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	entry := lastEntry(snap)
	if entry.Actor != domain.ActorSystem {
		t.Fatalf("actor = %q, want system", entry.Actor)
	}
	if !strings.Contains(entry.Text, domain.ErrNoActiveDraft.Error()) {
		t.Fatalf("expected no-draft message, got %q", entry.Text)
	}
}

func TestSaveDraftClearsDraftAndAttachments(t *testing.T) {
	gateway := &stubGateway{
		savedTx: domain.Transaction{ID: "tx-9", Date: "2024-03-13"},
	}
	svc := newTestService(gateway)
	svc.draft = &domain.Draft{
		Suggestion:    domain.TransactionSuggestion{Date: "2024-03-13"},
		AttachmentIDs: []string{"att-1"},
	}
	svc.attachments = []domain.Attachment{{ID: "att-1"}}

	snap, err := svc.SaveDraft(context.Background())
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if gateway.savedDraft == nil {
		t.Fatal("SaveTransaction was not called")
	}
	if snap.Draft != nil {
		t.Fatalf("draft = %+v, want nil after save", snap.Draft)
	}
	if len(snap.Attachments) != 0 {
		t.Fatalf("attachments = %d, want 0 after save", len(snap.Attachments))
	}
	entry := lastEntry(snap)
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadSaved {
		t.Fatalf("payload = %+v, want saved transaction", entry.Payload)
	}
}

func TestSaveDraftFailureKeepsDraft(t *testing.T) {
	gateway := &stubGateway{saveErr: errors.New("boom")}
	svc := newTestService(gateway)
	svc.draft = &domain.Draft{Suggestion: domain.TransactionSuggestion{Date: "2024-03-13"}}

	snap, err := svc.SaveDraft(context.Background())
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if snap.Draft == nil {
		t.Fatal("draft must survive a failed save")
	}
	if lastEntry(snap).Actor != domain.ActorSystem {
		t.Fatal("expected a system entry for the failure")
	}
}

func TestBackendChatStagesSuggestedDraft(t *testing.T) {
	suggestion := domain.TransactionSuggestion{
		Date:        "2024-03-12",
		Description: "cement purchase",
		Lines: []domain.Line{
			{AccountCode: "6120", Debit: 500000},
			{AccountCode: "1110", Credit: 500000},
		},
	}
	gateway := &stubGateway{
		reply: domain.ChatReply{Message: "I drafted a voucher for you.", Suggestion: &suggestion},
	}
	svc := newTestService(gateway)
	svc.attachments = []domain.Attachment{{ID: "att-3"}}

	snap, err := svc.Send(context.Background(), "paid 500000 to Arman for cement")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if snap.Draft == nil {
		t.Fatal("expected a staged draft")
	}
	if got := snap.Draft.AttachmentIDs; len(got) != 1 || got[0] != "att-3" {
		t.Fatalf("draft attachments = %v, want [att-3]", got)
	}
	entry := lastEntry(snap)
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadDraft {
		t.Fatalf("payload = %+v, want draft", entry.Payload)
	}
	if len(gateway.chatAttachments) != 1 || gateway.chatAttachments[0] != "att-3" {
		t.Fatalf("chat attachments = %v, want [att-3]", gateway.chatAttachments)
	}
}

func TestBackendChatHistoryExcludesSystemEntries(t *testing.T) {
	gateway := &stubGateway{reply: domain.ChatReply{Message: "noted"}}
	svc := newTestService(gateway)
	svc.entries = []domain.ConversationEntry{
		{Actor: domain.ActorUser, Text: "hello"},
		{Actor: domain.ActorSystem, Text: "could not load invoices"},
		{Actor: domain.ActorAssistant, Text: "hi"},
	}

	if _, err := svc.Send(context.Background(), "what was my question?"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	for _, msg := range gateway.chatHistory {
		if msg.Role == string(domain.ActorSystem) {
			t.Fatalf("system entry leaked into chat history: %+v", msg)
		}
	}
	// The new user turn itself is part of the forwarded history.
	last := gateway.chatHistory[len(gateway.chatHistory)-1]
	if last.Role != "user" || last.Content != "what was my question?" {
		t.Fatalf("last history turn = %+v", last)
	}
}

func TestBackendFallbackReplyRetriesHistoryLocally(t *testing.T) {
	gateway := &stubGateway{
		reply: domain.ChatReply{Message: "Sorry, I didn't understand that."},
		detail: domain.AccountDetail{
			Lines: []domain.AccountLine{{Date: "2024-03-01", Debit: 1000}},
		},
	}
	svc := newTestService(gateway)

	svc.runBackendChat(context.Background(), "bank balance please")

	snap := svc.SnapshotState()
	entry := lastEntry(snap)
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadSeries {
		t.Fatalf("payload = %+v, want a locally built series", entry.Payload)
	}
	if strings.Contains(entry.Text, "didn't understand") {
		t.Fatalf("fallback text surfaced verbatim: %q", entry.Text)
	}
	if gateway.detailCode != "1110" {
		t.Fatalf("account code = %q, want the default cash account", gateway.detailCode)
	}
}

func TestAttachStagesUpload(t *testing.T) {
	gateway := &stubGateway{
		uploaded: domain.Attachment{ID: "att-7", FileName: "receipt.jpg", SizeBytes: 1234},
	}
	svc := newTestService(gateway)

	snap, err := svc.Attach(context.Background(), "receipt.jpg", []byte("raw"), "image/jpeg")
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if len(snap.Attachments) != 1 || snap.Attachments[0].ID != "att-7" {
		t.Fatalf("attachments = %+v", snap.Attachments)
	}
}

func TestScanWithoutAttachment(t *testing.T) {
	svc := newTestService(&stubGateway{})

	snap, err := svc.ScanLastAttachment(context.Background())
	if err != nil {
		t.Fatalf("ScanLastAttachment() error = %v", err)
	}
	if !strings.Contains(lastEntry(snap).Text, "nothing attached") {
		t.Fatalf("unexpected entry: %q", lastEntry(snap).Text)
	}
}

func TestJournalFailureDoesNotFailTheOperation(t *testing.T) {
	gateway := &stubGateway{reply: domain.ChatReply{Message: "ok"}}
	svc := newTestService(gateway)
	journal := &stubJournal{err: errors.New("disk full")}
	svc.Journal = journal

	snap, err := svc.Send(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("entries = %d, want user + assistant", len(snap.Entries))
	}
	if len(journal.appended) != 2 {
		t.Fatalf("journal writes = %d, want 2 attempts", len(journal.appended))
	}
}

func TestNotifyReceivesSnapshots(t *testing.T) {
	gateway := &stubGateway{reply: domain.ChatReply{Message: "ok"}}
	svc := newTestService(gateway)
	var notified []Snapshot
	svc.Notify = func(s Snapshot) { notified = append(notified, s) }

	if _, err := svc.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(notified) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notified))
	}
}
