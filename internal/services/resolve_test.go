package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hesabkit/hesabchat/internal/domain"
)

func melliGateway() *stubGateway {
	return &stubGateway{
		entities: []domain.Entity{{ID: "ent-1", Type: "bank", Name: "Melli"}},
		entityTxs: map[string][]domain.Transaction{
			"ent-1": {
				{ID: "t-1", Date: "2024-03-05"},
				{ID: "t-2", Date: "2024-02-20"},
				{ID: "t-3", Date: "2024-03-10"},
			},
		},
	}
}

func TestTransactionQueryForMatchedEntity(t *testing.T) {
	gateway := melliGateway()
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show last 5 transactions for Melli this month")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gateway.entityFetched != "ent-1" {
		t.Fatalf("fetched entity = %q, want ent-1", gateway.entityFetched)
	}
	entry := lastEntry(snap)
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadTransactions {
		t.Fatalf("payload = %+v, want transactions", entry.Payload)
	}
	rows := entry.Payload.Transactions
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want the two March transactions", len(rows))
	}
	if rows[0].ID != "t-3" || rows[1].ID != "t-1" {
		t.Fatalf("order = [%s %s], want newest first", rows[0].ID, rows[1].ID)
	}
	if !strings.Contains(entry.Text, "Melli") || !strings.Contains(entry.Text, "this month") {
		t.Fatalf("entry text = %q", entry.Text)
	}
}

func TestTransactionQueryFallsBackToGlobalRematch(t *testing.T) {
	gateway := melliGateway()
	// The entity-scoped rows all fall outside the window; a historical row
	// mentioning the entity by name exists only in the global page.
	gateway.entityTxs["ent-1"] = []domain.Transaction{{ID: "old", Date: "2023-01-01"}}
	gateway.globalTxs = []domain.Transaction{
		{ID: "g-1", Date: "2024-03-08", Description: "transfer to Melli current account"},
		{ID: "g-2", Date: "2024-03-09", Description: "office rent"},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show Melli transactions this month")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gateway.globalLimit != 200 {
		t.Fatalf("global fetch size = %d, want 200", gateway.globalLimit)
	}
	rows := lastEntry(snap).Payload.Transactions
	if len(rows) != 1 || rows[0].ID != "g-1" {
		t.Fatalf("rows = %+v, want only the re-matched row", rows)
	}
}

func TestTransactionQueryWithoutEntityOverfetches(t *testing.T) {
	gateway := &stubGateway{
		globalTxs: []domain.Transaction{
			{ID: "a", Date: "2024-03-01"},
			{ID: "b", Date: "2024-03-02"},
		},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show the last 5 transactions")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	// 4x the requested 5 is below the floor, so the floor applies.
	if gateway.globalLimit != 80 {
		t.Fatalf("fetch size = %d, want 80", gateway.globalLimit)
	}
	rows := lastEntry(snap).Payload.Transactions
	if len(rows) != 2 || rows[0].ID != "b" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestTransactionQueryHonorsRequestedLimit(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 30; i++ {
		txs = append(txs, domain.Transaction{ID: string(rune('a' + i)), Date: "2024-03-01"})
	}
	gateway := &stubGateway{globalTxs: txs}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show the last 3 transactions")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := len(lastEntry(snap).Payload.Transactions); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
}

func TestTransactionQueryHintFilter(t *testing.T) {
	gateway := &stubGateway{
		globalTxs: []domain.Transaction{
			{ID: "bank", Date: "2024-03-10", EntityLinks: []domain.EntityLink{{EntityType: "bank"}}},
			{ID: "other", Date: "2024-03-11"},
		},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "list bank entries this month")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	rows := lastEntry(snap).Payload.Transactions
	if len(rows) != 1 || rows[0].ID != "bank" {
		t.Fatalf("rows = %+v, want only link-typed rows", rows)
	}
}

func TestTransactionQueryFetchFailure(t *testing.T) {
	gateway := &stubGateway{globalErr: errors.New("timeout")}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show recent transactions")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if lastEntry(snap).Actor != domain.ActorSystem {
		t.Fatal("expected a system entry for the fetch failure")
	}
}

func TestTransactionQuerySurvivesEntityLookupFailure(t *testing.T) {
	gateway := &stubGateway{
		entitiesErr: errors.New("entities down"),
		globalTxs:   []domain.Transaction{{ID: "a", Date: "2024-03-01"}},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show recent transactions")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	entry := lastEntry(snap)
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadTransactions {
		t.Fatalf("payload = %+v, want transactions despite the entity failure", entry.Payload)
	}
}

func TestHistoryQueryExpenseTrend(t *testing.T) {
	gateway := &stubGateway{
		globalTxs: []domain.Transaction{
			{Date: "2024-01-10", Lines: []domain.Line{{AccountCode: "6120", Debit: 400}}},
			{Date: "2024-02-05", Lines: []domain.Line{{AccountCode: "6130", Debit: 250}}},
		},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "show my expense trend")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	entry := lastEntry(snap)
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadSeries {
		t.Fatalf("payload = %+v, want a series", entry.Payload)
	}
	points := entry.Payload.Series.Points
	if len(points) != 2 || points[0].Label != "2024-01" || points[0].Value != 400 {
		t.Fatalf("points = %+v", points)
	}
}

func TestHistoryQueryBankEntityBalance(t *testing.T) {
	gateway := melliGateway()
	gateway.entityTxs["ent-1"] = []domain.Transaction{
		{Date: "2024-03-01", Lines: []domain.Line{
			{AccountCode: "1110", Debit: 900},
			{AccountCode: "6120", Credit: 900},
		}},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "melli bank balance")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	entry := lastEntry(snap)
	if entry.Payload == nil || entry.Payload.Kind != domain.PayloadSeries {
		t.Fatalf("payload = %+v, want a series", entry.Payload)
	}
	if !strings.Contains(entry.Text, "Melli") {
		t.Fatalf("title = %q, want the entity name", entry.Text)
	}
	points := entry.Payload.Series.Points
	if len(points) != 1 || points[0].Value != 900 {
		t.Fatalf("points = %+v", points)
	}
}

func TestHistoryQueryAccountDetailFallsBackToTransactions(t *testing.T) {
	gateway := &stubGateway{
		detailErr: errors.New("report unavailable"),
		globalTxs: []domain.Transaction{
			{Date: "2024-03-01", Lines: []domain.Line{
				{AccountCode: "1110", Debit: 300},
				{AccountCode: "2100", Credit: 300},
			}},
		},
	}
	svc := newTestService(gateway)

	snap, err := svc.Send(context.Background(), "what is my current balance")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	points := lastEntry(snap).Payload.Series.Points
	if len(points) != 1 || points[0].Value != 300 {
		t.Fatalf("points = %+v", points)
	}
}

func TestHistoryQueryNamedAccountCode(t *testing.T) {
	gateway := &stubGateway{
		detail: domain.AccountDetail{Lines: []domain.AccountLine{{Date: "2024-03-01", Debit: 10}}},
	}
	svc := newTestService(gateway)

	if _, err := svc.Send(context.Background(), "show the balance history for account 1112"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gateway.detailCode != "1112" {
		t.Fatalf("account code = %q, want 1112", gateway.detailCode)
	}
}
