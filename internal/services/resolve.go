package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hesabkit/hesabchat/internal/domain"
	"github.com/hesabkit/hesabchat/internal/interpret"
	"github.com/hesabkit/hesabchat/internal/ledger"
)

const (
	// defaultCashAccount is the bank/cash account charted as 1110.
	defaultCashAccount = "1110"

	globalFetchSize = 200
	minFetchSize    = 80
	resultCap       = 100
)

// runTransactionQuery answers "show transactions ..." locally from backend
// rows: match an entity, parse the window, fetch, filter, sort, cap.
func (s *ChatService) runTransactionQuery(ctx context.Context, text string) {
	t := strings.ToLower(strings.TrimSpace(text))
	limit := interpret.RequestedLimit(t)
	window := interpret.ParseWindow(t, s.now())
	hints := interpret.TypeHints(t)

	entity, matched := s.matchEntity(ctx, t)

	var rows []domain.Transaction
	if matched {
		fetched, err := s.Gateway.FetchEntityTransactions(ctx, entity.ID)
		if err != nil {
			s.systemError("could not load transactions", err, true)
			return
		}
		rows = ledger.FilterWindow(ledger.SortDesc(fetched), window)
		if len(rows) == 0 {
			// Historical rows may lack an explicit entity link; re-match by
			// name over a global page instead of reporting nothing.
			global, err := s.Gateway.FetchTransactions(ctx, 0, globalFetchSize)
			if err != nil {
				s.systemError("could not load transactions", err, true)
				return
			}
			rows = ledger.FilterWindow(ledger.SortDesc(ledger.FilterByName(global, entity.Name)), window)
		}
	} else {
		fetched, err := s.Gateway.FetchTransactions(ctx, 0, fetchSizeFor(limit))
		if err != nil {
			s.systemError("could not load transactions", err, true)
			return
		}
		rows = ledger.FilterWindow(ledger.SortDesc(fetched), window)
		if !hints.Empty() {
			rows = ledger.FilterByHints(rows, hints)
		}
	}

	if limit > resultCap {
		limit = resultCap
	}
	rows = ledger.Head(rows, limit)

	text = fmt.Sprintf("%d transactions (%s)", len(rows), window.Label)
	if matched {
		text = fmt.Sprintf("%d transactions for %s (%s)", len(rows), entity.Name, window.Label)
	}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    text,
		Payload: &domain.EntryPayload{Kind: domain.PayloadTransactions, Transactions: rows},
	})
}

// runHistoryQuery answers trend and balance questions with a locally built
// series.
func (s *ChatService) runHistoryQuery(ctx context.Context, text string) {
	t := strings.ToLower(strings.TrimSpace(text))
	window := interpret.ParseWindow(t, s.now())

	if strings.Contains(t, "expense") || strings.Contains(t, "spend") {
		s.expenseSeries(ctx, window)
		return
	}
	s.balanceSeries(ctx, t, window)
}

func (s *ChatService) expenseSeries(ctx context.Context, window domain.TimeWindow) {
	rows, err := s.Gateway.FetchTransactions(ctx, 0, globalFetchSize)
	if err != nil {
		s.systemError("could not load the expense history", err, true)
		return
	}
	points := ledger.ExpenseByMonth(ledger.FilterWindow(rows, window))
	series := domain.Series{
		Title:  fmt.Sprintf("Expenses by month (%s)", window.Label),
		Points: points,
	}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    series.Title,
		Payload: &domain.EntryPayload{Kind: domain.PayloadSeries, Series: &series},
	})
}

// balanceSeries builds a running bank balance. A matched bank entity
// sources the entity's transactions; otherwise the account detail report
// for the named (or default cash) account is used, falling back to a
// global transaction page when that report is unavailable.
func (s *ChatService) balanceSeries(ctx context.Context, t string, window domain.TimeWindow) {
	var (
		points []domain.SeriesPoint
		title  string
	)

	if entity, ok := s.matchEntity(ctx, t); ok && strings.EqualFold(entity.Type, string(domain.HintBank)) {
		rows, err := s.Gateway.FetchEntityTransactions(ctx, entity.ID)
		if err != nil {
			s.systemError("could not load the balance history", err, true)
			return
		}
		points = ledger.BalanceFromTransactions(rows)
		title = fmt.Sprintf("%s balance (%s)", entity.Name, window.Label)
	} else {
		code := interpret.AccountCode(t)
		if code == "" {
			code = defaultCashAccount
		}
		detail, err := s.Gateway.FetchAccountDetail(ctx, code)
		if err == nil {
			points = ledger.BalanceFromAccountLines(detail.Lines)
		} else {
			rows, ferr := s.Gateway.FetchTransactions(ctx, 0, globalFetchSize)
			if ferr != nil {
				s.systemError("could not load the balance history", err, true)
				return
			}
			points = ledger.BalanceFromTransactions(rows)
		}
		title = fmt.Sprintf("Account %s balance (%s)", code, window.Label)
	}

	series := domain.Series{Title: title, Points: ledger.ApplyWindow(points, window)}
	s.append(domain.ConversationEntry{
		Actor:   domain.ActorAssistant,
		Text:    series.Title,
		Payload: &domain.EntryPayload{Kind: domain.PayloadSeries, Series: &series},
	})
}

// matchEntity resolves the query text against the cached entity list. An
// entity-list failure degrades to "no match" so a generic query still
// works while the backend catalogue is unreachable.
func (s *ChatService) matchEntity(ctx context.Context, t string) (domain.Entity, bool) {
	entities, err := s.Entities.Entities(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("entity lookup failed", map[string]interface{}{"error": err.Error()})
		}
		return domain.Entity{}, false
	}
	return interpret.MatchEntity(t, entities)
}

// fetchSizeFor over-fetches relative to the requested result count so
// window and hint filters still leave enough rows, bounded to a sane page.
func fetchSizeFor(limit int) int {
	size := 4 * limit
	if size < minFetchSize {
		size = minFetchSize
	}
	if size > globalFetchSize {
		size = globalFetchSize
	}
	return size
}
