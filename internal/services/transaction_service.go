package services

import (
	"context"
	"fmt"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/store"
)

// Publisher announces recorded transactions to interested consumers.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, t core.Transaction) error
}

// TransactionService records transactions and computes aggregates over them.
// Aggregates are recomputed from storage on every call.
type TransactionService struct {
	store     store.TransactionStore
	publisher Publisher
}

// NewTransactionService returns a service over s. publisher may be nil,
// in which case no events are emitted.
func NewTransactionService(s store.TransactionStore, publisher Publisher) *TransactionService {
	return &TransactionService{store: s, publisher: publisher}
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// CreateTransaction stores t as given and announces it.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.Announce(ctx, created)
	return created, nil
}

// Announce publishes a transaction.recorded event for t. Publishing is best
// effort: the transaction is already stored, so failures are only logged.
func (s *TransactionService) Announce(ctx context.Context, t core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionRecorded(ctx, t); err != nil {
		log.LogError(ctx, "Failed to publish transaction event", err, log.ErrorTypeInternal, log.OpPublish,
			log.NewFields().WithTransaction(t.ID, t.Type, t.CategoryLabel(), formatAmount(t.Amount)))
	}
}

func (s *TransactionService) Summary(ctx context.Context) (core.Summary, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary: %w", err)
	}
	return core.Summarize(txs), nil
}

func (s *TransactionService) SummaryByCategory(ctx context.Context) (core.CategoryTotals, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary by category: %w", err)
	}
	return core.SummarizeByCategory(txs), nil
}

// RecentTransactions returns the core.RecentLimit newest transactions by date.
func (s *TransactionService) RecentTransactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.RecentTransactions(ctx, core.RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return txs, nil
}
