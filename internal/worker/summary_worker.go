package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
)

// SummaryWorker keeps an up-to-date view of the ledger totals, refreshed
// whenever a transaction.recorded event arrives and on a fixed interval.
type SummaryWorker struct {
	transactions *services.TransactionService
	logger       *log.Logger

	mu        sync.Mutex
	processed int64
	last      Snapshot
}

// Snapshot is the most recent ledger view computed by the worker.
type Snapshot struct {
	Summary           core.Summary
	ByCategory        core.CategoryTotals
	// LastTransactionID is the id of the event that triggered the refresh, 0 for periodic refreshes.
	LastTransactionID int64
	ComputedAt        time.Time
}

func NewSummaryWorker(transactions *services.TransactionService, logger *log.Logger) *SummaryWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SummaryWorker{
		transactions: transactions,
		logger:       logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTransactionRecorded refreshes the totals after a transaction event.
// Returning an error makes the consumer requeue the message.
func (w *SummaryWorker) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	t := msg.Transaction()
	w.logger.InfoContext(ctx, "Processing transaction event",
		log.FieldTransactionID, msg.ID,
		log.FieldType, msg.Type,
		log.FieldCategory, t.CategoryLabel(),
		"lag_ms", time.Since(msg.Timestamp).Milliseconds())

	if err := w.Refresh(ctx, msg.ID); err != nil {
		return err
	}

	w.mu.Lock()
	w.processed++
	w.mu.Unlock()
	return nil
}

// Refresh recomputes the totals from storage and logs them.
func (w *SummaryWorker) Refresh(ctx context.Context, triggeredBy int64) error {
	summary, err := w.transactions.Summary(ctx)
	if err != nil {
		return fmt.Errorf("refresh summary: %w", err)
	}
	byCategory, err := w.transactions.SummaryByCategory(ctx)
	if err != nil {
		return fmt.Errorf("refresh category summary: %w", err)
	}

	snap := Snapshot{
		Summary:           summary,
		ByCategory:        byCategory,
		LastTransactionID: triggeredBy,
		ComputedAt:        time.Now(),
	}
	w.mu.Lock()
	w.last = snap
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Ledger totals",
		"total_income", core.FormatAmount(summary.TotalIncome),
		"total_expenses", core.FormatAmount(summary.TotalExpenses),
		"balance", core.FormatAmount(summary.Balance),
		"categories", len(byCategory))
	return nil
}

// RunPeriodic refreshes every interval until ctx ends.
func (w *SummaryWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Refresh(ctx, 0); err != nil {
				log.LogError(ctx, "Periodic refresh failed", err, log.ErrorTypeDatabase, log.OpSummary, nil)
			}
		}
	}
}

// Snapshot returns the latest totals and how many events were processed.
func (w *SummaryWorker) Snapshot() (Snapshot, int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.processed
}
