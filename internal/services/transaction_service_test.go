package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
	"budget/internal/store/memory"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []core.Transaction
	err       error
}

func (p *recordingPublisher) PublishTransactionRecorded(_ context.Context, t core.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, t)
	return nil
}

func tx(desc, amt, typ string, category *string, date core.Date) core.Transaction {
	t := core.Transaction{Description: desc, Type: typ, Category: category, Date: date}
	if amt != "" {
		t.Amount = decimal.NewNullDecimal(decimal.RequireFromString(amt))
	}
	return t
}

func seed(t *testing.T, st *memory.Store, txs ...core.Transaction) {
	t.Helper()
	for _, x := range txs {
		_, err := st.CreateTransaction(context.Background(), x)
		require.NoError(t, err)
	}
}

func TestTransactionService_CreatePublishes(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	pub := &recordingPublisher{}
	svc := NewTransactionService(st, pub)

	created, err := svc.CreateTransaction(ctx, tx("Salary", "100", "income", nil, core.NewDate(2024, 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	require.Len(t, pub.published, 1)
	assert.Equal(t, created, pub.published[0])
}

func TestTransactionService_CreateSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewTransactionService(st, &recordingPublisher{err: errors.New("broker down")})

	_, err := svc.CreateTransaction(ctx, tx("Lunch", "12", "expense", nil, core.Date{}))
	require.NoError(t, err)

	all, err := svc.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTransactionService_ListIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seed(t, st,
		tx("Salary", "100", "income", nil, core.NewDate(2024, 1, 1)),
		tx("Food", "30", "expense", core.StringPtr("Food"), core.NewDate(2024, 1, 2)),
		tx("Undated", "5", "expense", nil, core.Date{}),
	)
	svc := NewTransactionService(st, nil)

	first, err := svc.ListTransactions(ctx)
	require.NoError(t, err)
	second, err := svc.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestTransactionService_Summary(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seed(t, st,
		tx("Salary", "100", "income", nil, core.Date{}),
		tx("Gift", "10", "INCOME", nil, core.Date{}),
		tx("Food", "30", "expense", nil, core.Date{}),
		tx("Misc", "10", "other", nil, core.Date{}),
		tx("Nothing", "", "expense", nil, core.Date{}),
	)
	svc := NewTransactionService(st, nil)

	s, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "110", s.TotalIncome.String())
	assert.Equal(t, "40", s.TotalExpenses.String())
	assert.Equal(t, "70", s.Balance.String())
}

func TestTransactionService_SummaryByCategory(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seed(t, st,
		tx("a", "5", "expense", core.StringPtr("Food"), core.Date{}),
		tx("b", "15", "Expense", core.StringPtr("Food"), core.Date{}),
		tx("c", "10", "expense", core.StringPtr("  "), core.Date{}),
		tx("d", "50", "income", core.StringPtr("Food"), core.Date{}),
	)
	svc := NewTransactionService(st, nil)

	totals, err := svc.SummaryByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "20", totals["Food"].String())
	assert.Equal(t, "10", totals[core.UncategorizedLabel].String())
}

func TestTransactionService_RecentTransactions(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	for day := 1; day <= 7; day++ {
		seed(t, st, tx("t", "1", "expense", nil, core.NewDate(2024, 1, day)))
	}
	svc := NewTransactionService(st, nil)

	recent, err := svc.RecentTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i, want := range []string{"2024-01-07", "2024-01-06", "2024-01-05", "2024-01-04", "2024-01-03"} {
		assert.Equal(t, want, recent[i].Date.String())
	}
}

func TestTransactionService_RecentWithFewRecords(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seed(t, st, tx("only", "1", "expense", nil, core.NewDate(2024, 2, 2)))
	svc := NewTransactionService(st, nil)

	recent, err := svc.RecentTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

type brokenStore struct{ *memory.Store }

func (brokenStore) ListTransactions(context.Context) ([]core.Transaction, error) {
	return nil, errors.New("connection reset")
}

func TestTransactionService_StorageFailure(t *testing.T) {
	svc := NewTransactionService(brokenStore{memory.New()}, nil)

	_, err := svc.Summary(context.Background())
	assert.ErrorContains(t, err, "connection reset")
	_, err = svc.SummaryByCategory(context.Background())
	assert.Error(t, err)
}
