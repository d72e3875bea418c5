package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{Type: "income", Amount: amount("100")},
		{Type: "expense", Amount: amount("40")},
		{Type: "INCOME", Amount: amount("10")},
	}

	got := Summarize(txs)

	assert.True(t, got.TotalIncome.Equal(dec("110")), "income %s", got.TotalIncome)
	assert.True(t, got.TotalExpenses.Equal(dec("40")), "expenses %s", got.TotalExpenses)
	assert.True(t, got.Balance.Equal(dec("70")), "balance %s", got.Balance)
}

func TestSummarize_UnknownTypeCountsAsExpense(t *testing.T) {
	txs := []Transaction{
		{Type: "income", Amount: amount("50.10")},
		{Type: "incme", Amount: amount("0.05")},
		{Type: "", Amount: amount("0.05")},
		{Type: "income"},
	}

	got := Summarize(txs)

	assert.True(t, got.TotalIncome.Equal(dec("50.10")))
	assert.True(t, got.TotalExpenses.Equal(dec("0.10")))
	assert.True(t, got.Balance.Equal(dec("50.00")))
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	assert.True(t, got.TotalIncome.IsZero())
	assert.True(t, got.TotalExpenses.IsZero())
	assert.True(t, got.Balance.IsZero())
}

func TestSummarizeByCategory(t *testing.T) {
	txs := []Transaction{
		{Type: "expense", Amount: amount("20"), Category: StringPtr("Food")},
		{Type: "expense", Amount: amount("5"), Category: StringPtr("")},
		{Type: "expense", Amount: amount("5"), Category: nil},
	}

	got := SummarizeByCategory(txs)

	require.Len(t, got, 2)
	assert.True(t, got["Food"].Equal(dec("20")))
	assert.True(t, got[UncategorizedLabel].Equal(dec("10")))
}

func TestSummarizeByCategory_SkipsIncomeAndMissingAmounts(t *testing.T) {
	txs := []Transaction{
		{Type: "Expense", Amount: amount("1.25"), Category: StringPtr("Food")},
		{Type: "EXPENSE", Amount: amount("2.50"), Category: StringPtr("  ")},
		{Type: "income", Amount: amount("99"), Category: StringPtr("Food")},
		{Type: "expense", Category: StringPtr("Food")},
		{Type: "other", Amount: amount("7"), Category: StringPtr("Food")},
	}

	got := SummarizeByCategory(txs)

	require.Len(t, got, 2)
	assert.True(t, got["Food"].Equal(dec("1.25")))
	assert.True(t, got[UncategorizedLabel].Equal(dec("2.50")))
}

func TestMostRecent(t *testing.T) {
	var txs []Transaction
	for day := 1; day <= 7; day++ {
		txs = append(txs, Transaction{ID: int64(day), Date: NewDate(2025, 3, day)})
	}
	// Shuffle the input order a little.
	txs[0], txs[6] = txs[6], txs[0]
	txs[2], txs[4] = txs[4], txs[2]

	got := MostRecent(txs, RecentLimit)

	require.Len(t, got, 5)
	for i, want := range []int64{7, 6, 5, 4, 3} {
		assert.Equal(t, want, got[i].ID)
	}
}

func TestMostRecent_FewerThanLimitAndUndatedLast(t *testing.T) {
	txs := []Transaction{
		{ID: 1},
		{ID: 2, Date: NewDate(2024, 1, 1)},
		{ID: 3, Date: NewDate(2024, 1, 1)},
	}

	got := MostRecent(txs, RecentLimit)

	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})
}
