package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary holds income and expense totals over a set of transactions.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Balance       decimal.Decimal `json:"balance"`
}

// CategoryTotals maps an expense category to its summed amount.
type CategoryTotals map[string]decimal.Decimal

// Summarize totals income and expenses. Records without an amount are
// skipped; every record whose type is not "income" counts as an expense,
// including unrecognised types.
func Summarize(txs []Transaction) Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txs {
		if !t.Amount.Valid {
			continue
		}
		if t.IsIncome() {
			income = income.Add(t.Amount.Decimal)
		} else {
			expenses = expenses.Add(t.Amount.Decimal)
		}
	}
	return Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}
}

// SummarizeByCategory sums "expense" records with an amount per category.
func SummarizeByCategory(txs []Transaction) CategoryTotals {
	totals := CategoryTotals{}
	for _, t := range txs {
		if !t.IsExpense() || !t.Amount.Valid {
			continue
		}
		label := t.CategoryLabel()
		if sum, ok := totals[label]; ok {
			totals[label] = sum.Add(t.Amount.Decimal)
		} else {
			totals[label] = t.Amount.Decimal
		}
	}
	return totals
}

// MostRecent returns up to n transactions ordered by date, newest first.
// Equal dates keep their input order and undated records go last.
func MostRecent(txs []Transaction, n int) []Transaction {
	sorted := append([]Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
