package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	// SavingsCategory is the category of the expense recorded for a goal contribution.
	SavingsCategory = "Savings"
	// UncategorizedLabel replaces a missing or blank category in category summaries.
	UncategorizedLabel = "Uncategorized"
	// ContributionPrefix starts the description of a contribution expense.
	ContributionPrefix = "Contribution to goal: "

	// RecentLimit is how many transactions the recent view returns.
	RecentLimit = 5
)

type (
	// Goal is a named savings target.
	Goal struct {
		ID            int64               `json:"id"`
		Name          string              `json:"name"`
		TargetAmount  decimal.NullDecimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal     `json:"currentAmount"`
		// Version increases on every stored update of the goal.
		Version int64 `json:"-"`
	}

	// Transaction is a single income or expense record. Type is free text.
	Transaction struct {
		ID          int64               `json:"id"`
		Description string              `json:"description"`
		Amount      decimal.NullDecimal `json:"amount"`
		Type        string              `json:"type"`
		Category    *string             `json:"category"`
		Date        Date                `json:"date"`
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrConflict reports that a goal changed between read and write.
	ErrConflict = errors.New("concurrent modification")
)

func init() {
	// Amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// IsIncome reports whether the transaction counts as income (case-insensitive).
func (t Transaction) IsIncome() bool {
	return strings.EqualFold(t.Type, TypeIncome)
}

// IsExpense reports whether the transaction type is literally "expense" (case-insensitive).
func (t Transaction) IsExpense() bool {
	return strings.EqualFold(t.Type, TypeExpense)
}

// CategoryLabel returns the category used for grouping.
func (t Transaction) CategoryLabel() string {
	if t.Category == nil || strings.TrimSpace(*t.Category) == "" {
		return UncategorizedLabel
	}
	return *t.Category
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
