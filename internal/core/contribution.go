package core

import "github.com/shopspring/decimal"

// Contribution is the pair of writes produced by contributing to a goal:
// the goal with its raised balance and the matching expense record.
type Contribution struct {
	// Goal carries the new balance. Its Version is the one the goal was read at.
	Goal    Goal
	Expense Transaction
}

// ValidateContributionAmount requires a present, strictly positive amount.
func ValidateContributionAmount(amount decimal.NullDecimal) error {
	if !amount.Valid || !amount.Decimal.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Contribute computes the contribution of amount to g dated on.
// g itself is left untouched.
func (g Goal) Contribute(amount decimal.Decimal, on Date) Contribution {
	updated := g
	updated.CurrentAmount = g.CurrentAmount.Add(amount)

	return Contribution{
		Goal: updated,
		Expense: Transaction{
			Description: ContributionPrefix + g.Name,
			Amount:      decimal.NewNullDecimal(amount),
			Type:        TypeExpense,
			Category:    StringPtr(SavingsCategory),
			Date:        on,
		},
	}
}
