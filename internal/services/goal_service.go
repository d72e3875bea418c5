package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/store"
)

// DefaultContributeAttempts bounds how often a contribution is retried after
// losing a race with a concurrent update of the same goal.
const DefaultContributeAttempts = 3

// GoalService manages savings goals and contributions to them.
type GoalService struct {
	goals        store.GoalStore
	transactions *TransactionService
	now          func() time.Time
	attempts     int
}

// GoalOption customises a GoalService.
type GoalOption func(*GoalService)

// WithClock sets the clock used to date contribution expenses.
func WithClock(now func() time.Time) GoalOption {
	return func(s *GoalService) { s.now = now }
}

// WithContributeAttempts sets the maximum attempts for a contribution.
func WithContributeAttempts(n int) GoalOption {
	return func(s *GoalService) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// NewGoalService returns a service over goals. Expenses derived from
// contributions are announced through transactions, which may be nil.
func NewGoalService(goals store.GoalStore, transactions *TransactionService, opts ...GoalOption) *GoalService {
	s := &GoalService{
		goals:        goals,
		transactions: transactions,
		now:          time.Now,
		attempts:     DefaultContributeAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GoalService) ListGoals(ctx context.Context) ([]core.Goal, error) {
	goals, err := s.goals.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// CreateGoal stores g as given. The id is assigned by storage.
func (s *GoalService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	created, err := s.goals.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return created, nil
}

// Contribute adds amount to the goal's balance and records the matching
// "Savings" expense dated today. Both writes are applied together.
//
// Errors: core.ErrNotFound if the goal does not exist, core.ErrInvalidAmount
// if amount is absent or not positive, core.ErrConflict if the goal kept
// changing underneath every attempt.
func (s *GoalService) Contribute(ctx context.Context, goalID int64, amount decimal.NullDecimal) (core.Goal, error) {
	logger := log.FromContext(ctx).With(log.FieldGoalID, goalID)

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		goal, err := s.goals.GetGoal(ctx, goalID)
		if err != nil {
			return core.Goal{}, fmt.Errorf("contribute to goal %d: %w", goalID, err)
		}
		if err := core.ValidateContributionAmount(amount); err != nil {
			return core.Goal{}, err
		}

		c := goal.Contribute(amount.Decimal, core.DateOf(s.now()))
		updated, expense, err := s.goals.ApplyContribution(ctx, c)
		if errors.Is(err, core.ErrConflict) {
			lastErr = err
			logger.WarnContext(ctx, "Goal changed during contribution, retrying",
				log.FieldAttempt, attempt,
				log.FieldOperation, log.OpContribute)
			continue
		}
		if err != nil {
			return core.Goal{}, fmt.Errorf("contribute to goal %d: %w", goalID, err)
		}

		logger.InfoContext(ctx, "Contribution recorded",
			log.FieldAmount, amount.Decimal.String(),
			log.FieldTransactionID, expense.ID)
		if s.transactions != nil {
			s.transactions.Announce(ctx, expense)
		}
		return updated, nil
	}
	return core.Goal{}, fmt.Errorf("contribute to goal %d after %d attempts: %w", goalID, s.attempts, lastErr)
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return core.FormatAmount(d.Decimal)
}
