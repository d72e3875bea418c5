package store

import (
	"context"

	"budget/internal/core"
)

// Ports implemented by the storage collaborators.
type (
	GoalReader interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		// GetGoal returns core.ErrNotFound when no goal has the given id.
		GetGoal(ctx context.Context, id int64) (core.Goal, error)
	}

	GoalWriter interface {
		// CreateGoal stores g, ignoring g.ID, and returns it with its assigned id.
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	}

	TransactionReader interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		// RecentTransactions returns at most limit transactions, newest date first.
		RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		// CreateTransaction stores t, ignoring t.ID, and returns it with its assigned id.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	}

	// ContributionWriter applies both writes of a contribution as one unit.
	ContributionWriter interface {
		// ApplyContribution stores c.Goal if the stored version still equals
		// c.Goal.Version, and inserts c.Expense. Either both writes become
		// visible or neither does. A stale version yields core.ErrConflict,
		// a vanished goal core.ErrNotFound.
		ApplyContribution(ctx context.Context, c core.Contribution) (core.Goal, core.Transaction, error)
	}

	GoalStore interface {
		GoalReader
		GoalWriter
		ContributionWriter
	}

	TransactionStore interface {
		TransactionReader
		TransactionWriter
	}

	// Store is a complete storage collaborator.
	Store interface {
		GoalStore
		TransactionStore
		Ping(ctx context.Context) error
	}
)
