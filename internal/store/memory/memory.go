package memory

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"budget/internal/core"
)

// Store keeps goals and transactions in process memory. Records are kept
// in insertion order, which is the order List* calls return.
type Store struct {
	mu           sync.Mutex
	goals        []core.Goal
	transactions []core.Transaction
	nextGoalID   int64
	nextTxID     int64
}

func New() *Store {
	return &Store{nextGoalID: 1, nextTxID: 1}
}

// NewFromFiles seeds the store from JSON-lines files under base
// (seed_goals.jsonl, seed_transactions.jsonl). Missing files are ignored;
// blank lines and lines starting with '#' are skipped.
func NewFromFiles(base string) (*Store, error) {
	s := New()
	ctx := context.Background()

	goals, err := readSeed[core.Goal](filepath.Join(base, "seed_goals.jsonl"))
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		if _, err := s.CreateGoal(ctx, g); err != nil {
			return nil, err
		}
	}

	txs, err := readSeed[core.Transaction](filepath.Join(base, "seed_transactions.jsonl"))
	if err != nil {
		return nil, err
	}
	for _, t := range txs {
		if _, err := s.CreateTransaction(ctx, t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

func (s *Store) GetGoal(_ context.Context, id int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.goalIndex(id)
	if i < 0 {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
	}
	return s.goals[i], nil
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.nextGoalID
	g.Version = 1
	s.nextGoalID++
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) ApplyContribution(_ context.Context, c core.Contribution) (core.Goal, core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.goalIndex(c.Goal.ID)
	if i < 0 {
		return core.Goal{}, core.Transaction{}, fmt.Errorf("goal %d: %w", c.Goal.ID, core.ErrNotFound)
	}
	if s.goals[i].Version != c.Goal.Version {
		return core.Goal{}, core.Transaction{}, fmt.Errorf("goal %d at version %d: %w", c.Goal.ID, c.Goal.Version, core.ErrConflict)
	}

	goal := c.Goal
	goal.Version++
	s.goals[i] = goal
	tx := s.insertTransaction(c.Expense)
	return goal, tx, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) RecentTransactions(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.MostRecent(s.transactions, limit), nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertTransaction(t), nil
}

func (s *Store) insertTransaction(t core.Transaction) core.Transaction {
	t.ID = s.nextTxID
	s.nextTxID++
	s.transactions = append(s.transactions, t)
	return t
}

func (s *Store) goalIndex(id int64) int {
	for i, g := range s.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func readSeed[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()

	var out []T
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		var v T
		if err := json.Unmarshal(text, &v); err != nil {
			return nil, fmt.Errorf("parse seed %s line %d: %w", path, line, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return out, nil
}
