package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"budget/internal/core"
	"budget/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether storage answers within a short deadline.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		log.LogError(r.Context(), "Readiness check failed", err, log.ErrorTypeDatabase, "ready", nil)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.ListGoals(r.Context())
	if err != nil {
		s.respondError(w, r, err, log.OpList)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(goals))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if err := decodeJSON(w, r, &g); err != nil {
		BadRequestError("malformed JSON body").Write(w)
		return
	}

	created, err := s.goals.CreateGoal(r.Context(), g)
	if err != nil {
		s.respondError(w, r, err, log.OpCreate)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Goal created",
		log.FieldGoalID, created.ID,
		log.FieldGoalName, created.Name)
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		NotFoundError("goal not found").Write(w)
		return
	}

	var req ContributeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError("malformed JSON body").Write(w)
		return
	}

	goal, err := s.goals.Contribute(r.Context(), id, req.Amount)
	if err != nil {
		s.respondError(w, r, err, log.OpContribute)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.ListTransactions(r.Context())
	if err != nil {
		s.respondError(w, r, err, log.OpList)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(w, r, &t); err != nil {
		BadRequestError("malformed JSON body").Write(w)
		return
	}

	created, err := s.transactions.CreateTransaction(r.Context(), t)
	if err != nil {
		s.respondError(w, r, err, log.OpCreate)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.transactions.Summary(r.Context())
	if err != nil {
		s.respondError(w, r, err, log.OpSummary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSummaryByCategory(w http.ResponseWriter, r *http.Request) {
	totals, err := s.transactions.SummaryByCategory(r.Context())
	if err != nil {
		s.respondError(w, r, err, log.OpSummary)
		return
	}
	if totals == nil {
		totals = core.CategoryTotals{}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.RecentTransactions(r.Context())
	if err != nil {
		s.respondError(w, r, err, log.OpRecent)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

// respondError maps domain errors to status codes. Anything unrecognised is
// a storage failure: it is logged and reported without detail.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("goal not found").Write(w)
	case errors.Is(err, core.ErrInvalidAmount):
		BadRequestError("amount must be a positive number").Write(w)
	case errors.Is(err, core.ErrConflict):
		ConflictError("goal was modified concurrently, please retry").Write(w)
	default:
		log.LogError(r.Context(), "Request failed", err, log.ErrorTypeDatabase, op, nil)
		InternalServerError("internal server error").Write(w)
	}
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
