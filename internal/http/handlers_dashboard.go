package http

import (
	"log/slog"
	"net/http"

	"github.com/yashx007/Finance-App/internal/core"
)

// handleMonthlySeries returns the month-bucketed revenue/expense series for
// the filtered result set. Responses are cached per normalized filter.
func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	f := core.FilterFromValues(r.URL.Query())
	key := f.CacheKey()

	if series, found := s.monthlyCache.Get(key); found {
		slog.DebugContext(r.Context(), "Monthly series cache hit", "key", key)
		writeJSON(w, http.StatusOK, series)
		return
	}

	txs, err := s.transactions.List(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly series list error", "error", err)
		writeError(w, err)
		return
	}

	series := core.MonthlySeries(txs)
	if series == nil {
		series = []core.MonthlyPoint{}
	}
	s.monthlyCache.Set(key, series)
	writeJSON(w, http.StatusOK, series)
}

// handleSummary returns the scalar totals over the filtered result set.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	f := core.FilterFromValues(r.URL.Query())
	key := f.CacheKey()

	if summary, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "key", key)
		writeJSON(w, http.StatusOK, summary)
		return
	}

	txs, err := s.transactions.List(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary list error", "error", err)
		writeError(w, err)
		return
	}

	summary := core.Summarize(txs)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

// handleRollups serves the worker-precomputed monthly series. Unlike the
// monthly endpoint this never touches the transaction store.
func (s *Server) handleRollups(w http.ResponseWriter, r *http.Request) {
	if s.rollups == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: errRollupsUnavailable.Error()})
		return
	}

	points, err := s.rollups.Rollups(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Rollup read error", "error", err)
		writeError(w, err)
		return
	}
	if points == nil {
		points = []core.MonthlyPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}
