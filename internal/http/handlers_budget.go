package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"finlite/internal/core"
	"finlite/internal/export"
)

// handleDailyBudget serves GET /api/budget/daily?days=. The days parameter
// overrides the budget period length; it defaults to the length of the
// current month.
func (s *Server) handleDailyBudget(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	now := time.Now()
	days, err := core.DaysInMonth(now.Year(), int(now.Month()))
	if err != nil {
		slog.ErrorContext(r.Context(), "Days in month error", "error", err)
		InternalServerError("could not determine month length").Write(w)
		return
	}
	if v := r.URL.Query().Get("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days <= 0 {
			BadRequestError("days must be a positive integer").Write(w)
			return
		}
	}

	report, err := s.budget.CalculateDailyBudget(r.Context(), now, days)
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily budget error", "error", err)
		InternalServerError("could not compute daily budget").Write(w)
		return
	}
	NewJSONResponse().Data(report).Write(w)
}

// handleAnalytics serves GET /api/analytics.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	report, err := s.budget.Analytics(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Analytics error", "error", err)
		InternalServerError("could not compute analytics").Write(w)
		return
	}
	NewJSONResponse().Data(report).Write(w)
}

// handleExport serves GET /api/export with a full JSON snapshot.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	snap, err := export.Collect(r.Context(), s.exporter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export error", "error", err)
		InternalServerError("could not collect snapshot").Write(w)
		return
	}
	NewJSONResponse().Data(snap).Write(w)
}
