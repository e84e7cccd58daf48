package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"finlite/internal/core"
	"finlite/internal/storage"
)

type incomeView struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// handleIncome serves GET /api/income and POST /api/income.
func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listIncome(w, r)
	case http.MethodPost:
		s.createIncome(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listIncome(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListIncome(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List income error", "error", err)
		InternalServerError("could not list income").Write(w)
		return
	}
	views := make([]incomeView, 0, len(records))
	for _, rec := range records {
		views = append(views, incomeView{ID: rec.ID, Amount: rec.Amount.Units(), Date: rec.Date.String()})
	}
	NewJSONResponse().Data(views).Write(w)
}

func (s *Server) createIncome(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	amount, err := core.ParseMoney(parser.Get("amount"))
	if err != nil {
		BadRequestError("invalid amount").Write(w)
		return
	}

	date := core.DateOf(time.Now())
	if v := parser.Get("date"); v != "" {
		date, err = core.ParseDate(v)
		if err != nil {
			BadRequestError("invalid date, want YYYY-MM-DD").Write(w)
			return
		}
	}

	id, err := s.entries.RecordIncome(r.Context(), amount, date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create income error", "error", err)
		InternalServerError("could not store income").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Data(incomeView{ID: id, Amount: amount.Units(), Date: date.String()}).
		Write(w)
}

// handleIncomeByID serves DELETE /api/income/{id}.
func (s *Server) handleIncomeByID(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodDelete); resp != nil {
		resp.Write(w)
		return
	}
	id, _, err := pathID(r.URL.Path, "/api/income/")
	if err != nil {
		BadRequestError("invalid income id").Write(w)
		return
	}
	if err := s.entries.DeleteIncome(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("income record not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Delete income error", "error", err, "record_id", id)
		InternalServerError("could not delete income").Write(w)
		return
	}
	NewJSONResponse().Write(w)
}
