package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"finlite/internal/core"
	"finlite/internal/storage"
)

type expenseView struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

// handleExpenses serves GET /api/expenses and POST /api/expenses.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		InternalServerError("could not list expenses").Write(w)
		return
	}
	views := make([]expenseView, 0, len(records))
	for _, rec := range records {
		views = append(views, expenseView{ID: rec.ID, Category: rec.Category, Amount: rec.Amount.Units(), Date: rec.Date.String()})
	}
	NewJSONResponse().Data(views).Write(w)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	category := parser.Get("category")
	if category == "" {
		BadRequestError("category is required").Write(w)
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

	id, err := s.entries.RecordExpense(r.Context(), category, amount, date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense error", "error", err)
		InternalServerError("could not store expense").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Data(expenseView{ID: id, Category: category, Amount: amount.Units(), Date: date.String()}).
		Write(w)
}

// handleExpenseByID serves DELETE /api/expenses/{id}.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodDelete); resp != nil {
		resp.Write(w)
		return
	}
	id, _, err := pathID(r.URL.Path, "/api/expenses/")
	if err != nil {
		BadRequestError("invalid expense id").Write(w)
		return
	}
	if err := s.entries.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("expense record not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Delete expense error", "error", err, "record_id", id)
		InternalServerError("could not delete expense").Write(w)
		return
	}
	NewJSONResponse().Write(w)
}
