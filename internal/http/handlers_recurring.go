package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"finlite/internal/core"
	"finlite/internal/storage"
)

type recurringView struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	StartDate   string  `json:"start_date"`
}

// handleRecurring serves GET /api/recurring?type= and POST /api/recurring.
func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRecurring(w, r)
	case http.MethodPost:
		s.createRecurring(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listRecurring(w http.ResponseWriter, r *http.Request) {
	var filter *core.EntryType
	if v := r.URL.Query().Get("type"); v != "" {
		t, err := core.ParseEntryType(v)
		if err != nil {
			BadRequestError("invalid type, want income or expense").Write(w)
			return
		}
		filter = &t
	}

	entries, err := s.store.ListRecurringEntries(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List recurring error", "error", err)
		InternalServerError("could not list recurring entries").Write(w)
		return
	}
	views := make([]recurringView, 0, len(entries))
	for _, e := range entries {
		views = append(views, recurringView{
			ID:          e.ID,
			Type:        string(e.Type),
			Description: e.Description,
			Amount:      e.Amount.Units(),
			StartDate:   e.StartDate.String(),
		})
	}
	NewJSONResponse().Data(views).Write(w)
}

func (s *Server) createRecurring(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	entryType, err := core.ParseEntryType(parser.Get("type"))
	if err != nil {
		BadRequestError("invalid type, want income or expense").Write(w)
		return
	}
	amount, err := core.ParseMoney(parser.Get("amount"))
	if err != nil {
		BadRequestError("invalid amount").Write(w)
		return
	}

	start := core.DateOf(time.Now())
	if v := parser.Get("start_date"); v != "" {
		start, err = core.ParseDate(v)
		if err != nil {
			BadRequestError("invalid start date, want YYYY-MM-DD").Write(w)
			return
		}
	}

	entry := core.RecurringEntry{
		Type:        entryType,
		Description: parser.Get("description"),
		Amount:      amount,
		StartDate:   start,
	}
	if err := entry.Validate(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	id, err := s.store.CreateRecurringEntry(r.Context(), entry)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create recurring error", "error", err)
		InternalServerError("could not store recurring entry").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Data(recurringView{
			ID:          id,
			Type:        string(entry.Type),
			Description: entry.Description,
			Amount:      entry.Amount.Units(),
			StartDate:   entry.StartDate.String(),
		}).
		Write(w)
}

// handleRecurringByID serves PUT /api/recurring/{id} and
// DELETE /api/recurring/{id}.
func (s *Server) handleRecurringByID(w http.ResponseWriter, r *http.Request) {
	id, _, err := pathID(r.URL.Path, "/api/recurring/")
	if err != nil {
		BadRequestError("invalid recurring entry id").Write(w)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateRecurring(w, r, id)
	case http.MethodDelete:
		s.deleteRecurring(w, r, id)
	default:
		MethodNotAllowedError("PUT, DELETE").Write(w)
	}
}

func (s *Server) updateRecurring(w http.ResponseWriter, r *http.Request, id int64) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	description := parser.Get("description")
	if description == "" {
		BadRequestError("description is required").Write(w)
		return
	}
	amount, err := core.ParseMoney(parser.Get("amount"))
	if err != nil {
		BadRequestError("invalid amount").Write(w)
		return
	}

	if err := s.store.UpdateRecurringEntry(r.Context(), id, description, amount); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("recurring entry not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Update recurring error", "error", err, "entry_id", id)
		InternalServerError("could not update recurring entry").Write(w)
		return
	}
	NewJSONResponse().Write(w)
}

func (s *Server) deleteRecurring(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteRecurringEntry(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("recurring entry not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Delete recurring error", "error", err, "entry_id", id)
		InternalServerError("could not delete recurring entry").Write(w)
		return
	}
	NewJSONResponse().Write(w)
}

// handleRecurringApply serves POST /api/recurring/apply, running the
// applier on demand. Repeated calls within one month are no-ops.
func (s *Server) handleRecurringApply(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}

	result, err := s.applier.Apply(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Apply recurring error", "error", err)
		InternalServerError("could not apply recurring entries").Write(w)
		return
	}
	NewJSONResponse().Data(result).Write(w)
}
