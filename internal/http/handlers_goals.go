package http

import (
	"errors"
	"log/slog"
	"net/http"

	"finlite/internal/core"
	"finlite/internal/storage"
)

type goalView struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target_amount"`
	Saved   float64 `json:"saved_amount"`
	DueDate string  `json:"due_date,omitempty"`
}

// handleGoals serves GET /api/goals, POST /api/goals, and
// DELETE /api/goals?name= for deletion by name.
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGoals(w, r)
	case http.MethodPost:
		s.createGoal(w, r)
	case http.MethodDelete:
		s.deleteGoalByName(w, r)
	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListSavingsGoals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List goals error", "error", err)
		InternalServerError("could not list savings goals").Write(w)
		return
	}
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView{ID: g.ID, Name: g.Name, Target: g.Target.Units(), Saved: g.Saved.Units(), DueDate: g.DueDate})
	}
	NewJSONResponse().Data(views).Write(w)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	target, err := core.ParseMoney(parser.Get("target_amount"))
	if err != nil {
		BadRequestError("invalid target amount").Write(w)
		return
	}

	goal := core.SavingsGoal{
		Name:    parser.Get("name"),
		Target:  target,
		DueDate: parser.Get("due_date"),
	}
	if goal.DueDate != "" {
		if _, err := core.ParseDate(goal.DueDate); err != nil {
			BadRequestError("invalid due date, want YYYY-MM-DD").Write(w)
			return
		}
	}
	if err := goal.Validate(); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	id, err := s.store.CreateSavingsGoal(r.Context(), goal)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create goal error", "error", err, "goal_name", goal.Name)
		InternalServerError("could not store savings goal").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Data(goalView{ID: id, Name: goal.Name, Target: goal.Target.Units(), DueDate: goal.DueDate}).
		Write(w)
}

func (s *Server) deleteGoalByName(w http.ResponseWriter, r *http.Request) {
	name := sanitizeInput(r.URL.Query().Get("name"))
	if name == "" {
		BadRequestError("name query parameter is required").Write(w)
		return
	}
	if err := s.store.DeleteSavingsGoalByName(r.Context(), name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("savings goal not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Delete goal error", "error", err, "goal_name", name)
		InternalServerError("could not delete savings goal").Write(w)
		return
	}
	NewJSONResponse().Write(w)
}

// handleGoalByID serves DELETE /api/goals/{id} and
// POST /api/goals/{id}/contribute.
func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	id, rest, err := pathID(r.URL.Path, "/api/goals/")
	if err != nil {
		BadRequestError("invalid goal id").Write(w)
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodDelete:
		s.deleteGoal(w, r, id)
	case rest == "contribute" && r.Method == http.MethodPost:
		s.contributeToGoal(w, r, id)
	default:
		MethodNotAllowedError("DELETE, POST").Write(w)
	}
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteSavingsGoal(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("savings goal not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Delete goal error", "error", err, "goal_id", id)
		InternalServerError("could not delete savings goal").Write(w)
		return
	}
	NewJSONResponse().Write(w)
}

func (s *Server) contributeToGoal(w http.ResponseWriter, r *http.Request, id int64) {
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

	if err := s.store.AddToSavingsGoal(r.Context(), id, amount); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("savings goal not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Contribute error", "error", err, "goal_id", id)
		InternalServerError("could not record contribution").Write(w)
		return
	}
	NewJSONResponse().Write(w)
}
