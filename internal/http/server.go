package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finlite/internal/core"
	"finlite/internal/export"
	"finlite/internal/log"
	"finlite/internal/services"
)

// Store is the storage surface the handlers read and mutate directly.
// *storage.SQLiteRepository satisfies it; record creation and deletion go
// through the entry service instead so the ledger mirror is notified.
type Store interface {
	ListIncome(ctx context.Context) ([]core.IncomeRecord, error)
	ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error)
	ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error)
	CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (int64, error)
	AddToSavingsGoal(ctx context.Context, id int64, amount core.Money) error
	DeleteSavingsGoal(ctx context.Context, id int64) error
	DeleteSavingsGoalByName(ctx context.Context, name string) error
	ListRecurringEntries(ctx context.Context, t *core.EntryType) ([]core.RecurringEntry, error)
	CreateRecurringEntry(ctx context.Context, e core.RecurringEntry) (int64, error)
	UpdateRecurringEntry(ctx context.Context, id int64, description string, amount core.Money) error
	DeleteRecurringEntry(ctx context.Context, id int64) error
}

type Server struct {
	http.Server
	store        Store
	exporter     export.Store
	entries      *services.EntryService
	applier      *services.RecurringApplier
	budget       *services.BudgetCalculator
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, store Store, exporter export.Store, entries *services.EntryService, applier *services.RecurringApplier, budget *services.BudgetCalculator) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		exporter:    exporter,
		entries:     entries,
		applier:     applier,
		budget:      budget,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/api/income", s.withMiddleware(s.handleIncome))
	mux.HandleFunc("/api/income/", s.withMiddleware(s.handleIncomeByID))
	mux.HandleFunc("/api/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/api/expenses/", s.withMiddleware(s.handleExpenseByID))
	mux.HandleFunc("/api/goals", s.withMiddleware(s.handleGoals))
	mux.HandleFunc("/api/goals/", s.withMiddleware(s.handleGoalByID))
	mux.HandleFunc("/api/recurring", s.withMiddleware(s.handleRecurring))
	mux.HandleFunc("/api/recurring/apply", s.withMiddleware(s.handleRecurringApply))
	mux.HandleFunc("/api/recurring/", s.withMiddleware(s.handleRecurringByID))
	mux.HandleFunc("/api/budget/daily", s.withMiddleware(s.handleDailyBudget))
	mux.HandleFunc("/api/analytics", s.withMiddleware(s.handleAnalytics))
	mux.HandleFunc("/api/export", s.withMiddleware(s.handleExport))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds rate limiting, request logging, and baseline headers.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		// Rate limit mutating requests only; reads are cheap local queries.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			TooManyRequestsError().Write(w)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
