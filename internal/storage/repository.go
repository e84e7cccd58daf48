// Package storage provides the SQLite-backed record store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finlite/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SumIncome returns the total of all income records.
func (r *SQLiteRepository) SumIncome(ctx context.Context) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, "SELECT IFNULL(SUM(amount_cents), 0) FROM income").Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum income: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SumExpenses returns the total of all expense records.
func (r *SQLiteRepository) SumExpenses(ctx context.Context) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, "SELECT IFNULL(SUM(amount_cents), 0) FROM expenses").Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// InsertIncome creates an income record and returns its id.
func (r *SQLiteRepository) InsertIncome(ctx context.Context, amount core.Money, date core.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO income (amount_cents, date) VALUES (?, ?)",
		amount.Cents, date.String())
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"id", id, "amount_cents", amount.Cents, "date", date.String())
	return id, nil
}

// InsertExpense creates an expense record and returns its id.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, category string, amount core.Money, date core.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (category, amount_cents, date) VALUES (?, ?, ?)",
		category, amount.Cents, date.String())
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id, "category", category, "amount_cents", amount.Cents, "date", date.String())
	return id, nil
}

// GetIncome returns a single income record by id.
func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (core.IncomeRecord, error) {
	var rec core.IncomeRecord
	var date string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, amount_cents, date FROM income WHERE id = ?", id).
		Scan(&rec.ID, &rec.Amount.Cents, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.IncomeRecord{}, ErrNotFound
	}
	if err != nil {
		return core.IncomeRecord{}, fmt.Errorf("get income: %w", err)
	}
	rec.Date, err = core.ParseDate(date)
	if err != nil {
		return core.IncomeRecord{}, fmt.Errorf("income %d: %w", id, err)
	}
	return rec, nil
}

// GetExpense returns a single expense record by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.ExpenseRecord, error) {
	var rec core.ExpenseRecord
	var date string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, category, amount_cents, date FROM expenses WHERE id = ?", id).
		Scan(&rec.ID, &rec.Category, &rec.Amount.Cents, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseRecord{}, ErrNotFound
	}
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("get expense: %w", err)
	}
	rec.Date, err = core.ParseDate(date)
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("expense %d: %w", id, err)
	}
	return rec, nil
}

// ListIncome returns all income records, oldest first.
func (r *SQLiteRepository) ListIncome(ctx context.Context) ([]core.IncomeRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, amount_cents, date FROM income ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	var out []core.IncomeRecord
	for rows.Next() {
		var rec core.IncomeRecord
		var date string
		if err := rows.Scan(&rec.ID, &rec.Amount.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if rec.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("income %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListExpenses returns all expense records, oldest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, category, amount_cents, date FROM expenses ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var rec core.ExpenseRecord
		var date string
		if err := rows.Scan(&rec.ID, &rec.Category, &rec.Amount.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if rec.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("expense %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteIncome removes an income record by id.
func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "DELETE FROM income WHERE id = ?", id)
}

// DeleteExpense removes an expense record by id.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "DELETE FROM expenses WHERE id = ?", id)
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, query string, id int64) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSavingsGoal inserts a goal and returns its id.
func (r *SQLiteRepository) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO savings_goals (name, target_cents, saved_cents, due_date) VALUES (?, ?, ?, ?)",
		g.Name, g.Target.Cents, g.Saved.Cents, g.DueDate)
	if err != nil {
		return 0, fmt.Errorf("create savings goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("savings goal insert id: %w", err)
	}

	slog.InfoContext(ctx, "Savings goal created",
		"id", id, "goal_name", g.Name, "target_cents", g.Target.Cents, "due_date", g.DueDate)
	return id, nil
}

// ListSavingsGoals returns all savings goals.
func (r *SQLiteRepository) ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, target_cents, saved_cents, IFNULL(due_date, '') FROM savings_goals ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Saved.Cents, &g.DueDate); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// AddToSavingsGoal increments a goal's saved amount. Contributions are blind
// increments; saved may exceed target (the budget calculator clamps instead).
func (r *SQLiteRepository) AddToSavingsGoal(ctx context.Context, id int64, amount core.Money) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE savings_goals SET saved_cents = saved_cents + ? WHERE id = ?",
		amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update savings goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("savings goal rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Savings goal contribution", "id", id, "amount_cents", amount.Cents)
	return nil
}

// DeleteSavingsGoal removes a goal by id.
func (r *SQLiteRepository) DeleteSavingsGoal(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "DELETE FROM savings_goals WHERE id = ?", id)
}

// DeleteSavingsGoalByName removes all goals with the given name.
func (r *SQLiteRepository) DeleteSavingsGoalByName(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM savings_goals WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete savings goal by name: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateRecurringEntry inserts a recurring template and returns its id.
func (r *SQLiteRepository) CreateRecurringEntry(ctx context.Context, e core.RecurringEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO recurring (type, description, amount_cents, start_date) VALUES (?, ?, ?, ?)",
		string(e.Type), e.Description, e.Amount.Cents, e.StartDate.String())
	if err != nil {
		return 0, fmt.Errorf("create recurring entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurring insert id: %w", err)
	}

	slog.InfoContext(ctx, "Recurring entry created",
		"id", id, "entry_type", string(e.Type), "description", e.Description, "amount_cents", e.Amount.Cents)
	return id, nil
}

// ListRecurringEntries returns recurring templates, optionally filtered by type.
func (r *SQLiteRepository) ListRecurringEntries(ctx context.Context, t *core.EntryType) ([]core.RecurringEntry, error) {
	query := "SELECT id, type, description, amount_cents, start_date FROM recurring"
	args := []any{}
	if t != nil {
		query += " WHERE type = ?"
		args = append(args, string(*t))
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring entries: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringEntry
	for rows.Next() {
		var e core.RecurringEntry
		var typ, start string
		if err := rows.Scan(&e.ID, &typ, &e.Description, &e.Amount.Cents, &start); err != nil {
			return nil, fmt.Errorf("scan recurring entry: %w", err)
		}
		if e.Type, err = core.ParseEntryType(typ); err != nil {
			return nil, fmt.Errorf("recurring %d: %w", e.ID, err)
		}
		if e.StartDate, err = core.ParseDate(start); err != nil {
			return nil, fmt.Errorf("recurring %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateRecurringEntry changes a template's description and amount.
func (r *SQLiteRepository) UpdateRecurringEntry(ctx context.Context, id int64, description string, amount core.Money) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE recurring SET description = ?, amount_cents = ? WHERE id = ?",
		description, amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update recurring entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("recurring rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecurringEntry removes a template by id.
func (r *SQLiteRepository) DeleteRecurringEntry(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "DELETE FROM recurring WHERE id = ?", id)
}

// SumRecurring returns the total amount of recurring templates of one type.
func (r *SQLiteRepository) SumRecurring(ctx context.Context, t core.EntryType) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		"SELECT IFNULL(SUM(amount_cents), 0) FROM recurring WHERE type = ?", string(t)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum recurring: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// CategorySums returns expense totals grouped by category, largest first.
func (r *SQLiteRepository) CategorySums(ctx context.Context) ([]core.CategoryAmount, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT category, SUM(amount_cents) FROM expenses GROUP BY category ORDER BY SUM(amount_cents) DESC")
	if err != nil {
		return nil, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryAmount
	for rows.Next() {
		var name string
		var cents int64
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}.Units()})
	}
	return out, rows.Err()
}

// GetProcessedPeriod returns the last materialized month. ok is false when
// no month has been processed yet.
func (r *SQLiteRepository) GetProcessedPeriod(ctx context.Context) (core.Period, bool, error) {
	var p core.Period
	err := r.db.QueryRowContext(ctx,
		"SELECT year, month FROM processed_period WHERE id = 1").Scan(&p.Year, &p.Month)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Period{}, false, nil
	}
	if err != nil {
		return core.Period{}, false, fmt.Errorf("get processed period: %w", err)
	}
	return p, true, nil
}

// SetProcessedPeriod records the last materialized month.
func (r *SQLiteRepository) SetProcessedPeriod(ctx context.Context, p core.Period) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO processed_period (id, year, month) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET year = excluded.year, month = excluded.month`,
		p.Year, p.Month)
	if err != nil {
		return fmt.Errorf("set processed period: %w", err)
	}
	return nil
}

// MaterializeRecurring inserts the given materialized records and advances
// the processed period, all in one transaction. A failure rolls everything
// back so a retry in the same month cannot duplicate records. Returns the
// ids of the inserted income and expense records.
func (r *SQLiteRepository) MaterializeRecurring(ctx context.Context, incomes []core.IncomeRecord, expenses []core.ExpenseRecord, p core.Period) ([]int64, []int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin materialization: %w", err)
	}
	defer tx.Rollback()

	incomeIDs := make([]int64, 0, len(incomes))
	for _, rec := range incomes {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO income (amount_cents, date) VALUES (?, ?)",
			rec.Amount.Cents, rec.Date.String())
		if err != nil {
			return nil, nil, fmt.Errorf("materialize income: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, nil, fmt.Errorf("materialized income id: %w", err)
		}
		incomeIDs = append(incomeIDs, id)
	}

	expenseIDs := make([]int64, 0, len(expenses))
	for _, rec := range expenses {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO expenses (category, amount_cents, date) VALUES (?, ?, ?)",
			rec.Category, rec.Amount.Cents, rec.Date.String())
		if err != nil {
			return nil, nil, fmt.Errorf("materialize expense: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, nil, fmt.Errorf("materialized expense id: %w", err)
		}
		expenseIDs = append(expenseIDs, id)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO processed_period (id, year, month) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET year = excluded.year, month = excluded.month`,
		p.Year, p.Month); err != nil {
		return nil, nil, fmt.Errorf("advance processed period: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit materialization: %w", err)
	}

	slog.InfoContext(ctx, "Recurring entries materialized",
		"period", p.String(), "incomes", len(incomes), "expenses", len(expenses))
	return incomeIDs, expenseIDs, nil
}

// PendingLedgerRecord identifies a record not yet mirrored to the ledger sheet.
type PendingLedgerRecord struct {
	Kind core.EntryType
	ID   int64
}

// GetPendingSync returns up to limit unsynced records across both tables.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingLedgerRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT 'income' AS kind, id FROM income WHERE synced = 0
		 UNION ALL
		 SELECT 'expense' AS kind, id FROM expenses WHERE synced = 0
		 ORDER BY kind, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []PendingLedgerRecord
	for rows.Next() {
		var kind string
		var rec PendingLedgerRecord
		if err := rows.Scan(&kind, &rec.ID); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		if rec.Kind, err = core.ParseEntryType(kind); err != nil {
			return nil, fmt.Errorf("pending sync: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarkSynced flags a record as mirrored to the ledger sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, kind core.EntryType, id int64) error {
	var query string
	switch kind {
	case core.Income:
		query = "UPDATE income SET synced = 1 WHERE id = ?"
	case core.Expense:
		query = "UPDATE expenses SET synced = 1 WHERE id = ?"
	default:
		return fmt.Errorf("mark synced: %w", core.ErrInvalidEntryType)
	}

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark synced rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Record marked as synced", "entry_type", string(kind), "record_id", id)
	return nil
}
