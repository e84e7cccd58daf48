package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

type (
	// EntryType tags a recurring entry as income or expense.
	EntryType string

	// Date is a calendar date without time-of-day, normalized to UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// IncomeRecord is a single income entry. Records are immutable once
	// created; they are only ever inserted or deleted.
	IncomeRecord struct {
		ID     int64
		Amount Money
		Date   Date
	}

	// ExpenseRecord is a single expense entry, categorized by a short label.
	ExpenseRecord struct {
		ID       int64
		Category string
		Amount   Money
		Date     Date
	}

	// SavingsGoal tracks progress toward a target amount by a due date.
	// DueDate is kept as raw text: it is optional and may be malformed in
	// stored data, and the budget calculator decides how to treat that.
	SavingsGoal struct {
		ID      int64
		Name    string
		Target  Money
		Saved   Money
		DueDate string
	}

	// RecurringEntry is a template for a monthly income or expense. The
	// applier materializes it into a concrete record once per calendar month.
	RecurringEntry struct {
		ID          int64
		Type        EntryType
		Description string
		Amount      Money
		StartDate   Date
	}

	// Period identifies a calendar month.
	Period struct {
		Year  int
		Month int // 1-12
	}
)

var (
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return nil
}

// ParseEntryType validates and normalizes a recurring entry type string.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
	}
}

func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEntryType, string(t))
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r IncomeRecord) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.Date.Validate()
}

func (r ExpenseRecord) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyName
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.Date.Validate()
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Saved.Cents < 0 {
		return ErrInvalidAmount
	}
	// DueDate is optional and deliberately not validated here; the budget
	// calculator skips goals whose due date is missing or unparseable.
	return nil
}

func (e RecurringEntry) Validate() error {
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Amount.Validate()
}

// PeriodOf returns the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (p Period) Equal(other Period) bool {
	return p.Year == other.Year && p.Month == other.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
