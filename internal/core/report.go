package core

// CategoryAmount is an amount aggregated by category name, in currency units.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// GoalProgress is a savings goal's progress toward its target.
type GoalProgress struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Saved   float64 `json:"saved"`
	Percent float64 `json:"percent"`
	DueDate string  `json:"due_date,omitempty"`
}

// DailyBudgetReport is the result of one daily-budget computation. Amounts
// are in currency units; derived per-day figures are quotients and may be
// fractional. DailyBudget is negative when spending plus savings pressure
// exceeds income; callers surface that as-is.
type DailyBudgetReport struct {
	TotalIncome        float64  `json:"total_income"`
	TotalExpenses      float64  `json:"total_expenses"`
	SavingsNeededToday float64  `json:"savings_needed_today"`
	DailyBudget        float64  `json:"daily_budget"`
	DaysInMonth        int      `json:"days_in_month"`
	Warnings           []string `json:"warnings,omitempty"`
}

// AnalyticsReport is a read-only aggregate view over the whole store.
type AnalyticsReport struct {
	TotalIncome       float64          `json:"total_income"`
	TotalExpenses     float64          `json:"total_expenses"`
	ByCategory        []CategoryAmount `json:"expenses_by_category"`
	RecurringIncome   float64          `json:"recurring_income"`
	RecurringExpenses float64          `json:"recurring_expenses"`
	Goals             []GoalProgress   `json:"savings_goals"`
	RemainingBudget   float64          `json:"remaining_budget"`
	Overspending      bool             `json:"overspending"`
	Warnings          []string         `json:"warnings,omitempty"`
}
