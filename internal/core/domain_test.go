package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || int(d.Month()) != 6 || d.Day() != 15 {
		t.Fatalf("unexpected date %v", d)
	}

	for _, bad := range []string{"", "not-a-date", "2024-13-01", "15/06/2024"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestParseEntryType(t *testing.T) {
	cases := []struct {
		in  string
		out EntryType
		ok  bool
	}{
		{"income", Income, true},
		{"expense", Expense, true},
		{" Income ", Income, true},
		{"savings", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseEntryType(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestRecurringEntryValidate(t *testing.T) {
	good := RecurringEntry{
		Type:        Expense,
		Description: "rent",
		Amount:      Money{Cents: 85000},
		StartDate:   NewDate(2024, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurringEntry{
		{Type: "subscription", Description: "a", Amount: Money{Cents: 1}},
		{Type: Income, Description: "", Amount: Money{Cents: 1}},
		{Type: Income, Description: "a", Amount: Money{Cents: 0}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	good := SavingsGoal{Name: "vacation", Target: Money{Cents: 60000}, DueDate: "2025-08-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// An empty or malformed due date is allowed at write time; the budget
	// calculator skips such goals instead.
	noDue := SavingsGoal{Name: "buffer", Target: Money{Cents: 100}}
	if err := noDue.Validate(); err != nil {
		t.Fatalf("expected ok without due date, got %v", err)
	}

	bads := []SavingsGoal{
		{Name: "", Target: Money{Cents: 100}},
		{Name: "x", Target: Money{Cents: 0}},
		{Name: "x", Target: Money{Cents: 100}, Saved: Money{Cents: -1}},
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPeriodOfAndEqual(t *testing.T) {
	p := PeriodOf(time.Date(2024, time.June, 3, 10, 30, 0, 0, time.UTC))
	if !p.Equal(Period{Year: 2024, Month: 6}) {
		t.Fatalf("unexpected period %v", p)
	}
	if p.Equal(Period{Year: 2024, Month: 5}) {
		t.Fatalf("periods should differ")
	}
	if p.String() != "2024-06" {
		t.Fatalf("unexpected string %q", p.String())
	}
}
