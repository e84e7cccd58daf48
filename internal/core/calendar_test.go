package core

import (
	"errors"
	"testing"
)

func TestDaysInMonthFixedMonths(t *testing.T) {
	thirtyOne := []int{1, 3, 5, 7, 8, 10, 12}
	thirty := []int{4, 6, 9, 11}

	for _, year := range []int{1900, 2000, 2023, 2024} {
		for _, m := range thirtyOne {
			got, err := DaysInMonth(year, m)
			if err != nil || got != 31 {
				t.Fatalf("DaysInMonth(%d, %d) = %d, %v; want 31", year, m, got, err)
			}
		}
		for _, m := range thirty {
			got, err := DaysInMonth(year, m)
			if err != nil || got != 30 {
				t.Fatalf("DaysInMonth(%d, %d) = %d, %v; want 30", year, m, got, err)
			}
		}
	}
}

func TestDaysInMonthFebruary(t *testing.T) {
	cases := []struct {
		year int
		want int
	}{
		{2000, 29}, // divisible by 400
		{1900, 28}, // divisible by 100 but not 400
		{2024, 29},
		{2023, 28},
		{2400, 29},
		{2100, 28},
	}
	for _, tc := range cases {
		got, err := DaysInMonth(tc.year, 2)
		if err != nil || got != tc.want {
			t.Fatalf("DaysInMonth(%d, 2) = %d, %v; want %d", tc.year, got, err, tc.want)
		}
	}
}

func TestDaysInMonthInvalid(t *testing.T) {
	for _, m := range []int{0, 13, -1} {
		if _, err := DaysInMonth(2024, m); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("DaysInMonth(2024, %d) expected ErrInvalidMonth, got %v", m, err)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	from := NewDate(2024, 6, 1)
	cases := []struct {
		target Date
		want   int
	}{
		{NewDate(2024, 6, 11), 10},
		{NewDate(2024, 6, 1), 0},
		{NewDate(2024, 5, 31), -1},
		{NewDate(2025, 6, 1), 365},
		{NewDate(2024, 7, 1), 30},
	}
	for _, tc := range cases {
		if got := DaysUntil(tc.target, from); got != tc.want {
			t.Fatalf("DaysUntil(%s, %s) = %d; want %d", tc.target, from, got, tc.want)
		}
	}
}
