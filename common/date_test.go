package common

import (
	"testing"
	"time"
)

func TestISOWeek(t *testing.T) {
	cases := []struct {
		date string
		year int
		week int
	}{
		{"2025-03-05", 2025, 10},
		{"2024-12-30", 2025, 1},  // 周一，已属下一 ISO 年
		{"2021-01-01", 2020, 53}, // 周五，仍属上一 ISO 年第 53 周
		{"2026-12-31", 2026, 53}, // 2026 是 53 周年份
		{"2025-06-16", 2025, 25},
	}
	for _, c := range cases {
		d, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			t.Fatalf("parse %s: %v", c.date, err)
		}
		year, week := ISOWeek(d)
		if year != c.year || week != c.week {
			t.Fatalf("ISOWeek(%s) = (%d, %d), want (%d, %d)", c.date, year, week, c.year, c.week)
		}
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		year int
		week int
		want string
	}{
		{2025, 1, "2024-12-30"},
		{2025, 10, "2025-03-03"},
		{2026, 53, "2026-12-28"},
		{2020, 53, "2020-12-28"},
	}
	for _, c := range cases {
		got := WeekStart(c.year, c.week).Format("2006-01-02")
		if got != c.want {
			t.Fatalf("WeekStart(%d, %d) = %s, want %s", c.year, c.week, got, c.want)
		}
	}

	// 周起点必须落回原 (year, week)
	for _, c := range cases {
		y, w := ISOWeek(WeekStart(c.year, c.week))
		if y != c.year || w != c.week {
			t.Fatalf("ISOWeek(WeekStart(%d, %d)) = (%d, %d)", c.year, c.week, y, w)
		}
	}
}

func TestNextWeek(t *testing.T) {
	cases := []struct {
		year, week         int
		wantYear, wantWeek int
	}{
		{2025, 10, 2025, 11},
		{2025, 52, 2026, 1},
		{2026, 53, 2027, 1}, // 53 周年份的跨年
		{2024, 52, 2025, 1},
	}
	for _, c := range cases {
		y, w := NextWeek(c.year, c.week)
		if y != c.wantYear || w != c.wantWeek {
			t.Fatalf("NextWeek(%d, %d) = (%d, %d), want (%d, %d)", c.year, c.week, y, w, c.wantYear, c.wantWeek)
		}
	}
}

func TestWeekOrdinalAndAtOrAfter(t *testing.T) {
	if WeekOrdinal(2025, 1) != 202501 {
		t.Fatalf("WeekOrdinal(2025, 1) = %d", WeekOrdinal(2025, 1))
	}
	if WeekOrdinal(2026, 53) <= WeekOrdinal(2026, 1) {
		t.Fatalf("week 53 must order after week 1 within the same year")
	}

	cases := []struct {
		year, week, fromYear, fromWeek int
		want                           bool
	}{
		{2025, 10, 2025, 10, true},
		{2025, 11, 2025, 10, true},
		{2025, 9, 2025, 10, false},
		{2026, 1, 2025, 52, true},
		{2024, 53, 2025, 1, false},
	}
	for _, c := range cases {
		got := WeekAtOrAfter(c.year, c.week, c.fromYear, c.fromWeek)
		if got != c.want {
			t.Fatalf("WeekAtOrAfter(%d, %d, %d, %d) = %v, want %v",
				c.year, c.week, c.fromYear, c.fromWeek, got, c.want)
		}
	}
}
