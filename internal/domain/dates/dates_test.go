package dates

import "testing"

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		month, year, want int
	}{
		{1, 2026, 31},
		{2, 2026, 28},
		{2, 2024, 29},
		{2, 2000, 29},
		{2, 1900, 28},
		{4, 2026, 30},
		{12, 2026, 31},
		{0, 2026, 0},
		{13, 2026, 0},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.month, tt.year); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.month, tt.year, got, tt.want)
		}
	}
}

func TestIsValidDay(t *testing.T) {
	if !IsValidDay(2, 29, 2024) {
		t.Error("Feb 29 2024 should be valid")
	}
	if IsValidDay(2, 29, 2026) {
		t.Error("Feb 29 2026 should be invalid")
	}
	if IsValidDay(4, 31, 2026) {
		t.Error("Apr 31 should be invalid")
	}
	if IsValidDay(1, 0, 2026) {
		t.Error("day 0 should be invalid")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	key := Key(7, 4, 2026)
	if key != "2026-07-04" {
		t.Fatalf("Key(7, 4, 2026) = %q", key)
	}
	y, m, d, err := Parse(key)
	if err != nil {
		t.Fatalf("Parse(%q): %v", key, err)
	}
	if y != 2026 || m != 7 || d != 4 {
		t.Errorf("Parse(%q) = (%d, %d, %d)", key, y, m, d)
	}
}

func TestIsValidKey(t *testing.T) {
	valid := []string{"2026-01-01", "2024-02-29", "2026-12-31"}
	for _, key := range valid {
		if !IsValidKey(key) {
			t.Errorf("IsValidKey(%q) = false", key)
		}
	}
	invalid := []string{"", "2026-13-01", "2026-02-30", "2026-2-3", "not-a-date", "2026/01/01"}
	for _, key := range invalid {
		if IsValidKey(key) {
			t.Errorf("IsValidKey(%q) = true", key)
		}
	}
}

func TestInYear(t *testing.T) {
	if !InYear("2026-06-15", 2026) {
		t.Error("2026-06-15 should be in 2026")
	}
	if InYear("2025-12-31", 2026) {
		t.Error("2025-12-31 should not be in 2026")
	}
	if InYear("garbage", 2026) {
		t.Error("garbage should not be in any year")
	}
}

func TestInRange(t *testing.T) {
	if !InRange("2026-03-10", "2026-03-01", "2026-03-31") {
		t.Error("date inside range rejected")
	}
	if !InRange("2026-03-01", "2026-03-01", "2026-03-31") {
		t.Error("range is inclusive of start")
	}
	if !InRange("2026-03-31", "2026-03-01", "2026-03-31") {
		t.Error("range is inclusive of end")
	}
	if InRange("2026-04-01", "2026-03-01", "2026-03-31") {
		t.Error("date after range accepted")
	}
	// A reversed range still works.
	if !InRange("2026-03-10", "2026-03-31", "2026-03-01") {
		t.Error("reversed range rejected a contained date")
	}
}

func TestOrdered(t *testing.T) {
	a, b := Ordered("2026-09-01", "2026-03-01")
	if a != "2026-03-01" || b != "2026-09-01" {
		t.Errorf("Ordered returned (%q, %q)", a, b)
	}
	a, b = Ordered("2026-03-01", "2026-03-01")
	if a != b {
		t.Errorf("Ordered of equal keys returned (%q, %q)", a, b)
	}
}
