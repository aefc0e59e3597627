package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-03-05", "03/05/2024", "Mar 05, 2024", "  2024-03-05  "} {
		got, err := ParseDate(raw)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", raw, err)
			continue
		}
		if got == nil || !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %s", raw, got, want)
		}
	}
}

func TestParseDateEmptyIsAbsent(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		got, err := ParseDate(raw)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", raw, err)
		}
		if got != nil {
			t.Errorf("ParseDate(%q) = %v, want nil", raw, got)
		}
	}
}

func TestParseDateUnparsable(t *testing.T) {
	if _, err := ParseDate("sometime soon"); err == nil {
		t.Fatal("ParseDate accepted garbage")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 10, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 9 {
		t.Fatalf("DaysBetween = %d, want 9", got)
	}
	if got := DaysBetween(b, a); got != -9 {
		t.Fatalf("DaysBetween reversed = %d, want -9", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(nil); got != "" {
		t.Fatalf("FormatDate(nil) = %q, want empty", got)
	}
	d := time.Date(2024, time.March, 5, 15, 4, 5, 0, time.UTC)
	if got := FormatDate(&d); got != "2024-03-05" {
		t.Fatalf("FormatDate = %q", got)
	}
}
