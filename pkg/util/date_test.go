package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-02-29")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Year() != 2024 || got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("unexpected date %v", got)
	}
	if _, ok := ParseDate("2023-02-29"); ok {
		t.Fatalf("expected invalid date to fail")
	}
	if _, ok := ParseDate("."); ok {
		t.Fatalf("expected sentinel to fail")
	}
}

func TestDateAfter(t *testing.T) {
	if !DateAfter("2024-01-02", "2024-01-01") {
		t.Fatalf("expected later date to be after")
	}
	if DateAfter("2024-01-01", "2024-01-01") {
		t.Fatalf("expected equal dates not to be after")
	}
	if DateAfter("2023-12-31", "2024-01-01") {
		t.Fatalf("expected earlier date not to be after")
	}
}

func TestWeeksBefore(t *testing.T) {
	now := time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC)
	if got := WeeksBefore(now, 52); got != "2023-06-17" {
		t.Fatalf("unexpected bound %s", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  sp500\n"); got != "SP500" {
		t.Fatalf("unexpected code %q", got)
	}
}
