package nexotax

import (
	"time"

	"testing"
)

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-03-15 14:30:05")
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	want := time.Date(2024, time.March, 15, 14, 30, 5, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseTimestamp() = %v, want %v", got, want)
	}

	if _, err := ParseTimestamp("15.3.2024 14:30"); err == nil {
		t.Errorf("ParseTimestamp() on malformed input: expected an error")
	}
}

func TestDateOf(t *testing.T) {
	got := DateOf(ts("2024-03-15 23:59:59"))
	want := NewDate(2024, time.March, 15)
	if got != want {
		t.Errorf("DateOf() = %v, want %v", got, want)
	}
}

func TestDateDaysTo(t *testing.T) {
	a, b := NewDate(2024, time.March, 10), NewDate(2024, time.March, 15)
	if got := a.DaysTo(b); got != 5 {
		t.Errorf("DaysTo() = %d, want 5", got)
	}
	if got := b.DaysTo(a); got != -5 {
		t.Errorf("DaysTo() reversed = %d, want -5", got)
	}
}
