package tracker

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 23:30 UTC on Dec 31 is already Jan 1 in Oslo.
	ts := time.Date(2023, time.December, 31, 23, 30, 0, 0, time.UTC)
	if got := DateKey(ts, time.UTC); got != "Sun Dec 31 2023" {
		t.Errorf("UTC key = %q", got)
	}
	if got := DateKey(ts, oslo); got != "Mon Jan 01 2024" {
		t.Errorf("Oslo key = %q", got)
	}
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("Wed Jan 03 2024", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if want := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMonday(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := Monday(tt.in, time.UTC); !got.Equal(tt.want) {
			t.Errorf("Monday(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMonday_AcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks go forward on Sunday March 10th 2024.
	sunday := time.Date(2024, time.March, 10, 0, 30, 0, 0, ny)
	want := time.Date(2024, time.March, 4, 0, 0, 0, 0, ny)
	if got := Monday(sunday, ny); !got.Equal(want) {
		t.Errorf("Monday = %v, want %v", got, want)
	}
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int
	}{
		// Jan 1st 2024 is a Monday.
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 1},
		// The time of day counts: Saturday afternoon already rounds up.
		{time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC), 2},
		{time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC), 2},
		// Jan 1st 2023 is a Sunday.
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC), 2},
	}
	for _, tt := range tests {
		if got := WeekNumber(tt.in, time.UTC); got != tt.want {
			t.Errorf("WeekNumber(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPrevNextWeek(t *testing.T) {
	ts := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	if got := PrevWeek(ts); !got.Equal(time.Date(2023, 12, 27, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("PrevWeek = %v", got)
	}
	if got := NextWeek(ts); !got.Equal(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("NextWeek = %v", got)
	}
}

func TestCupImage(t *testing.T) {
	tests := map[float64]int{
		-1:  0,
		0:   0,
		0.5: 0,
		1.5: 1,
		15:  15,
		42:  15,
	}
	for in, want := range tests {
		if got := CupImage(in); got != want {
			t.Errorf("CupImage(%v) = %d, want %d", in, got, want)
		}
	}
}
