package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/starford/cuppa/internal/models"
)

func TestWeek(t *testing.T) {
	ctx := context.Background()
	store := memStore()
	_ = store.Set("Mon Jan 01 2024", 3)
	_ = store.Set("Wed Jan 03 2024", []float64{1, 0.5})
	_ = store.Set("Sun Jan 07 2024", 0)
	tr := testTracker(t, store, monday.AddDate(0, 0, 3))

	for _, ref := range []time.Time{monday, monday.AddDate(0, 0, 6).Add(13 * time.Hour)} {
		week, err := tr.Week(ctx, ref)
		if err != nil {
			t.Fatalf("Week: %v", err)
		}
		days := week.Days()
		for i, name := range models.WeekdayNames {
			wantDate := time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.UTC)
			if !days[i].Date.Equal(wantDate) {
				t.Errorf("%s date = %v, want %v", name, days[i].Date, wantDate)
			}
		}
		checkCount(t, "monday", week.Monday, 3)
		checkCount(t, "wednesday", week.Wednesday, 1.5)
		checkCount(t, "sunday", week.Sunday, 0)
		for _, d := range []models.DayStat{week.Tuesday, week.Thursday, week.Friday, week.Saturday} {
			if d.Count != nil {
				t.Errorf("%s count = %v, want nil", d.Key, *d.Count)
			}
		}
		if week.Total() != 4.5 {
			t.Errorf("Total = %v, want 4.5", week.Total())
		}
	}

	// Reading the week never migrates legacy records.
	raw, _, _ := store.Raw("Mon Jan 01 2024")
	if string(raw) != "3" {
		t.Errorf("monday record rewritten to %s", raw)
	}
}

func TestWeek_NullRecordIsNoData(t *testing.T) {
	store := memStore()
	if err := store.Provider().Set("Wed Jan 03 2024", "null"); err != nil {
		t.Fatal(err)
	}
	tr := testTracker(t, store, monday)

	week, err := tr.Week(context.Background(), monday)
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if week.Wednesday.Count != nil {
		t.Errorf("wednesday count = %v, want nil", *week.Wednesday.Count)
	}
}

func checkCount(t *testing.T, name string, d models.DayStat, want float64) {
	t.Helper()
	if d.Count == nil {
		t.Errorf("%s count = nil, want %v", name, want)
		return
	}
	if *d.Count != want {
		t.Errorf("%s count = %v, want %v", name, *d.Count, want)
	}
}
