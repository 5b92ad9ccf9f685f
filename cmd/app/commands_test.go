package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/starford/cuppa/internal/models"
)

func TestWriteSummary(t *testing.T) {
	tests := []struct {
		name string
		sum  models.DaySummary
		want string
	}{
		{
			name: "cups",
			sum:  models.DaySummary{Date: "Mon Jan 01 2024", Total: 2.5, Cups: []float64{1, 1, 0.5}},
			want: "Mon Jan 01 2024: 2.5 cups (1 + 1 + 0.5)\n",
		},
		{
			name: "empty",
			sum:  models.DaySummary{Date: "Mon Jan 01 2024", Cups: []float64{}},
			want: "Mon Jan 01 2024: 0 cups\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeSummary(&buf, tt.sum)
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteWeek(t *testing.T) {
	two := 2.0
	week := models.Week{Number: 1}
	week.Monday = models.DayStat{Key: "Mon Jan 01 2024", Count: &two}
	week.Tuesday = models.DayStat{Key: "Tue Jan 02 2024"}

	var buf bytes.Buffer
	writeWeek(&buf, week)
	out := buf.String()

	for _, want := range []string{"week 1\n", "monday     Mon Jan 01 2024  2\n", "tuesday    Tue Jan 02 2024  -\n", "total      2\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
