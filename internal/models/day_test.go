package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/cuppa/internal/apperr"
)

func TestDecodeDayRecord(t *testing.T) {
	tests := []struct {
		raw  string
		want DayRecord
	}{
		{"3", ScalarRecord(3)},
		{" 0 ", ScalarRecord(0)},
		{"[1,0.5,1]", ListRecord(1, 0.5, 1)},
		{"[]", ListRecord()},
	}
	for _, tt := range tests {
		got, err := DecodeDayRecord([]byte(tt.raw))
		if err != nil {
			t.Fatalf("DecodeDayRecord(%q): %v", tt.raw, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("DecodeDayRecord(%q) mismatch (-want +got):\n%s", tt.raw, diff)
		}
	}
}

func TestDecodeDayRecord_Corrupt(t *testing.T) {
	for _, raw := range []string{"", "null", " null ", `"two"`, `{"n":1}`, `[1,"x"]`, `[1,`} {
		if _, err := DecodeDayRecord([]byte(raw)); !errors.Is(err, apperr.ErrCorrupt) {
			t.Errorf("DecodeDayRecord(%q) err = %v, want ErrCorrupt", raw, err)
		}
	}
}

func TestTotal(t *testing.T) {
	if got := ScalarRecord(4).Total(); got != 4 {
		t.Errorf("scalar total = %v", got)
	}
	if got := ListRecord(1, 0.5, 0.5).Total(); got != 2 {
		t.Errorf("list total = %v", got)
	}
	if got := ListRecord().Total(); got != 0 {
		t.Errorf("empty total = %v", got)
	}
}

func TestMigrate(t *testing.T) {
	tests := []struct {
		in   float64
		want []float64
	}{
		{0, []float64{}},
		{-2, []float64{}},
		{2, []float64{1, 1}},
		{2.5, []float64{1, 1, 0.5}},
		{1.2, []float64{1}},
	}
	for _, tt := range tests {
		got := ScalarRecord(tt.in).Migrate()
		if got.Kind != KindList {
			t.Fatalf("Migrate(%v) kind = %v", tt.in, got.Kind)
		}
		if diff := cmp.Diff(tt.want, got.Cups); diff != "" {
			t.Errorf("Migrate(%v) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	list := ListRecord(0.5)
	if diff := cmp.Diff(list, list.Migrate()); diff != "" {
		t.Errorf("Migrate changed a list record:\n%s", diff)
	}
}

func TestMarshalJSON(t *testing.T) {
	tests := []struct {
		rec  DayRecord
		want string
	}{
		{ScalarRecord(2), "2"},
		{ListRecord(1, 0.5), "[1,0.5]"},
		{DayRecord{Kind: KindList}, "[]"},
	}
	for _, tt := range tests {
		got, err := tt.rec.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON: %v", err)
		}
		if string(got) != tt.want {
			t.Errorf("MarshalJSON(%+v) = %s, want %s", tt.rec, got, tt.want)
		}
	}
}

func TestCupFor(t *testing.T) {
	if CupFor(true) != WholeCup || CupFor(false) != HalfCup {
		t.Error("CupFor weights are wrong")
	}
}

func TestIsNullRecord(t *testing.T) {
	for raw, want := range map[string]bool{"null": true, " null\n": true, "0": false, "[]": false, `"null"`: false} {
		if got := IsNullRecord([]byte(raw)); got != want {
			t.Errorf("IsNullRecord(%q) = %v, want %v", raw, got, want)
		}
	}
}
