// Package models defines the domain types for cuppa.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/starford/cuppa/internal/apperr"
)

// Cup weights.
const (
	WholeCup = 1.0
	HalfCup  = 0.5
)

// CupFor returns the weight recorded for a whole or a half cup.
func CupFor(whole bool) float64 {
	if whole {
		return WholeCup
	}
	return HalfCup
}

// RecordKind tags the shape a day record was stored in.
type RecordKind int

const (
	// KindScalar is a single counter per day.
	KindScalar RecordKind = iota
	// KindList is one weight entry per cup.
	KindList
)

func (k RecordKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

// DayRecord is one day's stored consumption.
type DayRecord struct {
	Kind  RecordKind
	Count float64   // KindScalar only
	Cups  []float64 // KindList only
}

// ScalarRecord returns a scalar record holding n cups.
func ScalarRecord(n float64) DayRecord {
	return DayRecord{Kind: KindScalar, Count: n}
}

// ListRecord returns a list record holding the given cup weights.
func ListRecord(cups ...float64) DayRecord {
	if cups == nil {
		cups = []float64{}
	}
	return DayRecord{Kind: KindList, Cups: cups}
}

// Total returns the number of cups the record accounts for.
func (r DayRecord) Total() float64 {
	if r.Kind == KindScalar {
		return r.Count
	}
	var sum float64
	for _, c := range r.Cups {
		sum += c
	}
	return sum
}

// Migrate converts a scalar record into the list shape. The integer part
// becomes whole cups and a remainder of at least one half becomes a half cup.
// List records are returned unchanged.
func (r DayRecord) Migrate() DayRecord {
	if r.Kind == KindList {
		return r
	}
	if r.Count <= 0 || math.IsNaN(r.Count) {
		return ListRecord()
	}
	whole, frac := math.Modf(r.Count)
	cups := make([]float64, 0, int(whole)+1)
	for i := 0; i < int(whole); i++ {
		cups = append(cups, WholeCup)
	}
	if frac >= HalfCup {
		cups = append(cups, HalfCup)
	}
	return ListRecord(cups...)
}

// MarshalJSON encodes scalar records as a JSON number and list records as a
// JSON array.
func (r DayRecord) MarshalJSON() ([]byte, error) {
	if r.Kind == KindScalar {
		return json.Marshal(r.Count)
	}
	cups := r.Cups
	if cups == nil {
		cups = []float64{}
	}
	return json.Marshal(cups)
}

// UnmarshalJSON accepts either stored shape.
func (r *DayRecord) UnmarshalJSON(data []byte) error {
	rec, err := DecodeDayRecord(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// IsNullRecord reports whether raw is a JSON null, which stands for a day
// without data rather than a counter of zero.
func IsNullRecord(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// DecodeDayRecord decodes raw stored JSON: a number is a scalar record and an
// array of numbers is a list record. A JSON null is not a record.
func DecodeDayRecord(raw []byte) (DayRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return DayRecord{}, fmt.Errorf("%w: empty day record", apperr.ErrCorrupt)
	}
	if IsNullRecord(trimmed) {
		return DayRecord{}, fmt.Errorf("%w: null day record", apperr.ErrCorrupt)
	}
	switch trimmed[0] {
	case '[':
		var cups []float64
		if err := json.Unmarshal(trimmed, &cups); err != nil {
			return DayRecord{}, fmt.Errorf("%w: day record list: %w", apperr.ErrCorrupt, err)
		}
		return ListRecord(cups...), nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return DayRecord{}, fmt.Errorf("%w: day record counter: %w", apperr.ErrCorrupt, err)
		}
		return ScalarRecord(n), nil
	}
}

// DaySummary is the state of one day as shown to clients. Cups is always
// an array; it stays empty under the scalar schema, which keeps no cups.
type DaySummary struct {
	Date     string    `json:"date"`
	Total    float64   `json:"total"`
	Cups     []float64 `json:"cups"`
	CupImage int       `json:"cup_image"`
}
