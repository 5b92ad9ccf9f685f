package tracker

import (
	"math"
	"time"
)

// DateKeyLayout is the storage key format of a day, e.g. "Mon Jan 01 2024".
const DateKeyLayout = "Mon Jan 02 2006"

// DateKey returns the storage key for the calendar day of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// ParseDateKey parses a storage key back to midnight of that day in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// WeekdayIndex numbers days Monday=0 through Sunday=6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Monday returns midnight of the Monday starting t's week in loc.
func Monday(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -WeekdayIndex(day))
}

// WeekNumber counts weeks from January 1st, offset by the weekday January 1st
// falls on (Sunday=0), so a week breaks between Saturday and Sunday.
func WeekNumber(t time.Time, loc *time.Location) int {
	t = t.In(loc)
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	days := t.Sub(jan1).Hours() / 24
	return int(math.Ceil((days + float64(jan1.Weekday()) + 1) / 7))
}

// PrevWeek returns the same moment one week earlier.
func PrevWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

// NextWeek returns the same moment one week later.
func NextWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, 7)
}

// MaxCupImage is the highest cup image index.
const MaxCupImage = 15

// CupImage picks the cup image for a day's total: the whole cups, at most
// MaxCupImage and never negative.
func CupImage(total float64) int {
	if total <= 0 || math.IsNaN(total) {
		return 0
	}
	if total >= MaxCupImage {
		return MaxCupImage
	}
	return int(math.Floor(total))
}
