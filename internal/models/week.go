package models

import "time"

// DayStat is one day of a weekly overview. Count is nil when nothing was
// stored for the day.
type DayStat struct {
	Date  time.Time `json:"date"`
	Key   string    `json:"key"`
	Count *float64  `json:"count"`
}

// Week holds the seven days of a calendar week, Monday first.
type Week struct {
	Number    int     `json:"number"`
	Monday    DayStat `json:"monday"`
	Tuesday   DayStat `json:"tuesday"`
	Wednesday DayStat `json:"wednesday"`
	Thursday  DayStat `json:"thursday"`
	Friday    DayStat `json:"friday"`
	Saturday  DayStat `json:"saturday"`
	Sunday    DayStat `json:"sunday"`
}

// WeekdayNames lists the JSON keys of a Week in order.
var WeekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Days returns pointers to the seven days, Monday first.
func (w *Week) Days() [7]*DayStat {
	return [7]*DayStat{&w.Monday, &w.Tuesday, &w.Wednesday, &w.Thursday, &w.Friday, &w.Saturday, &w.Sunday}
}

// Total sums the counts of every day that has a record.
func (w *Week) Total() float64 {
	var sum float64
	for _, d := range w.Days() {
		if d.Count != nil {
			sum += *d.Count
		}
	}
	return sum
}
