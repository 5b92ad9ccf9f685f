package api

import "github.com/starford/cuppa/internal/models"

// CupRequest is the request body for adding or changing a cup. A missing
// whole field means a whole cup.
type CupRequest struct {
	Whole *bool `json:"whole,omitempty" example:"true"`
}

// IsWhole reports whether the request is for a whole cup.
func (r CupRequest) IsWhole() bool {
	return r.Whole == nil || *r.Whole
}

// TodayResponse is today's tally (aliased from the domain layer).
type TodayResponse = models.DaySummary

// PopResponse is returned after removing the last cup. Removed is null when
// there was nothing to remove.
type PopResponse struct {
	Removed *float64      `json:"removed"`
	Today   TodayResponse `json:"today"`
}

// WeekResponse wraps one week of stats plus the reference dates of the
// neighbouring weeks, formatted YYYY-MM-DD.
type WeekResponse struct {
	Week  models.Week `json:"week"`
	Total float64     `json:"total" example:"12.5"`
	Prev  string      `json:"prev" example:"2024-01-01"`
	Next  string      `json:"next" example:"2024-01-15"`
}

// DatesResponse wraps the date index.
type DatesResponse struct {
	Dates []string `json:"dates" validate:"required"`
}
