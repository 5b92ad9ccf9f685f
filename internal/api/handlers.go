package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/cuppa/internal/apperr"
	"github.com/starford/cuppa/internal/tracker"
)

// DateLayout is the format of date query parameters.
const DateLayout = "2006-01-02"

// Notifier is told about every change to today's tally.
type Notifier interface {
	PublishTally(date string, total float64)
}

// Handler holds API route handlers.
type Handler struct {
	tr       *tracker.Tracker
	notifier Notifier
}

// NewHandler creates a new Handler. notifier may be nil.
func NewHandler(tr *tracker.Tracker, notifier Notifier) *Handler {
	return &Handler{tr: tr, notifier: notifier}
}

// Today handles GET /api/today.
//
//	@Summary		Get today's tally
//	@Tags			cups
//	@Produce		json
//	@Success		200	{object}	TodayResponse
//	@Security		BearerAuth
//	@Router			/today [get]
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	s, err := h.tr.Summary(r.Context())
	if err != nil {
		h.fail(w, "today", err)
		return
	}
	respond(w, http.StatusOK, s)
}

// AddCup handles POST /api/cups.
//
//	@Summary		Add a whole or half cup to today
//	@Tags			cups
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CupRequest	false	"Cup size, whole by default"
//	@Success		201		{object}	TodayResponse
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cups [post]
func (h *Handler) AddCup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCup(w, r)
	if !ok {
		return
	}
	if _, err := h.tr.Add(r.Context(), req.IsWhole()); err != nil {
		h.fail(w, "add cup", err)
		return
	}
	h.respondToday(w, r, http.StatusCreated)
}

// PopCup handles DELETE /api/cups/last.
//
//	@Summary		Remove today's most recent cup
//	@Tags			cups
//	@Produce		json
//	@Success		200	{object}	PopResponse
//	@Failure		409	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cups/last [delete]
func (h *Handler) PopCup(w http.ResponseWriter, r *http.Request) {
	cup, removed, err := h.tr.Pop(r.Context())
	if err != nil {
		h.fail(w, "pop cup", err)
		return
	}
	s, err := h.tr.Summary(r.Context())
	if err != nil {
		h.fail(w, "pop cup", err)
		return
	}
	resp := PopResponse{Today: s}
	if removed {
		resp.Removed = &cup
		h.notify(s.Date, s.Total)
	}
	respond(w, http.StatusOK, resp)
}

// ChangeCup handles PUT /api/cups/last.
//
//	@Summary		Replace today's most recent cup with a whole or half cup
//	@Tags			cups
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CupRequest	false	"New cup size"
//	@Success		200		{object}	TodayResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/cups/last [put]
func (h *Handler) ChangeCup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCup(w, r)
	if !ok {
		return
	}
	if _, err := h.tr.Change(r.Context(), req.IsWhole()); err != nil {
		h.fail(w, "change cup", err)
		return
	}
	h.respondToday(w, r, http.StatusOK)
}

// Dec handles POST /api/dec.
//
//	@Summary		Take one cup off today, never below zero
//	@Tags			cups
//	@Produce		json
//	@Success		200	{object}	TodayResponse
//	@Security		BearerAuth
//	@Router			/dec [post]
func (h *Handler) Dec(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tr.Dec(r.Context()); err != nil {
		h.fail(w, "dec", err)
		return
	}
	h.respondToday(w, r, http.StatusOK)
}

// Reset handles POST /api/reset.
//
//	@Summary		Reset today's tally to zero
//	@Tags			cups
//	@Produce		json
//	@Success		200	{object}	TodayResponse
//	@Security		BearerAuth
//	@Router			/reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.tr.Reset(r.Context()); err != nil {
		h.fail(w, "reset", err)
		return
	}
	h.respondToday(w, r, http.StatusOK)
}

// Week handles GET /api/week.
//
//	@Summary		Get the Monday-to-Sunday tally of a week
//	@Tags			stats
//	@Produce		json
//	@Param			date	query		string	false	"Any day of the week, YYYY-MM-DD; defaults to today"
//	@Success		200		{object}	WeekResponse
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/week [get]
func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("date")
	if err := validation.Validate(q, validation.Date(DateLayout)); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	ref := h.tr.Now()
	if q != "" {
		d, err := time.ParseInLocation(DateLayout, q, h.tr.Location())
		if err != nil {
			respondError(w, http.StatusBadRequest, codeBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		ref = d
	}

	week, err := h.tr.Week(r.Context(), ref)
	if err != nil {
		h.fail(w, "week", err)
		return
	}
	respond(w, http.StatusOK, WeekResponse{
		Week:  week,
		Total: week.Total(),
		Prev:  tracker.PrevWeek(ref).Format(DateLayout),
		Next:  tracker.NextWeek(ref).Format(DateLayout),
	})
}

// Dates handles GET /api/dates.
//
//	@Summary		List every day that has had activity
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	DatesResponse
//	@Security		BearerAuth
//	@Router			/dates [get]
func (h *Handler) Dates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.tr.Dates(r.Context())
	if err != nil {
		h.fail(w, "dates", err)
		return
	}
	respond(w, http.StatusOK, DatesResponse{Dates: dates})
}

// respondToday writes today's summary and notifies listeners of the new total.
func (h *Handler) respondToday(w http.ResponseWriter, r *http.Request, status int) {
	s, err := h.tr.Summary(r.Context())
	if err != nil {
		h.fail(w, "summary", err)
		return
	}
	h.notify(s.Date, s.Total)
	respond(w, status, s)
}

func (h *Handler) notify(date string, total float64) {
	if h.notifier != nil {
		h.notifier.PublishTally(date, total)
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnsupportedSchema):
		respondError(w, http.StatusConflict, codeUnsupported, "not supported by the scalar schema")
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// decodeCup reads an optional CupRequest body. An empty body is a whole cup.
func decodeCup(w http.ResponseWriter, r *http.Request) (CupRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
	var req CupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return CupRequest{}, false
	}
	return req, true
}
