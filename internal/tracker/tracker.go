// Package tracker keeps the per-day coffee tally on top of a kv.Store.
//
// The tracker holds no state between calls: every operation works out
// today's key from its clock, then reads and writes the store directly.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/starford/cuppa/internal/apperr"
	"github.com/starford/cuppa/internal/kv"
	"github.com/starford/cuppa/internal/models"
)

// DatesKey is the store key of the date index.
const DatesKey = "dates"

// Tracker records cups of coffee per day.
type Tracker struct {
	store       *kv.Store
	clock       Clock
	loc         *time.Location
	schema      Schema
	resetOnOpen bool
	logger      *slog.Logger
}

// New creates a tracker and bootstraps the date index: the index is created
// when missing and today's key is appended to it.
func New(ctx context.Context, store *kv.Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		clock:  SystemClock,
		loc:    time.Local,
		schema: SchemaList,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.init(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tracker) init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	has, err := t.store.Has(DatesKey)
	if err != nil {
		return fmt.Errorf("tracker: check date index: %w", err)
	}
	if !has {
		if err := t.store.Set(DatesKey, []string{}); err != nil {
			return fmt.Errorf("tracker: create date index: %w", err)
		}
	}
	key := t.TodayKey()
	if err := t.indexDay(key); err != nil {
		return err
	}
	if t.resetOnOpen {
		t.logger.Warn("resetting today's record on open", slog.String("date", key))
		if err := t.save(key, t.emptyRecord()); err != nil {
			return err
		}
	}
	return nil
}

// Schema returns the schema new records are written in.
func (t *Tracker) Schema() Schema { return t.schema }

// Location returns the time zone days are computed in.
func (t *Tracker) Location() *time.Location { return t.loc }

// Now returns the tracker's current time in its location.
func (t *Tracker) Now() time.Time { return t.clock.Now().In(t.loc) }

// TodayKey returns the storage key of the current day.
func (t *Tracker) TodayKey() string { return DateKey(t.clock.Now(), t.loc) }

// Today returns the number of cups recorded today, 0 when there are none.
func (t *Tracker) Today(ctx context.Context) (float64, error) {
	rec, err := t.current(ctx, t.TodayKey())
	if err != nil {
		return 0, err
	}
	return rec.Total(), nil
}

// Cups returns today's cup weights in the order they were added.
func (t *Tracker) Cups(ctx context.Context) ([]float64, error) {
	if t.schema != SchemaList {
		return nil, fmt.Errorf("tracker: cups: %w", apperr.ErrUnsupportedSchema)
	}
	rec, err := t.current(ctx, t.TodayKey())
	if err != nil {
		return nil, err
	}
	return slices.Clone(rec.Cups), nil
}

// Summary returns today's key, total, cups and cup image.
func (t *Tracker) Summary(ctx context.Context) (models.DaySummary, error) {
	key := t.TodayKey()
	rec, err := t.current(ctx, key)
	if err != nil {
		return models.DaySummary{}, err
	}
	return summarize(key, rec), nil
}

// Add records a whole cup, or a half cup when whole is false, and returns
// the new total.
func (t *Tracker) Add(ctx context.Context, whole bool) (float64, error) {
	key := t.TodayKey()
	rec, err := t.mutable(ctx, key)
	if err != nil {
		return 0, err
	}
	cup := models.CupFor(whole)
	if rec.Kind == models.KindScalar {
		rec.Count += cup
	} else {
		rec.Cups = append(rec.Cups, cup)
	}
	if err := t.save(key, rec); err != nil {
		return 0, err
	}
	t.logger.Debug("cup added", slog.String("date", key), slog.Float64("cup", cup))
	return rec.Total(), nil
}

// Pop removes and returns today's most recent cup. ok is false, and nothing
// is written, when today has no cups.
func (t *Tracker) Pop(ctx context.Context) (cup float64, ok bool, err error) {
	if t.schema != SchemaList {
		return 0, false, fmt.Errorf("tracker: pop: %w", apperr.ErrUnsupportedSchema)
	}
	key := t.TodayKey()
	rec, err := t.mutable(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if len(rec.Cups) == 0 {
		return 0, false, nil
	}
	last := len(rec.Cups) - 1
	cup = rec.Cups[last]
	rec.Cups = rec.Cups[:last]
	if err := t.save(key, rec); err != nil {
		return 0, false, err
	}
	t.logger.Debug("cup removed", slog.String("date", key), slog.Float64("cup", cup))
	return cup, true, nil
}

// Change replaces today's most recent cup with a whole or half cup. On an
// empty day it just adds the cup.
func (t *Tracker) Change(ctx context.Context, whole bool) (float64, error) {
	if _, _, err := t.Pop(ctx); err != nil {
		return 0, err
	}
	return t.Add(ctx, whole)
}

// Dec takes one cup off today and returns the new total. A scalar counter
// never drops below zero; a list loses its most recent cup.
func (t *Tracker) Dec(ctx context.Context) (float64, error) {
	if t.schema == SchemaList {
		if _, _, err := t.Pop(ctx); err != nil {
			return 0, err
		}
		return t.Today(ctx)
	}
	key := t.TodayKey()
	rec, err := t.mutable(ctx, key)
	if err != nil {
		return 0, err
	}
	rec.Count = max(0, rec.Count-models.WholeCup)
	if err := t.save(key, rec); err != nil {
		return 0, err
	}
	return rec.Count, nil
}

// Reset clears today's tally.
func (t *Tracker) Reset(ctx context.Context) error {
	key := t.TodayKey()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.indexDay(key); err != nil {
		return err
	}
	if err := t.save(key, t.emptyRecord()); err != nil {
		return err
	}
	t.logger.Debug("day reset", slog.String("date", key))
	return nil
}

// Dates returns the date index: every day that has had any activity.
func (t *Tracker) Dates(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dates, err := kv.GetOr(t.store, DatesKey, []string{})
	if err != nil {
		return nil, fmt.Errorf("tracker: read date index: %w", err)
	}
	return dates, nil
}

// Week returns the tally of each day in the Monday-to-Sunday week holding
// date. Days without a record have a nil Count. Legacy records are read as
// they are and never rewritten.
func (t *Tracker) Week(ctx context.Context, date time.Time) (models.Week, error) {
	if err := ctx.Err(); err != nil {
		return models.Week{}, err
	}
	week := models.Week{Number: WeekNumber(date, t.loc)}
	monday := Monday(date, t.loc)
	for i, d := range week.Days() {
		day := monday.AddDate(0, 0, i)
		key := DateKey(day, t.loc)
		rec, found, err := t.load(key)
		if err != nil {
			return models.Week{}, err
		}
		d.Date = day
		d.Key = key
		if found {
			total := rec.Total()
			d.Count = &total
		}
	}
	return week, nil
}

// current loads a day and applies the schema: legacy scalar records are
// migrated and persisted under the list schema, and list records read as
// their sum under the scalar schema.
func (t *Tracker) current(ctx context.Context, key string) (models.DayRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.DayRecord{}, err
	}
	rec, found, err := t.load(key)
	if err != nil {
		return models.DayRecord{}, err
	}
	if !found {
		return t.emptyRecord(), nil
	}
	switch {
	case t.schema == SchemaList && rec.Kind == models.KindScalar:
		migrated := rec.Migrate()
		if err := t.save(key, migrated); err != nil {
			return models.DayRecord{}, err
		}
		t.logger.Info("migrated legacy day record",
			slog.String("date", key),
			slog.Float64("count", rec.Count),
			slog.Int("cups", len(migrated.Cups)))
		return migrated, nil
	case t.schema == SchemaScalar && rec.Kind == models.KindList:
		return models.ScalarRecord(rec.Total()), nil
	}
	return rec, nil
}

// mutable is current plus making sure the day is in the date index.
func (t *Tracker) mutable(ctx context.Context, key string) (models.DayRecord, error) {
	rec, err := t.current(ctx, key)
	if err != nil {
		return models.DayRecord{}, err
	}
	if err := t.indexDay(key); err != nil {
		return models.DayRecord{}, err
	}
	return rec, nil
}

func (t *Tracker) load(key string) (models.DayRecord, bool, error) {
	raw, ok, err := t.store.Raw(key)
	if err != nil {
		return models.DayRecord{}, false, fmt.Errorf("tracker: read %q: %w", key, err)
	}
	if !ok || models.IsNullRecord(raw) {
		return models.DayRecord{}, false, nil
	}
	rec, err := models.DecodeDayRecord(raw)
	if err != nil {
		return models.DayRecord{}, false, fmt.Errorf("tracker: day %q: %w", key, err)
	}
	return rec, true, nil
}

func (t *Tracker) save(key string, rec models.DayRecord) error {
	if err := t.store.Set(key, rec); err != nil {
		return fmt.Errorf("tracker: write %q: %w", key, err)
	}
	return nil
}

// indexDay appends key to the date index unless it is already there.
func (t *Tracker) indexDay(key string) error {
	dates, err := kv.GetOr(t.store, DatesKey, []string{})
	if err != nil {
		return fmt.Errorf("tracker: read date index: %w", err)
	}
	if slices.Contains(dates, key) {
		return nil
	}
	dates = append(dates, key)
	if err := t.store.Set(DatesKey, dates); err != nil {
		return fmt.Errorf("tracker: write date index: %w", err)
	}
	return nil
}

func (t *Tracker) emptyRecord() models.DayRecord {
	if t.schema == SchemaScalar {
		return models.ScalarRecord(0)
	}
	return models.ListRecord()
}

func summarize(key string, rec models.DayRecord) models.DaySummary {
	total := rec.Total()
	s := models.DaySummary{
		Date:     key,
		Total:    total,
		CupImage: CupImage(total),
	}
	if rec.Kind == models.KindList {
		s.Cups = slices.Clone(rec.Cups)
	}
	if s.Cups == nil {
		s.Cups = []float64{}
	}
	return s
}
