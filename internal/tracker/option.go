package tracker

import (
	"fmt"
	"log/slog"
	"time"
)

// Schema selects how day records are written.
type Schema string

// Schemas.
const (
	// SchemaList stores one weight per cup, so the last cup can be removed
	// or changed.
	SchemaList Schema = "list"
	// SchemaScalar stores a single counter per day.
	SchemaScalar Schema = "scalar"
)

// ParseSchema validates a schema name. An empty name selects SchemaList.
func ParseSchema(s string) (Schema, error) {
	switch Schema(s) {
	case "", SchemaList:
		return SchemaList, nil
	case SchemaScalar:
		return SchemaScalar, nil
	default:
		return "", fmt.Errorf("tracker: unknown schema %q", s)
	}
}

// Option is a functional option for configuring a Tracker.
type Option func(*Tracker)

// WithClock sets the source of "now".
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithLocation sets the time zone that decides where a day begins.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithSchema sets the day record schema.
func WithSchema(s Schema) Option {
	return func(t *Tracker) {
		if s != "" {
			t.schema = s
		}
	}
}

// WithResetOnOpen makes New empty today's record after bootstrapping the
// date index. It reproduces the behaviour of the first list-based release,
// which lost same-day data on every restart.
func WithResetOnOpen(reset bool) Option {
	return func(t *Tracker) {
		t.resetOnOpen = reset
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}
