// Package apperr holds the sentinel errors shared across cuppa packages.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrCorrupt           = errors.New("corrupt stored value")
	ErrUnsupportedSchema = errors.New("operation not supported by day record schema")
	ErrUnknownDriver     = errors.New("unknown storage driver")
)
