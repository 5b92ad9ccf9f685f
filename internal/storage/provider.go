// Package storage defines the raw key-value persistence used by cuppa.
//
// Providers store opaque strings under string keys, the way a browser's
// localStorage does. JSON encoding lives one layer up, in package kv.
package storage

import (
	"fmt"

	"github.com/starford/cuppa/internal/apperr"
)

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Drivers lists every driver name Open understands.
var Drivers = []string{DriverFile, DriverSQLite, DriverBolt, DriverMemory}

// Provider is the interface for raw key-value storage.
//
// Single calls are safe for concurrent use. Nothing is held across calls, so
// a read followed by a write can interleave with another writer.
type Provider interface {
	// Get returns the raw value stored under key. ok is false when the key
	// has never been set.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys returns every stored key in ascending order.
	Keys() ([]string, error)
	// Close releases the underlying resources.
	Close() error
}

// Open returns the Provider for driver, persisting at path.
func Open(driver, path string) (Provider, error) {
	switch driver {
	case DriverFile:
		return NewFile(path)
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverBolt:
		return OpenBolt(path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: %w: %q", apperr.ErrUnknownDriver, driver)
	}
}
