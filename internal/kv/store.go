// Package kv layers JSON values over a raw storage.Provider.
package kv

import (
	"encoding/json"
	"fmt"

	"github.com/starford/cuppa/internal/apperr"
	"github.com/starford/cuppa/internal/storage"
)

// Undefined is the raw value treated as "no value" by Get. Has still reports
// a key holding it as present.
const Undefined = "undefined"

// Store reads and writes JSON-encoded values.
type Store struct {
	p storage.Provider
}

// New wraps p.
func New(p storage.Provider) *Store {
	return &Store{p: p}
}

// Provider returns the underlying raw provider.
func (s *Store) Provider() storage.Provider {
	return s.p
}

// Raw returns the stored JSON text for key. ok is false when the key is
// missing or holds Undefined.
func (s *Store) Raw(key string) (raw []byte, ok bool, err error) {
	v, ok, err := s.p.Get(key)
	if err != nil {
		return nil, false, err
	}
	if !ok || v == Undefined {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Get decodes the value stored under key into dst. found is false, and dst is
// left untouched, when there is no value.
func (s *Store) Get(key string, dst any) (found bool, err error) {
	raw, ok, err := s.Raw(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("kv: %w: key %q: %w", apperr.ErrCorrupt, key, err)
	}
	return true, nil
}

// GetOr returns the value stored under key, or def when there is none.
func GetOr[T any](s *Store, key string, def T) (T, error) {
	var v T
	found, err := s.Get(key, &v)
	if err != nil {
		return def, err
	}
	if !found {
		return def, nil
	}
	return v, nil
}

// Set stores v as JSON. Strings are stored quoted, so they read back as the
// same string.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %q: %w", key, err)
	}
	return s.p.Set(key, string(data))
}

// Has reports whether anything is stored under key, Undefined included.
func (s *Store) Has(key string) (bool, error) {
	_, ok, err := s.p.Get(key)
	return ok, err
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	return s.p.Delete(key)
}

// Keys lists every stored key.
func (s *Store) Keys() ([]string, error) {
	return s.p.Keys()
}
