package kv

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/cuppa/internal/apperr"
	"github.com/starford/cuppa/internal/storage"
)

func newStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return New(mem), mem
}

func TestSetGetRoundTrip(t *testing.T) {
	s, _ := newStore(t)

	cases := []struct {
		name string
		in   any
	}{
		{"number", 3.5},
		{"string", "Mon Jan 01 2024"},
		{"string with quotes", `say "hi"`},
		{"array", []any{1.0, 0.5, 1.0}},
		{"object", map[string]any{"date": "Mon Jan 01 2024", "count": 2.0}},
		{"empty array", []any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.Set(tc.name, tc.in); err != nil {
				t.Fatalf("Set: %v", err)
			}
			var got any
			found, err := s.Get(tc.name, &got)
			if err != nil || !found {
				t.Fatalf("Get = %v, %v", found, err)
			}
			if diff := cmp.Diff(tc.in, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetStringIsQuoted(t *testing.T) {
	s, mem := newStore(t)
	if err := s.Set("name", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, _, _ := mem.Get("name")
	if raw != `"abc"` {
		t.Errorf("raw = %q, want %q", raw, `"abc"`)
	}
	got, err := GetOr(s, "name", "")
	if err != nil || got != "abc" {
		t.Errorf("GetOr = %q, %v", got, err)
	}
}

func TestGetMissing(t *testing.T) {
	s, _ := newStore(t)

	var dst []string
	found, err := s.Get("missing", &dst)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found || dst != nil {
		t.Errorf("found = %v, dst = %v", found, dst)
	}

	n, err := GetOr(s, "missing", 7.0)
	if err != nil || n != 7 {
		t.Errorf("GetOr = %v, %v; want 7", n, err)
	}
}

func TestUndefinedSentinel(t *testing.T) {
	s, mem := newStore(t)
	_ = mem.Set("k", Undefined)

	n, err := GetOr(s, "k", 0.0)
	if err != nil || n != 0 {
		t.Errorf("GetOr = %v, %v; want default", n, err)
	}
	has, err := s.Has("k")
	if err != nil || !has {
		t.Errorf("Has = %v, %v; want true", has, err)
	}
	if _, ok, _ := s.Raw("k"); ok {
		t.Error("Raw should report undefined as absent")
	}
}

func TestHas(t *testing.T) {
	s, _ := newStore(t)
	if has, _ := s.Has("dates"); has {
		t.Error("empty store should not have dates")
	}
	_ = s.Set("dates", []string{})
	if has, _ := s.Has("dates"); !has {
		t.Error("dates should be present after Set")
	}
	_ = s.Delete("dates")
	if has, _ := s.Has("dates"); has {
		t.Error("dates should be gone after Delete")
	}
}

func TestGetMalformed(t *testing.T) {
	s, mem := newStore(t)
	_ = mem.Set("dates", `["Mon Jan 01`)

	var dates []string
	_, err := s.Get("dates", &dates)
	if !errors.Is(err, apperr.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("err = %v, want wrapped *json.SyntaxError", err)
	}
}
