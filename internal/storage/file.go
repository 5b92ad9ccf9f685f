package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/starford/cuppa/internal/apperr"
)

// File implements Provider as a single JSON object on disk. The document is
// re-read on every call so writes by other processes are picked up.
type File struct {
	path string // absolute path to the store file
	mu   sync.Mutex
}

// NewFile creates a file provider at path. The parent directory is created
// when missing; the file itself is created on first write.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("storage: path is a directory: %s", abs)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir: %w", err)
	}
	return &File{path: abs}, nil
}

// Path returns the absolute path of the store file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	doc[key] = value
	return f.save(doc)
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.save(doc)
}

func (f *File) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *File) Close() error { return nil }

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]string), nil
	}
	doc := make(map[string]string)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: %w: %s: %w", apperr.ErrCorrupt, f.path, err)
	}
	return doc, nil
}

// save replaces the store file atomically: temp file, fsync, rename.
func (f *File) save(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("storage: write %s: %w", f.path, err)
	}
	return nil
}
