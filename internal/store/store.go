// Package store persists diagram state as small JSON records under string
// keys.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/snappy"
)

const (
	ViewportKey = "viewport"
	PanelKey    = "panel"
)

// EntityKey is the record key for one entity's persisted state.
func EntityKey(id string) string {
	return "entity/" + id
}

// EntityState is what survives an entity being removed and re-added.
type EntityState struct {
	Top      int  `json:"top"`
	Left     int  `json:"left"`
	Expanded bool `json:"expanded"`
	Visible  bool `json:"visible"`
	ShowAll  bool `json:"showAll"`
}

type ViewportState struct {
	ScrollTop  float64 `json:"scrollTop"`
	ScrollLeft float64 `json:"scrollLeft"`
	Zoom       int     `json:"zoom"`
}

type PanelState struct {
	Width        int `json:"width"`
	LastExpanded int `json:"lastExpanded"`
}

// Store is a key-value collaborator. Load reports false when the key has no
// record.
type Store interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Load(key string, v any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.records[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.records[key] = raw
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// FileStore is a MemoryStore mirrored to a snappy-compressed JSON file. The
// whole file is rewritten on every Save.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFile loads path if it exists. A missing file starts an empty store.
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{MemoryStore: NewMemoryStore(), path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompress state file: %w", err)
	}
	if err := json.Unmarshal(decoded, &fs.records); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if fs.records == nil {
		fs.records = make(map[string]json.RawMessage)
	}
	return fs, nil
}

func (s *FileStore) Save(key string, v any) error {
	if err := s.MemoryStore.Save(key, v); err != nil {
		return err
	}
	return s.flush()
}

func (s *FileStore) flush() error {
	s.mu.Lock()
	data, err := json.Marshal(s.records)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, snappy.Encode(nil, data), 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }
