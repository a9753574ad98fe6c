// Package storage implements core.Store backends.
//
// Every backend stores the whole record collection as one JSON array under a
// single key, the way the browser build kept it in one local-storage entry.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/JonMunkholm/userdesk/internal/core"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "tsx-crud-users"

// FileStore keeps the collection in <dir>/<key>.json.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates dir if needed and returns a store for key.
func NewFileStore(dir, key string) (*FileStore, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the collection. A missing or empty file yields no records.
func (s *FileStore) Load(ctx context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return decodeRecords(data)
}

// Save writes the collection to a temp file and renames it into place so a
// crash never leaves a half-written file behind.
func (s *FileStore) Save(ctx context.Context, records []core.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// decodeRecords parses a stored JSON array. Empty input yields no records.
func decodeRecords(data []byte) ([]core.Record, error) {
	if len(data) == 0 {
		return []core.Record{}, nil
	}

	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []core.Record{}
	}
	return records, nil
}

func encodeRecords(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}
