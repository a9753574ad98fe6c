package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/userdesk/internal/config"
	"github.com/JonMunkholm/userdesk/internal/core"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if filepath.Base(fs.Path()) != "tsx-crud-users.json" {
		t.Errorf("Path() = %q, want default key file", fs.Path())
	}

	records, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Load() = %#v, want empty non-nil slice", records)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "users")
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	want := []core.Record{
		{ID: 1700000000001, Name: "Åsa Öberg", Email: "asa@example.se", Status: "active"},
		{ID: 1700000000002, Name: "Bob", Email: "bob@example.com", Role: "admin"},
	}
	if err := fs.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the data file", len(entries))
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewFileStore(dir, "users")
	if err := os.WriteFile(fs.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := fs.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode records") {
		t.Fatalf("Load() error = %v, want decode error", err)
	}

	if got := core.LoadOrEmpty(context.Background(), fs); len(got) != 0 {
		t.Errorf("LoadOrEmpty() = %+v, want empty", got)
	}
}

func TestFileStore_EmptyFileAndNullArray(t *testing.T) {
	for name, content := range map[string]string{"empty": "", "null": "null"} {
		t.Run(name, func(t *testing.T) {
			fs, _ := NewFileStore(t.TempDir(), "users")
			os.WriteFile(fs.Path(), []byte(content), 0o644)

			got, err := fs.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("Load() = %#v, want empty", got)
			}
		})
	}
}

func TestFileStore_SaveCancelled(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir(), "users")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := fs.Save(ctx, []core.Record{{ID: 1}}); err == nil {
		t.Fatal("Save() with cancelled context should fail")
	}
	if _, err := os.Stat(fs.Path()); !os.IsNotExist(err) {
		t.Error("file written despite cancelled context")
	}
}

func TestFileStore_SaveNilWritesEmptyArray(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir(), "users")
	if err := fs.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := os.ReadFile(fs.Path())
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("file = %q, want []", data)
	}
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	defer mem.Close()
	if _, ok := mem.Store.(*core.MemoryStore); !ok {
		t.Errorf("memory driver store = %T", mem.Store)
	}

	dir := t.TempDir()
	file, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.DriverFile, Dir: dir, Key: "k"}})
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	defer file.Close()
	fs, ok := file.Store.(*FileStore)
	if !ok {
		t.Fatalf("file driver store = %T", file.Store)
	}
	if fs.Path() != filepath.Join(dir, "k.json") {
		t.Errorf("Path() = %q", fs.Path())
	}
}

func TestOpen_PostgresBadURL(t *testing.T) {
	cfg := &config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverPostgres},
		Database: config.DatabaseConfig{URL: "://not a url", MaxConns: 1},
	}
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("Open() expected error for bad database URL")
	}
}
