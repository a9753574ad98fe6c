package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultSaveTimeout bounds a single save to the store.
const DefaultSaveTimeout = 10 * time.Second

// Options configures a Service. Zero values use defaults.
type Options struct {
	AuditCapacity int              // Audit entries retained (default: 500)
	SaveTimeout   time.Duration    // Per-save timeout (default: 10s)
	Now           func() time.Time // Clock for IDs and audit timestamps (default: time.Now)
}

// Service owns the record collection for the lifetime of the application.
// Every operation holds the service lock for its whole duration, so each
// call is one atomic step over the collection.
type Service struct {
	store       Store
	audit       *AuditLog
	saveTimeout time.Duration

	mu    sync.Mutex
	coll  *Collection
	dirty bool
}

// NewService loads the collection from store and returns a ready Service.
// Load failures degrade to an empty collection.
func NewService(ctx context.Context, store Store, opts Options) *Service {
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}

	records := LoadOrEmpty(ctx, store)
	s := &Service{
		store:       store,
		audit:       NewAuditLog(opts.AuditCapacity, opts.Now),
		saveTimeout: opts.SaveTimeout,
		coll:        NewCollection(records, opts.Now),
	}

	slog.Info("records loaded", "count", s.coll.Len())
	return s
}

// Count returns the number of records.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Len()
}

// List returns one processed page of records.
func (s *Service) List(params ViewParams) PageResult {
	return Process(s.snapshot(), params)
}

// Export returns all records matching params' filter, sorted, unpaginated.
func (s *Service) Export(params ViewParams) []Record {
	return SortedView(s.snapshot(), params)
}

// ExportCSV writes the filtered and sorted records, unpaginated, as CSV.
func (s *Service) ExportCSV(w io.Writer, params ViewParams) error {
	return WriteCSV(w, s.Export(params))
}

// Get returns the record with id or ErrRecordNotFound.
func (s *Service) Get(id int64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.coll.Get(id)
	if !ok {
		return Record{}, fmt.Errorf("get record %d: %w", id, ErrRecordNotFound)
	}
	return rec, nil
}

// Validate checks in without touching the collection.
func (s *Service) Validate(in RecordInput) ValidationErrors {
	return Validate(in)
}

// Create validates in, adds a record and saves the collection.
// A ValidationErrors is returned unwrapped so callers can render it per field.
func (s *Service) Create(ctx context.Context, in RecordInput) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.coll.Create(in)
	if err != nil {
		return Record{}, err
	}

	s.persist(ctx)
	s.audit.Record(ctx, ActionRecordCreate, rec.ID, nil, &rec)
	return rec, nil
}

// Update replaces the editable fields of the record with id and saves.
func (s *Service) Update(ctx context.Context, id int64, in RecordInput) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.coll.Get(id)
	if !ok {
		return Record{}, fmt.Errorf("update record %d: %w", id, ErrRecordNotFound)
	}

	rec, err := s.coll.Update(id, in)
	if err != nil {
		return Record{}, err
	}

	s.persist(ctx)
	s.audit.Record(ctx, ActionRecordUpdate, id, &before, &rec)
	return rec, nil
}

// Delete removes the record with id and saves.
func (s *Service) Delete(ctx context.Context, id int64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.coll.Delete(id)
	if err != nil {
		return Record{}, fmt.Errorf("delete record %d: %w", id, err)
	}

	s.persist(ctx)
	s.audit.Record(ctx, ActionRecordDelete, id, &removed, nil)
	return removed, nil
}

// AuditLog returns up to limit audit entries, newest first.
func (s *Service) AuditLog(limit int) []AuditEntry {
	return s.audit.Recent(limit)
}

// Dirty reports whether the last save failed and has not been retried successfully.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush saves the collection if a previous save failed.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := s.save(ctx); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	s.dirty = false
	return nil
}

// snapshot copies the records under the lock.
func (s *Service) snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.All()
}

// persist saves after a mutation. Failures are logged and leave the service
// dirty; the mutation itself stands. Caller holds s.mu.
func (s *Service) persist(ctx context.Context) {
	if err := s.save(ctx); err != nil {
		s.dirty = true
		slog.Warn("failed to save records", "error", err, "count", s.coll.Len())
		return
	}
	s.dirty = false
}

// save writes the collection to the store. Caller holds s.mu.
func (s *Service) save(ctx context.Context) error {
	// A save must not be abandoned because the triggering request went away.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	if err := s.store.Save(saveCtx, s.coll.All()); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
