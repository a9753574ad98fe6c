package core

import (
	"log/slog"
	"slices"
	"time"
)

// IDGenerator issues record IDs derived from the wall clock in milliseconds.
// IDs are strictly increasing: two calls within the same millisecond, or a
// clock that moves backwards, still yield distinct values.
type IDGenerator struct {
	now  func() time.Time
	last int64
}

// NewIDGenerator returns a generator that will never issue an ID <= floor.
// A nil clock uses time.Now.
func NewIDGenerator(now func() time.Time, floor int64) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now, last: floor}
}

// Next returns the next ID.
func (g *IDGenerator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe raises the floor so id is never issued again.
func (g *IDGenerator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

// Collection is the authoritative ordered set of records.
// It keeps insertion order and unique IDs. It is not safe for concurrent
// use; Service serializes access.
type Collection struct {
	records []Record
	index   map[int64]int
	ids     *IDGenerator
}

// NewCollection builds a collection from loaded records.
// Later records repeating an ID already seen are dropped.
func NewCollection(records []Record, now func() time.Time) *Collection {
	c := &Collection{
		records: make([]Record, 0, len(records)),
		index:   make(map[int64]int, len(records)),
		ids:     NewIDGenerator(now, 0),
	}
	for _, r := range records {
		if _, dup := c.index[r.ID]; dup {
			slog.Warn("dropping record with duplicate id", "id", r.ID)
			continue
		}
		c.index[r.ID] = len(c.records)
		c.records = append(c.records, r)
		c.ids.Observe(r.ID)
	}
	return c
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// All returns a copy of the records in insertion order.
func (c *Collection) All() []Record {
	return slices.Clone(c.records)
}

// Get returns the record with id.
func (c *Collection) Get(id int64) (Record, bool) {
	i, ok := c.index[id]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Create validates in and appends a new record with a fresh ID.
// On validation failure the collection is unchanged and the error is a
// ValidationErrors.
func (c *Collection) Create(in RecordInput) (Record, error) {
	if err := Validate(in).Err(); err != nil {
		return Record{}, err
	}

	rec := Record{ID: c.ids.Next()}.withInput(in)
	c.index[rec.ID] = len(c.records)
	c.records = append(c.records, rec)
	return rec, nil
}

// Update replaces all editable fields of the record with id.
// The ID and the record's position are unchanged.
func (c *Collection) Update(id int64, in RecordInput) (Record, error) {
	i, ok := c.index[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	if err := Validate(in).Err(); err != nil {
		return Record{}, err
	}

	rec := c.records[i].withInput(in)
	c.records[i] = rec
	return rec, nil
}

// Delete removes the record with id and returns it.
func (c *Collection) Delete(id int64) (Record, error) {
	i, ok := c.index[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}

	removed := c.records[i]
	c.records = slices.Delete(c.records, i, i+1)
	delete(c.index, id)
	for j := i; j < len(c.records); j++ {
		c.index[c.records[j].ID] = j
	}
	return removed, nil
}
