package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionRecordCreate AuditAction = "record_create"
	ActionRecordUpdate AuditAction = "record_update"
	ActionRecordDelete AuditAction = "record_delete"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// DefaultAuditCapacity is the number of entries kept when none is configured.
const DefaultAuditCapacity = 500

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID        string        `json:"id"`
	Action    AuditAction   `json:"action"`
	Severity  AuditSeverity `json:"severity"`
	RecordID  int64         `json:"recordId"`
	IPAddress string        `json:"ipAddress,omitempty"`
	UserAgent string        `json:"userAgent,omitempty"`
	Before    *Record       `json:"before,omitempty"`
	After     *Record       `json:"after,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionRecordDelete:
		return SeverityHigh
	case ActionRecordCreate, ActionRecordUpdate:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AuditLog is a bounded in-memory ring of audit entries.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	next    int
	full    bool
	now     func() time.Time
}

// NewAuditLog creates a log holding at most capacity entries.
func NewAuditLog(capacity int, now func() time.Time) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &AuditLog{
		entries: make([]AuditEntry, capacity),
		now:     now,
	}
}

// Record appends an entry built from the action and the request metadata in ctx.
func (a *AuditLog) Record(ctx context.Context, action AuditAction, recordID int64, before, after *Record) AuditEntry {
	meta := RequestMetaFrom(ctx)
	entry := AuditEntry{
		ID:        uuid.New().String(),
		Action:    action,
		Severity:  determineSeverity(action),
		RecordID:  recordID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Before:    before,
		After:     after,
		CreatedAt: a.now().UTC(),
	}

	a.mu.Lock()
	a.entries[a.next] = entry
	a.next = (a.next + 1) % len(a.entries)
	if a.next == 0 {
		a.full = true
	}
	a.mu.Unlock()

	return entry
}

// Len returns the number of retained entries.
func (a *AuditLog) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.full {
		return len(a.entries)
	}
	return a.next
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (a *AuditLog) Recent(limit int) []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.next
	if a.full {
		n = len(a.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]AuditEntry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (a.next - 1 - i + len(a.entries)) % len(a.entries)
		out = append(out, a.entries[idx])
	}
	return out
}
