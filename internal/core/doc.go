// Package core provides the business logic for user record management.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers, the userctl CLI, and tests without
// modification.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Records: a [Record] is a user entry with an immutable numeric ID and
//     five editable text fields.
//   - Validation: [Validate] checks a [RecordInput] and returns field-level
//     [ValidationErrors]. It never mutates its input.
//   - List processing: [Process] runs filter → sort → paginate over a record
//     slice and returns a [PageResult]. It never errors; out-of-range input is
//     clamped.
//   - Collection: [Collection] is the state container for the records and
//     the ID generator. It is not safe for concurrent use on its own.
//   - Service: [Service] owns a Collection and a [Store], serializes access,
//     saves after each mutation and records an audit trail.
//
// # List Pipeline
//
// The order of the stages is fixed:
//
//  1. Filter: case-insensitive substring match on one field (name or email)
//  2. Sort: stable; id is numeric, name/email use a locale collator that
//     ignores case and diacritics
//  3. Paginate: page is clamped to [1, TotalPages]
//
// [ViewState] applies the navigation policy on top: any parameter change
// other than explicit page navigation returns the view to page 1.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL001-VAL004: Validation errors (name, email)
//   - REC001-REC002: Record lookup errors
//   - STO001-STO003: Storage errors
//   - REQ001-REQ004: Request errors (cancelled, timeout, bad body, unknown route)
//   - AUTH001-AUTH002: API key errors
//   - RATE001: Rate limiting
package core
