package core

import (
	"errors"
	"strconv"
)

// ErrRecordNotFound is returned when no record has the requested ID.
var ErrRecordNotFound = errors.New("record not found")

// ErrInvalidRecordID is returned when an ID cannot be parsed.
var ErrInvalidRecordID = errors.New("invalid record id")

// Record is a single user entry.
// The JSON shape matches the browser storage blob so existing data loads as-is.
type Record struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

// RecordInput holds the editable fields of a record.
type RecordInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

// Input returns the editable fields of r.
func (r Record) Input() RecordInput {
	return RecordInput{
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Status: r.Status,
		Role:   r.Role,
	}
}

// withInput returns a copy of r with all editable fields replaced.
func (r Record) withInput(in RecordInput) Record {
	return Record{
		ID:     r.ID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Status: in.Status,
		Role:   in.Role,
	}
}

// fieldValue returns the text value of a filterable field.
func (r Record) fieldValue(f FilterField) string {
	switch f {
	case FilterEmail:
		return r.Email
	default:
		return r.Name
	}
}

// ParseRecordID parses a decimal record ID.
func ParseRecordID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidRecordID
	}
	return id, nil
}
