package core

// validation.go provides field-level validation for record create/update.
//
// Only name and email carry rules. Each field is checked independently and
// the first failing rule for a field wins:
//
//	name:  required, then at least 3 characters (after trimming)
//	email: required, then local@domain.tld shape (after trimming)
//
// The email check is a minimal structural test, not RFC 5322.

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrValidation matches any ValidationErrors via errors.Is.
var ErrValidation = errors.New("validation failed")

// Field names used as ValidationErrors keys.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// Validation failure codes.
const (
	CodeRequired      = "required"
	CodeTooShort      = "too_short"
	CodeInvalidFormat = "invalid_format"
)

// Messages shown next to the offending input.
const (
	MsgNameRequired  = "Name is required"
	MsgNameTooShort  = "Name must be at least 3 characters"
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Enter a valid email address"
)

// MinNameLength is the minimum trimmed name length in characters.
const MinNameLength = 3

// emailPattern: non-space/non-@ run, @, non-space/non-@ run, dot, non-space/non-@ run.
// Space is the same set isSpace trims.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// isSpace reports ASCII whitespace, Unicode separators and the byte order mark.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Z, r)
}

// trimSpace strips isSpace runes from both ends of s.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// ValidationError is a single failed rule for a field.
type ValidationError struct {
	Field   string // name or email
	Code    string // required, too_short, invalid_format
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors maps a field name to its message.
// A missing key or an empty message means the field is valid.
// A non-empty ValidationErrors is also an error.
type ValidationErrors map[string]string

// Valid reports whether no field has a message.
func (v ValidationErrors) Valid() bool {
	for _, msg := range v {
		if msg != "" {
			return false
		}
	}
	return true
}

// Get returns the message for field, or "".
func (v ValidationErrors) Get(field string) string {
	return v[field]
}

// Err returns v as an error, or nil when valid.
func (v ValidationErrors) Err() error {
	if v.Valid() {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f, msg := range v {
		if msg != "" {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the editable fields of a candidate record.
func Validate(in RecordInput) ValidationErrors {
	errs := ValidationErrors{}
	for _, fe := range ValidateFields(in) {
		errs[fe.Field] = fe.Message
	}
	return errs
}

// ValidateFields returns the failing rule per field, name first.
func ValidateFields(in RecordInput) []ValidationError {
	var out []ValidationError
	if fe, ok := validateName(in.Name); !ok {
		out = append(out, fe)
	}
	if fe, ok := validateEmail(in.Email); !ok {
		out = append(out, fe)
	}
	return out
}

func validateName(raw string) (ValidationError, bool) {
	name := trimSpace(raw)
	if name == "" {
		return ValidationError{Field: FieldName, Code: CodeRequired, Message: MsgNameRequired}, false
	}
	if utf8.RuneCountInString(name) < MinNameLength {
		return ValidationError{Field: FieldName, Code: CodeTooShort, Message: MsgNameTooShort}, false
	}
	return ValidationError{}, true
}

func validateEmail(raw string) (ValidationError, bool) {
	email := trimSpace(raw)
	if email == "" {
		return ValidationError{Field: FieldEmail, Code: CodeRequired, Message: MsgEmailRequired}, false
	}
	if !emailPattern.MatchString(email) {
		return ValidationError{Field: FieldEmail, Code: CodeInvalidFormat, Message: MsgEmailInvalid}, false
	}
	return ValidationError{}, true
}
