package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "name required",
			err:         Validate(RecordInput{Email: "a@b.com"}).Err(),
			wantCode:    "VAL001",
			wantMessage: MsgNameRequired,
		},
		{
			name:        "invalid email",
			err:         Validate(RecordInput{Name: "Alice", Email: "nope"}).Err(),
			wantCode:    "VAL004",
			wantMessage: MsgEmailInvalid,
		},
		{
			name:        "wrapped not found",
			err:         fmt.Errorf("get record 7: %w", ErrRecordNotFound),
			wantCode:    "REC001",
			wantMessage: "User not found",
		},
		{
			name:        "invalid id",
			err:         ErrInvalidRecordID,
			wantCode:    "REC002",
			wantMessage: "Invalid user id",
		},
		{
			name:        "storage unavailable",
			err:         fmt.Errorf("%w: disk full", ErrStorageUnavailable),
			wantCode:    "STO001",
			wantMessage: "Changes could not be saved",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp 127.0.0.1:5432: connection refused"),
			wantCode:    "STO002",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("%w: %v", ErrStorageUnavailable, errors.New("context deadline exceeded")),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("RECORD NOT FOUND"),
			wantCode:    "REC001",
			wantMessage: "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrRecordNotFound)

	expected := "User not found (Code: REC001). The user may have been deleted. Go back to the list"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrRecordNotFound,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w: permission denied", ErrStorageUnavailable)
		userErr := NewUserError(techErr)

		if userErr.Error() != "Changes could not be saved" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrStorageUnavailable) {
			t.Error("Unwrap() should return original error")
		}
	})
}
