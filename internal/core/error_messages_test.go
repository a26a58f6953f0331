package core

import (
	"context"
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
			name:        "wrapped dataset sentinel",
			err:         fmt.Errorf("open table: %w", ErrDatasetNotFound),
			wantCode:    "TBL001",
			wantMessage: "The requested dataset does not exist",
		},
		{
			name:        "instance expired",
			err:         ErrInstanceNotFound,
			wantCode:    "TBL002",
			wantMessage: "This table session has expired",
		},
		{
			name:        "too many instances",
			err:         ErrTooManyInstances,
			wantCode:    "TBL003",
			wantMessage: "Too many tables are open",
		},
		{
			name:        "column set",
			err:         fmt.Errorf("%w: people/q5", ErrColumnSetNotFound),
			wantCode:    "TBL004",
			wantMessage: "The requested column layout does not exist",
		},
		{
			name:        "unknown column error type",
			err:         &UnknownColumnError{Key: "salry"},
			wantCode:    "FLT001",
			wantMessage: "A filter or sort referenced an unknown column",
		},
		{
			name:        "invalid page",
			err:         fmt.Errorf("%w: %q", ErrInvalidPage, "two"),
			wantCode:    "FLT002",
			wantMessage: "Page must be a positive number",
		},
		{
			name:        "rows not found maps correctly",
			err:         errors.New("embedded: people: rows not found"),
			wantCode:    "SRC001",
			wantMessage: "No rows are available for this dataset",
		},
		{
			name:        "decode failure maps correctly",
			err:         errors.New("decode rows: unexpected end of JSON input"),
			wantCode:    "SRC002",
			wantMessage: "The row data is malformed",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "SRC003",
			wantMessage: "Unable to connect to the row database",
		},
		{
			name:        "context deadline maps correctly",
			err:         fmt.Errorf("load rows: %w", context.DeadlineExceeded),
			wantCode:    "SRC004",
			wantMessage: "Loading rows timed out",
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
			err:         errors.New("Read Timeout on socket"),
			wantCode:    "SRC004",
			wantMessage: "Loading rows timed out",
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

func TestMapError_UnknownColumnSuggestion(t *testing.T) {
	err := fmt.Errorf("set filter: %w", &UnknownColumnError{Key: "salry", Suggestion: "salary"})

	got := MapError(err)
	if got.Action != `Did you mean "salary"?` {
		t.Errorf("Action = %q, want the suggestion", got.Action)
	}
	if !errors.Is(err, ErrUnknownColumn) {
		t.Error("UnknownColumnError should match ErrUnknownColumn")
	}
}

func TestUnknownColumnError_Error(t *testing.T) {
	withHint := &UnknownColumnError{Key: "nme", Suggestion: "name"}
	if got := withHint.Error(); got != `unknown column "nme" (did you mean "name"?)` {
		t.Errorf("Error() = %q", got)
	}
	bare := &UnknownColumnError{Key: "zzz"}
	if got := bare.Error(); got != `unknown column "zzz"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrInstanceNotFound)

	expected := "This table session has expired (Code: TBL002). Reload the page to open a new table"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
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
			name: "sentinel is user facing",
			err:  ErrDatasetNotFound,
			want: true,
		},
		{
			name: "pattern match is user facing",
			err:  errors.New("rate limit"),
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
		techErr := fmt.Errorf("lookup: %w", ErrDatasetNotFound)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The requested dataset does not exist" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if userErr.User.Code != "TBL001" {
			t.Errorf("Code = %q, want TBL001", userErr.User.Code)
		}
		if !errors.Is(userErr, ErrDatasetNotFound) {
			t.Error("Unwrap() should return original error")
		}
	})
}
