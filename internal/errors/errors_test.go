package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestSeedError_Error(t *testing.T) {
	err := &SeedError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "prompt not found",
	}

	expected := "NOT_FOUND: prompt not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("activity is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "activity is required" {
		t.Errorf("Message = %q, want %q", err.Message, "activity is required")
	}
}

func TestNewUnknownActivity(t *testing.T) {
	err := NewUnknownActivity("Yoga")

	if err.Code != ErrUnknownActivity {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnknownActivity)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["activity"] != "Yoga" {
		t.Errorf("Details[activity] = %v, want %q", err.Details["activity"], "Yoga")
	}
}

func TestNewUnknownElement(t *testing.T) {
	err := NewUnknownElement("Digital Detox", "Dragon")

	if err.Code != ErrUnknownElement {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnknownElement)
	}
	if err.Details["element"] != "Dragon" {
		t.Errorf("Details[element] = %v, want %q", err.Details["element"], "Dragon")
	}
}

func TestNewDayResolution(t *testing.T) {
	err := NewDayResolution(9)

	if err.Code != ErrDayResolution {
		t.Errorf("Code = %q, want %q", err.Code, ErrDayResolution)
	}
	if err.Details["weekday"] != 9 {
		t.Errorf("Details[weekday] = %v, want 9", err.Details["weekday"])
	}
}

func TestNewPersistence_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("disk I/O error")
	err := NewPersistence("record completion", cause)

	if err.Code != ErrPersistence {
		t.Errorf("Code = %q, want %q", err.Code, ErrPersistence)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Message != "record completion failed: disk I/O error" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewPersistence_NilCause(t *testing.T) {
	err := NewPersistence("reset", nil)
	if err.Message != "reset failed" {
		t.Errorf("Message = %q, want %q", err.Message, "reset failed")
	}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("database connection failed"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Message != "database connection failed" {
		t.Errorf("Message = %q, want %q", err.Message, "database connection failed")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotFound("x"), ErrNotFound, true},
		{"different code", NewNotFound("x"), ErrInternal, false},
		{"wrapped", fmt.Errorf("ctx: %w", NewUnknownActivity("x")), ErrUnknownActivity, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}
