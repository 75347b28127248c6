package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/forest"
	"github.com/matzehuels/reftree/pkg/growth"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to load")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeCycleDetected, "test"), ErrCodeCycleDetected, true},
		{"non-matching code", New(ErrCodeCycleDetected, "test"), ErrCodeUnknownUser, false},
		{"wrapped error", fmt.Errorf("outer: %w", New(ErrCodeUnknownUser, "inner")), ErrCodeUnknownUser, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	if got := GetCode(New(ErrCodeDuplicateUser, "x")); got != ErrCodeDuplicateUser {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeDuplicateUser)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %v", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   Code
		status int
	}{
		{"unknown user", fmt.Errorf("%w: %q", forest.ErrUnknownUser, "x"), ErrCodeUnknownUser, http.StatusNotFound},
		{"unknown referrer", forest.ErrUnknownReferrer, ErrCodeUnknownReferrer, http.StatusBadRequest},
		{"duplicate", forest.ErrDuplicateUser, ErrCodeDuplicateUser, http.StatusConflict},
		{"self referral", forest.ErrSelfReferral, ErrCodeSelfReferral, http.StatusBadRequest},
		{"already referred", forest.ErrAlreadyReferred, ErrCodeAlreadyReferred, http.StatusConflict},
		{"cycle", forest.ErrCycleDetected, ErrCodeCycleDetected, http.StatusConflict},
		{"limit", analytics.ErrInvalidLimit, ErrCodeInvalidInput, http.StatusBadRequest},
		{"probability", growth.ErrInvalidProbability, ErrCodeInvalidProbability, http.StatusBadRequest},
		{"days", growth.ErrInvalidDayCount, ErrCodeInvalidDayCount, http.StatusBadRequest},
		{"target", growth.ErrInvalidTarget, ErrCodeInvalidTarget, http.StatusBadRequest},
		{"coded passes through", New(ErrCodeInvalidInput, "bad"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Classify(tt.err)
			if e.Code != tt.code {
				t.Errorf("Classify().Code = %v, want %v", e.Code, tt.code)
			}
			if !errors.Is(e, tt.err) && GetCode(tt.err) == "" {
				t.Error("Classify should keep the original error in the chain")
			}
			if got := HTTPStatus(e.Code); got != tt.status {
				t.Errorf("HTTPStatus(%v) = %d, want %d", e.Code, got, tt.status)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}
