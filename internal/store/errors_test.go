package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to do something: %w", ErrNotFound),
			expected: true,
		},
		{
			name:     "ErrUserNotFound",
			err:      ErrUserNotFound,
			expected: true,
		},
		{
			name:     "ErrCardNotFound",
			err:      ErrCardNotFound,
			expected: true,
		},
		{
			name:     "ErrSchedulingNotFound",
			err:      ErrSchedulingNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrCardNotFound",
			err:      fmt.Errorf("query failed: %w", ErrCardNotFound),
			expected: true,
		},
		{
			name:     "duplicate error is not a not-found error",
			err:      ErrEmailExists,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "ErrDuplicate",
			err:      ErrDuplicate,
			expected: true,
		},
		{
			name:     "ErrEmailExists",
			err:      ErrEmailExists,
			expected: true,
		},
		{
			name:     "wrapped ErrEmailExists",
			err:      fmt.Errorf("insert failed: %w", ErrEmailExists),
			expected: true,
		},
		{
			name:     "not found error is not a duplicate error",
			err:      ErrUserNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateError(tt.err); got != tt.expected {
				t.Errorf("IsDuplicateError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := NewStoreError("card", "create", "insert failed", inner)

		if !errors.Is(err, inner) {
			t.Error("expected StoreError to unwrap to the inner error")
		}
		expected := "create operation on card failed: insert failed: connection refused"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("user", "delete", "no rows affected", nil)

		expected := "delete operation on user failed: no rows affected"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
		if errors.Unwrap(err) != nil {
			t.Error("expected nil unwrapped error")
		}
	})

	t.Run("sentinel wrapped through StoreError", func(t *testing.T) {
		err := NewStoreError("scheduling", "get", "lookup failed", ErrSchedulingNotFound)
		if !IsNotFoundError(err) {
			t.Error("expected StoreError wrapping ErrSchedulingNotFound to be a not-found error")
		}
	})
}
