/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKeyedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
		sentinel error
		is       func(error) bool
	}{
		{
			name:     "not found",
			err:      NewNotFoundError("persons", "42"),
			expected: `persons with key "42" not found`,
			sentinel: ErrNotFound,
			is:       IsNotFound,
		},
		{
			name:     "already exists",
			err:      NewAlreadyExistsError("listings", "l-1"),
			expected: `listings with key "l-1" already exists`,
			sentinel: ErrAlreadyExists,
			is:       IsAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, tt.err.Error())
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%T should match %v", tt.err, tt.sentinel)
			}
			if !tt.is(fmt.Errorf("hgetall persons:42: %w", tt.err)) {
				t.Errorf("helper should match wrapped %T", tt.err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "id",
			message:  "must not be empty",
			expected: `validation failed for field "id": must not be empty`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "update must not be nil",
			expected: "validation failed: update must not be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestUnsupportedOperationError(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		reason    string
		expected  string
	}{
		{
			name:      "with reason",
			operation: "ContainsValue",
			reason:    "hashes have no value index",
			expected:  "ContainsValue is not supported: hashes have no value index",
		},
		{
			name:      "without reason",
			operation: "Entries",
			expected:  "Entries is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnsupportedOperationError(tt.operation, tt.reason)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsUnsupportedOperation(err) {
				t.Error("IsUnsupportedOperation should return true for UnsupportedOperationError")
			}
			if IsValidationError(err) {
				t.Error("UnsupportedOperationError should not match ErrInvalidInput")
			}
		})
	}
}

func TestNoMappingError(t *testing.T) {
	err := NewNoMappingError("main.Person")

	expected := "no mapping registered for type main.Person"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsNoMapping(fmt.Errorf("lookup: %w", err)) {
		t.Error("IsNoMapping should work with wrapped errors")
	}
}

func TestErrorWrapping(t *testing.T) {
	missing := NewNotFoundError("redis.person", "7")
	wrapped := fmt.Errorf("find persons: %w", missing)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("Wrapped NotFoundError should still match ErrNotFound")
	}

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should work with wrapped errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	// Ensure sentinel errors are distinct
	sentinels := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrUnsupportedOperation,
		ErrNoMapping,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}