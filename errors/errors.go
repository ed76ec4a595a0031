/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to insert an entity whose id is taken
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when a precondition on the arguments fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedOperation is returned by operations the backing store cannot serve efficiently
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNoMapping is returned when no entity mapping is registered for a type
	ErrNoMapping = errors.New("no mapping found for type")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedOperationError names the operation that is not available
type UnsupportedOperationError struct {
	Operation string
	Reason    string
}

func (e *UnsupportedOperationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s is not supported: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s is not supported", e.Operation)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// NoMappingError reports a Go type with no registered entity settings
type NoMappingError struct {
	Type string
}

func (e *NoMappingError) Error() string {
	return fmt.Sprintf("no mapping registered for type %s", e.Type)
}

func (e *NoMappingError) Is(target error) bool {
	return target == ErrNoMapping
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewUnsupportedOperationError creates a new UnsupportedOperationError
func NewUnsupportedOperationError(operation, reason string) error {
	return &UnsupportedOperationError{Operation: operation, Reason: reason}
}

// NewNoMappingError creates a new NoMappingError
func NewNoMappingError(typeName string) error {
	return &NoMappingError{Type: typeName}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnsupportedOperation checks if an error is an unsupported operation error
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsNoMapping checks if an error reports a missing entity mapping
func IsNoMapping(err error) bool {
	return errors.Is(err, ErrNoMapping)
}
