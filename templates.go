/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rediskv

import (
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/rediskv/errors"
)

// TypedTemplates holds named templates for one entity type, for example one
// per backend or per Redis database.
type TypedTemplates[T any] struct {
	mu        sync.RWMutex
	templates map[string]*KeyValueTemplate[T]
}

// NewTypedTemplates creates an empty TypedTemplates for T.
func NewTypedTemplates[T any]() *TypedTemplates[T] {
	return &TypedTemplates[T]{
		templates: make(map[string]*KeyValueTemplate[T]),
	}
}

// Register adds a template under name.
func (ts *TypedTemplates[T]) Register(name string, t *KeyValueTemplate[T]) error {
	if t == nil {
		return errors.NewValidationError("template", "must not be nil")
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.templates[name]; exists {
		return errors.NewAlreadyExistsError("template", name)
	}
	ts.templates[name] = t
	return nil
}

// Get retrieves the template registered under name.
func (ts *TypedTemplates[T]) Get(name string) (*KeyValueTemplate[T], error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	t, exists := ts.templates[name]
	if !exists {
		return nil, errors.NewNotFoundError("template", name)
	}
	return t, nil
}

// Remove unregisters the template under name.
func (ts *TypedTemplates[T]) Remove(name string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.templates[name]; !exists {
		return errors.NewNotFoundError("template", name)
	}
	delete(ts.templates, name)
	return nil
}

// List returns the registered names in sorted order.
func (ts *TypedTemplates[T]) List() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	names := make([]string, 0, len(ts.templates))
	for name := range ts.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Templates manages TypedTemplates for different entity types.
type Templates struct {
	mu    sync.Mutex
	types map[reflect.Type]any
}

// NewTemplates creates an empty Templates.
func NewTemplates() *Templates {
	return &Templates{types: make(map[reflect.Type]any)}
}

// TemplatesFor returns the TypedTemplates for T, creating it on first use.
func TemplatesFor[T any](ts *Templates) *TypedTemplates[T] {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typed, exists := ts.types[typ]; exists {
		return typed.(*TypedTemplates[T])
	}
	typed := NewTypedTemplates[T]()
	ts.types[typ] = typed
	return typed
}

// RegisterTemplate registers t for T under name.
func RegisterTemplate[T any](ts *Templates, name string, t *KeyValueTemplate[T]) error {
	return TemplatesFor[T](ts).Register(name, t)
}

// GetTemplate returns the template for T registered under name.
func GetTemplate[T any](ts *Templates, name string) (*KeyValueTemplate[T], error) {
	return TemplatesFor[T](ts).Get(name)
}

// RemoveTemplate unregisters the template for T under name.
func RemoveTemplate[T any](ts *Templates, name string) error {
	return TemplatesFor[T](ts).Remove(name)
}

// ListTemplates lists the names registered for T.
func ListTemplates[T any](ts *Templates) []string {
	return TemplatesFor[T](ts).List()
}
