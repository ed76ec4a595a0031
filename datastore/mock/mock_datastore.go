/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides mock implementations of the datastore interfaces for testing
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/rediskv/datastore"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/registry"
	"github.com/suparena/rediskv/storagemodels"
)

// DataStore is a mock implementation of datastore.RedisAdapter[T] for testing.
// Entities are kept in insertion order.
type DataStore[T any] struct {
	mu          sync.RWMutex
	data        map[string]T
	order       []string
	partials    []*storagemodels.PartialUpdate[T]
	executeFunc datastore.Callback
	conversion  *registry.ConversionService
	scopes      int
	putCalls    int
	getCalls    int
	execCalls   int
	putError    error
	getError    error
	deleteError error
	updateError error
}

var _ datastore.RedisAdapter[struct{}] = (*DataStore[struct{}])(nil)

// New creates a new mock DataStore
func New[T any]() *DataStore[T] {
	return &DataStore[T]{
		data:       make(map[string]T),
		conversion: registry.NewDefaultConversionService(),
	}
}

// WithExecuteFunc sets the function Execute delegates to. The Cmdable passed to it is nil.
func (m *DataStore[T]) WithExecuteFunc(f datastore.Callback) *DataStore[T] {
	m.executeFunc = f
	return m
}

// WithConversionService replaces the default conversion service
func (m *DataStore[T]) WithConversionService(cs *registry.ConversionService) *DataStore[T] {
	m.conversion = cs
	return m
}

// WithPutError makes Put operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithGetError makes GetOne return an error for every key
func (m *DataStore[T]) WithGetError(err error) *DataStore[T] {
	m.getError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// WithUpdateError makes UpdatePartial return an error
func (m *DataStore[T]) WithUpdateError(err error) *DataStore[T] {
	m.updateError = err
	return m
}

// GetOne retrieves an entity by id
func (m *DataStore[T]) GetOne(_ context.Context, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.getError != nil {
		return nil, m.getError
	}

	if entity, exists := m.data[id]; exists {
		return &entity, nil
	}

	var zero T
	return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), id)
}

// Put stores an entity under id
func (m *DataStore[T]) Put(_ context.Context, id string, entity T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++
	if m.putError != nil {
		return m.putError
	}
	if id == "" {
		return errors.NewValidationError("id", "must not be empty")
	}

	if _, exists := m.data[id]; !exists {
		m.order = append(m.order, id)
	}
	m.data[id] = entity
	return nil
}

// Delete removes an entity by id
func (m *DataStore[T]) Delete(_ context.Context, id string) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[id]; !exists {
		var zero T
		return errors.NewNotFoundError(fmt.Sprintf("%T", zero), id)
	}

	delete(m.data, id)
	for i, k := range m.order {
		if k == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Contains reports whether an entity is stored under id
func (m *DataStore[T]) Contains(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[id]
	return ok, nil
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.data)), nil
}

// GetAll returns every entity in insertion order
func (m *DataStore[T]) GetAll(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]T, 0, len(m.order))
	for _, id := range m.order {
		results = append(results, m.data[id])
	}
	return results, nil
}

// DeleteAll removes every entity
func (m *DataStore[T]) DeleteAll(_ context.Context) error {
	m.Clear()
	return nil
}

// Stream returns a channel of results in insertion order
func (m *DataStore[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.ApplyStreamOptions(opts...)
	resultChan := make(chan storagemodels.StreamResult[T], options.BufferSize)

	go func() {
		defer close(resultChan)

		m.mu.RLock()
		ids := append([]string(nil), m.order...)
		items := make([]T, len(ids))
		for i, id := range ids {
			items[i] = m.data[id]
		}
		m.mu.RUnlock()

		for i, v := range items {
			select {
			case <-ctx.Done():
				return
			case resultChan <- storagemodels.StreamResult[T]{
				Item: v,
				ID:   ids[i],
				Meta: storagemodels.StreamMeta{
					Index:      int64(i),
					PageNumber: 1,
				},
			}:
			}
		}
	}()

	return resultChan
}

// Execute runs the configured execute function, or cb itself, with a nil Cmdable
func (m *DataStore[T]) Execute(ctx context.Context, cb datastore.Callback) (any, error) {
	m.mu.Lock()
	m.execCalls++
	m.mu.Unlock()

	if m.executeFunc != nil {
		return m.executeFunc(ctx, nil)
	}
	return cb(ctx, nil)
}

// UpdatePartial records the update; stored entities are left untouched
func (m *DataStore[T]) UpdatePartial(_ context.Context, update *storagemodels.PartialUpdate[T]) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partials = append(m.partials, update)
	return nil
}

// ConversionService returns the configured conversion service
func (m *DataStore[T]) ConversionService() *registry.ConversionService {
	return m.conversion
}

// WithScope counts the scope and runs fn against the mock itself
func (m *DataStore[T]) WithScope(_ context.Context, fn func(datastore.RedisAdapter[T]) error) error {
	m.mu.Lock()
	m.scopes++
	m.mu.Unlock()
	return fn(m)
}

// Helper methods for testing

// SetData directly sets the internal data map (for testing). Iteration order follows the map.
func (m *DataStore[T]) SetData(data map[string]T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T, len(data))
	m.order = m.order[:0]
	for k, v := range data {
		m.data[k] = v
		m.order = append(m.order, k)
	}
}

// GetData returns a copy of the internal data map (for testing)
func (m *DataStore[T]) GetData() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]T, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// PartialUpdates returns the partial updates received so far
func (m *DataStore[T]) PartialUpdates() []*storagemodels.PartialUpdate[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*storagemodels.PartialUpdate[T](nil), m.partials...)
}

// PutCalls returns how many times Put was invoked
func (m *DataStore[T]) PutCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.putCalls
}

// GetCalls returns how many times GetOne was invoked
func (m *DataStore[T]) GetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCalls
}

// ExecuteCalls returns how many times Execute was invoked
func (m *DataStore[T]) ExecuteCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.execCalls
}

// Scopes returns how many times WithScope was entered
func (m *DataStore[T]) Scopes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scopes
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T)
	m.order = nil
}
