/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package collections

import (
	"context"

	"github.com/suparena/rediskv/datastore"
	"github.com/suparena/rediskv/errors"
)

// RedisMap is a map view of a single Redis hash.
type RedisMap[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool, error)
	Put(ctx context.Context, key K, value V) (V, bool, error)
	PutIfAbsent(ctx context.Context, key K, value V) (bool, error)
	PutIfAbsentAtomic(ctx context.Context, key K, value V) (bool, error)
	Remove(ctx context.Context, key K) (V, bool, error)
	Increment(ctx context.Context, key K, delta int64) (int64, error)
	PutAll(ctx context.Context, m map[K]V) error
	ContainsKey(ctx context.Context, key K) (bool, error)
	ContainsValue(ctx context.Context, value V) (bool, error)
	Size(ctx context.Context) (int64, error)
	IsEmpty(ctx context.Context) (bool, error)
	Keys(ctx context.Context) ([]K, error)
	Values(ctx context.Context) ([]V, error)
	Entries(ctx context.Context) (map[K]V, error)
	Clear(ctx context.Context) error

	// Key returns the name of the backing hash.
	Key() string
	// Operations returns the handle the map delegates to.
	Operations() datastore.BoundHashOperations[K, V]
}

// DefaultRedisMap implements RedisMap on a BoundHashOperations handle. It
// keeps no state of its own.
//
// Put, PutIfAbsent and Remove read before they write, in two round trips.
// Concurrent callers on the same hash may lose updates or see a stale
// previous value. Use PutIfAbsentAtomic or Increment when that matters.
type DefaultRedisMap[K comparable, V any] struct {
	ops datastore.BoundHashOperations[K, V]
}

var _ RedisMap[string, string] = (*DefaultRedisMap[string, string])(nil)

// NewDefaultRedisMap creates a map over ops.
func NewDefaultRedisMap[K comparable, V any](ops datastore.BoundHashOperations[K, V]) *DefaultRedisMap[K, V] {
	return &DefaultRedisMap[K, V]{ops: ops}
}

// NewRedisMap creates a map over the hash stored at key.
func NewRedisMap[K comparable, V any](key string, binder datastore.HashBinder[K, V]) *DefaultRedisMap[K, V] {
	return NewDefaultRedisMap(binder.BoundHashOps(key))
}

// Get returns the value of key. ok is false when the field does not exist.
func (m *DefaultRedisMap[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	return m.ops.Get(ctx, key)
}

// Put writes value and returns the value it replaced, if any.
func (m *DefaultRedisMap[K, V]) Put(ctx context.Context, key K, value V) (V, bool, error) {
	prev, existed, err := m.ops.Get(ctx, key)
	if err != nil {
		return prev, false, err
	}
	if err := m.ops.Set(ctx, key, value); err != nil {
		var zero V
		return zero, false, err
	}
	return prev, existed, nil
}

// PutIfAbsent writes value when key does not exist and reports whether it did.
// The existence check and the write are separate commands.
func (m *DefaultRedisMap[K, V]) PutIfAbsent(ctx context.Context, key K, value V) (bool, error) {
	exists, err := m.ops.HasKey(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, _, err := m.Put(ctx, key, value); err != nil {
		return false, err
	}
	return true, nil
}

// PutIfAbsentAtomic is PutIfAbsent in a single HSETNX.
func (m *DefaultRedisMap[K, V]) PutIfAbsentAtomic(ctx context.Context, key K, value V) (bool, error) {
	return m.ops.SetIfAbsent(ctx, key, value)
}

// Remove deletes key and returns the value it held, if any.
func (m *DefaultRedisMap[K, V]) Remove(ctx context.Context, key K) (V, bool, error) {
	prev, existed, err := m.ops.Get(ctx, key)
	if err != nil {
		return prev, false, err
	}
	if _, err := m.ops.Delete(ctx, key); err != nil {
		var zero V
		return zero, false, err
	}
	return prev, existed, nil
}

// Increment atomically adds delta to the integer stored at key.
func (m *DefaultRedisMap[K, V]) Increment(ctx context.Context, key K, delta int64) (int64, error) {
	return m.ops.Increment(ctx, key, delta)
}

// PutAll writes all entries of src.
func (m *DefaultRedisMap[K, V]) PutAll(ctx context.Context, src map[K]V) error {
	if len(src) == 0 {
		return nil
	}
	return m.ops.PutAll(ctx, src)
}

func (m *DefaultRedisMap[K, V]) ContainsKey(ctx context.Context, key K) (bool, error) {
	return m.ops.HasKey(ctx, key)
}

// ContainsValue is not supported: Redis cannot look a hash up by value.
func (m *DefaultRedisMap[K, V]) ContainsValue(context.Context, V) (bool, error) {
	return false, errors.NewUnsupportedOperationError("ContainsValue", "hashes cannot be searched by value")
}

func (m *DefaultRedisMap[K, V]) Size(ctx context.Context) (int64, error) {
	return m.ops.Size(ctx)
}

func (m *DefaultRedisMap[K, V]) IsEmpty(ctx context.Context) (bool, error) {
	n, err := m.ops.Size(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (m *DefaultRedisMap[K, V]) Keys(ctx context.Context) ([]K, error) {
	return m.ops.Keys(ctx)
}

func (m *DefaultRedisMap[K, V]) Values(ctx context.Context) ([]V, error) {
	return m.ops.Values(ctx)
}

// Entries is not supported.
func (m *DefaultRedisMap[K, V]) Entries(context.Context) (map[K]V, error) {
	return nil, errors.NewUnsupportedOperationError("Entries", "")
}

// Clear deletes the whole hash.
func (m *DefaultRedisMap[K, V]) Clear(ctx context.Context) error {
	_, err := m.ops.Operations().Delete(ctx, m.ops.Key())
	return err
}

func (m *DefaultRedisMap[K, V]) Key() string { return m.ops.Key() }

func (m *DefaultRedisMap[K, V]) Operations() datastore.BoundHashOperations[K, V] { return m.ops }
