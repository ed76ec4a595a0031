/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/suparena/rediskv/datastore"
)

var (
	_ datastore.BoundHashOperations[string, string] = (*BoundHashOps[string, string])(nil)
	_ datastore.KeyOperations                       = (*KeyOps)(nil)
)

// BoundHashOps is a testify mock of datastore.BoundHashOperations.
type BoundHashOps[K comparable, V any] struct {
	mock.Mock
	HashKey string
	KeyOps  *KeyOps
}

func (m *BoundHashOps[K, V]) Key() string { return m.HashKey }

func (m *BoundHashOps[K, V]) Get(ctx context.Context, field K) (V, bool, error) {
	ret := m.Called(ctx, field)
	var v V
	if r := ret.Get(0); r != nil {
		v = r.(V)
	}
	return v, ret.Bool(1), ret.Error(2)
}

func (m *BoundHashOps[K, V]) Set(ctx context.Context, field K, value V) error {
	ret := m.Called(ctx, field, value)
	return ret.Error(0)
}

func (m *BoundHashOps[K, V]) SetIfAbsent(ctx context.Context, field K, value V) (bool, error) {
	ret := m.Called(ctx, field, value)
	return ret.Bool(0), ret.Error(1)
}

func (m *BoundHashOps[K, V]) Delete(ctx context.Context, fields ...K) (int64, error) {
	ret := m.Called(ctx, fields)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *BoundHashOps[K, V]) HasKey(ctx context.Context, field K) (bool, error) {
	ret := m.Called(ctx, field)
	return ret.Bool(0), ret.Error(1)
}

func (m *BoundHashOps[K, V]) Increment(ctx context.Context, field K, delta int64) (int64, error) {
	ret := m.Called(ctx, field, delta)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *BoundHashOps[K, V]) Size(ctx context.Context) (int64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *BoundHashOps[K, V]) Keys(ctx context.Context) ([]K, error) {
	ret := m.Called(ctx)
	keys, _ := ret.Get(0).([]K)
	return keys, ret.Error(1)
}

func (m *BoundHashOps[K, V]) Values(ctx context.Context) ([]V, error) {
	ret := m.Called(ctx)
	values, _ := ret.Get(0).([]V)
	return values, ret.Error(1)
}

func (m *BoundHashOps[K, V]) PutAll(ctx context.Context, entries map[K]V) error {
	ret := m.Called(ctx, entries)
	return ret.Error(0)
}

func (m *BoundHashOps[K, V]) Operations() datastore.KeyOperations {
	return m.KeyOps
}

// KeyOps is a testify mock of datastore.KeyOperations.
type KeyOps struct {
	mock.Mock
}

func (m *KeyOps) Delete(ctx context.Context, keys ...string) (int64, error) {
	ret := m.Called(ctx, keys)
	return ret.Get(0).(int64), ret.Error(1)
}
