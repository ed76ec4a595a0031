/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import "context"

// KeyOperations are whole-key commands.
type KeyOperations interface {
	// Delete removes the keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)
}

// BoundHashOperations are hash commands bound to a single Redis key.
// Get reports an absent field with ok == false and a nil error.
type BoundHashOperations[K comparable, V any] interface {
	Key() string
	Get(ctx context.Context, field K) (value V, ok bool, err error)
	Set(ctx context.Context, field K, value V) error
	SetIfAbsent(ctx context.Context, field K, value V) (bool, error)
	Delete(ctx context.Context, fields ...K) (int64, error)
	HasKey(ctx context.Context, field K) (bool, error)
	Increment(ctx context.Context, field K, delta int64) (int64, error)
	Size(ctx context.Context) (int64, error)
	Keys(ctx context.Context) ([]K, error)
	Values(ctx context.Context) ([]V, error)
	PutAll(ctx context.Context, m map[K]V) error
	Operations() KeyOperations
}

// HashBinder binds hash operations to a key.
type HashBinder[K comparable, V any] interface {
	BoundHashOps(key string) BoundHashOperations[K, V]
}
