/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/suparena/rediskv/datastore"
)

// HashOperations binds hash commands with fixed field and value serializers.
type HashOperations[K comparable, V any] struct {
	client *Client
	fields Serializer[K]
	values Serializer[V]
}

// NewHashOperations creates HashOperations backed by client.
func NewHashOperations[K comparable, V any](client *Client, fields Serializer[K], values Serializer[V]) *HashOperations[K, V] {
	return &HashOperations[K, V]{client: client, fields: fields, values: values}
}

// BoundHashOps returns operations bound to key.
func (h *HashOperations[K, V]) BoundHashOps(key string) datastore.BoundHashOperations[K, V] {
	return ForHash(h.client, key, h.fields, h.values)
}

var _ datastore.HashBinder[string, string] = (*HashOperations[string, string])(nil)

// BoundHashOps runs hash commands against a single key.
type BoundHashOps[K comparable, V any] struct {
	client *Client
	key    string
	fields Serializer[K]
	values Serializer[V]
}

var _ datastore.BoundHashOperations[string, string] = (*BoundHashOps[string, string])(nil)

// ForHash binds hash operations to key.
func ForHash[K comparable, V any](client *Client, key string, fields Serializer[K], values Serializer[V]) *BoundHashOps[K, V] {
	return &BoundHashOps[K, V]{client: client, key: key, fields: fields, values: values}
}

// Key returns the bound hash key.
func (b *BoundHashOps[K, V]) Key() string { return b.key }

// Get returns the value of field. A missing field is not an error.
func (b *BoundHashOps[K, V]) Get(ctx context.Context, field K) (V, bool, error) {
	var zero V
	f, err := b.fields.Serialize(field)
	if err != nil {
		return zero, false, err
	}
	raw, err := b.client.rdb.HGet(ctx, b.key, f).Result()
	if errors.Is(err, goredis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("hget %s %s: %w", b.key, f, err)
	}
	v, err := b.values.Deserialize(raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Set writes field.
func (b *BoundHashOps[K, V]) Set(ctx context.Context, field K, value V) error {
	f, v, err := b.pair(field, value)
	if err != nil {
		return err
	}
	if err := b.client.rdb.HSet(ctx, b.key, f, v).Err(); err != nil {
		return fmt.Errorf("hset %s %s: %w", b.key, f, err)
	}
	return nil
}

// SetIfAbsent writes field only when it does not exist (HSETNX).
func (b *BoundHashOps[K, V]) SetIfAbsent(ctx context.Context, field K, value V) (bool, error) {
	f, v, err := b.pair(field, value)
	if err != nil {
		return false, err
	}
	ok, err := b.client.rdb.HSetNX(ctx, b.key, f, v).Result()
	if err != nil {
		return false, fmt.Errorf("hsetnx %s %s: %w", b.key, f, err)
	}
	return ok, nil
}

// Delete removes fields and returns how many existed.
func (b *BoundHashOps[K, V]) Delete(ctx context.Context, fields ...K) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	fs := make([]string, 0, len(fields))
	for _, field := range fields {
		f, err := b.fields.Serialize(field)
		if err != nil {
			return 0, err
		}
		fs = append(fs, f)
	}
	n, err := b.client.rdb.HDel(ctx, b.key, fs...).Result()
	if err != nil {
		return 0, fmt.Errorf("hdel %s: %w", b.key, err)
	}
	return n, nil
}

// HasKey reports whether field exists.
func (b *BoundHashOps[K, V]) HasKey(ctx context.Context, field K) (bool, error) {
	f, err := b.fields.Serialize(field)
	if err != nil {
		return false, err
	}
	ok, err := b.client.rdb.HExists(ctx, b.key, f).Result()
	if err != nil {
		return false, fmt.Errorf("hexists %s %s: %w", b.key, f, err)
	}
	return ok, nil
}

// Increment adds delta to the integer stored at field (HINCRBY).
func (b *BoundHashOps[K, V]) Increment(ctx context.Context, field K, delta int64) (int64, error) {
	f, err := b.fields.Serialize(field)
	if err != nil {
		return 0, err
	}
	n, err := b.client.rdb.HIncrBy(ctx, b.key, f, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("hincrby %s %s: %w", b.key, f, err)
	}
	return n, nil
}

// Size returns the number of fields.
func (b *BoundHashOps[K, V]) Size(ctx context.Context) (int64, error) {
	n, err := b.client.rdb.HLen(ctx, b.key).Result()
	if err != nil {
		return 0, fmt.Errorf("hlen %s: %w", b.key, err)
	}
	return n, nil
}

// Keys returns all fields.
func (b *BoundHashOps[K, V]) Keys(ctx context.Context) ([]K, error) {
	raw, err := b.client.rdb.HKeys(ctx, b.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hkeys %s: %w", b.key, err)
	}
	out := make([]K, 0, len(raw))
	for _, s := range raw {
		k, err := b.fields.Deserialize(s)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Values returns all values.
func (b *BoundHashOps[K, V]) Values(ctx context.Context) ([]V, error) {
	raw, err := b.client.rdb.HVals(ctx, b.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hvals %s: %w", b.key, err)
	}
	out := make([]V, 0, len(raw))
	for _, s := range raw {
		v, err := b.values.Deserialize(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// PutAll writes every entry of m with a single HSET.
func (b *BoundHashOps[K, V]) PutAll(ctx context.Context, m map[K]V) error {
	if len(m) == 0 {
		return nil
	}
	args := make(map[string]interface{}, len(m))
	for field, value := range m {
		f, v, err := b.pair(field, value)
		if err != nil {
			return err
		}
		args[f] = v
	}
	if err := b.client.rdb.HSet(ctx, b.key, args).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", b.key, err)
	}
	return nil
}

// Operations returns the whole-key commands of the underlying client.
func (b *BoundHashOps[K, V]) Operations() datastore.KeyOperations {
	return b.client
}

func (b *BoundHashOps[K, V]) pair(field K, value V) (string, string, error) {
	f, err := b.fields.Serialize(field)
	if err != nil {
		return "", "", err
	}
	v, err := b.values.Serialize(value)
	if err != nil {
		return "", "", err
	}
	return f, v, nil
}
