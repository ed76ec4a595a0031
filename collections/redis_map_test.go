/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package collections

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dsmock "github.com/suparena/rediskv/datastore/mock"
	"github.com/suparena/rediskv/datastore/redis"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/logging"
)

func newTestMap(t *testing.T, key string) (*DefaultRedisMap[string, string], *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := redis.New(redis.Config{Addr: mini.Addr()}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	hashes := redis.NewHashOperations[string, string](client, redis.StringSerializer{}, redis.StringSerializer{})
	return NewRedisMap(key, hashes), mini
}

func TestRedisMap_AbsentKey(t *testing.T) {
	m, _ := newTestMap(t, "h")
	ctx := context.Background()

	v, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	has, err := m.ContainsKey(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, has)

	prev, existed, err := m.Remove(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Empty(t, prev)
}

func TestRedisMap_PutGet(t *testing.T) {
	m, mini := newTestMap(t, "h")
	ctx := context.Background()

	prev, existed, err := m.Put(ctx, "k", "v1")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Empty(t, prev)

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	prev, existed, err = m.Put(ctx, "k", "v2")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "v1", prev)
	assert.Equal(t, "v2", mini.HGet("h", "k"))

	prev, existed, err = m.Remove(ctx, "k")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "v2", prev)
	assert.False(t, mini.Exists("h"))
}

func TestRedisMap_PutIfAbsent(t *testing.T) {
	for name, putIfAbsent := range map[string]func(*DefaultRedisMap[string, string], context.Context, string, string) (bool, error){
		"check then put": (*DefaultRedisMap[string, string]).PutIfAbsent,
		"atomic":         (*DefaultRedisMap[string, string]).PutIfAbsentAtomic,
	} {
		t.Run(name, func(t *testing.T) {
			m, _ := newTestMap(t, "h")
			ctx := context.Background()

			inserted, err := putIfAbsent(m, ctx, "k", "first")
			require.NoError(t, err)
			assert.True(t, inserted)

			inserted, err = putIfAbsent(m, ctx, "k", "second")
			require.NoError(t, err)
			assert.False(t, inserted)

			v, _, err := m.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "first", v)
		})
	}
}

func TestRedisMap_SizeKeysValuesClear(t *testing.T) {
	m, mini := newTestMap(t, "h")
	ctx := context.Background()

	empty, err := m.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, m.PutAll(ctx, map[string]string{}))
	require.NoError(t, m.PutAll(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}))

	size, err := m.Size(ctx)
	require.NoError(t, err)
	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(keys)), size)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, keys)

	values, err := m.Values(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, values)

	n, err := m.Increment(ctx, "a", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	require.NoError(t, m.Clear(ctx))
	assert.False(t, mini.Exists("h"))

	size, err = m.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)

	keys, err = m.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisMap_Unsupported(t *testing.T) {
	m, _ := newTestMap(t, "h")
	ctx := context.Background()

	check := func() {
		_, err := m.ContainsValue(ctx, "1")
		assert.True(t, errors.IsUnsupportedOperation(err))

		_, err = m.Entries(ctx)
		assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
	}

	check()
	_, _, err := m.Put(ctx, "a", "1")
	require.NoError(t, err)
	check()
}

func TestRedisMap_Accessors(t *testing.T) {
	ops := &dsmock.BoundHashOps[string, int64]{HashKey: "counters"}
	m := NewDefaultRedisMap[string, int64](ops)

	assert.Equal(t, "counters", m.Key())
	assert.Same(t, ops, m.Operations())
}

func TestRedisMap_PropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := fmt.Errorf("connection reset")

	t.Run("put stops when the read fails", func(t *testing.T) {
		ops := &dsmock.BoundHashOps[string, int64]{HashKey: "h"}
		ops.On("Get", ctx, "k").Return(nil, false, boom)

		_, _, err := NewDefaultRedisMap[string, int64](ops).Put(ctx, "k", 1)
		assert.ErrorIs(t, err, boom)
		ops.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("put reads before it writes", func(t *testing.T) {
		ops := &dsmock.BoundHashOps[string, int64]{HashKey: "h"}
		ops.On("Get", ctx, "k").Return(int64(3), true, nil).Once()
		ops.On("Set", ctx, "k", int64(4)).Return(nil).Once()

		prev, existed, err := NewDefaultRedisMap[string, int64](ops).Put(ctx, "k", 4)
		require.NoError(t, err)
		assert.True(t, existed)
		assert.Equal(t, int64(3), prev)
		ops.AssertExpectations(t)
	})

	t.Run("put if absent skips present key", func(t *testing.T) {
		ops := &dsmock.BoundHashOps[string, int64]{HashKey: "h"}
		ops.On("HasKey", ctx, "k").Return(true, nil).Once()

		inserted, err := NewDefaultRedisMap[string, int64](ops).PutIfAbsent(ctx, "k", 1)
		require.NoError(t, err)
		assert.False(t, inserted)
		ops.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		ops.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("remove surfaces delete failure", func(t *testing.T) {
		ops := &dsmock.BoundHashOps[string, int64]{HashKey: "h"}
		ops.On("Get", ctx, "k").Return(int64(1), true, nil)
		ops.On("Delete", ctx, []string{"k"}).Return(int64(0), boom)

		_, existed, err := NewDefaultRedisMap[string, int64](ops).Remove(ctx, "k")
		assert.ErrorIs(t, err, boom)
		assert.False(t, existed)
	})

	t.Run("clear deletes the hash key", func(t *testing.T) {
		keyOps := &dsmock.KeyOps{}
		keyOps.On("Delete", ctx, []string{"h"}).Return(int64(1), nil).Once()
		ops := &dsmock.BoundHashOps[string, int64]{HashKey: "h", KeyOps: keyOps}

		require.NoError(t, NewDefaultRedisMap[string, int64](ops).Clear(ctx))
		keyOps.AssertExpectations(t)
	})

	t.Run("is empty surfaces size failure", func(t *testing.T) {
		ops := &dsmock.BoundHashOps[string, int64]{HashKey: "h"}
		ops.On("Size", ctx).Return(int64(0), boom)

		_, err := NewDefaultRedisMap[string, int64](ops).IsEmpty(ctx)
		assert.ErrorIs(t, err, boom)
	})
}
