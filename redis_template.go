/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rediskv

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"sort"

	"github.com/suparena/rediskv/datastore"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/storagemodels"
)

// Write is what Insert and Update of a RedisKeyValueTemplate accept: either a
// whole entity or a partial update. Build one with Entity or Partial.
type Write[T any] struct {
	partial *storagemodels.PartialUpdate[T]
	entity  T
	isPart  bool
}

// Entity wraps a whole entity.
func Entity[T any](v T) Write[T] {
	return Write[T]{entity: v}
}

// Partial wraps a partial update.
func Partial[T any](u *storagemodels.PartialUpdate[T]) Write[T] {
	return Write[T]{partial: u, isPart: true}
}

// IsPartial reports whether w carries a partial update.
func (w Write[T]) IsPartial() bool { return w.isPart }

// RedisKeyValueTemplate adds partial updates, id resolution from ad hoc
// queries and scoped execution to a KeyValueTemplate backed by Redis.
type RedisKeyValueTemplate[T any] struct {
	*KeyValueTemplate[T]
	adapter datastore.RedisAdapter[T]
}

// NewRedisKeyValueTemplate creates a template for T over adapter.
func NewRedisKeyValueTemplate[T any](adapter datastore.RedisAdapter[T], opts ...TemplateOption) (*RedisKeyValueTemplate[T], error) {
	if adapter == nil {
		return nil, errors.NewValidationError("adapter", "must not be nil")
	}
	base, err := NewKeyValueTemplate[T](adapter, opts...)
	if err != nil {
		return nil, err
	}
	return &RedisKeyValueTemplate[T]{KeyValueTemplate: base, adapter: adapter}, nil
}

// Insert stores w under id. A partial update is applied to the entity it
// names and id is ignored.
func (t *RedisKeyValueTemplate[T]) Insert(ctx context.Context, id string, w Write[T]) error {
	if w.isPart {
		return t.doPartialUpdate(ctx, w.partial)
	}
	return t.KeyValueTemplate.Insert(ctx, id, w.entity)
}

// Update replaces the entity carried by w, or applies its partial update.
func (t *RedisKeyValueTemplate[T]) Update(ctx context.Context, w Write[T]) error {
	if w.isPart {
		return t.doPartialUpdate(ctx, w.partial)
	}
	return t.KeyValueTemplate.Update(ctx, w.entity)
}

func (t *RedisKeyValueTemplate[T]) doPartialUpdate(ctx context.Context, update *storagemodels.PartialUpdate[T]) error {
	if update == nil {
		return errors.NewValidationError("update", "must not be nil")
	}
	_, err := t.Execute(ctx, func(ctx context.Context, adapter datastore.RedisAdapter[T]) (any, error) {
		return nil, adapter.UpdatePartial(ctx, update)
	})
	if err != nil {
		return err
	}
	t.log.Debug().Str("id", update.ID()).Int("updates", len(update.PropertyUpdates())).Msg("partial update")
	return nil
}

// Execute runs fn with an adapter bound to a dedicated connection. The
// connection is released however fn returns.
func (t *RedisKeyValueTemplate[T]) Execute(
	ctx context.Context,
	fn func(ctx context.Context, adapter datastore.RedisAdapter[T]) (any, error),
) (any, error) {
	if fn == nil {
		return nil, errors.NewValidationError("fn", "must not be nil")
	}
	var result any
	err := t.adapter.WithScope(ctx, func(scoped datastore.RedisAdapter[T]) error {
		var err error
		result, err = fn(ctx, scoped)
		return err
	})
	return result, err
}

// Find runs cb and loads the entities whose ids it returns, in order.
//
// cb may return nil, one id, a slice or array of ids, a set of ids as map keys
// or an iter.Seq[any]. Ids are turned into
// strings by the adapter's conversion service. Ids without an entity are
// skipped.
func (t *RedisKeyValueTemplate[T]) Find(ctx context.Context, cb datastore.Callback) ([]T, error) {
	if cb == nil {
		return nil, errors.NewValidationError("callback", "must not be nil")
	}

	raw, err := t.Execute(ctx, func(ctx context.Context, adapter datastore.RedisAdapter[T]) (any, error) {
		return adapter.Execute(ctx, cb)
	})
	if err != nil {
		return nil, err
	}

	ids := identifiers(raw)
	results := make([]T, 0, len(ids))
	conversion := t.adapter.ConversionService()
	for _, id := range ids {
		key, err := conversion.ToString(id)
		if err != nil {
			return nil, err
		}
		entity, err := t.FindByID(ctx, key)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, *entity)
	}

	t.log.Debug().Int("ids", len(ids)).Int("found", len(results)).Msg("find")
	return results, nil
}

// Adapter returns the adapter the template runs on.
func (t *RedisKeyValueTemplate[T]) Adapter() datastore.RedisAdapter[T] {
	return t.adapter
}

var bytesType = reflect.TypeOf([]byte(nil))

// identifiers normalizes a callback result into a list of ids. A byte slice
// is one id. Map keys are taken in sorted order.
func identifiers(raw any) []any {
	if raw == nil {
		return nil
	}
	if seq, ok := raw.(iter.Seq[any]); ok {
		if seq == nil {
			return nil
		}
		var ids []any
		for id := range seq {
			ids = append(ids, id)
		}
		return ids
	}

	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		ids := make([]any, 0, len(keys))
		for _, k := range keys {
			ids = append(ids, k.Interface())
		}
		return ids
	case reflect.Slice, reflect.Array:
		if v.Type() == bytesType {
			break
		}
		ids := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			ids = append(ids, v.Index(i).Interface())
		}
		return ids
	}
	return []any{raw}
}
