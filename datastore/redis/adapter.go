/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	"fmt"
	"reflect"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/suparena/rediskv/datastore"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/registry"
)

// KeyValueAdapter implements datastore.RedisAdapter[T] on top of Redis hashes.
//
// An entity with id "42" in keyspace "persons" is stored in the hash
// "persons:42" and its id is a member of the set "persons".
type KeyValueAdapter[T any] struct {
	client     *Client
	cmd        goredis.Cmdable
	settings   registry.EntitySettings[T]
	conversion *registry.ConversionService
	typeName   string
	log        zerolog.Logger
}

var _ datastore.RedisAdapter[struct{}] = (*KeyValueAdapter[struct{}])(nil)

// AdapterOption configures a KeyValueAdapter.
type AdapterOption func(*adapterOptions)

type adapterOptions struct {
	mapping    *registry.MappingContext
	conversion *registry.ConversionService
}

// WithMappingContext looks entity settings up in mc instead of registry.Default.
func WithMappingContext(mc *registry.MappingContext) AdapterOption {
	return func(o *adapterOptions) { o.mapping = mc }
}

// WithConversionService replaces the default identifier conversion service.
func WithConversionService(cs *registry.ConversionService) AdapterOption {
	return func(o *adapterOptions) { o.conversion = cs }
}

// NewKeyValueAdapter creates an adapter for T. T must be registered in the mapping context.
func NewKeyValueAdapter[T any](client *Client, opts ...AdapterOption) (*KeyValueAdapter[T], error) {
	o := adapterOptions{
		mapping:    registry.Default,
		conversion: registry.NewDefaultConversionService(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	settings, err := registry.Lookup[T](o.mapping)
	if err != nil {
		return nil, err
	}

	typeName := reflect.TypeOf((*T)(nil)).Elem().String()
	return &KeyValueAdapter[T]{
		client:     client,
		cmd:        client.rdb,
		settings:   settings,
		conversion: o.conversion,
		typeName:   typeName,
		log: client.log.With().
			Str("keyspace", settings.Keyspace).
			Logger(),
	}, nil
}

// Keyspace returns the keyspace entities are stored in.
func (a *KeyValueAdapter[T]) Keyspace() string { return a.settings.Keyspace }

func (a *KeyValueAdapter[T]) entityKey(id string) string {
	return a.settings.Keyspace + ":" + id
}

// GetOne loads the entity stored under id.
func (a *KeyValueAdapter[T]) GetOne(ctx context.Context, id string) (*T, error) {
	fields, err := a.cmd.HGetAll(ctx, a.entityKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", a.entityKey(id), err)
	}
	if len(fields) == 0 {
		return nil, errors.NewNotFoundError(a.typeName, id)
	}

	result := new(T)
	if err := decode(fields, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Put replaces the entity stored under id.
func (a *KeyValueAdapter[T]) Put(ctx context.Context, id string, entity T) error {
	if id == "" {
		return errors.NewValidationError("id", "must not be empty")
	}
	fields, err := flatten(entity)
	if err != nil {
		return err
	}
	fields[typeField] = a.typeName

	key := a.entityKey(id)
	_, err = a.cmd.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if a.settings.TimeToLive > 0 {
			pipe.Expire(ctx, key, a.settings.TimeToLive)
		}
		pipe.SAdd(ctx, a.settings.Keyspace, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	a.log.Debug().Str("id", id).Int("fields", len(fields)).Msg("entity stored")
	return nil
}

// Delete removes the entity stored under id.
func (a *KeyValueAdapter[T]) Delete(ctx context.Context, id string) error {
	key := a.entityKey(id)
	var del, srem *goredis.IntCmd
	_, err := a.cmd.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, key)
		srem = pipe.SRem(ctx, a.settings.Keyspace, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if del.Val() == 0 && srem.Val() == 0 {
		return errors.NewNotFoundError(a.typeName, id)
	}
	return nil
}

// Contains reports whether id is a member of the keyspace.
func (a *KeyValueAdapter[T]) Contains(ctx context.Context, id string) (bool, error) {
	ok, err := a.cmd.SIsMember(ctx, a.settings.Keyspace, id).Result()
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", a.settings.Keyspace, err)
	}
	return ok, nil
}

// Count returns the number of ids in the keyspace.
func (a *KeyValueAdapter[T]) Count(ctx context.Context) (int64, error) {
	n, err := a.cmd.SCard(ctx, a.settings.Keyspace).Result()
	if err != nil {
		return 0, fmt.Errorf("scard %s: %w", a.settings.Keyspace, err)
	}
	return n, nil
}

// GetAll loads every entity of the keyspace. Ids whose hash has expired are skipped.
func (a *KeyValueAdapter[T]) GetAll(ctx context.Context) ([]T, error) {
	ids, err := a.cmd.SMembers(ctx, a.settings.Keyspace).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", a.settings.Keyspace, err)
	}

	results := make([]T, 0, len(ids))
	for _, id := range ids {
		entity, err := a.GetOne(ctx, id)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, *entity)
	}
	return results, nil
}

// DeleteAll removes every entity of the keyspace and the keyspace set itself.
func (a *KeyValueAdapter[T]) DeleteAll(ctx context.Context) error {
	ids, err := a.cmd.SMembers(ctx, a.settings.Keyspace).Result()
	if err != nil {
		return fmt.Errorf("smembers %s: %w", a.settings.Keyspace, err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, a.entityKey(id))
	}
	keys = append(keys, a.settings.Keyspace)

	if err := a.cmd.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete keyspace %s: %w", a.settings.Keyspace, err)
	}
	a.log.Debug().Int("entities", len(ids)).Msg("keyspace cleared")
	return nil
}

// Execute runs cb against the adapter's connection.
func (a *KeyValueAdapter[T]) Execute(ctx context.Context, cb datastore.Callback) (any, error) {
	if cb == nil {
		return nil, errors.NewValidationError("callback", "must not be nil")
	}
	return cb(ctx, a.cmd)
}

// ConversionService returns the identifier conversion service.
func (a *KeyValueAdapter[T]) ConversionService() *registry.ConversionService {
	return a.conversion
}

// WithScope runs fn with an adapter bound to a dedicated pooled connection.
// The connection goes back to the pool when fn returns or panics.
func (a *KeyValueAdapter[T]) WithScope(ctx context.Context, fn func(datastore.RedisAdapter[T]) error) error {
	conn := a.client.rdb.Conn()
	defer func() {
		if err := conn.Close(); err != nil {
			a.log.Warn().Err(err).Msg("release scoped connection")
		}
	}()

	scoped := *a
	scoped.cmd = conn
	return fn(&scoped)
}
