/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/suparena/rediskv/registry"
	"github.com/suparena/rediskv/storagemodels"
)

// DataStore is the generic key-value adapter a KeyValueTemplate runs on.
// GetOne reports a missing entity with errors.NotFoundError.
type DataStore[T any] interface {
	GetOne(ctx context.Context, id string) (*T, error)

	Put(ctx context.Context, id string, entity T) error

	Delete(ctx context.Context, id string) error

	Contains(ctx context.Context, id string) (bool, error)

	Count(ctx context.Context) (int64, error)

	GetAll(ctx context.Context) ([]T, error)

	DeleteAll(ctx context.Context) error

	Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T]
}

// Callback runs ad hoc commands against Redis. The result is nil, a single
// identifier, or a slice of identifiers when used with RedisKeyValueTemplate.Find.
type Callback func(ctx context.Context, cmd goredis.Cmdable) (any, error)

// RedisAdapter adds the Redis specific capabilities to DataStore.
type RedisAdapter[T any] interface {
	DataStore[T]

	// Execute runs cb against the adapter's connection.
	Execute(ctx context.Context, cb Callback) (any, error)

	// UpdatePartial applies only the properties carried by update.
	UpdatePartial(ctx context.Context, update *storagemodels.PartialUpdate[T]) error

	// ConversionService converts identifiers returned by callbacks.
	ConversionService() *registry.ConversionService

	// WithScope runs fn with an adapter bound to a dedicated connection that is
	// released when fn returns, whatever the outcome.
	WithScope(ctx context.Context, fn func(RedisAdapter[T]) error) error
}
