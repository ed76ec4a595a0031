/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rediskv

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suparena/rediskv/datastore"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/logging"
	"github.com/suparena/rediskv/registry"
	"github.com/suparena/rediskv/storagemodels"
)

// KeyValueTemplate runs entity persistence for T on any DataStore.
// Store failures are returned unchanged.
type KeyValueTemplate[T any] struct {
	store    datastore.DataStore[T]
	mapping  *registry.MappingContext
	settings registry.EntitySettings[T]
	log      zerolog.Logger
}

// TemplateOption configures a template.
type TemplateOption func(*templateOptions)

type templateOptions struct {
	mapping *registry.MappingContext
	log     zerolog.Logger
}

// WithMappingContext resolves entity settings from mc instead of registry.Default.
func WithMappingContext(mc *registry.MappingContext) TemplateOption {
	return func(o *templateOptions) { o.mapping = mc }
}

// WithLogger sets the logger. Templates are silent by default.
func WithLogger(log zerolog.Logger) TemplateOption {
	return func(o *templateOptions) { o.log = log }
}

func applyTemplateOptions(opts []TemplateOption) templateOptions {
	o := templateOptions{mapping: registry.Default, log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewKeyValueTemplate creates a template for T over store. T must be
// registered in the mapping context.
func NewKeyValueTemplate[T any](store datastore.DataStore[T], opts ...TemplateOption) (*KeyValueTemplate[T], error) {
	if store == nil {
		return nil, errors.NewValidationError("store", "must not be nil")
	}
	o := applyTemplateOptions(opts)

	settings, err := registry.Lookup[T](o.mapping)
	if err != nil {
		return nil, err
	}
	return &KeyValueTemplate[T]{
		store:    store,
		mapping:  o.mapping,
		settings: settings,
		log: logging.WithComponent(o.log, "template").With().
			Str("keyspace", settings.Keyspace).
			Logger(),
	}, nil
}

// Insert stores entity under id. An empty id is taken from the entity.
// Fails with errors.AlreadyExistsError when the id is taken.
func (t *KeyValueTemplate[T]) Insert(ctx context.Context, id string, entity T) error {
	if id == "" {
		id = t.settings.IDOf(entity)
	}
	if id == "" {
		return errors.NewValidationError("id", "must not be empty")
	}

	exists, err := t.store.Contains(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewAlreadyExistsError(t.settings.Keyspace, id)
	}
	if err := t.store.Put(ctx, id, entity); err != nil {
		return err
	}
	t.log.Debug().Str("id", id).Msg("entity inserted")
	return nil
}

// Create inserts entity, assigning a random UUID when it has no id yet.
// It returns the entity as stored.
func (t *KeyValueTemplate[T]) Create(ctx context.Context, entity T) (T, error) {
	id := t.settings.IDOf(entity)
	if id == "" {
		if t.settings.SetID == nil {
			return entity, errors.NewValidationError("id", "entity has no id and no SetID is registered")
		}
		id = uuid.NewString()
		t.settings.SetID(&entity, id)
	}
	if err := t.Insert(ctx, id, entity); err != nil {
		return entity, err
	}
	return entity, nil
}

// Update replaces the entity under its own id, inserting it if needed.
func (t *KeyValueTemplate[T]) Update(ctx context.Context, entity T) error {
	return t.UpdateByID(ctx, t.settings.IDOf(entity), entity)
}

// UpdateByID replaces the entity stored under id.
func (t *KeyValueTemplate[T]) UpdateByID(ctx context.Context, id string, entity T) error {
	if id == "" {
		return errors.NewValidationError("id", "must not be empty")
	}
	if err := t.store.Put(ctx, id, entity); err != nil {
		return err
	}
	t.log.Debug().Str("id", id).Msg("entity updated")
	return nil
}

// FindByID loads the entity stored under id. A missing entity is reported
// with errors.NotFoundError.
func (t *KeyValueTemplate[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return t.store.GetOne(ctx, id)
}

// FindAll loads every entity of the keyspace.
func (t *KeyValueTemplate[T]) FindAll(ctx context.Context) ([]T, error) {
	return t.store.GetAll(ctx)
}

// Stream emits every entity of the keyspace.
func (t *KeyValueTemplate[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	return t.store.Stream(ctx, opts...)
}

func (t *KeyValueTemplate[T]) Count(ctx context.Context) (int64, error) {
	return t.store.Count(ctx)
}

func (t *KeyValueTemplate[T]) Delete(ctx context.Context, id string) error {
	return t.store.Delete(ctx, id)
}

func (t *KeyValueTemplate[T]) DeleteAll(ctx context.Context) error {
	return t.store.DeleteAll(ctx)
}

// MappingContext returns the mapping context the template resolved T from.
func (t *KeyValueTemplate[T]) MappingContext() *registry.MappingContext {
	return t.mapping
}

// Settings returns the entity settings of T.
func (t *KeyValueTemplate[T]) Settings() registry.EntitySettings[T] {
	return t.settings
}
