/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
	"time"

	"github.com/suparena/rediskv/errors"
)

// EntitySettings describes how values of a Go type are stored.
type EntitySettings[T any] struct {
	// Keyspace prefixes every entity key and names the set that tracks ids.
	Keyspace string
	// TimeToLive expires entities after a write. Zero keeps them forever.
	TimeToLive time.Duration
	// IDOf reads the identifier of an entity.
	IDOf func(T) string
	// SetID writes a generated identifier back. Optional.
	SetID func(*T, string)
}

// MappingContext associates Go types with their EntitySettings.
type MappingContext struct {
	mu       sync.RWMutex
	entities map[reflect.Type]any
}

// NewMappingContext returns an empty MappingContext.
func NewMappingContext() *MappingContext {
	return &MappingContext{entities: make(map[reflect.Type]any)}
}

// Default is the process-wide mapping context used by RegisterEntity and GetEntity.
var Default = NewMappingContext()

// Register associates T with settings, replacing earlier settings for T.
func Register[T any](mc *MappingContext, settings EntitySettings[T]) error {
	if settings.Keyspace == "" {
		return errors.NewValidationError("Keyspace", "must not be empty")
	}
	if settings.IDOf == nil {
		return errors.NewValidationError("IDOf", "must not be nil")
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entities[typeOf[T]()] = settings
	return nil
}

// Lookup returns the settings registered for T.
func Lookup[T any](mc *MappingContext) (EntitySettings[T], error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	t := typeOf[T]()
	s, ok := mc.entities[t]
	if !ok {
		return EntitySettings[T]{}, errors.NewNoMappingError(t.String())
	}
	return s.(EntitySettings[T]), nil
}

// Keyspaces lists the keyspaces known to the context.
func (mc *MappingContext) Keyspaces() []string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	out := make([]string, 0, len(mc.entities))
	for _, s := range mc.entities {
		if k, ok := s.(interface{ keyspace() string }); ok {
			out = append(out, k.keyspace())
		}
	}
	return out
}

func (s EntitySettings[T]) keyspace() string { return s.Keyspace }

// RegisterEntity registers T in the Default mapping context.
func RegisterEntity[T any](settings EntitySettings[T]) error {
	return Register(Default, settings)
}

// GetEntity retrieves the settings for T from the Default mapping context.
func GetEntity[T any]() (EntitySettings[T], error) {
	return Lookup[T](Default)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
