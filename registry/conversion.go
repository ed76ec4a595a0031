/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

// ConvertFunc turns an identifier returned by Redis into its string form.
type ConvertFunc func(v any) (string, error)

// ConversionService holds identifier converters keyed by source type.
type ConversionService struct {
	mu         sync.RWMutex
	converters map[reflect.Type]ConvertFunc
}

// NewConversionService returns a service with no converters.
func NewConversionService() *ConversionService {
	return &ConversionService{converters: make(map[reflect.Type]ConvertFunc)}
}

// NewDefaultConversionService returns a service that converts the shapes go-redis
// hands back from raw commands: strings, byte slices and integers.
func NewDefaultConversionService() *ConversionService {
	cs := NewConversionService()
	RegisterConverter(cs, func(s string) (string, error) { return s, nil })
	RegisterConverter(cs, func(b []byte) (string, error) { return string(b), nil })
	RegisterConverter(cs, func(i int) (string, error) { return strconv.Itoa(i), nil })
	RegisterConverter(cs, func(i int64) (string, error) { return strconv.FormatInt(i, 10), nil })
	RegisterConverter(cs, func(u uint64) (string, error) { return strconv.FormatUint(u, 10), nil })
	return cs
}

// Register adds a converter for the given source type.
// If a converter is already registered for the type, it panics to prevent accidental overrides.
func (cs *ConversionService) Register(source reflect.Type, fn ConvertFunc) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, exists := cs.converters[source]; exists {
		panic(fmt.Sprintf("conversion service: converter for %s already registered", source))
	}
	cs.converters[source] = fn
}

// RegisterConverter adds a typed converter for S.
func RegisterConverter[S any](cs *ConversionService, fn func(S) (string, error)) {
	cs.Register(typeOf[S](), func(v any) (string, error) {
		return fn(v.(S))
	})
}

// CanConvert reports whether a converter exists for the dynamic type of v.
func (cs *ConversionService) CanConvert(v any) bool {
	if v == nil {
		return false
	}
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	_, ok := cs.converters[reflect.TypeOf(v)]
	return ok
}

// Convert applies the converter registered for the dynamic type of v.
func (cs *ConversionService) Convert(v any) (string, error) {
	cs.mu.RLock()
	fn, ok := cs.converters[reflect.TypeOf(v)]
	cs.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("conversion service: no converter for %T", v)
	}
	return fn(v)
}

// ToString converts v with a registered converter, falling back to its default format.
func (cs *ConversionService) ToString(v any) (string, error) {
	if cs != nil && cs.CanConvert(v) {
		return cs.Convert(v)
	}
	return fmt.Sprint(v), nil
}
