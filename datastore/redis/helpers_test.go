/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/suparena/rediskv/logging"
	"github.com/suparena/rediskv/registry"
)

type address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

type person struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Age     int       `json:"age"`
	Active  bool      `json:"active"`
	Address address   `json:"address"`
	Tags    []string  `json:"tags,omitempty"`
	Born    time.Time `json:"born"`
}

// newTestClient creates a Client backed by miniredis for testing.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)

	client, err := New(Config{Addr: mini.Addr()}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func newPersonAdapter(t *testing.T, ttl time.Duration) (*KeyValueAdapter[person], *miniredis.Miniredis) {
	t.Helper()
	client, mini := newTestClient(t)

	mc := registry.NewMappingContext()
	require.NoError(t, registry.Register(mc, registry.EntitySettings[person]{
		Keyspace:   "persons",
		TimeToLive: ttl,
		IDOf:       func(p person) string { return p.ID },
	}))

	adapter, err := NewKeyValueAdapter[person](client, WithMappingContext(mc))
	require.NoError(t, err)
	return adapter, mini
}
