/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/rediskv"
	"github.com/suparena/rediskv/config"
	"github.com/suparena/rediskv/datastore/redis"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/logging"
	"github.com/suparena/rediskv/registry"
)

func TestEntityCommands(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "entity", "put", "u1", `{"name":"Ada","tags":["math"]}`, "-k", "users")
	require.NoError(t, err)
	assert.Equal(t, "Ada", mr.HGet("users:u1", "name"))
	assert.Equal(t, "u1", mr.HGet("users:u1", "id"))

	out, err := run(t, mr, "-o", "json", "entity", "get", "u1", "-k", "users")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Ada", doc["name"])
	assert.Equal(t, []any{"math"}, doc["tags"])

	out, err = run(t, mr, "entity", "create", `{"name":"Grace"}`, "-k", "users")
	require.NoError(t, err)
	created := strings.TrimSpace(out)
	require.NotEmpty(t, created)
	assert.Equal(t, "Grace", mr.HGet("users:"+created, "name"))

	_, err = run(t, mr, "entity", "create", `{"id":"u1","name":"Other"}`, "-k", "users")
	assert.Error(t, err, "id already taken")

	out, err = run(t, mr, "entity", "count", "-k", "users")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, mr, "-o", "json", "entity", "list", "-k", "users")
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	assert.Len(t, docs, 2)

	_, err = run(t, mr, "entity", "del", "u1", "-k", "users")
	require.NoError(t, err)
	assert.False(t, mr.Exists("users:u1"))

	_, err = run(t, mr, "entity", "get", "u1", "-k", "users")
	assert.Error(t, err)
}

func TestEntityCommandErrors(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		args []string
	}{
		{"keyspace is required", []string{"entity", "count"}},
		{"unknown backend", []string{"entity", "count", "-k", "users", "--backend", "memcached"}},
		{"dynamodb without table", []string{"entity", "count", "-k", "users", "-b", "dynamodb"}},
		{"invalid json", []string{"entity", "put", "u1", "{", "-k", "users"}},
		{"json array", []string{"entity", "create", "[1]", "-k", "users"}},
		{"json null", []string{"entity", "create", "null", "-k", "users"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, mr, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestAppTemplateReuse(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	a := &app{
		cfg:       &config.Config{Redis: redis.Config{Addr: mr.Addr()}},
		log:       logging.Nop(),
		templates: rediskv.NewTemplates(),
	}
	t.Cleanup(a.close)

	first, err := a.template(ctx, backendRedis, "users")
	require.NoError(t, err)
	again, err := a.template(ctx, backendRedis, "users")
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = a.template(ctx, backendRedis, "orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"redis/orders", "redis/users"}, rediskv.ListTemplates[document](a.templates))

	_, err = a.template(ctx, "memcached", "users")
	assert.True(t, errors.IsValidationError(err))
}

func TestDocumentMapping(t *testing.T) {
	mc, err := documentMapping("docs")
	require.NoError(t, err)

	settings, err := registry.Lookup[document](mc)
	require.NoError(t, err)
	assert.Equal(t, "", settings.IDOf(document{}))
	assert.Equal(t, "", settings.IDOf(document{"id": nil}))
	assert.Equal(t, "7", settings.IDOf(document{"id": 7}))

	var d document
	settings.SetID(&d, "x")
	assert.Equal(t, document{"id": "x"}, d)
}
