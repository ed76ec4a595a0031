/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	p := person{
		ID:      "1",
		Name:    "Ada",
		Age:     36,
		Active:  true,
		Address: address{City: "London"},
		Tags:    []string{"math", "poetry"},
		Born:    time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC),
	}

	fields, err := flatten(p)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"id":             "1",
		"name":           "Ada",
		"age":            "36",
		"active":         "true",
		"address.street": "",
		"address.city":   "London",
		"tags.[0]":       "math",
		"tags.[1]":       "poetry",
		"born":           "1815-12-10T00:00:00Z",
	}, fields)
}

func TestFlattenAt(t *testing.T) {
	fields, err := flattenAt("address", address{Street: "Baker St", City: "London"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"address.street": "Baker St",
		"address.city":   "London",
	}, fields)

	fields, err = flattenAt("age", 7)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"age": "7"}, fields)

	fields, err = flattenAt("x", nil)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestDecode_RoundTrip(t *testing.T) {
	in := person{
		ID:      "7",
		Name:    "Grace",
		Age:     85,
		Address: address{Street: "Main", City: "Arlington"},
		Tags:    []string{"navy", "cobol", "compilers"},
		Born:    time.Date(1906, 12, 9, 8, 30, 0, 0, time.UTC),
	}
	fields, err := flatten(in)
	require.NoError(t, err)
	fields[typeField] = "redis.person"

	var out person
	require.NoError(t, decode(fields, &out))
	assert.Equal(t, in, out)
}

func TestDecode_Invalid(t *testing.T) {
	var out person
	err := decode(map[string]string{"age": "old"}, &out)
	assert.Error(t, err)
}

func TestUnflatten_SparseList(t *testing.T) {
	doc := unflatten(map[string]string{
		"tags.[2]": "c",
		"tags.[0]": "a",
		typeField:  "x",
	})
	assert.Equal(t, map[string]any{"tags": []any{"a", nil, "c"}}, doc)
}

func TestUnflatten_MixedKeysStayMap(t *testing.T) {
	doc := unflatten(map[string]string{
		"m.[0]": "a",
		"m.k":   "b",
	})
	assert.Equal(t, map[string]any{"m": map[string]any{"[0]": "a", "k": "b"}}, doc)
}

func TestCovers(t *testing.T) {
	assert.True(t, covers("address", "address"))
	assert.True(t, covers("address", "address.city"))
	assert.False(t, covers("address", "addresses"))
	assert.False(t, covers("address.city", "address"))
}
