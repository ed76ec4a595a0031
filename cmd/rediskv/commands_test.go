/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against the miniredis server and returns
// everything written to stdout.
func run(t *testing.T, mr *miniredis.Miniredis, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--addr", mr.Addr()}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	mr := miniredis.RunT(t)

	out, err := run(t, mr, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rediskv version")

	out, err = run(t, mr, "-o", "json", "version")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["goVersion"])
}

func TestUnknownOutputFormat(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "-o", "xml", "version")
	assert.Error(t, err)
}

func TestHashCommands(t *testing.T) {
	mr := miniredis.RunT(t)

	out, err := run(t, mr, "hash", "put", "h", "a", "1")
	require.NoError(t, err)
	assert.Empty(t, out, "no previous value")

	out, err = run(t, mr, "hash", "put", "h", "a", "2")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = run(t, mr, "hash", "get", "h", "a")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, err = run(t, mr, "hash", "get", "h", "missing")
	assert.Error(t, err)

	out, err = run(t, mr, "hash", "putnx", "h", "a", "3")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
	assert.Equal(t, "2", mr.HGet("h", "a"))

	out, err = run(t, mr, "hash", "putnx", "h", "b", "10")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, mr, "hash", "incr", "h", "b")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)

	out, err = run(t, mr, "hash", "incr", "h", "b", "-5")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)

	_, err = run(t, mr, "hash", "incr", "h", "b", "x")
	assert.Error(t, err)

	out, err = run(t, mr, "hash", "size", "h")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, mr, "hash", "keys", "h")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, strings.Fields(out))

	out, err = run(t, mr, "-o", "json", "hash", "values", "h")
	require.NoError(t, err)
	var values []string
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.ElementsMatch(t, []string{"2", "6"}, values)

	out, err = run(t, mr, "hash", "del", "h", "a")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, mr, "hash", "del", "h", "a")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, mr, "hash", "clear", "h")
	require.NoError(t, err)
	assert.False(t, mr.Exists("h"))
}

func TestHashCommandArgs(t *testing.T) {
	mr := miniredis.RunT(t)

	_, err := run(t, mr, "hash", "get", "h")
	assert.Error(t, err)

	_, err = run(t, mr, "hash", "put", "h", "a")
	assert.Error(t, err)
}

func TestIDsCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.HSet("docs:1", "id", "1", "name", "first", "tags.[0]", "x")
	mr.HSet("docs:2", "id", "2", "name", "second")
	_, err := mr.SetAdd("picked", "1", "2", "ghost")
	require.NoError(t, err)
	_, err = mr.Push("queue", "2", "1")
	require.NoError(t, err)
	require.NoError(t, mr.Set("single", "1"))

	decode := func(t *testing.T, out string) []map[string]any {
		t.Helper()
		var docs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &docs))
		return docs
	}

	t.Run("set skips missing entities", func(t *testing.T) {
		out, err := run(t, mr, "-o", "json", "ids", "picked", "--keyspace", "docs")
		require.NoError(t, err)
		docs := decode(t, out)
		require.Len(t, docs, 2)
		names := []any{docs[0]["name"], docs[1]["name"]}
		assert.ElementsMatch(t, []any{"first", "second"}, names)
	})

	t.Run("list keeps order", func(t *testing.T) {
		out, err := run(t, mr, "-o", "json", "ids", "queue", "-k", "docs")
		require.NoError(t, err)
		docs := decode(t, out)
		require.Len(t, docs, 2)
		assert.Equal(t, "second", docs[0]["name"])
		assert.Equal(t, "first", docs[1]["name"])
		assert.Equal(t, []any{"x"}, docs[1]["tags"])
	})

	t.Run("string holds one id", func(t *testing.T) {
		out, err := run(t, mr, "-o", "json", "ids", "single", "-k", "docs")
		require.NoError(t, err)
		docs := decode(t, out)
		require.Len(t, docs, 1)
		assert.Equal(t, "1", docs[0]["id"])
	})

	t.Run("missing key", func(t *testing.T) {
		out, err := run(t, mr, "-o", "json", "ids", "nothing", "-k", "docs")
		require.NoError(t, err)
		assert.Empty(t, decode(t, out))
	})

	t.Run("unsupported key type", func(t *testing.T) {
		_, err := run(t, mr, "ids", "docs:1", "-k", "docs")
		assert.Error(t, err)
	})

	t.Run("keyspace is required", func(t *testing.T) {
		_, err := run(t, mr, "ids", "picked")
		assert.Error(t, err)
	})
}
