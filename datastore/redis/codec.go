/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// typeField records the Go type an entity hash was written from. It also keeps
// the hash alive for entities whose properties are all empty.
const typeField = "_class"

// flatten encodes v into hash fields keyed by property path. Nested objects use
// "a.b", list elements use "a.[0]". Null values are dropped.
func flatten(v any) (map[string]string, error) {
	return flattenAt("", v)
}

// flattenAt encodes v below prefix.
func flattenAt(prefix string, v any) (map[string]string, error) {
	doc, err := toDocument(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	flattenValue(prefix, doc, out)
	return out, nil
}

func toDocument(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return doc, nil
}

func flattenValue(path string, v any, out map[string]string) {
	switch tv := v.(type) {
	case map[string]any:
		for k, child := range tv {
			flattenValue(join(path, k), child, out)
		}
	case []any:
		for i, child := range tv {
			flattenValue(join(path, "["+strconv.Itoa(i)+"]"), child, out)
		}
	case string:
		out[path] = tv
	case json.Number:
		out[path] = tv.String()
	case bool:
		out[path] = strconv.FormatBool(tv)
	case nil:
	}
}

func join(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}

// covers reports whether field is path itself or nested below it.
func covers(path, field string) bool {
	return field == path || strings.HasPrefix(field, path+".")
}

// unflatten rebuilds the nested document described by hash fields.
func unflatten(fields map[string]string) map[string]any {
	root := make(map[string]any)
	for path, val := range fields {
		if path == typeField {
			continue
		}
		segs := strings.Split(path, ".")
		node := root
		for i, seg := range segs {
			if i == len(segs)-1 {
				node[seg] = val
				break
			}
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
	}
	return toLists(root).(map[string]any)
}

// toLists turns maps whose keys are all list indexes into slices.
func toLists(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = toLists(child)
	}
	if len(m) == 0 {
		return m
	}

	idx := make([]int, 0, len(m))
	for k := range m {
		if len(k) < 3 || k[0] != '[' || k[len(k)-1] != ']' {
			return m
		}
		n, err := strconv.Atoi(k[1 : len(k)-1])
		if err != nil || n < 0 {
			return m
		}
		idx = append(idx, n)
	}
	sort.Ints(idx)
	list := make([]any, idx[len(idx)-1]+1)
	for _, n := range idx {
		list[n] = m["["+strconv.Itoa(n)+"]"]
	}
	return list
}

// decode fills out from hash fields. Strings are converted to the target field
// types; types implementing encoding.TextUnmarshaler parse themselves.
func decode(fields map[string]string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if err := dec.Decode(unflatten(fields)); err != nil {
		return fmt.Errorf("decode %T: %w", out, err)
	}
	return nil
}
