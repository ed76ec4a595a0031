/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serializer converts hash fields and values to and from their stored string form.
type Serializer[T any] interface {
	Serialize(v T) (string, error)
	Deserialize(s string) (T, error)
}

// StringSerializer stores strings as is.
type StringSerializer struct{}

func (StringSerializer) Serialize(v string) (string, error)   { return v, nil }
func (StringSerializer) Deserialize(s string) (string, error) { return s, nil }

// Int64Serializer stores integers in decimal, the form HINCRBY works on.
type Int64Serializer struct{}

func (Int64Serializer) Serialize(v int64) (string, error) { return strconv.FormatInt(v, 10), nil }

func (Int64Serializer) Deserialize(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("deserialize int64 %q: %w", s, err)
	}
	return n, nil
}

// JSONSerializer stores values as JSON documents.
type JSONSerializer[T any] struct{}

func (JSONSerializer[T]) Serialize(v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize %T: %w", v, err)
	}
	return string(data), nil
}

func (JSONSerializer[T]) Deserialize(s string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return v, fmt.Errorf("deserialize %T: %w", v, err)
	}
	return v, nil
}
