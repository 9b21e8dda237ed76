// Package jsonutil provides shared helpers for the JSON parsing patterns the
// state store relies on: contextual error wrapping and tolerant array loads.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// UnmarshalArrayAllowEmpty unmarshals JSON data into a slice, allowing an
// empty array. Used for legacy state files that stored a bare array.
func UnmarshalArrayAllowEmpty[T any](data []byte, context string) ([]T, error) {
	var entries []T
	if err := UnmarshalWithContext(data, &entries, context); err != nil {
		return nil, err
	}
	return entries, nil
}
