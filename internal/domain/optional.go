package domain

import (
	"bytes"
	"encoding/json"
)

// Field is a PATCH value that distinguishes "absent", "explicit null" and
// "set". Use it with the `omitzero` JSON option.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports a non-null value was supplied.
func (f Field[T]) Present() bool { return f.Set && !f.Null }

func (f Field[T]) IsZero() bool { return !f.Set }

// Ptr returns nil for null values and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if !f.Present() {
		return nil
	}
	v := f.Value
	return &v
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
