package domain

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value that may be absent.
// The zero value is Absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Present wraps v as a set value.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Absent returns an unset value.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether the value is set.
func (o Optional[T]) IsPresent() bool { return o.present }

// IsZero reports whether the value is absent. It lets `omitzero` drop absent fields.
func (o Optional[T]) IsZero() bool { return !o.present }

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Present(v)
	return nil
}
