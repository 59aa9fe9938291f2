// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Optional holds a manifest value that may be absent. The zero value is absent.
// Present values are kept as given, including false, 0 and "".
type Optional[T any] struct {
	value T
	set   bool
}

// Make sure Optional implements the interfaces at compile time.
var (
	_ json.Marshaler   = Optional[string]{}
	_ json.Unmarshaler = (*Optional[string])(nil)
	_ yaml.Unmarshaler = (*Optional[string])(nil)
)

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool { return o.set }

// IsZero reports whether the value is absent. encoding/json consults it for
// fields tagged omitzero.
func (o Optional[T]) IsZero() bool { return !o.set }

// OrElse returns the value when present and def otherwise.
func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON implements json.Unmarshaler. JSON null decodes to absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. YAML null (~, null or an empty
// value) decodes to absent.
func (o *Optional[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*o = Optional[T]{}
		return nil
	}

	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// String returns a debug representation of the Optional.
func (o Optional[T]) String() string {
	if !o.set {
		return "<absent>"
	}
	return fmt.Sprintf("%v", o.value)
}
