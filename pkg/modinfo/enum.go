// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// KindTheme is a mod that only changes the look of the game.
	KindTheme Kind = iota
	// KindContent is a mod made of assets only.
	KindContent
	// KindCode is a mod that ships compiled code.
	KindCode
)

const (
	// SideUniversal mods run on both client and server.
	SideUniversal Side = iota
	// SideClient mods run on the client only.
	SideClient
	// SideServer mods run on the server only.
	SideServer
)

var (
	// ErrInvalidEnumValue is the sentinel error wrapped by InvalidEnumValueError.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	kindNames = []string{"Theme", "Content", "Code"}
	sideNames = []string{"Universal", "Client", "Server"}
)

type (
	// Kind is the mod type declared by the "type" field.
	Kind int

	// Side declares where a mod runs.
	Side int

	// InvalidEnumValueError is returned when a "type" or "side" value is not
	// one of the allowed names or ordinals.
	InvalidEnumValueError struct {
		Field   string
		Value   string
		Allowed []string
	}
)

// Error implements the error interface.
func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected one of %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap returns ErrInvalidEnumValue for errors.Is() compatibility.
func (e *InvalidEnumValueError) Unwrap() error { return ErrInvalidEnumValue }

// ParseKind parses a mod type name case-insensitively.
func ParseKind(s string) (Kind, error) {
	i, err := parseEnum(FieldType, kindNames, s)
	return Kind(i), err
}

// String returns the canonical name of the Kind.
func (k Kind) String() string { return enumName(kindNames, int(k)) }

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) { return marshalEnum(FieldType, kindNames, int(k)) }

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnumJSON(FieldType, kindNames, data)
	if err != nil {
		return err
	}
	*k = Kind(i)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	i, err := unmarshalEnumYAML(FieldType, kindNames, node)
	if err != nil {
		return err
	}
	*k = Kind(i)
	return nil
}

// ParseSide parses a side name case-insensitively.
func ParseSide(s string) (Side, error) {
	i, err := parseEnum(FieldSide, sideNames, s)
	return Side(i), err
}

// String returns the canonical name of the Side.
func (s Side) String() string { return enumName(sideNames, int(s)) }

// MarshalJSON implements json.Marshaler.
func (s Side) MarshalJSON() ([]byte, error) { return marshalEnum(FieldSide, sideNames, int(s)) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *Side) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnumJSON(FieldSide, sideNames, data)
	if err != nil {
		return err
	}
	*s = Side(i)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Side) UnmarshalYAML(node *yaml.Node) error {
	i, err := unmarshalEnumYAML(FieldSide, sideNames, node)
	if err != nil {
		return err
	}
	*s = Side(i)
	return nil
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%d", i)
	}
	return names[i]
}

func parseEnum(field string, names []string, s string) (int, error) {
	for i, name := range names {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return i, nil
		}
	}
	return 0, &InvalidEnumValueError{Field: field, Value: s, Allowed: names}
}

func ordinal(field string, names []string, i int) (int, error) {
	if i < 0 || i >= len(names) {
		return 0, &InvalidEnumValueError{Field: field, Value: fmt.Sprintf("%d", i), Allowed: names}
	}
	return i, nil
}

func marshalEnum(field string, names []string, i int) ([]byte, error) {
	if _, err := ordinal(field, names, i); err != nil {
		return nil, err
	}
	return json.Marshal(names[i])
}

// unmarshalEnumJSON accepts either the name as a string or its ordinal.
func unmarshalEnumJSON(field string, names []string, data []byte) (int, error) {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return parseEnum(field, names, name)
	}

	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return 0, fmt.Errorf("%s must be a string or an integer: %w", field, err)
	}
	return ordinal(field, names, i)
}

func unmarshalEnumYAML(field string, names []string, node *yaml.Node) (int, error) {
	if node.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: %s must be a scalar", node.Line, field)
	}

	if node.ShortTag() == "!!int" {
		var i int
		if err := node.Decode(&i); err != nil {
			return 0, err
		}
		return ordinal(field, names, i)
	}
	return parseEnum(field, names, node.Value)
}
