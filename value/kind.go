package value

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned by ParseKind for names that do not denote a Kind.
var ErrUnknownKind = errors.New("unknown value kind")

// Kind is the tag of a Value variant.
type Kind uint8

// Value kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindTable
)

//nolint:gochecknoglobals // lookup table.
var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int64",
	KindFloat:   "float64",
	KindString:  "string",
	KindArray:   "array",
	KindTable:   "table",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a kind name to its Kind. Besides the canonical names returned by
// Kind.String it accepts a few common aliases ("int", "integer", "float", "double", "boolean").
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "int64", "integer":
		return KindInt, nil
	case "float", "float64", "double":
		return KindFloat, nil
	case "string":
		return KindString, nil
	case "array":
		return KindArray, nil
	case "table":
		return KindTable, nil
	default:
		return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}
