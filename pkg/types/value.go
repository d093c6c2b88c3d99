// Package types defines the scalar value model shared by the catalog,
// the evaluation plan, and the executor.
package types

import "fmt"

// Kind tags the variant held by a Value or declared for a column.
type Kind int

const (
	IntKind Kind = iota
	TextKind
	BoolKind
)

// String renders the kind the way catalog rows and error messages expect it.
func (k Kind) String() string {
	switch k {
	case IntKind:
		return "INT"
	case TextKind:
		return "TEXT"
	case BoolKind:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// ColumnAttribute is the data-type tag recorded for a declared column.
// BOOLEAN is valid only as a projection result, never as a user-declared
// column type (see ParseColumnAttribute).
type ColumnAttribute = Kind

// ParseColumnAttribute maps a parsed type-name token to a ColumnAttribute.
// DOUBLE and anything unrecognized report ok=false so the caller can raise
// UnsupportedType without this package knowing about executor error kinds.
func ParseColumnAttribute(typeName string) (ColumnAttribute, bool) {
	switch typeName {
	case "INT":
		return IntKind, true
	case "TEXT":
		return TextKind, true
	default:
		return 0, false
	}
}

// Value is a tagged scalar: exactly one variant field is meaningful,
// selected by Kind.
type Value struct {
	Kind Kind
	I    int32
	S    string
	B    bool
}

// Int constructs an INT value.
func Int(i int32) Value { return Value{Kind: IntKind, I: i} }

// Text constructs a TEXT value.
func Text(s string) Value { return Value{Kind: TextKind, S: s} }

// Bool constructs a BOOLEAN value.
func Bool(b bool) Value { return Value{Kind: BoolKind, B: b} }

// Equal compares by tag and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case IntKind:
		return v.I == other.I
	case TextKind:
		return v.S == other.S
	case BoolKind:
		return v.B == other.B
	default:
		return false
	}
}

// String renders the value the way a printed result row would.
func (v Value) String() string {
	switch v.Kind {
	case IntKind:
		return fmt.Sprintf("%d", v.I)
	case TextKind:
		return fmt.Sprintf("%q", v.S)
	case BoolKind:
		if v.B {
			return "true"
		}
		return "false"
	default:
		return "<invalid>"
	}
}

// Row is a mapping from column name to Value. Column order is not
// intrinsic to a Row; ordering is supplied by the relation's schema.
type Row map[string]Value

// Clone returns a shallow copy safe for independent mutation.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
