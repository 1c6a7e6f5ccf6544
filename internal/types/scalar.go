package types

// ScalarKind enumerates the concrete scalar element types.
type ScalarKind uint8

// Supported scalar kinds.
const (
	Bool ScalarKind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	String
	Bytes
)

// Size returns the byte size of one element, or 0 for variable-width
// kinds (string, bytes).
func (k ScalarKind) Size() int {
	switch k {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// String returns the canonical spelling used by the type language.
func (k ScalarKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// IsSigned reports whether the kind is a signed integer.
func (k ScalarKind) IsSigned() bool {
	return k >= Int8 && k <= Int64
}

// IsUnsigned reports whether the kind is an unsigned integer.
func (k ScalarKind) IsUnsigned() bool {
	return k >= Uint8 && k <= Uint64
}

// IsInteger reports whether the kind is any integer.
func (k ScalarKind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// IsFloat reports whether the kind is a floating-point type.
func (k ScalarKind) IsFloat() bool {
	return k == Float16 || k == Float32 || k == Float64
}

// IsNumeric reports whether the kind supports arithmetic.
func (k ScalarKind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

var scalarNames = map[string]ScalarKind{
	"bool":    Bool,
	"int8":    Int8,
	"int16":   Int16,
	"int32":   Int32,
	"int64":   Int64,
	"uint8":   Uint8,
	"uint16":  Uint16,
	"uint32":  Uint32,
	"uint64":  Uint64,
	"float16": Float16,
	"float32": Float32,
	"float64": Float64,
	"string":  String,
	"bytes":   Bytes,
}
