// Package types implements the type-description language for typed
// memory containers: fixed and ragged dimensions, records, categorical
// and option types, plus abstract templates with symbolic dimensions
// and type variables.
package types

import (
	"strconv"
	"strings"
)

// Kind discriminates the structural variants of a type descriptor.
type Kind uint8

// Type descriptor kinds.
const (
	FixedDim    Kind = iota // fixed-length dimension, e.g. "3 * int64"
	VarDim                  // ragged dimension, e.g. "var * int64"
	SymbolicDim             // abstract dimension, e.g. "N * int64"
	Record                  // ordered field set, e.g. "{a : string}"
	Categorical             // label enumeration, e.g. "categorical('a', NA)"
	Option                  // missing-value wrapper, e.g. "?int64"
	Scalar                  // concrete scalar, e.g. "float64"
	TypeVar                 // abstract dtype variable, e.g. "T"
)

// Field is a named member of a record type.
type Field struct {
	Name string
	Type *Type
}

// Level is one entry of a categorical level set. NA marks the
// missing-value level; its Label is empty.
type Level struct {
	Label string
	NA    bool
}

// Type is an immutable type descriptor. Instances are created by Parse
// or by the New* constructors and must not be mutated afterwards.
type Type struct {
	kind   Kind
	size   int     // FixedDim length
	name   string  // SymbolicDim / TypeVar name
	elem   *Type   // element type of dims and Option
	fields []Field // Record
	levels []Level // Categorical
	scalar ScalarKind
}

// NewFixedDim returns a fixed dimension of length n over elem.
func NewFixedDim(n int, elem *Type) *Type {
	return &Type{kind: FixedDim, size: n, elem: elem}
}

// NewVarDim returns a ragged dimension over elem.
func NewVarDim(elem *Type) *Type {
	return &Type{kind: VarDim, elem: elem}
}

// NewSymbolicDim returns an abstract dimension named name over elem.
func NewSymbolicDim(name string, elem *Type) *Type {
	return &Type{kind: SymbolicDim, name: name, elem: elem}
}

// NewOption wraps elem so that values may be missing.
func NewOption(elem *Type) *Type {
	if elem.kind == Option {
		return elem
	}
	return &Type{kind: Option, elem: elem}
}

// NewRecord returns a record over the given ordered fields.
func NewRecord(fields []Field) *Type {
	return &Type{kind: Record, fields: append([]Field(nil), fields...)}
}

// NewCategorical returns a categorical type over the given ordered levels.
func NewCategorical(levels []Level) *Type {
	return &Type{kind: Categorical, levels: append([]Level(nil), levels...)}
}

// NewScalar returns the scalar type for k.
func NewScalar(k ScalarKind) *Type {
	return &Type{kind: Scalar, scalar: k}
}

// NewTypeVar returns an abstract dtype variable named name.
func NewTypeVar(name string) *Type {
	return &Type{kind: TypeVar, name: name}
}

// Kind returns the descriptor's kind.
func (t *Type) Kind() Kind { return t.kind }

// Size returns the length of a FixedDim. Zero for other kinds.
func (t *Type) Size() int { return t.size }

// Name returns the name of a SymbolicDim or TypeVar.
func (t *Type) Name() string { return t.name }

// Elem returns the element type of a dimension or Option, nil otherwise.
func (t *Type) Elem() *Type { return t.elem }

// Fields returns the ordered fields of a Record.
func (t *Type) Fields() []Field { return t.fields }

// Levels returns the ordered levels of a Categorical.
func (t *Type) Levels() []Level { return t.levels }

// ScalarKind returns the scalar kind of a Scalar type.
func (t *Type) ScalarKind() ScalarKind { return t.scalar }

// IsAbstract reports whether the type contains symbolic dimensions or
// type variables and therefore must be instantiated before use.
func (t *Type) IsAbstract() bool {
	switch t.kind {
	case SymbolicDim, TypeVar:
		return true
	case FixedDim, VarDim, Option:
		return t.elem.IsAbstract()
	case Record:
		for _, f := range t.fields {
			if f.Type.IsAbstract() {
				return true
			}
		}
	}
	return false
}

// Ndim returns the number of leading dimensions.
func (t *Type) Ndim() int {
	n := 0
	for u := t; u.isDim(); u = u.elem {
		n++
	}
	return n
}

func (t *Type) isDim() bool {
	return t.kind == FixedDim || t.kind == VarDim || t.kind == SymbolicDim
}

// Shape returns the fixed dimension lengths. ok is false when the type
// has ragged or abstract dimensions and no single shape exists.
func (t *Type) Shape() (shape []int, ok bool) {
	shape = []int{}
	for u := t; u.isDim(); u = u.elem {
		if u.kind != FixedDim {
			return nil, false
		}
		shape = append(shape, u.size)
	}
	return shape, true
}

// NumElements returns the total leaf element count for fixed-shape
// types. ok is false for ragged or abstract dimensions.
func (t *Type) NumElements() (int, bool) {
	shape, ok := t.Shape()
	if !ok {
		return 0, false
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n, true
}

// DType returns the element type beneath all leading dimensions.
func (t *Type) DType() *Type {
	u := t
	for u.isDim() {
		u = u.elem
	}
	return u
}

// HiddenDType returns the concrete dtype beneath an abstract template,
// or nil when the dtype itself is a type variable.
func (t *Type) HiddenDType() *Type {
	dt := t.DType()
	if dt.IsAbstract() {
		return nil
	}
	return dt
}

// ItemSize returns the byte size of one leaf element, or 0 for
// variable-width dtypes (string, bytes) and abstract types.
func (t *Type) ItemSize() int {
	switch dt := t.DType(); dt.kind {
	case Scalar:
		return dt.scalar.Size()
	case Categorical:
		return 4 // uint32 level index
	case Option:
		return dt.elem.ItemSize()
	case Record:
		n := 0
		for _, f := range dt.fields {
			n += f.Type.ItemSize()
		}
		return n
	default:
		return 0
	}
}

// Equal reports structural equality of two descriptors.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || t.kind != other.kind {
		return false
	}
	switch t.kind {
	case FixedDim:
		return t.size == other.size && t.elem.Equal(other.elem)
	case VarDim, Option:
		return t.elem.Equal(other.elem)
	case SymbolicDim:
		return t.name == other.name && t.elem.Equal(other.elem)
	case TypeVar:
		return t.name == other.name
	case Scalar:
		return t.scalar == other.scalar
	case Record:
		if len(t.fields) != len(other.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != other.fields[i].Name || !t.fields[i].Type.Equal(other.fields[i].Type) {
				return false
			}
		}
		return true
	case Categorical:
		if len(t.levels) != len(other.levels) {
			return false
		}
		for i := range t.levels {
			if t.levels[i] != other.levels[i] {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the descriptor in canonical form, e.g.
// "2 * 3 * int64", "var * var * float64", "{a : string, b : 3 * int64}",
// "4 * categorical('a', 'b', NA)".
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.kind {
	case FixedDim:
		b.WriteString(strconv.Itoa(t.size))
		b.WriteString(" * ")
		t.elem.write(b)
	case VarDim:
		b.WriteString("var * ")
		t.elem.write(b)
	case SymbolicDim:
		b.WriteString(t.name)
		b.WriteString(" * ")
		t.elem.write(b)
	case Option:
		b.WriteByte('?')
		t.elem.write(b)
	case Record:
		b.WriteByte('{')
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(" : ")
			f.Type.write(b)
		}
		b.WriteByte('}')
	case Categorical:
		b.WriteString("categorical(")
		for i, l := range t.levels {
			if i > 0 {
				b.WriteString(", ")
			}
			if l.NA {
				b.WriteString("NA")
			} else {
				b.WriteByte('\'')
				b.WriteString(l.Label)
				b.WriteByte('\'')
			}
		}
		b.WriteByte(')')
	case Scalar:
		b.WriteString(t.scalar.String())
	case TypeVar:
		b.WriteString(t.name)
	}
}
