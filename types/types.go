// Copyright 2026 The plures-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package types provides the public API for the datashape type
// description layer.
//
// A type descriptor is parsed from a literal string such as
// "2 * 3 * int64" or "var * var * ?float32" and queried for its
// shape, element type, and abstractness. Abstract templates with
// symbolic dimensions or type variables are made concrete with
// Instantiate.
//
// Example:
//
//	t := types.MustParse("N * {a : string, b : 3 * int64}")
//	t.IsAbstract() // true
package types

import (
	"github.com/plures-go/xnd/internal/types"
)

// Type is an immutable type descriptor.
type Type = types.Type

// Kind discriminates the type constructors.
type Kind = types.Kind

// Type constructor kinds.
const (
	FixedDim    Kind = types.FixedDim
	VarDim      Kind = types.VarDim
	SymbolicDim Kind = types.SymbolicDim
	Record      Kind = types.Record
	Categorical Kind = types.Categorical
	Option      Kind = types.Option
	Scalar      Kind = types.Scalar
	TypeVar     Kind = types.TypeVar
)

// ScalarKind discriminates the leaf dtypes.
type ScalarKind = types.ScalarKind

// Leaf dtypes.
const (
	Bool    ScalarKind = types.Bool
	Int8    ScalarKind = types.Int8
	Int16   ScalarKind = types.Int16
	Int32   ScalarKind = types.Int32
	Int64   ScalarKind = types.Int64
	Uint8   ScalarKind = types.Uint8
	Uint16  ScalarKind = types.Uint16
	Uint32  ScalarKind = types.Uint32
	Uint64  ScalarKind = types.Uint64
	Float16 ScalarKind = types.Float16
	Float32 ScalarKind = types.Float32
	Float64 ScalarKind = types.Float64
	String  ScalarKind = types.String
	Bytes   ScalarKind = types.Bytes
)

// Field is one named member of a record type.
type Field = types.Field

// Level is one label of a categorical type.
type Level = types.Level

// Parse errors.
var (
	ErrParse       = types.ErrParse
	ErrInstantiate = types.ErrInstantiate
)

// Parse parses a datashape type string.
func Parse(s string) (*Type, error) { return types.Parse(s) }

// MustParse parses a type string and panics on error. Intended for
// literals in tests and initialization.
func MustParse(s string) *Type { return types.MustParse(s) }

// Instantiate binds an abstract template against a concrete type.
func Instantiate(template, concrete *Type) (*Type, error) {
	return types.Instantiate(template, concrete)
}

// Constructors for building descriptors programmatically.

func NewFixedDim(size int, elem *Type) *Type { return types.NewFixedDim(size, elem) }

func NewVarDim(elem *Type) *Type { return types.NewVarDim(elem) }

func NewOption(elem *Type) *Type { return types.NewOption(elem) }

func NewRecord(fields []Field) *Type { return types.NewRecord(fields) }

func NewCategorical(levels []Level) *Type { return types.NewCategorical(levels) }

func NewScalar(kind ScalarKind) *Type { return types.NewScalar(kind) }
