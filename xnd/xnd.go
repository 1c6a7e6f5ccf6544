// Copyright 2026 The plures-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package xnd provides the public API for the typed container.
//
// A Container maps nested host values (sequences, records, optional
// values, categorical labels) onto one contiguous typed memory block
// described by an explicit type descriptor. The type is resolved from
// the value and at most one construction hint.
//
// Example:
//
//	c, err := xnd.New([]any{[]any{1, 2, 3}, []any{4, 5, 6}}, xnd.Options{})
//	c.Type() // 2 * 3 * int64
package xnd

import (
	"github.com/plures-go/xnd/internal/container"
	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/infer"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/types"
)

// Container is a typed view over one contiguous block of memory.
type Container = container.Container

// Options carries the construction hints and the target device. At
// most one of Type, DType, Levels, TypeDef and DTypeDef may be set.
type Options = container.Options

// BufferExporter is the buffer-export convention consumed by
// UnsafeFromBuffer.
type BufferExporter = container.BufferExporter

// Device is a normalized (name, index) device pair.
type Device = device.Device

// Managed is the device index denoting shared (unified) memory.
const Managed = device.Managed

// Errors surfaced by construction.
var (
	ErrConflictingHints = container.ErrConflictingHints
	ErrTypeMismatch     = mem.ErrTypeMismatch
	ErrBadDevice        = device.ErrBadDevice
	ErrInfer            = infer.ErrInfer
)

// New constructs a container from a host value.
func New(value any, opts Options) (*Container, error) {
	return container.New(value, opts)
}

// Empty allocates a zero-initialized container of the given type,
// supplied as a type string or *types.Type.
func Empty(typ any, dev string) (*Container, error) {
	return container.Empty(typ, dev)
}

// UnsafeFromBuffer binds a container to caller-owned memory with no
// validation that the memory satisfies the given type. This is the
// single unsafe escape hatch; behavior is undefined if the type's
// byte layout does not match the buffer.
func UnsafeFromBuffer(buf any, typ any) (*Container, error) {
	return container.UnsafeFromBuffer(buf, typ)
}

// Resolve produces the concrete type for value under the given hints
// without constructing a container.
func Resolve(value any, opts Options) (*types.Type, error) {
	return container.Resolve(value, opts)
}

// ParseDevice parses a "name:index" or "name:managed" device string.
func ParseDevice(s string) (Device, error) {
	return device.Parse(s)
}

// Equal reports whether two containers hold equal values.
func Equal(a, b *Container) bool { return container.Equal(a, b) }

// TypeOf infers the concrete type of a host value, optionally
// constrained to an element type.
func TypeOf(value any, dtype *types.Type) (*types.Type, error) {
	return infer.TypeOf(value, dtype, dtype == nil)
}
