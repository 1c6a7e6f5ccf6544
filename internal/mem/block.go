// Package mem is the native typed-memory engine: it binds host values
// to contiguous typed blocks, allocates empty blocks, copies, reshapes
// and imports caller-owned buffers without copying.
//
// Fixed-width leaf elements (numbers, bools, categorical level indices)
// live in a single byte buffer. Ragged dimensions carry one offset
// table per var level. Record dtypes are stored as one column per
// field. Variable-width leaves (string, bytes) live in side arenas.
package mem

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/types"
)

// ErrTypeMismatch reports a value or buffer that does not fit the
// declared type.
var ErrTypeMismatch = errors.New("type mismatch")

// Buffer is the byte storage behind a block. A borrowed buffer wraps
// caller-owned memory and is never reallocated or copied by the engine.
type Buffer struct {
	data     []byte
	borrowed bool
}

func newBuffer(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// Block is a typed memory block on a device.
type Block struct {
	typ    *types.Type
	dev    device.Device
	buf    *Buffer   // fixed-width leaf payload; nil for record dtypes
	offs   [][]int32 // offset table per var dimension level
	valid  []byte    // presence bitmap for option dtypes, 1 bit per leaf
	strs   []string  // string leaf arena
	raws   [][]byte  // bytes leaf arena
	cols   []*Block  // record dtype columns, one per field
	nitems int       // leaf element count
}

// Type returns the block's type descriptor.
func (b *Block) Type() *types.Type { return b.typ }

// Device returns the device the block resides on.
func (b *Block) Device() device.Device { return b.dev }

// NumItems returns the number of leaf elements.
func (b *Block) NumItems() int { return b.nitems }

// Borrowed reports whether the block wraps caller-owned memory.
func (b *Block) Borrowed() bool { return b.buf != nil && b.buf.borrowed }

// Bytes returns the raw fixed-width payload. Nil for record dtypes.
func (b *Block) Bytes() []byte {
	if b.buf == nil {
		return nil
	}
	return b.buf.data
}

// Column returns the i-th record column.
func (b *Block) Column(i int) *Block { return b.cols[i] }

// Empty allocates a zero-initialized block of the given type. The type
// must have a fixed shape; ragged and abstract types have no defined
// allocation size without a value.
func Empty(t *types.Type, dev device.Device) (*Block, error) {
	if t.IsAbstract() {
		return nil, fmt.Errorf("%w: cannot allocate abstract type %q", ErrTypeMismatch, t)
	}
	n, ok := t.NumElements()
	if !ok {
		return nil, fmt.Errorf("%w: cannot allocate ragged type %q without a value", ErrTypeMismatch, t)
	}
	return emptyN(t, dev.Or(device.Default), n)
}

func emptyN(t *types.Type, dev device.Device, nitems int) (*Block, error) {
	dt := t.DType()
	b := &Block{typ: t, dev: dev, nitems: nitems}

	if dt.Kind() == types.Record {
		shape, _ := t.Shape()
		for _, f := range dt.Fields() {
			ct := prependDims(shape, f.Type)
			fn, ok := ct.NumElements()
			if !ok {
				return nil, fmt.Errorf("%w: cannot allocate ragged record field %q", ErrTypeMismatch, f.Name)
			}
			col, err := emptyN(ct, dev, fn)
			if err != nil {
				return nil, err
			}
			b.cols = append(b.cols, col)
		}
		return b, nil
	}

	elem := dt
	if elem.Kind() == types.Option {
		b.valid = make([]byte, (nitems+7)/8)
		elem = elem.Elem()
	}
	switch elem.Kind() {
	case types.Scalar:
		switch elem.ScalarKind() {
		case types.String:
			b.strs = make([]string, nitems)
		case types.Bytes:
			b.raws = make([][]byte, nitems)
		default:
			b.buf = newBuffer(nitems * elem.ScalarKind().Size())
		}
	case types.Categorical:
		b.buf = newBuffer(nitems * 4)
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrTypeMismatch, dt)
	}
	return b, nil
}

// UnsafeFromBytes binds a block to caller-owned memory, overriding any
// inferred layout with the supplied type. No validation of any kind is
// performed: if the type's byte layout does not match the data, the
// resulting behavior is undefined. The caller is solely responsible
// for soundness. The memory is borrowed, never freed or reallocated.
func UnsafeFromBytes(data []byte, t *types.Type) *Block {
	n := 0
	if sz := t.ItemSize(); sz > 0 {
		n = len(data) / sz
	}
	if fixed, ok := t.NumElements(); ok {
		n = fixed
	}
	return &Block{
		typ:    t,
		dev:    device.Default,
		buf:    &Buffer{data: data, borrowed: true},
		nitems: n,
	}
}

// prependDims rebuilds a fixed dimension chain over elem.
func prependDims(shape []int, elem *types.Type) *types.Type {
	t := elem
	for i := len(shape) - 1; i >= 0; i-- {
		t = types.NewFixedDim(shape[i], t)
	}
	return t
}

// Typed views over the payload. These follow the zero-copy accessor
// convention: mutations through the returned slice are visible to
// every view sharing the buffer.

// AsFloat64 interprets the payload as []float64.
func (b *Block) AsFloat64() []float64 {
	return asSlice[float64](b, types.Float64)
}

// AsFloat32 interprets the payload as []float32.
func (b *Block) AsFloat32() []float32 {
	return asSlice[float32](b, types.Float32)
}

// AsFloat16 interprets the payload as raw float16 bit patterns.
func (b *Block) AsFloat16() []uint16 {
	return asSlice[uint16](b, types.Float16)
}

// AsInt64 interprets the payload as []int64.
func (b *Block) AsInt64() []int64 {
	return asSlice[int64](b, types.Int64)
}

// AsInt32 interprets the payload as []int32.
func (b *Block) AsInt32() []int32 {
	return asSlice[int32](b, types.Int32)
}

// AsInt16 interprets the payload as []int16.
func (b *Block) AsInt16() []int16 {
	return asSlice[int16](b, types.Int16)
}

// AsInt8 interprets the payload as []int8.
func (b *Block) AsInt8() []int8 {
	return asSlice[int8](b, types.Int8)
}

// AsUint64 interprets the payload as []uint64.
func (b *Block) AsUint64() []uint64 {
	return asSlice[uint64](b, types.Uint64)
}

// AsUint32 interprets the payload as []uint32.
func (b *Block) AsUint32() []uint32 {
	return asSlice[uint32](b, types.Uint32)
}

// AsUint16 interprets the payload as []uint16.
func (b *Block) AsUint16() []uint16 {
	return asSlice[uint16](b, types.Uint16)
}

// AsUint8 interprets the payload as []uint8.
func (b *Block) AsUint8() []uint8 {
	return asSlice[uint8](b, types.Uint8)
}

// AsBool interprets the payload as []bool.
func (b *Block) AsBool() []bool {
	return asSlice[bool](b, types.Bool)
}

func asSlice[T any](b *Block, want types.ScalarKind) []T {
	dt := scalarOf(b.typ)
	if dt != want {
		panic(fmt.Sprintf("block dtype is %s, not %s", dt, want))
	}
	if b.nitems == 0 || b.buf == nil || len(b.buf.data) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b.buf.data[0])), b.nitems)
}

func scalarOf(t *types.Type) types.ScalarKind {
	dt := t.DType()
	if dt.Kind() == types.Option {
		dt = dt.Elem()
	}
	switch dt.Kind() {
	case types.Scalar:
		return dt.ScalarKind()
	case types.Categorical:
		// Level indices are stored as uint32.
		return types.Uint32
	default:
		return types.ScalarKind(255)
	}
}
