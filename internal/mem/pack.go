package mem

import (
	"fmt"
	"math"
	"reflect"

	"github.com/x448/float16"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/types"
)

// dimSpec is one level of the dimension chain.
type dimSpec struct {
	fixed bool
	n     int
}

// splitDims separates the leading dimension chain from the dtype.
func splitDims(t *types.Type) ([]dimSpec, *types.Type) {
	var dims []dimSpec
	u := t
	for {
		switch u.Kind() {
		case types.FixedDim:
			dims = append(dims, dimSpec{fixed: true, n: u.Size()})
		case types.VarDim:
			dims = append(dims, dimSpec{})
		default:
			return dims, u
		}
		u = u.Elem()
	}
}

// FromValue binds a host value into a typed memory block of type t.
func FromValue(v any, t *types.Type, dev device.Device) (*Block, error) {
	return fromValue(v, t, dev.Or(device.Default), false)
}

func fromValue(v any, t *types.Type, dev device.Device, cast bool) (*Block, error) {
	if t.IsAbstract() {
		return nil, fmt.Errorf("%w: cannot construct a value of abstract type %q", ErrTypeMismatch, t)
	}
	dims, dt := splitDims(t)

	if dt.Kind() == types.Record {
		return packRecord(v, t, dims, dt, dev, cast)
	}

	// First pass: verify dimension structure, count leaves, build the
	// ragged offset tables.
	offs := make([][]int32, len(dims))
	for d, dim := range dims {
		if !dim.fixed {
			offs[d] = []int32{0}
		}
	}
	nitems := 0
	var count func(v any, d int) error
	count = func(v any, d int) error {
		if d == len(dims) {
			nitems++
			return nil
		}
		n, at, ok := sequence(v)
		if !ok {
			return fmt.Errorf("%w: expected a sequence for dimension %d of %q, got %T", ErrTypeMismatch, d, t, v)
		}
		if dims[d].fixed && n != dims[d].n {
			return fmt.Errorf("%w: dimension %d of %q wants %d elements, got %d", ErrTypeMismatch, d, t, dims[d].n, n)
		}
		if !dims[d].fixed {
			prev := offs[d][len(offs[d])-1]
			offs[d] = append(offs[d], prev+int32(n))
		}
		for i := 0; i < n; i++ {
			if err := count(at(i), d+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := count(v, 0); err != nil {
		return nil, err
	}

	b, err := emptyN(t, dev, nitems)
	if err != nil {
		return nil, err
	}
	b.offs = offs

	// Second pass: write the leaves.
	idx := 0
	var write func(v any, d int) error
	write = func(v any, d int) error {
		if d == len(dims) {
			err := writeLeaf(b, dt, idx, v, cast)
			idx++
			return err
		}
		n, at, _ := sequence(v)
		for i := 0; i < n; i++ {
			if err := write(at(i), d+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(v, 0); err != nil {
		return nil, err
	}
	return b, nil
}

// packRecord stores a record dtype as one column per field.
func packRecord(v any, t *types.Type, dims []dimSpec, dt *types.Type, dev device.Device, cast bool) (*Block, error) {
	shape := make([]int, 0, len(dims))
	for _, dim := range dims {
		if !dim.fixed {
			return nil, fmt.Errorf("%w: ragged dimensions over record dtype %q are not supported", ErrTypeMismatch, t)
		}
		shape = append(shape, dim.n)
	}
	nrec := 1
	for _, n := range shape {
		nrec *= n
	}

	b := &Block{typ: t, dev: dev, nitems: nrec}
	for _, f := range dt.Fields() {
		cv, err := extractField(v, len(dims), f.Name)
		if err != nil {
			return nil, err
		}
		col, err := fromValue(cv, prependDims(shape, f.Type), dev, cast)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		b.cols = append(b.cols, col)
	}
	return b, nil
}

// extractField projects the per-record field value out of a nested tree
// of records at the given depth.
func extractField(v any, depth int, name string) (any, error) {
	if depth == 0 {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected a record value, got %T", ErrTypeMismatch, v)
		}
		fv, ok := m[name]
		if !ok {
			return nil, fmt.Errorf("%w: record value is missing field %q", ErrTypeMismatch, name)
		}
		return fv, nil
	}
	n, at, ok := sequence(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected a sequence of records, got %T", ErrTypeMismatch, v)
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		fv, err := extractField(at(i), depth-1, name)
		if err != nil {
			return nil, err
		}
		out[i] = fv
	}
	return out, nil
}

// sequence adapts any slice or array value to indexed access.
func sequence(v any) (int, func(int) any, bool) {
	if s, ok := v.([]any); ok {
		return len(s), func(i int) any { return s[i] }, true
	}
	if v == nil {
		return 0, nil, false
	}
	if _, ok := v.([]byte); ok {
		// []byte is a bytes scalar, not a sequence of uint8 leaves.
		return 0, nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, nil, false
	}
	return rv.Len(), func(i int) any { return rv.Index(i).Interface() }, true
}

// writeLeaf stores one leaf element. With cast enabled, lossy numeric
// conversions (float to int truncation, narrowing) are permitted; the
// strict mode used at construction rejects them.
func writeLeaf(b *Block, dt *types.Type, i int, v any, cast bool) error {
	elem := dt
	if elem.Kind() == types.Option {
		elem = elem.Elem()
		if v == nil && elem.Kind() != types.Categorical {
			// Bit stays clear, payload stays zero.
			return nil
		}
		b.valid[i/8] |= 1 << (i % 8)
	}

	switch elem.Kind() {
	case types.Categorical:
		return writeCategorical(b, elem, i, v)
	case types.Scalar:
		if v == nil {
			return fmt.Errorf("%w: nil value for non-option type %q", ErrTypeMismatch, dt)
		}
		return writeScalar(b, elem.ScalarKind(), i, v, cast)
	default:
		return fmt.Errorf("%w: unsupported dtype %q", ErrTypeMismatch, dt)
	}
}

func writeCategorical(b *Block, dt *types.Type, i int, v any) error {
	levels := dt.Levels()
	if v == nil {
		for j, l := range levels {
			if l.NA {
				b.AsUint32()[i] = uint32(j)
				return nil
			}
		}
		return fmt.Errorf("%w: nil value but %q has no NA level", ErrTypeMismatch, dt)
	}
	label, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: categorical label must be a string, got %T", ErrTypeMismatch, v)
	}
	for j, l := range levels {
		if !l.NA && l.Label == label {
			b.AsUint32()[i] = uint32(j)
			return nil
		}
	}
	return fmt.Errorf("%w: label %q is not a level of %q", ErrTypeMismatch, label, dt)
}

//nolint:gocyclo,cyclop // one arm per scalar kind
func writeScalar(b *Block, k types.ScalarKind, i int, v any, cast bool) error {
	switch k {
	case types.Bool:
		x, ok := v.(bool)
		if !ok {
			return convErr(k, v)
		}
		b.AsBool()[i] = x
		return nil
	case types.String:
		x, ok := v.(string)
		if !ok {
			return convErr(k, v)
		}
		b.strs[i] = x
		return nil
	case types.Bytes:
		x, ok := v.([]byte)
		if !ok {
			return convErr(k, v)
		}
		b.raws[i] = append([]byte(nil), x...)
		return nil
	}

	if k.IsInteger() {
		n, err := toInt64(v, cast)
		if err != nil {
			return convErr(k, v)
		}
		if !intFits(n, k) && !cast {
			return fmt.Errorf("%w: value %d does not fit %s", ErrTypeMismatch, n, k)
		}
		switch k {
		case types.Int8:
			b.AsInt8()[i] = int8(n)
		case types.Int16:
			b.AsInt16()[i] = int16(n)
		case types.Int32:
			b.AsInt32()[i] = int32(n)
		case types.Int64:
			b.AsInt64()[i] = n
		case types.Uint8:
			b.AsUint8()[i] = uint8(n)
		case types.Uint16:
			b.AsUint16()[i] = uint16(n)
		case types.Uint32:
			b.AsUint32()[i] = uint32(n)
		case types.Uint64:
			b.AsUint64()[i] = uint64(n)
		}
		return nil
	}

	// Floating point.
	f, ok := toFloat64(v)
	if !ok {
		return convErr(k, v)
	}
	switch k {
	case types.Float16:
		b.AsFloat16()[i] = float16.Fromfloat32(float32(f)).Bits()
	case types.Float32:
		b.AsFloat32()[i] = float32(f)
	case types.Float64:
		b.AsFloat64()[i] = f
	}
	return nil
}

func convErr(k types.ScalarKind, v any) error {
	return fmt.Errorf("%w: cannot store %T value as %s", ErrTypeMismatch, v, k)
}

// toInt64 accepts integer host values, and truncates floats when cast
// is enabled.
func toInt64(v any, cast bool) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, x)
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	if cast {
		if f, ok := toFloat64(v); ok {
			return int64(f), nil
		}
	}
	return 0, convErr(types.Int64, v)
}

// toFloat64 accepts floating-point and integer host values.
func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case float16.Float16:
		return float64(x.Float32()), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func intFits(n int64, k types.ScalarKind) bool {
	switch k {
	case types.Int8:
		return n >= math.MinInt8 && n <= math.MaxInt8
	case types.Int16:
		return n >= math.MinInt16 && n <= math.MaxInt16
	case types.Int32:
		return n >= math.MinInt32 && n <= math.MaxInt32
	case types.Uint8:
		return n >= 0 && n <= math.MaxUint8
	case types.Uint16:
		return n >= 0 && n <= math.MaxUint16
	case types.Uint32:
		return n >= 0 && n <= math.MaxUint32
	case types.Uint64:
		return n >= 0
	default:
		return true
	}
}
