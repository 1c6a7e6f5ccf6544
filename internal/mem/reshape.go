package mem

import (
	"fmt"

	"github.com/plures-go/xnd/internal/types"
)

// Reshape reinterprets the block under new fixed dimensions. Row-major
// order ('C') returns a zero-copy view sharing the payload; column-major
// order ('F') produces a copy with the elements re-enumerated in
// Fortran order on both sides. The element count must be preserved.
func (b *Block) Reshape(dims []int, order rune) (*Block, error) {
	if order == 0 {
		order = 'C'
	}
	if order != 'C' && order != 'F' {
		return nil, fmt.Errorf("%w: reshape order must be 'C' or 'F', got %q", ErrTypeMismatch, string(order))
	}
	srcShape, ok := b.typ.Shape()
	if !ok {
		return nil, fmt.Errorf("%w: cannot reshape ragged type %q", ErrTypeMismatch, b.typ)
	}
	dt := b.typ.DType()
	if dt.Kind() == types.Record {
		return nil, fmt.Errorf("%w: cannot reshape record type %q", ErrTypeMismatch, b.typ)
	}
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("%w: invalid dimension %d", ErrTypeMismatch, d)
		}
		n *= d
	}
	if n != b.nitems {
		return nil, fmt.Errorf("%w: reshape %v -> %v changes the element count (%d -> %d)",
			ErrTypeMismatch, srcShape, dims, b.nitems, n)
	}

	newType := prependDims(dims, dt)
	if order == 'C' {
		// Zero-copy view over the same payload.
		return &Block{
			typ:    newType,
			dev:    b.dev,
			buf:    b.buf,
			valid:  b.valid,
			strs:   b.strs,
			raws:   b.raws,
			nitems: b.nitems,
		}, nil
	}

	out, err := emptyN(newType, b.dev, b.nitems)
	if err != nil {
		return nil, err
	}
	srcPerm := fortranOrder(srcShape)
	dstPerm := fortranOrder(dims)
	for k := 0; k < b.nitems; k++ {
		copyItem(out, dstPerm[k], b, srcPerm[k], dt)
	}
	return out, nil
}

// fortranOrder enumerates the row-major flat indices of a shape in
// column-major visiting order.
func fortranOrder(shape []int) []int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	out := make([]int, 0, n)
	coord := make([]int, len(shape))
	for k := 0; k < n; k++ {
		flat := 0
		for i, c := range coord {
			flat += c * strides[i]
		}
		out = append(out, flat)
		// Advance the first (fastest-varying) coordinate.
		for i := 0; i < len(coord); i++ {
			coord[i]++
			if coord[i] < shape[i] {
				break
			}
			coord[i] = 0
		}
	}
	return out
}

// copyItem moves one leaf element between blocks of identical dtype.
func copyItem(dst *Block, di int, src *Block, si int, dt *types.Type) {
	elem := dt
	if elem.Kind() == types.Option {
		if src.valid[si/8]&(1<<(si%8)) != 0 {
			dst.valid[di/8] |= 1 << (di % 8)
		}
		elem = elem.Elem()
	}
	if elem.Kind() == types.Scalar {
		switch elem.ScalarKind() {
		case types.String:
			dst.strs[di] = src.strs[si]
			return
		case types.Bytes:
			dst.raws[di] = src.raws[si]
			return
		}
	}
	sz := dt.ItemSize()
	copy(dst.buf.data[di*sz:(di+1)*sz], src.buf.data[si*sz:(si+1)*sz])
}
