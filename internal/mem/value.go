package mem

import (
	"reflect"

	"github.com/x448/float16"

	"github.com/plures-go/xnd/internal/types"
)

// Value unpacks the block back into host values: nested []any for
// dimensions, map[string]any for records, nil for missing elements.
// It is the inverse of FromValue.
func (b *Block) Value() any {
	dims, dt := splitDims(b.typ)

	if dt.Kind() == types.Record {
		return b.recordValue(dims, dt)
	}

	cursors := make([]int, len(dims))
	idx := 0
	var read func(d int) any
	read = func(d int) any {
		if d == len(dims) {
			v := b.readLeaf(dt, idx)
			idx++
			return v
		}
		var n int
		if dims[d].fixed {
			n = dims[d].n
		} else {
			c := cursors[d]
			n = int(b.offs[d][c+1] - b.offs[d][c])
			cursors[d]++
		}
		out := make([]any, n)
		for i := range out {
			out[i] = read(d + 1)
		}
		return out
	}
	if len(dims) == 0 {
		return b.readLeaf(dt, 0)
	}
	return read(0)
}

func (b *Block) recordValue(dims []dimSpec, dt *types.Type) any {
	colVals := make([]any, len(b.cols))
	for i, col := range b.cols {
		colVals[i] = col.Value()
	}
	var zip func(depth int, cols []any) any
	zip = func(depth int, cols []any) any {
		if depth == 0 {
			rec := make(map[string]any, len(cols))
			for i, f := range dt.Fields() {
				rec[f.Name] = cols[i]
			}
			return rec
		}
		n := len(cols[0].([]any))
		out := make([]any, n)
		for i := 0; i < n; i++ {
			sub := make([]any, len(cols))
			for j := range cols {
				sub[j] = cols[j].([]any)[i]
			}
			out[i] = zip(depth-1, sub)
		}
		return out
	}
	return zip(len(dims), colVals)
}

func (b *Block) readLeaf(dt *types.Type, i int) any {
	elem := dt
	if elem.Kind() == types.Option {
		if b.valid[i/8]&(1<<(i%8)) == 0 {
			return nil
		}
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case types.Categorical:
		l := elem.Levels()[b.AsUint32()[i]]
		if l.NA {
			return nil
		}
		return l.Label
	case types.Scalar:
		switch elem.ScalarKind() {
		case types.Bool:
			return b.AsBool()[i]
		case types.Int8:
			return b.AsInt8()[i]
		case types.Int16:
			return b.AsInt16()[i]
		case types.Int32:
			return b.AsInt32()[i]
		case types.Int64:
			return b.AsInt64()[i]
		case types.Uint8:
			return b.AsUint8()[i]
		case types.Uint16:
			return b.AsUint16()[i]
		case types.Uint32:
			return b.AsUint32()[i]
		case types.Uint64:
			return b.AsUint64()[i]
		case types.Float16:
			return float16.Frombits(b.AsFloat16()[i])
		case types.Float32:
			return b.AsFloat32()[i]
		case types.Float64:
			return b.AsFloat64()[i]
		case types.String:
			return b.strs[i]
		case types.Bytes:
			return append([]byte(nil), b.raws[i]...)
		}
	}
	return nil
}

// Equal reports whether two blocks hold equal values. The comparison
// is value-level: memory layout (ragged vs fixed, device) does not
// participate.
func Equal(a, b *Block) bool {
	return reflect.DeepEqual(a.Value(), b.Value())
}
