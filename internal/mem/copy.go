package mem

import (
	"fmt"

	"github.com/plures-go/xnd/internal/types"
)

// CopyContiguous returns a densely packed deep copy of the block,
// optionally cast to a different leaf dtype. Lossy numeric casts
// (float to int, narrowing) are explicit here and permitted.
func (b *Block) CopyContiguous(dtype *types.Type) (*Block, error) {
	target := b.typ
	if dtype != nil {
		if dtype.Ndim() != 0 {
			return nil, fmt.Errorf("%w: cast dtype %q must not carry dimensions", ErrTypeMismatch, dtype)
		}
		target = WithDType(b.typ, dtype)
	}
	return fromValue(b.Value(), target, b.dev, true)
}

// WithDType substitutes the leaf dtype beneath the dimension chain.
func WithDType(t, dtype *types.Type) *types.Type {
	switch t.Kind() {
	case types.FixedDim:
		return types.NewFixedDim(t.Size(), WithDType(t.Elem(), dtype))
	case types.VarDim:
		return types.NewVarDim(WithDType(t.Elem(), dtype))
	default:
		return dtype
	}
}
