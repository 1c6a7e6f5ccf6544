// Package array overlays elementwise operator semantics on the typed
// container and routes every operation to a device-selected kernel
// module.
package array

import (
	"errors"
	"fmt"
	"sync"

	"github.com/plures-go/xnd/internal/container"
	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
	"github.com/plures-go/xnd/internal/kernels/general"
	"github.com/plures-go/xnd/internal/kernels/managed"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/types"
)

// ErrUnsupported reports an operation that is deliberately not
// implemented. It always fails fast, never partially computes.
var ErrUnsupported = errors.New("operation not supported")

// ErrOperandType reports a bridge operand that is not an Array.
var ErrOperandType = errors.New("operand is not an array")

// Array is a numeric view over a typed container.
type Array struct {
	c *container.Container
}

// New constructs an array from a host value, resolving the type from
// the construction hints in opts.
func New(value any, opts container.Options) (*Array, error) {
	c, err := container.New(value, opts)
	if err != nil {
		return nil, err
	}
	return &Array{c: c}, nil
}

// Empty allocates a zero-initialized array of the given type.
func Empty(typ any, dev string) (*Array, error) {
	c, err := container.Empty(typ, dev)
	if err != nil {
		return nil, err
	}
	return &Array{c: c}, nil
}

// FromContainer wraps an existing container.
func FromContainer(c *container.Container) *Array {
	return &Array{c: c}
}

func fromBlock(blk *mem.Block) *Array {
	return &Array{c: container.FromBlock(blk)}
}

// Container returns the underlying container.
func (a *Array) Container() *container.Container { return a.c }

// Block returns the underlying typed block.
func (a *Array) Block() *mem.Block { return a.c.Block() }

// Type returns the array's type descriptor.
func (a *Array) Type() *types.Type { return a.c.Type() }

// Device returns the device the memory lives on.
func (a *Array) Device() device.Device { return a.c.Device() }

// Value reads the array back into host values.
func (a *Array) Value() any { return a.c.Value() }

// String renders the array in constructor form.
func (a *Array) String() string { return a.c.String() }

// Equal reports whether two arrays hold equal values.
func Equal(a, b *Array) bool { return container.Equal(a.c, b.c) }

// Kernel-module handles are process-wide and populated at most once.
var (
	generalOnce sync.Once
	generalMod  kernels.Module

	managedOnce sync.Once
	managedMod  kernels.Module
)

// Select picks the kernel module for a set of operand devices: the
// managed set iff every device is managed, the general set otherwise.
// Irreconcilable device mixes are the general module's to reject; no
// implicit data movement happens here.
func Select(devs ...device.Device) kernels.Module {
	allManaged := len(devs) > 0
	for _, d := range devs {
		if !d.IsManaged() {
			allManaged = false
			break
		}
	}
	if allManaged {
		managedOnce.Do(func() { managedMod = managed.New() })
		return managedMod
	}
	generalOnce.Do(func() { generalMod = general.New() })
	return generalMod
}

// Unary routes op through the module selected by the receiver's
// device. With a non-nil out the result is written into out and out is
// returned; otherwise a fresh array is returned.
func (a *Array) Unary(op kernels.UnaryOp, out *Array) (*Array, error) {
	mod := Select(a.Device())
	var oblk *mem.Block
	if out != nil {
		oblk = out.Block()
	}
	blk, err := mod.Unary(op, a.Block(), oblk)
	if err != nil {
		return nil, err
	}
	if out != nil {
		return out, nil
	}
	return fromBlock(blk), nil
}

// Binary routes op through the module selected by both operand
// devices.
func (a *Array) Binary(op kernels.BinaryOp, other *Array, out *Array) (*Array, error) {
	mod := Select(a.Device(), other.Device())
	var oblk *mem.Block
	if out != nil {
		oblk = out.Block()
	}
	blk, err := mod.Binary(op, a.Block(), other.Block(), oblk)
	if err != nil {
		return nil, err
	}
	if out != nil {
		return out, nil
	}
	return fromBlock(blk), nil
}

// Divmod computes floor division and remainder in one pass.
func (a *Array) Divmod(other *Array) (*Array, *Array, error) {
	mod := Select(a.Device(), other.Device())
	q, r, err := mod.Divmod(a.Block(), other.Block(), nil, nil)
	if err != nil {
		return nil, nil, err
	}
	return fromBlock(q), fromBlock(r), nil
}

func unsupported(name string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, name)
}
