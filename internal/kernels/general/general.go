// Package general provides the default kernel module. It computes on
// any non-managed operands and reconciles their devices to a single
// result device.
package general

import (
	"fmt"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
	"github.com/plures-go/xnd/internal/kernels/elemwise"
	"github.com/plures-go/xnd/internal/mem"
)

// Module is the general kernel set.
type Module struct{}

// New returns the general kernel module.
func New() *Module { return &Module{} }

// Name implements kernels.Module.
func (*Module) Name() string { return "general" }

// reconcile picks the result device for a set of operands. Managed
// memory is owned by the managed module and rejected here.
func reconcile(blocks ...*mem.Block) (device.Device, error) {
	dev := device.Default
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if b.Device().IsManaged() {
			return device.Device{}, fmt.Errorf("%w: cannot reconcile devices: operand on %q requires the managed kernel set",
				elemwise.ErrKernel, b.Device())
		}
		dev = b.Device()
	}
	return dev, nil
}

// Unary implements kernels.Module.
func (m *Module) Unary(op kernels.UnaryOp, x, out *mem.Block) (*mem.Block, error) {
	dev, err := reconcile(x, out)
	if err != nil {
		return nil, err
	}
	return elemwise.Unary(op, x, out, dev)
}

// Binary implements kernels.Module.
func (m *Module) Binary(op kernels.BinaryOp, a, b, out *mem.Block) (*mem.Block, error) {
	dev, err := reconcile(a, b, out)
	if err != nil {
		return nil, err
	}
	return elemwise.Binary(op, a, b, out, dev)
}

// Divmod implements kernels.Module.
func (m *Module) Divmod(a, b, qout, rout *mem.Block) (*mem.Block, *mem.Block, error) {
	dev, err := reconcile(a, b, qout, rout)
	if err != nil {
		return nil, nil, err
	}
	return elemwise.Divmod(a, b, qout, rout, dev)
}
