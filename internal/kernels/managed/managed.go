// Package managed provides the kernel module for unified (managed)
// memory. Every operand must live on a managed device; results are
// placed on managed memory of the same device family.
package managed

import (
	"fmt"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/kernels"
	"github.com/plures-go/xnd/internal/kernels/elemwise"
	"github.com/plures-go/xnd/internal/mem"
)

// Module is the managed-memory kernel set. Managed buffers are host
// accessible, so the shared loops run directly on them.
type Module struct{}

// New returns the managed kernel module.
func New() *Module { return &Module{} }

// Name implements kernels.Module.
func (*Module) Name() string { return "cuda_managed" }

func managedDevice(blocks ...*mem.Block) (device.Device, error) {
	dev := device.Device{}
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if !b.Device().IsManaged() {
			return device.Device{}, fmt.Errorf("%w: operand on %q is not managed memory",
				elemwise.ErrKernel, b.Device())
		}
		dev = b.Device()
	}
	if dev.IsZero() {
		dev = device.Device{Name: "cuda", Index: device.Managed}
	}
	return dev, nil
}

// Unary implements kernels.Module.
func (m *Module) Unary(op kernels.UnaryOp, x, out *mem.Block) (*mem.Block, error) {
	dev, err := managedDevice(x, out)
	if err != nil {
		return nil, err
	}
	return elemwise.Unary(op, x, out, dev)
}

// Binary implements kernels.Module.
func (m *Module) Binary(op kernels.BinaryOp, a, b, out *mem.Block) (*mem.Block, error) {
	dev, err := managedDevice(a, b, out)
	if err != nil {
		return nil, err
	}
	return elemwise.Binary(op, a, b, out, dev)
}

// Divmod implements kernels.Module.
func (m *Module) Divmod(a, b, qout, rout *mem.Block) (*mem.Block, *mem.Block, error) {
	dev, err := managedDevice(a, b, qout, rout)
	if err != nil {
		return nil, nil, err
	}
	return elemwise.Divmod(a, b, qout, rout, dev)
}
