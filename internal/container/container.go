// Package container implements the typed-memory value object. A
// Container binds a host value to a contiguous typed block, resolving
// its type from the value and at most one construction hint.
package container

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/plures-go/xnd/internal/device"
	"github.com/plures-go/xnd/internal/infer"
	"github.com/plures-go/xnd/internal/mem"
	"github.com/plures-go/xnd/internal/types"
)

// ErrConflictingHints reports more than one construction hint.
var ErrConflictingHints = errors.New("type, dtype, levels, typedef and dtypedef are mutually exclusive")

// Options carries the construction hints and the target device. Type,
// DType, TypeDef and DTypeDef accept either a type string or a
// *types.Type; Levels is an ordered label set where a nil entry stands
// for the missing marker. At most one hint may be set.
type Options struct {
	Type     any
	DType    any
	Levels   []any
	TypeDef  any
	DTypeDef any
	Device   string
}

func (o Options) hintCount() int {
	n := 0
	if o.Type != nil {
		n++
	}
	if o.DType != nil {
		n++
	}
	if o.Levels != nil {
		n++
	}
	if o.TypeDef != nil {
		n++
	}
	if o.DTypeDef != nil {
		n++
	}
	return n
}

func asType(v any) (*types.Type, error) {
	switch t := v.(type) {
	case *types.Type:
		return t, nil
	case string:
		return types.Parse(t)
	default:
		return nil, fmt.Errorf("expected a type or type string, got %T", v)
	}
}

// Resolve produces the concrete type for value under the given hints.
func Resolve(value any, opts Options) (*types.Type, error) {
	if opts.hintCount() > 1 {
		return nil, ErrConflictingHints
	}

	switch {
	case opts.Type != nil:
		return asType(opts.Type)

	case opts.DType != nil:
		dt, err := asType(opts.DType)
		if err != nil {
			return nil, err
		}
		return infer.TypeOf(value, dt, false)

	case opts.Levels != nil:
		ts, err := levelsType(value, opts.Levels)
		if err != nil {
			return nil, err
		}
		return types.Parse(ts)

	case opts.TypeDef != nil:
		template, err := asType(opts.TypeDef)
		if err != nil {
			return nil, err
		}
		if !template.IsAbstract() {
			return template, nil
		}
		inferred, err := infer.TypeOf(value, template.HiddenDType(), false)
		if err != nil {
			return nil, err
		}
		return types.Instantiate(template, inferred)

	case opts.DTypeDef != nil:
		dt, err := asType(opts.DTypeDef)
		if err != nil {
			return nil, err
		}
		return infer.TypeOf(value, dt, false)

	default:
		return infer.TypeOf(value, nil, true)
	}
}

// levelsType renders the ordered label set as a categorical type over
// len(value) elements.
func levelsType(value any, levels []any) (string, error) {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return "", fmt.Errorf("%w: levels require a sequence value, got %T", mem.ErrTypeMismatch, value)
	}
	args := make([]string, len(levels))
	for i, l := range levels {
		switch v := l.(type) {
		case nil:
			args[i] = "NA"
		case string:
			args[i] = "'" + v + "'"
		default:
			return "", fmt.Errorf("%w: level %v is not a string label", mem.ErrTypeMismatch, l)
		}
	}
	return fmt.Sprintf("%d * categorical(%s)", rv.Len(), strings.Join(args, ", ")), nil
}

// Container is a typed view over one contiguous block of memory.
type Container struct {
	blk *mem.Block
}

// New constructs a container from a host value, resolving the type per
// the hints in opts and binding the value on the resolved device.
func New(value any, opts Options) (*Container, error) {
	t, err := Resolve(value, opts)
	if err != nil {
		return nil, err
	}
	dev, err := resolveDevice(opts.Device)
	if err != nil {
		return nil, err
	}
	blk, err := mem.FromValue(value, t, dev)
	if err != nil {
		return nil, err
	}
	return &Container{blk: blk}, nil
}

// Empty allocates a zero-initialized container of the given type.
func Empty(typ any, devstr string) (*Container, error) {
	t, err := asType(typ)
	if err != nil {
		return nil, err
	}
	dev, err := resolveDevice(devstr)
	if err != nil {
		return nil, err
	}
	blk, err := mem.Empty(t, dev)
	if err != nil {
		return nil, err
	}
	return &Container{blk: blk}, nil
}

// BufferExporter is the buffer-export convention consumed by
// UnsafeFromBuffer.
type BufferExporter interface {
	Bytes() []byte
}

// UnsafeFromBuffer binds a container to caller-owned memory, taking
// the supplied type at face value. No layout or size validation is
// performed; behavior is undefined if the type's byte layout does not
// match the buffer. The caller is solely responsible for soundness.
func UnsafeFromBuffer(buf any, typ any) (*Container, error) {
	t, err := asType(typ)
	if err != nil {
		return nil, err
	}
	var data []byte
	switch b := buf.(type) {
	case []byte:
		data = b
	case BufferExporter:
		data = b.Bytes()
	default:
		return nil, fmt.Errorf("%w: %T does not export a buffer", mem.ErrTypeMismatch, buf)
	}
	return &Container{blk: mem.UnsafeFromBytes(data, t)}, nil
}

// FromBlock wraps an existing block.
func FromBlock(blk *mem.Block) *Container {
	return &Container{blk: blk}
}

func resolveDevice(s string) (device.Device, error) {
	if s == "" {
		return device.Default, nil
	}
	return device.Parse(s)
}

// Type returns the container's type descriptor.
func (c *Container) Type() *types.Type { return c.blk.Type() }

// Device returns the device the memory lives on.
func (c *Container) Device() device.Device { return c.blk.Device() }

// Block exposes the underlying typed block.
func (c *Container) Block() *mem.Block { return c.blk }

// Value reads the container back into host values.
func (c *Container) Value() any { return c.blk.Value() }

// CopyContiguous returns a densely packed copy, optionally cast to the
// given dtype (a type string or *types.Type).
func (c *Container) CopyContiguous(dtype any) (*Container, error) {
	var dt *types.Type
	if dtype != nil {
		var err error
		dt, err = asType(dtype)
		if err != nil {
			return nil, err
		}
	}
	blk, err := c.blk.CopyContiguous(dt)
	if err != nil {
		return nil, err
	}
	return &Container{blk: blk}, nil
}

// Reshape reinterprets the container with new dimensions in row-major
// order.
func (c *Container) Reshape(dims ...int) (*Container, error) {
	return c.ReshapeOrder(dims, 'C')
}

// ReshapeOrder reshapes with an explicit order, 'C' for row-major or
// 'F' for column-major.
func (c *Container) ReshapeOrder(dims []int, order rune) (*Container, error) {
	blk, err := c.blk.Reshape(dims, order)
	if err != nil {
		return nil, err
	}
	return &Container{blk: blk}, nil
}

// Equal reports whether two containers hold equal values.
func Equal(a, b *Container) bool {
	return mem.Equal(a.blk, b.blk)
}

// String renders the container in constructor form, clipping long
// dimensions after ten elements.
func (c *Container) String() string {
	var sb strings.Builder
	sb.WriteString("xnd(")
	formatValue(&sb, c.Value())
	fmt.Fprintf(&sb, ", type=%q)", c.Type())
	return sb.String()
}

const maxDisplay = 10

func formatValue(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("None")
	case []any:
		sb.WriteByte('[')
		for i, e := range x {
			if i == maxDisplay {
				sb.WriteString(", ...")
				break
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			formatValue(sb, e)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s: ", k)
			formatValue(sb, x[k])
		}
		sb.WriteByte('}')
	case string:
		fmt.Fprintf(sb, "%q", x)
	default:
		fmt.Fprintf(sb, "%v", x)
	}
}
