// Package infer derives type descriptors from host values: nested
// sequences become fixed or ragged dimensions, maps become records,
// nil elements become option types, and scalars are unified over a
// small promotion lattice.
package infer

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/x448/float16"

	"github.com/plures-go/xnd/internal/types"
)

// ErrInfer reports a value whose type cannot be derived.
var ErrInfer = errors.New("cannot infer type")

// TypeOf derives the concrete type of v. When dtype is non-nil it
// constrains the leaf element type. The shortcut flag enables fast
// paths for common homogeneous slices, bypassing generic traversal.
func TypeOf(v any, dtype *types.Type, shortcut bool) (*types.Type, error) {
	if shortcut && dtype == nil {
		if t := shortcutTypeOf(v); t != nil {
			return t, nil
		}
	}

	t, err := inferValue(v)
	if err != nil {
		return nil, err
	}
	if t == nil {
		// Bare nil: only typable when the dtype is given.
		if dtype == nil {
			return nil, fmt.Errorf("%w of nil without a dtype", ErrInfer)
		}
		return types.NewOption(dtype), nil
	}
	if dtype != nil {
		t = replaceDType(t, dtype)
	}
	if hasVarDim(t) {
		t = allVar(t)
	}
	return t, nil
}

// shortcutTypeOf handles homogeneous typed slices without reflection.
func shortcutTypeOf(v any) *types.Type {
	switch s := v.(type) {
	case []int:
		return types.NewFixedDim(len(s), types.NewScalar(types.Int64))
	case []int64:
		return types.NewFixedDim(len(s), types.NewScalar(types.Int64))
	case []int32:
		return types.NewFixedDim(len(s), types.NewScalar(types.Int32))
	case []float64:
		return types.NewFixedDim(len(s), types.NewScalar(types.Float64))
	case []float32:
		return types.NewFixedDim(len(s), types.NewScalar(types.Float32))
	case []bool:
		return types.NewFixedDim(len(s), types.NewScalar(types.Bool))
	case []string:
		return types.NewFixedDim(len(s), types.NewScalar(types.String))
	}
	return nil
}

// inferValue returns nil (no error) for a nil value; the caller wraps
// it into an option against its siblings.
func inferValue(v any) (*types.Type, error) {
	if v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case bool:
		return types.NewScalar(types.Bool), nil
	case int:
		return types.NewScalar(types.Int64), nil
	case int8:
		return types.NewScalar(types.Int8), nil
	case int16:
		return types.NewScalar(types.Int16), nil
	case int32:
		return types.NewScalar(types.Int32), nil
	case int64:
		return types.NewScalar(types.Int64), nil
	case uint8:
		return types.NewScalar(types.Uint8), nil
	case uint16:
		return types.NewScalar(types.Uint16), nil
	case uint32:
		return types.NewScalar(types.Uint32), nil
	case uint64:
		return types.NewScalar(types.Uint64), nil
	case float16.Float16:
		return types.NewScalar(types.Float16), nil
	case float32:
		return types.NewScalar(types.Float32), nil
	case float64:
		return types.NewScalar(types.Float64), nil
	case string:
		return types.NewScalar(types.String), nil
	case []byte:
		return types.NewScalar(types.Bytes), nil
	case map[string]any:
		return inferRecord(x)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return inferSequence(rv)
	}
	return nil, fmt.Errorf("%w of %T", ErrInfer, v)
}

func inferSequence(rv reflect.Value) (*types.Type, error) {
	n := rv.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w of an empty sequence", ErrInfer)
	}

	var elem *types.Type
	sawNil := false
	for i := 0; i < n; i++ {
		et, err := inferValue(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		if et == nil {
			sawNil = true
			continue
		}
		if elem == nil {
			elem = et
			continue
		}
		elem, err = unify(elem, et)
		if err != nil {
			return nil, err
		}
	}
	if elem == nil {
		return nil, fmt.Errorf("%w: sequence contains only nil values", ErrInfer)
	}
	if sawNil {
		elem = optionize(elem)
	}
	return types.NewFixedDim(n, elem), nil
}

func inferRecord(m map[string]any) (*types.Type, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("%w of an empty record", ErrInfer)
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make([]types.Field, 0, len(names))
	for _, name := range names {
		ft, err := inferValue(m[name])
		if err != nil {
			return nil, err
		}
		if ft == nil {
			return nil, fmt.Errorf("%w: record field %q is nil without a dtype", ErrInfer, name)
		}
		fields = append(fields, types.Field{Name: name, Type: ft})
	}
	return types.NewRecord(fields), nil
}

// optionize pushes missingness onto the dtype beneath any dimensions.
func optionize(t *types.Type) *types.Type {
	switch t.Kind() {
	case types.FixedDim:
		return types.NewFixedDim(t.Size(), optionize(t.Elem()))
	case types.VarDim:
		return types.NewVarDim(optionize(t.Elem()))
	default:
		return types.NewOption(t)
	}
}

// unify merges two element types, widening scalars along the numeric
// promotion lattice and turning mismatched fixed dimensions ragged.
func unify(a, b *types.Type) (*types.Type, error) {
	if a.Equal(b) {
		return a, nil
	}
	if a.Kind() == types.Option || b.Kind() == types.Option {
		ae, be := a, b
		if ae.Kind() == types.Option {
			ae = ae.Elem()
		}
		if be.Kind() == types.Option {
			be = be.Elem()
		}
		u, err := unify(ae, be)
		if err != nil {
			return nil, err
		}
		return types.NewOption(u), nil
	}

	switch {
	case a.Kind() == types.FixedDim && b.Kind() == types.FixedDim:
		elem, err := unify(a.Elem(), b.Elem())
		if err != nil {
			return nil, err
		}
		if a.Size() == b.Size() {
			return types.NewFixedDim(a.Size(), elem), nil
		}
		return types.NewVarDim(elem), nil
	case a.Kind() == types.VarDim && b.Kind() == types.VarDim,
		a.Kind() == types.VarDim && b.Kind() == types.FixedDim,
		a.Kind() == types.FixedDim && b.Kind() == types.VarDim:
		elem, err := unify(a.Elem(), b.Elem())
		if err != nil {
			return nil, err
		}
		return types.NewVarDim(elem), nil
	case a.Kind() == types.Scalar && b.Kind() == types.Scalar:
		k, ok := promote(a.ScalarKind(), b.ScalarKind())
		if !ok {
			return nil, fmt.Errorf("%w: cannot unify %q with %q", ErrInfer, a, b)
		}
		return types.NewScalar(k), nil
	case a.Kind() == types.Record && b.Kind() == types.Record:
		af, bf := a.Fields(), b.Fields()
		if len(af) != len(bf) {
			return nil, fmt.Errorf("%w: records %q and %q differ", ErrInfer, a, b)
		}
		fields := make([]types.Field, len(af))
		for i := range af {
			if af[i].Name != bf[i].Name {
				return nil, fmt.Errorf("%w: records %q and %q differ", ErrInfer, a, b)
			}
			ft, err := unify(af[i].Type, bf[i].Type)
			if err != nil {
				return nil, err
			}
			fields[i] = types.Field{Name: af[i].Name, Type: ft}
		}
		return types.NewRecord(fields), nil
	}
	return nil, fmt.Errorf("%w: cannot unify %q with %q", ErrInfer, a, b)
}

// promote widens two scalar kinds to a common representation.
func promote(a, b types.ScalarKind) (types.ScalarKind, bool) {
	if a == b {
		return a, true
	}
	switch {
	case a.IsFloat() && b.IsFloat():
		return maxKind(a, b), true
	case a.IsFloat() && b.IsInteger(), a.IsInteger() && b.IsFloat():
		// Integer mixed with float widens to float64 to avoid silent
		// precision loss.
		return types.Float64, true
	case a.IsSigned() && b.IsSigned(), a.IsUnsigned() && b.IsUnsigned():
		return maxKind(a, b), true
	case a.IsInteger() && b.IsInteger():
		// Mixed signedness widens to int64.
		return types.Int64, true
	}
	return 0, false
}

func maxKind(a, b types.ScalarKind) types.ScalarKind {
	if a.Size() >= b.Size() {
		return a
	}
	return b
}

// replaceDType substitutes the leaf dtype beneath all dimensions.
func replaceDType(t, dtype *types.Type) *types.Type {
	switch t.Kind() {
	case types.FixedDim:
		return types.NewFixedDim(t.Size(), replaceDType(t.Elem(), dtype))
	case types.VarDim:
		return types.NewVarDim(replaceDType(t.Elem(), dtype))
	case types.Option:
		if dtype.Kind() == types.Option {
			return dtype
		}
		return types.NewOption(dtype)
	default:
		return dtype
	}
}

// hasVarDim reports whether any dimension in the chain is ragged.
func hasVarDim(t *types.Type) bool {
	for u := t; u.Kind() == types.FixedDim || u.Kind() == types.VarDim || u.Kind() == types.SymbolicDim; u = u.Elem() {
		if u.Kind() == types.VarDim {
			return true
		}
	}
	return false
}

// allVar converts every leading dimension to var: a single ragged
// level makes the whole dimension chain ragged.
func allVar(t *types.Type) *types.Type {
	if t.Kind() == types.FixedDim || t.Kind() == types.VarDim {
		return types.NewVarDim(allVar(t.Elem()))
	}
	return t
}
