package types

import (
	"errors"
	"fmt"
)

// ErrInstantiate reports that a template cannot be bound to a concrete type.
var ErrInstantiate = errors.New("cannot instantiate template")

// Instantiate binds an abstract template against a concrete type,
// replacing symbolic dimensions with the concrete dimension kinds and
// the dtype variable (if any) with the concrete dtype.
//
// The concrete type must have the same rank as the template, agree on
// every non-symbolic dimension, and bind each symbolic dimension name
// consistently.
func Instantiate(template, concrete *Type) (*Type, error) {
	if concrete.IsAbstract() {
		return nil, fmt.Errorf("%w: concrete argument %q is abstract", ErrInstantiate, concrete)
	}
	if template.Ndim() != concrete.Ndim() {
		return nil, fmt.Errorf("%w: rank mismatch: template %q has %d dimensions, concrete %q has %d",
			ErrInstantiate, template, template.Ndim(), concrete, concrete.Ndim())
	}
	bindings := map[string]int{}
	return instantiate(template, concrete, bindings)
}

func instantiate(template, concrete *Type, bindings map[string]int) (*Type, error) {
	switch template.kind {
	case FixedDim:
		if concrete.kind != FixedDim || concrete.size != template.size {
			return nil, fmt.Errorf("%w: dimension %d does not match %q", ErrInstantiate, template.size, concrete)
		}
		elem, err := instantiate(template.elem, concrete.elem, bindings)
		if err != nil {
			return nil, err
		}
		return NewFixedDim(template.size, elem), nil
	case VarDim:
		if concrete.kind != VarDim {
			return nil, fmt.Errorf("%w: var dimension does not match %q", ErrInstantiate, concrete)
		}
		elem, err := instantiate(template.elem, concrete.elem, bindings)
		if err != nil {
			return nil, err
		}
		return NewVarDim(elem), nil
	case SymbolicDim:
		switch concrete.kind {
		case FixedDim:
			if prev, ok := bindings[template.name]; ok && prev != concrete.size {
				return nil, fmt.Errorf("%w: symbol %s bound to both %d and %d",
					ErrInstantiate, template.name, prev, concrete.size)
			}
			bindings[template.name] = concrete.size
			elem, err := instantiate(template.elem, concrete.elem, bindings)
			if err != nil {
				return nil, err
			}
			return NewFixedDim(concrete.size, elem), nil
		case VarDim:
			elem, err := instantiate(template.elem, concrete.elem, bindings)
			if err != nil {
				return nil, err
			}
			return NewVarDim(elem), nil
		default:
			return nil, fmt.Errorf("%w: symbol %s does not match %q", ErrInstantiate, template.name, concrete)
		}
	case TypeVar:
		return concrete, nil
	default:
		// Concrete dtype in the template must match exactly.
		if !template.Equal(concrete) {
			return nil, fmt.Errorf("%w: dtype %q does not match %q", ErrInstantiate, template, concrete)
		}
		return concrete, nil
	}
}
