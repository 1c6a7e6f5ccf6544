package array

import "github.com/plures-go/xnd/internal/kernels"

// Unary operators.

// Neg returns the elementwise negation.
func (a *Array) Neg() (*Array, error) { return a.Unary(kernels.Negative, nil) }

// Pos returns a copy; the unary plus is the identity.
func (a *Array) Pos() (*Array, error) { return a.Unary(kernels.Copy, nil) }

// Invert returns the elementwise bitwise (or logical) complement.
func (a *Array) Invert() (*Array, error) { return a.Unary(kernels.Invert, nil) }

// Copy returns an elementwise copy on the same device.
func (a *Array) Copy() (*Array, error) { return a.Unary(kernels.Copy, nil) }

// Round returns the elementwise half-away-from-zero rounding.
func (a *Array) Round() (*Array, error) { return a.Unary(kernels.Round, nil) }

// Trunc returns the elementwise truncation toward zero.
func (a *Array) Trunc() (*Array, error) { return a.Unary(kernels.Trunc, nil) }

// Floor returns the elementwise floor.
func (a *Array) Floor() (*Array, error) { return a.Unary(kernels.Floor, nil) }

// Ceil returns the elementwise ceiling.
func (a *Array) Ceil() (*Array, error) { return a.Unary(kernels.Ceil, nil) }

// Transcendental set.

func (a *Array) Acos() (*Array, error) { return a.Unary(kernels.Acos, nil) }
func (a *Array) Acosh() (*Array, error) { return a.Unary(kernels.Acosh, nil) }
func (a *Array) Asin() (*Array, error) { return a.Unary(kernels.Asin, nil) }
func (a *Array) Asinh() (*Array, error) { return a.Unary(kernels.Asinh, nil) }
func (a *Array) Atan() (*Array, error) { return a.Unary(kernels.Atan, nil) }
func (a *Array) Atanh() (*Array, error) { return a.Unary(kernels.Atanh, nil) }
func (a *Array) Cbrt() (*Array, error) { return a.Unary(kernels.Cbrt, nil) }
func (a *Array) Cos() (*Array, error) { return a.Unary(kernels.Cos, nil) }
func (a *Array) Cosh() (*Array, error) { return a.Unary(kernels.Cosh, nil) }
func (a *Array) Erf() (*Array, error) { return a.Unary(kernels.Erf, nil) }
func (a *Array) Erfc() (*Array, error) { return a.Unary(kernels.Erfc, nil) }
func (a *Array) Exp() (*Array, error) { return a.Unary(kernels.Exp, nil) }
func (a *Array) Exp2() (*Array, error) { return a.Unary(kernels.Exp2, nil) }
func (a *Array) Expm1() (*Array, error) { return a.Unary(kernels.Expm1, nil) }
func (a *Array) Fabs() (*Array, error) { return a.Unary(kernels.Fabs, nil) }
func (a *Array) Lgamma() (*Array, error) { return a.Unary(kernels.Lgamma, nil) }
func (a *Array) Log() (*Array, error) { return a.Unary(kernels.Log, nil) }
func (a *Array) Log10() (*Array, error) { return a.Unary(kernels.Log10, nil) }
func (a *Array) Log1p() (*Array, error) { return a.Unary(kernels.Log1p, nil) }
func (a *Array) Log2() (*Array, error) { return a.Unary(kernels.Log2, nil) }
func (a *Array) Logb() (*Array, error) { return a.Unary(kernels.Logb, nil) }
func (a *Array) Nearbyint() (*Array, error) { return a.Unary(kernels.Nearbyint, nil) }
func (a *Array) Sin() (*Array, error) { return a.Unary(kernels.Sin, nil) }
func (a *Array) Sinh() (*Array, error) { return a.Unary(kernels.Sinh, nil) }
func (a *Array) Sqrt() (*Array, error) { return a.Unary(kernels.Sqrt, nil) }
func (a *Array) Tan() (*Array, error) { return a.Unary(kernels.Tan, nil) }

// Tanh and Tgamma are distinct operations and are exposed under their
// own names.

// Tanh returns the elementwise hyperbolic tangent.
func (a *Array) Tanh() (*Array, error) { return a.Unary(kernels.Tanh, nil) }

// Tgamma returns the elementwise gamma function.
func (a *Array) Tgamma() (*Array, error) { return a.Unary(kernels.Tgamma, nil) }

// Binary arithmetic. The I-variants write through the receiver's
// memory and return the receiver.

func (a *Array) Add(b *Array) (*Array, error) { return a.Binary(kernels.Add, b, nil) }
func (a *Array) Sub(b *Array) (*Array, error) { return a.Binary(kernels.Subtract, b, nil) }
func (a *Array) Mul(b *Array) (*Array, error) { return a.Binary(kernels.Multiply, b, nil) }
func (a *Array) Div(b *Array) (*Array, error) { return a.Binary(kernels.Divide, b, nil) }
func (a *Array) FloorDiv(b *Array) (*Array, error) { return a.Binary(kernels.FloorDivide, b, nil) }
func (a *Array) Mod(b *Array) (*Array, error) { return a.Binary(kernels.Remainder, b, nil) }

func (a *Array) IAdd(b *Array) (*Array, error) { return a.Binary(kernels.Add, b, a) }
func (a *Array) ISub(b *Array) (*Array, error) { return a.Binary(kernels.Subtract, b, a) }
func (a *Array) IMul(b *Array) (*Array, error) { return a.Binary(kernels.Multiply, b, a) }
func (a *Array) IDiv(b *Array) (*Array, error) { return a.Binary(kernels.Divide, b, a) }
func (a *Array) IFloorDiv(b *Array) (*Array, error) { return a.Binary(kernels.FloorDivide, b, a) }
func (a *Array) IMod(b *Array) (*Array, error) { return a.Binary(kernels.Remainder, b, a) }

// Bitwise.

func (a *Array) And(b *Array) (*Array, error) { return a.Binary(kernels.BitwiseAnd, b, nil) }
func (a *Array) Or(b *Array) (*Array, error) { return a.Binary(kernels.BitwiseOr, b, nil) }
func (a *Array) Xor(b *Array) (*Array, error) { return a.Binary(kernels.BitwiseXor, b, nil) }

func (a *Array) IAnd(b *Array) (*Array, error) { return a.Binary(kernels.BitwiseAnd, b, a) }
func (a *Array) IOr(b *Array) (*Array, error) { return a.Binary(kernels.BitwiseOr, b, a) }
func (a *Array) IXor(b *Array) (*Array, error) { return a.Binary(kernels.BitwiseXor, b, a) }

// Comparisons yield bool arrays of the operands' shape.

func (a *Array) EqualTo(b *Array) (*Array, error) { return a.Binary(kernels.Equal, b, nil) }
func (a *Array) NotEqual(b *Array) (*Array, error) { return a.Binary(kernels.NotEqual, b, nil) }
func (a *Array) Less(b *Array) (*Array, error) { return a.Binary(kernels.Less, b, nil) }
func (a *Array) LessEqual(b *Array) (*Array, error) { return a.Binary(kernels.LessEqual, b, nil) }
func (a *Array) Greater(b *Array) (*Array, error) { return a.Binary(kernels.Greater, b, nil) }
func (a *Array) GreaterEqual(b *Array) (*Array, error) {
	return a.Binary(kernels.GreaterEqual, b, nil)
}

// EqualN is the missing-tolerant equality: NaN compares equal to NaN.
func (a *Array) EqualN(b *Array) (*Array, error) { return a.Binary(kernels.EqualN, b, nil) }

// Deliberately unsupported operations. Each fails with a named reason
// instead of attempting a partial computation.

func (a *Array) MatMul(*Array) (*Array, error) { return nil, unsupported("matrix multiplication") }
func (a *Array) Pow(*Array) (*Array, error) { return nil, unsupported("power") }
func (a *Array) IPow(*Array) (*Array, error) { return nil, unsupported("in-place power") }
func (a *Array) Lshift(*Array) (*Array, error) { return nil, unsupported("left shift") }
func (a *Array) Rshift(*Array) (*Array, error) { return nil, unsupported("right shift") }
func (a *Array) Abs() (*Array, error) { return nil, unsupported("absolute value") }

func (a *Array) Bool() (bool, error) { return false, unsupported("coercion to bool") }
func (a *Array) Int() (int64, error) { return 0, unsupported("coercion to int") }
func (a *Array) Float() (float64, error) {
	return 0, unsupported("coercion to float")
}
func (a *Array) Complex() (complex128, error) {
	return 0, unsupported("coercion to complex")
}
func (a *Array) Index() (int, error) { return 0, unsupported("coercion to index") }
