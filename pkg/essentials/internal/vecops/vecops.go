// Package vecops implements the vector arithmetic used by the arguments:
// inner products over scalars, points and ciphertexts, Hadamard products,
// powers and reshaping.
package vecops

import (
	"io"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
)

// Element is a value that can be added and scaled by a scalar: curve.Scalar,
// curve.Point and elgamal.Ciphertext. The zero value must be the additive
// identity.
type Element[T any] interface {
	Add(T) T
	Mul(curve.Scalar) T
}

// Dot returns sum(s[i] * v[i]).
func Dot[T Element[T]](s []curve.Scalar, v []T) (T, error) {
	var acc T
	if len(s) != len(v) {
		return acc, &essentials.LengthError{Op: essentials.OpDotProduct, Left: len(s), Right: len(v)}
	}
	for i := range s {
		acc = acc.Add(v[i].Mul(s[i]))
	}
	return acc, nil
}

// Sum returns the sum of v.
func Sum[T Element[T]](v []T) T {
	var acc T
	for _, x := range v {
		acc = acc.Add(x)
	}
	return acc
}

// Scale returns s * v[i] for every element.
func Scale[T Element[T]](v []T, s curve.Scalar) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = x.Mul(s)
	}
	return out
}

// AddVec returns the element-wise sum of a and b.
func AddVec[T Element[T]](a, b []T) ([]T, error) {
	if len(a) != len(b) {
		return nil, &essentials.LengthError{Op: essentials.OpHadamardProduct, Left: len(a), Right: len(b)}
	}
	out := make([]T, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i])
	}
	return out, nil
}

// Hadamard returns the element-wise product of a and b.
func Hadamard(a, b []curve.Scalar) ([]curve.Scalar, error) {
	if len(a) != len(b) {
		return nil, &essentials.LengthError{Op: essentials.OpHadamardProduct, Left: len(a), Right: len(b)}
	}
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = a[i].Mul(b[i])
	}
	return out, nil
}

// Product returns the product of v. The empty product is 1.
func Product(v []curve.Scalar) curve.Scalar {
	acc := curve.One()
	for _, x := range v {
		acc = acc.Mul(x)
	}
	return acc
}

// Powers returns [x^0, x^1, ..., x^n].
func Powers(x curve.Scalar, n int) []curve.Scalar {
	if n < 0 {
		return nil
	}
	out := make([]curve.Scalar, n+1)
	out[0] = curve.One()
	for i := 1; i <= n; i++ {
		out[i] = out[i-1].Mul(x)
	}
	return out
}

// Reverse returns v in reverse order.
func Reverse[T any](v []T) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[len(v)-1-i] = x
	}
	return out
}

// Reshape splits v into m consecutive chunks of length n.
func Reshape[T any](v []T, m, n int) ([][]T, error) {
	if m < 0 || n < 0 || len(v) != m*n {
		return nil, &essentials.CastError{Len: len(v), Rows: m, Cols: n}
	}
	out := make([][]T, m)
	for i := range out {
		out[i] = append([]T(nil), v[i*n:(i+1)*n]...)
	}
	return out, nil
}

// Flatten concatenates rows.
func Flatten[T any](rows [][]T) []T {
	var n int
	for _, r := range rows {
		n += len(r)
	}
	out := make([]T, 0, n)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// Repeat returns a vector of n copies of x.
func Repeat[T any](x T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = x
	}
	return out
}

// Sample returns n uniformly random scalars.
func Sample(rng io.Reader, n int) ([]curve.Scalar, error) {
	out := make([]curve.Scalar, n)
	for i := range out {
		s, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// SampleMatrix returns m rows of n uniformly random scalars.
func SampleMatrix(rng io.Reader, m, n int) ([][]curve.Scalar, error) {
	out := make([][]curve.Scalar, m)
	for i := range out {
		row, err := Sample(rng, n)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}
