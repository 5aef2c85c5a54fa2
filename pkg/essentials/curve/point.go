package curve

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
)

const (
	compressedEven = 0x02
	compressedOdd  = 0x03
)

// Point is an element of the secp256k1 group. The zero value is the
// identity. Points returned by this package always hold normalized field
// values.
type Point struct {
	p btcec.JacobianPoint
}

// Identity returns the group identity.
func Identity() Point { return Point{} }

// Generator returns the standard base point G.
func Generator() Point {
	return MulGenerator(One())
}

// MulGenerator returns k*G.
func MulGenerator(k Scalar) Point {
	var r Point
	btcec.ScalarBaseMultNonConst(&k.v, &r.p)
	return r
}

// RandomPoint returns k*G for a uniformly random k. The discrete logarithm is
// discarded.
func RandomPoint(rng io.Reader) (Point, error) {
	k, err := RandomScalar(rng)
	if err != nil {
		return Point{}, err
	}
	defer k.Zeroize()
	return MulGenerator(k), nil
}

// PointFromBytes decodes a 33-byte compressed point. 33 zero bytes decode to
// the identity. The point is checked to lie on the curve.
func PointFromBytes(b []byte) (Point, error) {
	if len(b) != PointSize {
		return Point{}, fmt.Errorf("%w: length %d", ErrInvalidPoint, len(b))
	}
	if isZeroBytes(b) {
		return Point{}, nil
	}
	if b[0] != compressedEven && b[0] != compressedOdd {
		return Point{}, fmt.Errorf("%w: bad prefix byte %d", ErrInvalidPoint, b[0])
	}
	pk, err := btcec.ParsePubKey(b)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	var r Point
	pk.AsJacobian(&r.p)
	return r, nil
}

// pointFromX returns the point with affine x coordinate x and the requested
// y parity, if one exists.
func pointFromX(x []byte, odd bool) (Point, bool) {
	var r Point
	if overflow := r.p.X.SetByteSlice(x); overflow {
		return Point{}, false
	}
	if !btcec.DecompressY(&r.p.X, odd, &r.p.Y) {
		return Point{}, false
	}
	r.p.X.Normalize()
	r.p.Y.Normalize()
	r.p.Z.SetInt(1)
	return r, true
}

// IsIdentity reports whether p is the identity.
func (p Point) IsIdentity() bool {
	return (p.p.X.IsZero() && p.p.Y.IsZero()) || p.p.Z.IsZero()
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	var r Point
	btcec.AddNonConst(&p.p, &q.p, &r.p)
	return r
}

// Neg returns -p.
func (p Point) Neg() Point {
	if p.IsIdentity() {
		return Point{}
	}
	r := p
	r.p.Y.Negate(1).Normalize()
	return r
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return p.Add(q.Neg())
}

// Mul returns k*p.
func (p Point) Mul(k Scalar) Point {
	if p.IsIdentity() || k.IsZero() {
		return Point{}
	}
	var r Point
	btcec.ScalarMultNonConst(&k.v, &p.p, &r.p)
	return r
}

// Equal reports whether p and q are the same group element.
func (p Point) Equal(q Point) bool {
	pi, qi := p.IsIdentity(), q.IsIdentity()
	if pi || qi {
		return pi && qi
	}
	a, b := p.p, q.p
	a.ToAffine()
	b.ToAffine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

// Bytes returns the 33-byte compressed encoding of p. The identity encodes
// as 33 zero bytes.
func (p Point) Bytes() []byte {
	out := make([]byte, PointSize)
	if p.IsIdentity() {
		return out
	}
	a := p.p
	a.ToAffine()
	out[0] = compressedEven
	if a.Y.IsOdd() {
		out[0] = compressedOdd
	}
	x := a.X.Bytes()
	copy(out[1:], x[:])
	return out
}

// String returns the hex encoding of the compressed point.
func (p Point) String() string {
	return hex.EncodeToString(p.Bytes())
}

// MultiScalarMul returns sum(scalars[i] * points[i]).
func MultiScalarMul(scalars []Scalar, points []Point) (Point, error) {
	if len(scalars) != len(points) {
		return Point{}, &essentials.LengthError{Op: essentials.OpDotProduct, Left: len(scalars), Right: len(points)}
	}
	var acc Point
	for i := range scalars {
		acc = acc.Add(points[i].Mul(scalars[i]))
	}
	return acc, nil
}

func isZeroBytes(b []byte) bool {
	zero := make([]byte, len(b))
	return subtle.ConstantTimeCompare(b, zero) == 1
}
