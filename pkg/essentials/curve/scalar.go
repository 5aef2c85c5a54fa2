package curve

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
)

var (
	ErrInvalidScalar = errors.New("invalid scalar")
	ErrInvalidPoint  = errors.New("invalid point")
)

// Scalar is an integer modulo the group order. The zero value is 0.
type Scalar struct {
	v btcec.ModNScalar
}

// NewScalar returns x mod n.
func NewScalar(x uint64) Scalar {
	var b [ScalarSize]byte
	binary.BigEndian.PutUint64(b[ScalarSize-8:], x)
	var s Scalar
	s.v.SetBytes(&b)
	return s
}

// Zero returns the additive identity.
func Zero() Scalar { return Scalar{} }

// One returns the multiplicative identity.
func One() Scalar {
	var s Scalar
	s.v.SetInt(1)
	return s
}

// ScalarFromBytes decodes a 32-byte big-endian scalar. Values that are not
// reduced modulo the group order are rejected.
func ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != ScalarSize {
		return Scalar{}, fmt.Errorf("%w: length %d", ErrInvalidScalar, len(b))
	}
	var s Scalar
	if overflow := s.v.SetByteSlice(b); overflow {
		return Scalar{}, fmt.Errorf("%w: not reduced", ErrInvalidScalar)
	}
	return s, nil
}

// ScalarFromUniformBytes reduces an arbitrary-length big-endian integer
// modulo the group order. With 64 uniformly random input bytes the result is
// statistically close to uniform.
func ScalarFromUniformBytes(b []byte) Scalar {
	k := new(big.Int).SetBytes(b)
	k.Mod(k, order)
	var buf [ScalarSize]byte
	k.FillBytes(buf[:])
	var s Scalar
	s.v.SetBytes(&buf)
	essentials.ZeroizeBytes(buf[:])
	return s
}

// RandomScalar samples a uniformly random scalar from rng.
func RandomScalar(rng io.Reader) (Scalar, error) {
	var buf [uniformSize]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return Scalar{}, fmt.Errorf("sample scalar: %w", err)
	}
	s := ScalarFromUniformBytes(buf[:])
	essentials.ZeroizeBytes(buf[:])
	return s, nil
}

// Add returns s + o.
func (s Scalar) Add(o Scalar) Scalar {
	s.v.Add(&o.v)
	return s
}

// Sub returns s - o.
func (s Scalar) Sub(o Scalar) Scalar {
	var neg btcec.ModNScalar
	neg.NegateVal(&o.v)
	s.v.Add(&neg)
	return s
}

// Mul returns s * o.
func (s Scalar) Mul(o Scalar) Scalar {
	s.v.Mul(&o.v)
	return s
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	s.v.Negate()
	return s
}

// Inverse returns s^-1. The inverse of zero is zero.
func (s Scalar) Inverse() Scalar {
	s.v.InverseNonConst()
	return s
}

// Square returns s * s.
func (s Scalar) Square() Scalar {
	s.v.Square()
	return s
}

// IsZero reports whether s is 0.
func (s Scalar) IsZero() bool {
	return s.v.IsZero()
}

// Equal reports whether s and o are the same scalar.
func (s Scalar) Equal(o Scalar) bool {
	return s.v.Equals(&o.v)
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s Scalar) Bytes() []byte {
	b := s.v.Bytes()
	return b[:]
}

// BigInt returns s as a big.Int.
// WARNING: big.Int operations are NOT constant-time. This is provided for
// display and debugging only.
func (s Scalar) BigInt() *big.Int {
	b := s.v.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// String returns s as a decimal string.
func (s Scalar) String() string {
	return s.BigInt().String()
}

// Zeroize clears the scalar in place.
func (s *Scalar) Zeroize() {
	if s == nil {
		return
	}
	s.v.Zero()
	runtime.KeepAlive(s)
}
