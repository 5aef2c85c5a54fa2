// Package elgamal implements additively homomorphic ElGamal encryption over
// the curve group. Plaintexts are group elements.
package elgamal

import (
	"errors"
	"fmt"
	"io"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
)

// CiphertextSize is the encoded length of a Ciphertext.
const CiphertextSize = 2 * curve.PointSize

// Parameters are the public parameters of the scheme.
type Parameters struct {
	Generator curve.Point
}

// PublicKey is sk*Generator.
type PublicKey = curve.Point

// SecretKey is a private decryption key. Do not log it.
type SecretKey struct {
	s curve.Scalar
}

// Scalar exposes the secret exponent.
func (sk *SecretKey) Scalar() curve.Scalar { return sk.s }

// Zeroize clears the secret.
func (sk *SecretKey) Zeroize() {
	if sk != nil {
		sk.s.Zeroize()
	}
}

// NewSecretKey wraps an existing exponent.
func NewSecretKey(s curve.Scalar) *SecretKey { return &SecretKey{s: s} }

// Setup samples a fresh generator.
func Setup(rng io.Reader) (*Parameters, error) {
	g, err := curve.RandomPoint(rng)
	if err != nil {
		return nil, fmt.Errorf("elgamal setup: %w", err)
	}
	return &Parameters{Generator: g}, nil
}

// DefaultParameters uses the curve base point as the generator.
func DefaultParameters() *Parameters {
	return &Parameters{Generator: curve.Generator()}
}

// KeyGen returns a key pair.
func KeyGen(pp *Parameters, rng io.Reader) (PublicKey, *SecretKey, error) {
	if pp == nil {
		return PublicKey{}, nil, errors.New("nil parameters")
	}
	s, err := curve.RandomScalar(rng)
	if err != nil {
		return PublicKey{}, nil, fmt.Errorf("elgamal keygen: %w", err)
	}
	return pp.Generator.Mul(s), &SecretKey{s: s}, nil
}

// Ciphertext is an ElGamal ciphertext (r*G, m + r*pk). The zero value is the
// encryption of the identity with zero randomness.
type Ciphertext struct {
	C1 curve.Point
	C2 curve.Point
}

// Encrypt returns (r*G, m + r*pk).
func Encrypt(pp *Parameters, pk PublicKey, m curve.Point, r curve.Scalar) Ciphertext {
	return Ciphertext{
		C1: pp.Generator.Mul(r),
		C2: m.Add(pk.Mul(r)),
	}
}

// Decrypt returns c2 - sk*c1.
func Decrypt(sk *SecretKey, c Ciphertext) curve.Point {
	return c.C2.Sub(c.C1.Mul(sk.s))
}

// Rerandomize adds an encryption of the identity under randomness r. The
// plaintext is unchanged.
func Rerandomize(pp *Parameters, pk PublicKey, c Ciphertext, r curve.Scalar) Ciphertext {
	return c.Add(Encrypt(pp, pk, curve.Identity(), r))
}

// Add combines two ciphertexts; the plaintexts and randomness add.
func (c Ciphertext) Add(o Ciphertext) Ciphertext {
	return Ciphertext{C1: c.C1.Add(o.C1), C2: c.C2.Add(o.C2)}
}

// Mul scales both components by k.
func (c Ciphertext) Mul(k curve.Scalar) Ciphertext {
	return Ciphertext{C1: c.C1.Mul(k), C2: c.C2.Mul(k)}
}

func (c Ciphertext) Equal(o Ciphertext) bool {
	return c.C1.Equal(o.C1) && c.C2.Equal(o.C2)
}

// Bytes returns C1 || C2 in compressed form.
func (c Ciphertext) Bytes() []byte {
	return wire.NewEncoder().Point(c.C1).Point(c.C2).Bytes()
}

// CiphertextFromBytes decodes a ciphertext produced by Bytes.
func CiphertextFromBytes(b []byte) (Ciphertext, error) {
	if len(b) != CiphertextSize {
		return Ciphertext{}, fmt.Errorf("%w: ciphertext must be %d bytes, got %d", essentials.ErrEncoding, CiphertextSize, len(b))
	}
	d := wire.NewDecoder(b)
	c := Ciphertext{C1: d.Point(), C2: d.Point()}
	if err := d.Finish(); err != nil {
		return Ciphertext{}, err
	}
	return c, nil
}

// EncodeCiphertexts appends a length-prefixed ciphertext vector to e.
func EncodeCiphertexts(e *wire.Encoder, cs []Ciphertext) *wire.Encoder {
	e.Len(len(cs))
	for _, c := range cs {
		e.Point(c.C1).Point(c.C2)
	}
	return e
}

// DecodeCiphertexts reads a vector written by EncodeCiphertexts.
func DecodeCiphertexts(d *wire.Decoder) []Ciphertext {
	n := d.Count(CiphertextSize)
	if d.Err() != nil {
		return nil
	}
	out := make([]Ciphertext, 0, n)
	for i := 0; i < n && d.Err() == nil; i++ {
		out = append(out, Ciphertext{C1: d.Point(), C2: d.Point()})
	}
	return out
}

// MarshalCiphertexts encodes a ciphertext vector.
func MarshalCiphertexts(cs []Ciphertext) []byte {
	return EncodeCiphertexts(wire.NewEncoder(), cs).Bytes()
}

// UnmarshalCiphertexts decodes a vector produced by MarshalCiphertexts.
func UnmarshalCiphertexts(b []byte) ([]Ciphertext, error) {
	d := wire.NewDecoder(b)
	cs := DecodeCiphertexts(d)
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return cs, nil
}
