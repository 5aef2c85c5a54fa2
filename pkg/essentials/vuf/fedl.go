// Package vuf implements FEDL, a verifiable unpredictable function built
// from a unique signature: the signature on a message is sk*H(msg) together
// with a Chaum-Pedersen proof that it was formed with the key behind pk.
//
// The token extracted from a signature depends only on the key and the
// message, so it can serve as a deterministic, publicly verifiable
// pseudo-random value.
package vuf

import (
	"errors"
	"fmt"
	"io"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/zk"
)

// transcriptSeed seeds the Fiat-Shamir transcript of every signature.
var transcriptSeed = []byte("FEDL")

// Parameters are the public parameters of the scheme.
type Parameters struct {
	G curve.Point
}

// DefaultParameters uses the curve base point.
func DefaultParameters() *Parameters {
	return &Parameters{G: curve.Generator()}
}

// Setup samples a fresh generator.
func Setup(rng io.Reader) (*Parameters, error) {
	g, err := curve.RandomPoint(rng)
	if err != nil {
		return nil, fmt.Errorf("vuf setup: %w", err)
	}
	return &Parameters{G: g}, nil
}

// KeyGen returns (pk, sk) with pk = sk*G.
func KeyGen(pp *Parameters, rng io.Reader) (curve.Point, curve.Scalar, error) {
	if pp == nil {
		return curve.Point{}, curve.Scalar{}, errors.New("nil parameters")
	}
	sk, err := curve.RandomScalar(rng)
	if err != nil {
		return curve.Point{}, curve.Scalar{}, fmt.Errorf("vuf keygen: %w", err)
	}
	return pp.G.Mul(sk), sk, nil
}

// Token is the unique output of the function for a key and message.
type Token = curve.Point

// Signature is sk*H(msg) plus a proof of its correct formation.
type Signature struct {
	Proof zk.DLEQProof
	B     curve.Point
}

// Sign evaluates the function on msg and proves the result.
func Sign(pp *Parameters, rng io.Reader, pk curve.Point, sk curve.Scalar, msg []byte) (Signature, error) {
	if pp == nil {
		return Signature{}, errors.New("nil parameters")
	}
	h, err := curve.HashToCurve(msg)
	if err != nil {
		return Signature{}, err
	}
	b := h.Mul(sk)
	proof, err := zk.ProveDLEQ(&zk.DLEQProveParams{
		G:          pp.G,
		H:          h,
		A:          pk,
		B:          b,
		Exponent:   sk,
		Transcript: transcript.New(transcriptSeed),
		Rand:       rng,
	})
	if err != nil {
		return Signature{}, err
	}
	return Signature{Proof: proof, B: b}, nil
}

// ExtractToken returns the unique token carried by sig.
func ExtractToken(sig Signature) Token {
	return sig.B
}

// Verify checks sig on msg under pk.
func Verify(pp *Parameters, pk curve.Point, msg []byte, sig Signature) error {
	if pp == nil {
		return errors.New("nil parameters")
	}
	h, err := curve.HashToCurve(msg)
	if err != nil {
		return err
	}
	return zk.VerifyDLEQ(&zk.DLEQVerifyParams{
		Proof:      sig.Proof,
		G:          pp.G,
		H:          h,
		A:          pk,
		B:          sig.B,
		Transcript: transcript.New(transcriptSeed),
	})
}

// MarshalBinary encodes the signature as proof || B.
func (s Signature) MarshalBinary() ([]byte, error) {
	proof, err := s.Proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return wire.NewEncoder().Raw(proof).Point(s.B).Bytes(), nil
}

// UnmarshalBinary decodes a signature produced by MarshalBinary.
func (s *Signature) UnmarshalBinary(b []byte) error {
	d := wire.NewDecoder(b)
	proof := d.Next(2*curve.PointSize + curve.ScalarSize)
	point := d.Point()
	if err := d.Finish(); err != nil {
		return err
	}
	var out Signature
	if err := out.Proof.UnmarshalBinary(proof); err != nil {
		return err
	}
	out.B = point
	*s = out
	return nil
}
