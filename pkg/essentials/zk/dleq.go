package zk

import (
	"errors"
	"fmt"
	"io"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
)

// DLEQProofName identifies Chaum-Pedersen failures.
const DLEQProofName = "Chaum-Pedersen"

const dleqLabel = "chaum_pedersen"

// DLEQProof is a Chaum-Pedersen proof that log_G(A) = log_H(B).
type DLEQProof struct {
	A curve.Point  // omega*G
	B curve.Point  // omega*H
	R curve.Scalar // omega + c*x
}

// DLEQProveParams proves A = x*G and B = x*H.
type DLEQProveParams struct {
	G          curve.Point
	H          curve.Point
	A          curve.Point
	B          curve.Point
	Exponent   curve.Scalar // witness x
	Transcript *transcript.Transcript
	Rand       io.Reader
}

// ProveDLEQ creates a Chaum-Pedersen proof.
func ProveDLEQ(params *DLEQProveParams) (DLEQProof, error) {
	if params == nil {
		return DLEQProof{}, errors.New("nil params")
	}
	if params.Transcript == nil {
		return DLEQProof{}, errors.New("nil transcript")
	}
	if params.Rand == nil {
		return DLEQProof{}, errors.New("nil randomness source")
	}

	absorbDLEQStatement(params.Transcript, params.G, params.H, params.A, params.B)

	omega, err := curve.RandomScalar(params.Rand)
	if err != nil {
		return DLEQProof{}, fmt.Errorf("dleq prove: %w", err)
	}
	defer omega.Zeroize()

	a := params.G.Mul(omega)
	b := params.H.Mul(omega)
	params.Transcript.Absorb(wire.NewEncoder().Point(a).Point(b).Bytes())
	c := params.Transcript.ChallengeScalar()

	return DLEQProof{A: a, B: b, R: omega.Add(c.Mul(params.Exponent))}, nil
}

// DLEQVerifyParams contains parameters for Chaum-Pedersen verification.
type DLEQVerifyParams struct {
	Proof      DLEQProof
	G          curve.Point
	H          curve.Point
	A          curve.Point
	B          curve.Point
	Transcript *transcript.Transcript
}

// VerifyDLEQ checks r*G = a + c*A and r*H = b + c*B.
func VerifyDLEQ(params *DLEQVerifyParams) error {
	if params == nil {
		return errors.New("nil params")
	}
	if params.Transcript == nil {
		return errors.New("nil transcript")
	}

	p := params.Proof
	absorbDLEQStatement(params.Transcript, params.G, params.H, params.A, params.B)
	params.Transcript.Absorb(wire.NewEncoder().Point(p.A).Point(p.B).Bytes())
	c := params.Transcript.ChallengeScalar()

	if !params.G.Mul(p.R).Equal(p.A.Add(params.A.Mul(c))) {
		return essentials.NewVerificationError(DLEQProofName)
	}
	if !params.H.Mul(p.R).Equal(p.B.Add(params.B.Mul(c))) {
		return essentials.NewVerificationError(DLEQProofName)
	}
	return nil
}

func absorbDLEQStatement(t *transcript.Transcript, g, h, a, b curve.Point) {
	t.Absorb(wire.NewEncoder().Label(dleqLabel).Point(g).Point(h).Point(a).Point(b).Bytes())
}

// MarshalBinary encodes the proof as A || B || R.
func (p DLEQProof) MarshalBinary() ([]byte, error) {
	return wire.NewEncoder().Point(p.A).Point(p.B).Scalar(p.R).Bytes(), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *DLEQProof) UnmarshalBinary(b []byte) error {
	d := wire.NewDecoder(b)
	out := DLEQProof{A: d.Point(), B: d.Point(), R: d.Scalar()}
	if err := d.Finish(); err != nil {
		return err
	}
	*p = out
	return nil
}
