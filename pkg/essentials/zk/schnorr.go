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

// SchnorrProofName identifies Schnorr identification failures.
const SchnorrProofName = "Schnorr Identification"

const schnorrLabel = "schnorr_identity"

// SchnorrProof is a non-interactive Schnorr identification proof.
type SchnorrProof struct {
	R curve.Point  // commitment k*G
	S curve.Scalar // opening k - c*sk
}

// SchnorrProveParams contains parameters for proving knowledge of a secret
// key.
type SchnorrProveParams struct {
	Generator  curve.Point
	PublicKey  curve.Point  // sk*Generator
	SecretKey  curve.Scalar // witness
	Transcript *transcript.Transcript
	Rand       io.Reader
}

// ProveSchnorr proves knowledge of the secret key behind PublicKey.
func ProveSchnorr(params *SchnorrProveParams) (SchnorrProof, error) {
	if params == nil {
		return SchnorrProof{}, errors.New("nil params")
	}
	if params.Transcript == nil {
		return SchnorrProof{}, errors.New("nil transcript")
	}
	if params.Rand == nil {
		return SchnorrProof{}, errors.New("nil randomness source")
	}

	k, err := curve.RandomScalar(params.Rand)
	if err != nil {
		return SchnorrProof{}, fmt.Errorf("schnorr prove: %w", err)
	}
	defer k.Zeroize()

	r := params.Generator.Mul(k)
	c := schnorrChallenge(params.Transcript, params.Generator, params.PublicKey, r)
	return SchnorrProof{R: r, S: k.Sub(c.Mul(params.SecretKey))}, nil
}

// SchnorrVerifyParams contains parameters for Schnorr proof verification.
type SchnorrVerifyParams struct {
	Proof      SchnorrProof
	Generator  curve.Point
	PublicKey  curve.Point
	Transcript *transcript.Transcript
}

// VerifySchnorr checks S*G + c*pk == R.
func VerifySchnorr(params *SchnorrVerifyParams) error {
	if params == nil {
		return errors.New("nil params")
	}
	if params.Transcript == nil {
		return errors.New("nil transcript")
	}

	p := params.Proof
	c := schnorrChallenge(params.Transcript, params.Generator, params.PublicKey, p.R)
	lhs := params.Generator.Mul(p.S).Add(params.PublicKey.Mul(c))
	if !lhs.Equal(p.R) {
		return essentials.NewVerificationError(SchnorrProofName)
	}
	return nil
}

func schnorrChallenge(t *transcript.Transcript, g, pk, r curve.Point) curve.Scalar {
	t.Absorb(wire.NewEncoder().Label(schnorrLabel).Point(g).Point(pk).Point(r).Bytes())
	return t.ChallengeScalar()
}

// MarshalBinary encodes the proof as R || S.
func (p SchnorrProof) MarshalBinary() ([]byte, error) {
	return wire.NewEncoder().Point(p.R).Scalar(p.S).Bytes(), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *SchnorrProof) UnmarshalBinary(b []byte) error {
	d := wire.NewDecoder(b)
	out := SchnorrProof{R: d.Point(), S: d.Scalar()}
	if err := d.Finish(); err != nil {
		return err
	}
	*p = out
	return nil
}
