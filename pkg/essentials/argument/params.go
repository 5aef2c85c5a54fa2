package argument

import (
	"errors"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/commitment"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
)

// Parameters are the public parameters of the arguments over ciphertexts.
type Parameters struct {
	Encryption *elgamal.Parameters
	PublicKey  elgamal.PublicKey
	CommitKey  *commitment.Key
	// Generator encodes scalars as plaintexts when masking ciphertexts.
	Generator curve.Point
}

// NewParameters returns parameters that use the curve base point as the
// message generator.
func NewParameters(pp *elgamal.Parameters, pk elgamal.PublicKey, ck *commitment.Key) *Parameters {
	return &Parameters{Encryption: pp, PublicKey: pk, CommitKey: ck, Generator: curve.Generator()}
}

func (p *Parameters) validate() error {
	switch {
	case p == nil:
		return errors.New("nil parameters")
	case p.Encryption == nil:
		return errors.New("nil encryption parameters")
	case p.CommitKey == nil:
		return errNilKey
	}
	return nil
}

// encodePublic writes the public key and commitment key for transcripts.
func (p *Parameters) encodePublic(e *wire.Encoder) *wire.Encoder {
	e.Point(p.PublicKey)
	return absorbKey(e, p.CommitKey)
}

func encodeCipherMatrix(e *wire.Encoder, rows [][]elgamal.Ciphertext) *wire.Encoder {
	e.Len(len(rows))
	for _, row := range rows {
		elgamal.EncodeCiphertexts(e, row)
	}
	return e
}
