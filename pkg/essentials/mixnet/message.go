package mixnet

import (
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/argument"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
)

// RoundMessage is broadcast by the shuffling party of a round.
type RoundMessage struct {
	Round       uint32
	Ciphertexts []elgamal.Ciphertext
	Proof       argument.ShuffleProof
}

// MarshalBinary encodes the message.
func (m *RoundMessage) MarshalBinary() ([]byte, error) {
	proof, err := m.Proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	e := wire.NewEncoder().Uint32(m.Round)
	elgamal.EncodeCiphertexts(e, m.Ciphertexts)
	return e.Blob(proof).Bytes(), nil
}

// UnmarshalBinary decodes a message produced by MarshalBinary.
func (m *RoundMessage) UnmarshalBinary(b []byte) error {
	d := wire.NewDecoder(b)
	var out RoundMessage
	out.Round = d.Uint32()
	out.Ciphertexts = elgamal.DecodeCiphertexts(d)
	proof := d.Blob()
	if err := d.Finish(); err != nil {
		return err
	}
	if err := out.Proof.UnmarshalBinary(proof); err != nil {
		return err
	}
	*m = out
	return nil
}
