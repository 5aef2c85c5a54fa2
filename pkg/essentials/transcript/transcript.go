// Package transcript derives Fiat-Shamir challenges.
//
// A Transcript hashes everything the prover sends into a running BLAKE2s
// state. Challenges are read from a ChaCha20 stream keyed by that state, so a
// prover and a verifier that start from the same seed and absorb the same
// bytes in the same order draw the same challenges.
package transcript

import (
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/chacha20"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
)

// challengeSize is the number of stream bytes reduced into one challenge.
const challengeSize = 64

// Transcript is a Fiat-Shamir random oracle. It is not safe for concurrent
// use.
type Transcript struct {
	state  [blake2s.Size]byte
	stream *chacha20.Cipher
}

// New returns a transcript whose state is the hash of seed.
func New(seed []byte) *Transcript {
	t := &Transcript{state: blake2s.Sum256(seed)}
	t.rekey()
	return t
}

// Absorb hashes data into the state: state = H(state || data...). The
// challenge stream restarts from the new state.
func (t *Transcript) Absorb(data ...[]byte) {
	h, err := blake2s.New256(nil)
	if err != nil {
		panic("transcript: " + err.Error())
	}
	_, _ = h.Write(t.state[:])
	for _, d := range data {
		_, _ = h.Write(d)
	}
	h.Sum(t.state[:0])
	t.rekey()
}

func (t *Transcript) rekey() {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(t.state[:], nonce[:])
	if err != nil {
		// Only reachable with a wrong key or nonce size.
		panic("transcript: " + err.Error())
	}
	t.stream = c
}

// Read fills p from the challenge stream. It never fails, which lets a
// transcript stand in for a deterministic io.Reader.
func (t *Transcript) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	t.stream.XORKeyStream(p, p)
	return len(p), nil
}

// ChallengeScalar draws the next challenge. Consecutive calls without an
// intervening Absorb return independent challenges.
func (t *Transcript) ChallengeScalar() curve.Scalar {
	var buf [challengeSize]byte
	_, _ = t.Read(buf[:])
	return curve.ScalarFromUniformBytes(buf[:])
}

// Clone returns an independent copy of the transcript, including the
// position in the challenge stream.
func (t *Transcript) Clone() *Transcript {
	stream := *t.stream
	return &Transcript{state: t.state, stream: &stream}
}
