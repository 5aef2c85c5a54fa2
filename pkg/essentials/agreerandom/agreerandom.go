package agreerandom

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/sync/errgroup"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
)

const nonceSize = 32

// ErrOpeningMismatch is returned when a party reveals a seed that does not
// match its commitment.
var ErrOpeningMismatch = errors.New("agreerandom: opening does not match commitment")

// Params configures one party of the protocol.
type Params struct {
	Session   essentials.SessionID
	Transport essentials.Transport
	Self      essentials.RoleID
	Parties   int
	Rand      io.Reader // optional, defaults to crypto/rand
}

// PartyError names the party whose message made the protocol abort.
type PartyError struct {
	Party essentials.RoleID
	Err   error
}

func (e *PartyError) Error() string {
	return fmt.Sprintf("agreerandom: party %d: %v", e.Party, e.Err)
}

func (e *PartyError) Unwrap() error { return e.Err }

// AgreeRandom runs the protocol between exactly two parties.
func AgreeRandom(ctx context.Context, p *Params, bitlen int) ([]byte, error) {
	if p != nil && p.Parties != 2 {
		return nil, fmt.Errorf("agreerandom: two-party protocol run with %d parties", p.Parties)
	}
	return MultiAgreeRandom(ctx, p, bitlen)
}

// MultiAgreeRandom returns bitlen jointly random bits, packed big-endian into
// ceil(bitlen/8) bytes. All honest parties obtain the same output.
func MultiAgreeRandom(ctx context.Context, p *Params, bitlen int) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if bitlen <= 0 {
		return nil, fmt.Errorf("agreerandom: invalid bit length %d", bitlen)
	}
	size := (bitlen + 7) / 8
	rng := p.Rand
	if rng == nil {
		rng = rand.Reader
	}

	seed := make([]byte, size)
	nonce := make([]byte, nonceSize)
	defer essentials.ZeroizeBytes(nonce)
	if _, err := io.ReadFull(rng, seed); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(rng, nonce); err != nil {
		return nil, err
	}

	peers := make([]essentials.RoleID, 0, p.Parties-1)
	for i := 0; i < p.Parties; i++ {
		if essentials.RoleID(i) != p.Self {
			peers = append(peers, essentials.RoleID(i))
		}
	}

	// Round 1: commitments.
	own := commit(p.Session, p.Self, seed, nonce)
	if err := broadcast(ctx, p.Transport, peers, own[:]); err != nil {
		return nil, fmt.Errorf("agreerandom: send commitment: %w", err)
	}
	commitments, err := p.Transport.ReceiveAll(ctx, peers)
	if err != nil {
		return nil, fmt.Errorf("agreerandom: receive commitments: %w", err)
	}
	for _, peer := range peers {
		if len(commitments[peer]) != blake2s.Size {
			return nil, &PartyError{Party: peer, Err: fmt.Errorf("%w: commitment of %d bytes", essentials.ErrEncoding, len(commitments[peer]))}
		}
	}

	// Round 2: openings.
	opening := wire.NewEncoder().Blob(seed).Raw(nonce).Bytes()
	if err := broadcast(ctx, p.Transport, peers, opening); err != nil {
		return nil, fmt.Errorf("agreerandom: send opening: %w", err)
	}
	openings, err := p.Transport.ReceiveAll(ctx, peers)
	if err != nil {
		return nil, fmt.Errorf("agreerandom: receive openings: %w", err)
	}

	out := append([]byte(nil), seed...)
	for _, peer := range peers {
		theirSeed, theirNonce, err := decodeOpening(openings[peer], size)
		if err != nil {
			return nil, &PartyError{Party: peer, Err: err}
		}
		want := commit(p.Session, peer, theirSeed, theirNonce)
		if subtle.ConstantTimeCompare(want[:], commitments[peer]) != 1 {
			return nil, &PartyError{Party: peer, Err: ErrOpeningMismatch}
		}
		subtle.XORBytes(out, out, theirSeed)
	}
	if extra := size*8 - bitlen; extra > 0 {
		out[0] &= 0xff >> extra
	}
	return out, nil
}

// AgreeSession derives a fresh 32-byte session identifier bound to the
// parent session.
func AgreeSession(ctx context.Context, p *Params) (essentials.SessionID, error) {
	out, err := MultiAgreeRandom(ctx, p, 256)
	if err != nil {
		return nil, err
	}
	return essentials.NewSessionID(out), nil
}

func (p *Params) validate() error {
	if p == nil {
		return errors.New("nil params")
	}
	if p.Session.IsEmpty() {
		return errors.New("empty session ID")
	}
	if p.Transport == nil {
		return errors.New("nil transport")
	}
	if p.Parties < 2 {
		return fmt.Errorf("agreerandom: need at least 2 parties, got %d", p.Parties)
	}
	if int(p.Self) >= p.Parties {
		return fmt.Errorf("agreerandom: party %d out of range for %d parties", p.Self, p.Parties)
	}
	return nil
}

func commit(session essentials.SessionID, role essentials.RoleID, seed, nonce []byte) [blake2s.Size]byte {
	e := wire.NewEncoder().
		Label("agree_random").
		Blob(session).
		Uint32(uint32(role)).
		Blob(seed).
		Raw(nonce)
	return blake2s.Sum256(e.Bytes())
}

func decodeOpening(b []byte, size int) (seed, nonce []byte, err error) {
	d := wire.NewDecoder(b)
	seed = d.Blob()
	nonce = d.Next(nonceSize)
	if err := d.Finish(); err != nil {
		return nil, nil, err
	}
	if len(seed) != size {
		return nil, nil, fmt.Errorf("%w: seed of %d bytes, want %d", essentials.ErrEncoding, len(seed), size)
	}
	return seed, nonce, nil
}

func broadcast(ctx context.Context, tr essentials.Transport, peers []essentials.RoleID, msg []byte) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, peer := range peers {
		g.Go(func() error {
			return tr.Send(gctx, peer, msg)
		})
	}
	return g.Wait()
}
