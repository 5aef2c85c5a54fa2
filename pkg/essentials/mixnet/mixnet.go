package mixnet

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/argument"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/logging"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/permutation"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
)

// RoundError reports that the shuffle of a round was rejected.
type RoundError struct {
	Round int
	Party essentials.RoleID
	Err   error
}

func (e *RoundError) Error() string {
	return fmt.Sprintf("mix round %d by party %d: %v", e.Round, e.Party, e.Err)
}

func (e *RoundError) Unwrap() error { return e.Err }

// Params configures one party of a mix.
type Params struct {
	Session   essentials.SessionID
	Arguments *argument.Parameters
	Rows      int
	Cols      int
	Parties   int
	Self      essentials.RoleID
	Transport essentials.Transport
	Logger    logging.Logger // optional
	Rand      io.Reader      // optional, defaults to crypto/rand
}

// Mixer is one party of a mix.
type Mixer struct {
	session essentials.SessionID
	pp      *argument.Parameters
	rows    int
	cols    int
	self    essentials.RoleID
	peers   []essentials.RoleID
	parties int
	tr      essentials.Transport
	log     logging.Logger
	rng     io.Reader
}

// New validates params and returns a Mixer.
func New(params *Params) (*Mixer, error) {
	if params == nil {
		return nil, errors.New("nil params")
	}
	if params.Session.IsEmpty() {
		return nil, errors.New("empty session ID")
	}
	if params.Arguments == nil {
		return nil, errors.New("nil argument parameters")
	}
	if params.Transport == nil {
		return nil, errors.New("nil transport")
	}
	if params.Parties < 2 {
		return nil, fmt.Errorf("mix needs at least 2 parties, got %d", params.Parties)
	}
	if int(params.Self) >= params.Parties {
		return nil, fmt.Errorf("party %d out of range for %d parties", params.Self, params.Parties)
	}
	st := argument.ShuffleStatement{M: params.Rows, N: params.Cols}
	if st.M < 1 || st.N < 2 {
		return nil, fmt.Errorf("%w: %dx%d matrix", essentials.ErrInvalidShuffleStatement, st.M, st.N)
	}
	if params.Arguments.CommitKey.Len() < params.Cols {
		return nil, fmt.Errorf("commitment key of length %d cannot commit to %d columns", params.Arguments.CommitKey.Len(), params.Cols)
	}

	peers := make([]essentials.RoleID, 0, params.Parties-1)
	for i := 0; i < params.Parties; i++ {
		if essentials.RoleID(i) != params.Self {
			peers = append(peers, essentials.RoleID(i))
		}
	}
	rng := params.Rand
	if rng == nil {
		rng = rand.Reader
	}
	return &Mixer{
		session: params.Session.Clone(),
		pp:      params.Arguments,
		rows:    params.Rows,
		cols:    params.Cols,
		self:    params.Self,
		peers:   peers,
		parties: params.Parties,
		tr:      params.Transport,
		log:     logging.OrNop(params.Logger).With("party", params.Self),
		rng:     rng,
	}, nil
}

// Run mixes input and returns the final ciphertext list, identical at every
// honest party.
func (m *Mixer) Run(ctx context.Context, input []elgamal.Ciphertext) ([]elgamal.Ciphertext, error) {
	if len(input) != m.rows*m.cols {
		return nil, fmt.Errorf("%w: %d ciphertexts for %dx%d matrix", essentials.ErrInvalidShuffleStatement, len(input), m.rows, m.cols)
	}
	log := m.log.With("run", uuid.NewString())
	log.Info(ctx, "mix started", "parties", m.parties, "ciphertexts", len(input), logging.Public("session", m.session))

	current := append([]elgamal.Ciphertext(nil), input...)
	for round := 0; round < m.parties; round++ {
		shuffler := essentials.RoleID(round)
		seed, err := m.session.Derive("mix-round", uint32(round))
		if err != nil {
			return nil, err
		}
		start := time.Now()

		var next []elgamal.Ciphertext
		if shuffler == m.self {
			next, err = m.shuffle(ctx, round, seed, current)
		} else {
			next, err = m.accept(ctx, round, seed, current)
		}
		if err != nil {
			log.Warn(ctx, "mix aborted", "round", round, "shuffler", shuffler, "error", err)
			return nil, err
		}
		log.Debug(ctx, "round complete", "round", round, "shuffler", shuffler, "elapsed", time.Since(start))
		current = next
	}
	log.Info(ctx, "mix finished")
	return current, nil
}

func (m *Mixer) statement(input, shuffled []elgamal.Ciphertext) *argument.ShuffleStatement {
	return &argument.ShuffleStatement{Input: input, Shuffled: shuffled, M: m.rows, N: m.cols}
}

// shuffle performs this party's round and broadcasts the result.
func (m *Mixer) shuffle(ctx context.Context, round int, seed essentials.SessionID, current []elgamal.Ciphertext) ([]elgamal.Ciphertext, error) {
	perm, err := permutation.New(m.rng, len(current))
	if err != nil {
		return nil, err
	}
	shuffled, witness, err := argument.Shuffle(m.rng, m.pp, current, perm)
	if err != nil {
		return nil, err
	}
	m.log.Debug(ctx, "shuffled", "round", round, logging.Redacted("permutation"), logging.Redacted("randomness"))

	proof, err := argument.ProveShuffle(ctx, m.rng, m.pp, m.statement(current, shuffled), witness, transcript.New(seed))
	if err != nil {
		return nil, fmt.Errorf("prove round %d: %w", round, err)
	}
	msg := RoundMessage{Round: uint32(round), Ciphertexts: shuffled, Proof: *proof}
	raw, err := msg.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := m.broadcast(ctx, raw); err != nil {
		return nil, fmt.Errorf("broadcast round %d: %w", round, err)
	}
	return shuffled, nil
}

func (m *Mixer) broadcast(ctx context.Context, raw []byte) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, peer := range m.peers {
		g.Go(func() error {
			return m.tr.Send(gctx, peer, raw)
		})
	}
	return g.Wait()
}

// accept receives the round's shuffle and verifies it.
func (m *Mixer) accept(ctx context.Context, round int, seed essentials.SessionID, current []elgamal.Ciphertext) ([]elgamal.Ciphertext, error) {
	shuffler := essentials.RoleID(round)
	raw, err := m.tr.Receive(ctx, shuffler)
	if err != nil {
		return nil, fmt.Errorf("receive round %d: %w", round, err)
	}
	var msg RoundMessage
	if err := msg.UnmarshalBinary(raw); err != nil {
		return nil, &RoundError{Round: round, Party: shuffler, Err: err}
	}
	if msg.Round != uint32(round) {
		return nil, &RoundError{Round: round, Party: shuffler, Err: fmt.Errorf("message for round %d", msg.Round)}
	}
	st := m.statement(current, msg.Ciphertexts)
	if err := st.Validate(); err != nil {
		return nil, &RoundError{Round: round, Party: shuffler, Err: err}
	}
	if err := msg.Proof.Verify(m.pp, st, transcript.New(seed)); err != nil {
		return nil, &RoundError{Round: round, Party: shuffler, Err: err}
	}
	return msg.Ciphertexts, nil
}
