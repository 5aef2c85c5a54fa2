package argument

import (
	"context"
	"fmt"
	"io"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/commitment"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/vecops"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/permutation"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
)

// ShuffleName identifies malformed shuffle proofs. Failures inside the
// composed arguments keep their own names.
const ShuffleName = "Shuffle"

const shuffleLabel = "shuffle_argument"

// ShuffleStatement claims Shuffled[i] = Input[pi(i)] + Enc(1; rho_i) for a
// secret permutation pi. Both vectors hold M*N ciphertexts.
type ShuffleStatement struct {
	Input    []elgamal.Ciphertext
	Shuffled []elgamal.Ciphertext
	M        int
	N        int
}

// Validate checks the statement's dimensions.
func (st *ShuffleStatement) Validate() error {
	if st == nil {
		return errNilStatement
	}
	if st.M < 1 || st.N < 2 {
		return fmt.Errorf("%w: %dx%d matrix", essentials.ErrInvalidShuffleStatement, st.M, st.N)
	}
	if len(st.Input) != st.M*st.N || len(st.Shuffled) != st.M*st.N {
		return fmt.Errorf("%w: %d input and %d shuffled ciphertexts for %dx%d matrix",
			essentials.ErrInvalidShuffleStatement, len(st.Input), len(st.Shuffled), st.M, st.N)
	}
	return nil
}

// ShuffleWitness is the permutation and the re-encryption randomness.
type ShuffleWitness struct {
	Permutation permutation.Permutation
	Rho         []curve.Scalar
}

// ShuffleProof is an argument that one ciphertext vector is a
// re-randomized permutation of another.
type ShuffleProof struct {
	ACommits []commitment.Commitment
	BCommits []commitment.Commitment
	Product  ProductProof
	MultiExp MultiExpProof
}

// Shuffle permutes input with perm and re-randomizes every ciphertext. It
// returns the shuffled vector and the witness for proving it.
func Shuffle(rng io.Reader, pp *Parameters, input []elgamal.Ciphertext, perm permutation.Permutation) ([]elgamal.Ciphertext, *ShuffleWitness, error) {
	if err := pp.validate(); err != nil {
		return nil, nil, err
	}
	permuted, err := permutation.Apply(perm, input)
	if err != nil {
		return nil, nil, err
	}
	rho, err := vecops.Sample(rng, len(input))
	if err != nil {
		return nil, nil, err
	}
	out := make([]elgamal.Ciphertext, len(permuted))
	for i, c := range permuted {
		out[i] = elgamal.Rerandomize(pp.Encryption, pp.PublicKey, c, rho[i])
	}
	return out, &ShuffleWitness{Permutation: perm, Rho: rho}, nil
}

// ProveShuffle proves that st.Shuffled is a shuffle of st.Input. The column
// commitments are computed concurrently; ctx cancels them.
func ProveShuffle(ctx context.Context, rng io.Reader, pp *Parameters, st *ShuffleStatement, w *ShuffleWitness, t *transcript.Transcript) (*ShuffleProof, error) {
	if err := pp.validate(); err != nil {
		return nil, err
	}
	switch {
	case w == nil:
		return nil, errNilWitness
	case t == nil:
		return nil, errNilTranscript
	case rng == nil:
		return nil, errNilRand
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	m, n, size := st.M, st.N, st.M*st.N
	if w.Permutation.Size() != size || len(w.Rho) != size {
		return nil, fmt.Errorf("shuffle: witness for %d ciphertexts, want %d", w.Permutation.Size(), size)
	}
	ck := pp.CommitKey

	absorbShuffleStatement(t, pp, st)

	// a = pi(1..N)
	indices := make([]curve.Scalar, size)
	for i := range indices {
		indices[i] = curve.NewScalar(uint64(i + 1))
	}
	aFlat, err := permutation.Apply(w.Permutation, indices)
	if err != nil {
		return nil, err
	}
	a, err := vecops.Reshape(aFlat, m, n)
	if err != nil {
		return nil, err
	}
	r, err := vecops.Sample(rng, m)
	if err != nil {
		return nil, err
	}
	aCommits, err := commitment.CommitColumns(ctx, ck, a, r)
	if err != nil {
		return nil, err
	}
	t.Absorb(wire.NewEncoder().Points(aCommits).Bytes())
	x := t.ChallengeScalar()
	xPowers := vecops.Powers(x, size)[1:]

	// b = pi(x^1..x^N)
	bFlat, err := permutation.Apply(w.Permutation, xPowers)
	if err != nil {
		return nil, err
	}
	b, err := vecops.Reshape(bFlat, m, n)
	if err != nil {
		return nil, err
	}
	s, err := vecops.Sample(rng, m)
	if err != nil {
		return nil, err
	}
	bCommits, err := commitment.CommitColumns(ctx, ck, b, s)
	if err != nil {
		return nil, err
	}
	t.Absorb(wire.NewEncoder().Points(bCommits).Bytes())
	y := t.ChallengeScalar()
	z := t.ChallengeScalar()

	// d - z = y*a + b - z with randomness y*r + s
	dMinusZ := make([][]curve.Scalar, m)
	tRand := make([]curve.Scalar, m)
	for i := range dMinusZ {
		row := make([]curve.Scalar, n)
		for j := range row {
			row[j] = y.Mul(a[i][j]).Add(b[i][j]).Sub(z)
		}
		dMinusZ[i] = row
		tRand[i] = y.Mul(r[i]).Add(s[i])
	}
	productStatement, err := shuffleProductStatement(ck, m, n, aCommits, bCommits, xPowers, y, z)
	if err != nil {
		return nil, err
	}
	product, err := ProveProduct(rng, ck, productStatement, &ProductWitness{A: dMinusZ, R: tRand}, t)
	if err != nil {
		return nil, err
	}

	// Enc(1; rho') + sum <b_i, shuffled_i> = sum x^i input_i with rho' = -<rho, b>
	rhoB, err := vecops.Dot(bFlat, w.Rho)
	if err != nil {
		return nil, err
	}
	multiExpStatement, err := shuffleMultiExpStatement(st, xPowers, bCommits)
	if err != nil {
		return nil, err
	}
	multiExp, err := ProveMultiExp(rng, pp, multiExpStatement,
		&MultiExpWitness{A: b, R: s, Rho: rhoB.Neg()}, t)
	if err != nil {
		return nil, err
	}

	return &ShuffleProof{
		ACommits: aCommits,
		BCommits: bCommits,
		Product:  *product,
		MultiExp: *multiExp,
	}, nil
}

func absorbShuffleStatement(t *transcript.Transcript, pp *Parameters, st *ShuffleStatement) {
	t.Absorb([]byte(shuffleLabel))
	t.Absorb(pp.encodePublic(wire.NewEncoder()).Bytes())
	e := wire.NewEncoder()
	elgamal.EncodeCiphertexts(e, st.Input)
	elgamal.EncodeCiphertexts(e, st.Shuffled)
	t.Absorb(e.Len(st.M).Len(st.N).Bytes())
}

func shuffleProductStatement(ck *commitment.Key, m, n int, aCommits, bCommits []commitment.Commitment, xPowers []curve.Scalar, y, z curve.Scalar) (*ProductStatement, error) {
	negZ, err := commitment.Commit(ck, vecops.Repeat(z.Neg(), n), curve.Zero())
	if err != nil {
		return nil, err
	}
	commits := make([]commitment.Commitment, len(aCommits))
	for i := range commits {
		commits[i] = aCommits[i].Mul(y).Add(bCommits[i]).Add(negZ)
	}

	// prod_{i=1..N} (y*i + x^i - z)
	product := curve.One()
	for i, xi := range xPowers {
		term := y.Mul(curve.NewScalar(uint64(i + 1))).Add(xi).Sub(z)
		product = product.Mul(term)
	}
	return &ProductStatement{ACommits: commits, Product: product, M: m, N: n}, nil
}

func shuffleMultiExpStatement(st *ShuffleStatement, xPowers []curve.Scalar, bCommits []commitment.Commitment) (*MultiExpStatement, error) {
	chunks, err := vecops.Reshape(st.Shuffled, st.M, st.N)
	if err != nil {
		return nil, err
	}
	product, err := vecops.Dot(xPowers, st.Input)
	if err != nil {
		return nil, err
	}
	return &MultiExpStatement{Ciphers: chunks, Product: product, ACommits: bCommits}, nil
}

// Verify checks the proof against st.
func (p *ShuffleProof) Verify(pp *Parameters, st *ShuffleStatement, t *transcript.Transcript) error {
	if p == nil {
		return errNilProof
	}
	if err := pp.validate(); err != nil {
		return err
	}
	if t == nil {
		return errNilTranscript
	}
	if err := st.Validate(); err != nil {
		return err
	}
	if len(p.ACommits) != st.M || len(p.BCommits) != st.M {
		return essentials.NewVerificationError(ShuffleName)
	}

	absorbShuffleStatement(t, pp, st)
	t.Absorb(wire.NewEncoder().Points(p.ACommits).Bytes())
	x := t.ChallengeScalar()
	xPowers := vecops.Powers(x, st.M*st.N)[1:]

	t.Absorb(wire.NewEncoder().Points(p.BCommits).Bytes())
	y := t.ChallengeScalar()
	z := t.ChallengeScalar()

	productStatement, err := shuffleProductStatement(pp.CommitKey, st.M, st.N, p.ACommits, p.BCommits, xPowers, y, z)
	if err != nil {
		return err
	}
	if err := p.Product.Verify(pp.CommitKey, productStatement, t); err != nil {
		return err
	}

	multiExpStatement, err := shuffleMultiExpStatement(st, xPowers, p.BCommits)
	if err != nil {
		return err
	}
	return p.MultiExp.Verify(pp, multiExpStatement, t)
}

func (p *ShuffleProof) encode(e *wire.Encoder) {
	e.Points(p.ACommits).Points(p.BCommits)
	p.Product.encode(e)
	p.MultiExp.encode(e)
}

func (p *ShuffleProof) decode(d *wire.Decoder) {
	p.ACommits = d.Points()
	p.BCommits = d.Points()
	p.Product.decode(d)
	p.MultiExp.decode(d)
}

// MarshalBinary returns the canonical encoding of the proof.
func (p *ShuffleProof) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *ShuffleProof) UnmarshalBinary(b []byte) error {
	var out ShuffleProof
	if err := decodeFinish(b, out.decode); err != nil {
		return err
	}
	*p = out
	return nil
}
