package argument

import (
	"fmt"
	"io"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/commitment"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/vecops"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
)

// HadamardProductName identifies Hadamard product failures.
const HadamardProductName = "Hadamard Product (5.1)"

const hadamardProductLabel = "hadamard_product_argument"

// HadamardStatement claims BCommit opens to a_1 o ... o a_m, where ACommits
// commit to the columns a_i of length N.
type HadamardStatement struct {
	ACommits []commitment.Commitment
	BCommit  commitment.Commitment
	N        int
}

// HadamardWitness opens the statement's commitments.
type HadamardWitness struct {
	A [][]curve.Scalar
	R []curve.Scalar
	B []curve.Scalar
	S curve.Scalar
}

// HadamardProof is an argument that a committed vector is the entry-wise
// product of committed columns.
type HadamardProof struct {
	BCommits []commitment.Commitment // partial products b_1..b_m
	Zero     ZeroProof
}

// ProveHadamard proves the Hadamard product relation.
func ProveHadamard(rng io.Reader, ck *commitment.Key, st *HadamardStatement, w *HadamardWitness, t *transcript.Transcript) (*HadamardProof, error) {
	switch {
	case ck == nil:
		return nil, errNilKey
	case st == nil:
		return nil, errNilStatement
	case w == nil:
		return nil, errNilWitness
	case t == nil:
		return nil, errNilTranscript
	case rng == nil:
		return nil, errNilRand
	}
	m, n := len(st.ACommits), st.N
	if m < 1 {
		return nil, fmt.Errorf("hadamard product: no columns")
	}
	if err := checkMatrix("hadamard product a", w.A, m, n); err != nil {
		return nil, err
	}
	if len(w.R) != m {
		return nil, fmt.Errorf("hadamard product: %d randomness values, want %d", len(w.R), m)
	}

	// b_1 = a_1, b_i = b_{i-1} o a_i
	b := make([][]curve.Scalar, m)
	b[0] = w.A[0]
	for i := 1; i < m; i++ {
		bi, err := vecops.Hadamard(b[i-1], w.A[i])
		if err != nil {
			return nil, err
		}
		b[i] = bi
	}

	// s_1 = r_1, s_m = s, the rest random.
	s, err := vecops.Sample(rng, m)
	if err != nil {
		return nil, err
	}
	s[0] = w.R[0]
	if m > 1 {
		s[m-1] = w.S
	}
	bCommits, err := commitAll(ck, b, s)
	if err != nil {
		return nil, err
	}

	x, y := hadamardChallenges(t, ck, m, n, bCommits)
	zst, err := hadamardZeroStatement(ck, st, bCommits, x, y)
	if err != nil {
		return nil, err
	}

	// a'_i = a_{i+1} for i < m, a'_m = -1
	aPrime := append(append([][]curve.Scalar(nil), w.A[1:]...), negOnes(n))
	rPrime := append(append([]curve.Scalar(nil), w.R[1:]...), curve.Zero())

	// b'_i = x^i b_i for i < m, b'_m = sum_{i=1..m-1} x^i b_{i+1}
	powers := vecops.Powers(x, m-1)
	bPrime := make([][]curve.Scalar, m)
	sPrime := make([]curve.Scalar, m)
	for i := 1; i < m; i++ {
		bPrime[i-1] = vecops.Scale(b[i-1], powers[i])
		sPrime[i-1] = s[i-1].Mul(powers[i])
	}
	bPrime[m-1] = combine(powers[1:], b[1:], n)
	sLast, err := vecops.Dot(powers[1:], s[1:])
	if err != nil {
		return nil, err
	}
	sPrime[m-1] = sLast

	zero, err := ProveZero(rng, ck, zst, &ZeroWitness{A: aPrime, R: rPrime, B: bPrime, S: sPrime}, t)
	if err != nil {
		return nil, err
	}
	return &HadamardProof{BCommits: bCommits, Zero: *zero}, nil
}

func hadamardChallenges(t *transcript.Transcript, ck *commitment.Key, m, n int, bCommits []commitment.Commitment) (x, y curve.Scalar) {
	t.Absorb([]byte(hadamardProductLabel))
	t.Absorb(absorbKey(wire.NewEncoder(), ck).Len(m).Len(n).Bytes())
	t.Absorb(wire.NewEncoder().Points(bCommits).Bytes())
	x = t.ChallengeScalar()
	y = t.ChallengeScalar()
	return x, y
}

// hadamardZeroStatement derives the zero argument statement from public
// values only, so prover and verifier build the same one.
func hadamardZeroStatement(ck *commitment.Key, st *HadamardStatement, bCommits []commitment.Commitment, x, y curve.Scalar) (*ZeroStatement, error) {
	m := len(st.ACommits)
	powers := vecops.Powers(x, m-1)

	minusOnes, err := commitment.Commit(ck, negOnes(st.N), curve.Zero())
	if err != nil {
		return nil, err
	}
	aCommits := append(append([]commitment.Commitment(nil), st.ACommits[1:]...), minusOnes)

	dCommits := make([]commitment.Commitment, m)
	for i := 1; i < m; i++ {
		dCommits[i-1] = bCommits[i-1].Mul(powers[i])
	}
	last, err := vecops.Dot(powers[1:], bCommits[1:])
	if err != nil {
		return nil, err
	}
	dCommits[m-1] = last

	return &ZeroStatement{
		ACommits: aCommits,
		BCommits: dCommits,
		Map:      NewYMap(y, st.N),
		N:        st.N,
	}, nil
}

// Verify checks the proof against st.
func (p *HadamardProof) Verify(ck *commitment.Key, st *HadamardStatement, t *transcript.Transcript) error {
	switch {
	case p == nil:
		return errNilProof
	case ck == nil:
		return errNilKey
	case st == nil:
		return errNilStatement
	case t == nil:
		return errNilTranscript
	}
	fail := essentials.NewVerificationError(HadamardProductName)
	m := len(st.ACommits)
	if m < 1 || len(p.BCommits) != m {
		return fail
	}
	if !st.ACommits[0].Equal(p.BCommits[0]) {
		return fail
	}
	if !st.BCommit.Equal(p.BCommits[m-1]) {
		return fail
	}

	x, y := hadamardChallenges(t, ck, m, st.N, p.BCommits)
	zst, err := hadamardZeroStatement(ck, st, p.BCommits, x, y)
	if err != nil {
		return err
	}
	return essentials.RemapVerification(p.Zero.Verify(ck, zst, t), HadamardProductName)
}

func (p *HadamardProof) encode(e *wire.Encoder) {
	e.Points(p.BCommits)
	p.Zero.encode(e)
}

func (p *HadamardProof) decode(d *wire.Decoder) {
	p.BCommits = d.Points()
	p.Zero.decode(d)
}

// MarshalBinary returns the canonical encoding of the proof.
func (p *HadamardProof) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *HadamardProof) UnmarshalBinary(b []byte) error {
	var out HadamardProof
	if err := decodeFinish(b, out.decode); err != nil {
		return err
	}
	*p = out
	return nil
}
