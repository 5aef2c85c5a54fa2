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

// ZeroArgumentName identifies zero argument failures.
const ZeroArgumentName = "Zero Argument (5.2)"

const zeroArgumentLabel = "zero_argument"

// BilinearMap is a bilinear map from two vectors to a scalar.
type BilinearMap interface {
	Map(a, b []curve.Scalar) (curve.Scalar, error)
}

// YMap is the bilinear map a*b = sum_{j=1..n} a_j * b_j * y^j.
type YMap struct {
	powers []curve.Scalar // y^1 .. y^n
}

// NewYMap returns the y-map for vectors of length n.
func NewYMap(y curve.Scalar, n int) YMap {
	return YMap{powers: vecops.Powers(y, n)[1:]}
}

// Map evaluates the map. Both vectors must have the map's length.
func (m YMap) Map(a, b []curve.Scalar) (curve.Scalar, error) {
	if len(a) != len(b) {
		return curve.Scalar{}, &essentials.LengthError{Op: essentials.OpBilinearMap, Left: len(a), Right: len(b)}
	}
	if len(a) != len(m.powers) {
		return curve.Scalar{}, &essentials.LengthError{Op: essentials.OpBilinearMap, Left: len(a), Right: len(m.powers)}
	}
	var acc curve.Scalar
	for j := range a {
		acc = acc.Add(a[j].Mul(b[j]).Mul(m.powers[j]))
	}
	return acc, nil
}

// ZeroStatement claims sum_{i=1..m} a_i * b_{i-1} = 0 where ACommits commit
// to a_1..a_m and BCommits to b_0..b_{m-1}, all vectors of length N.
type ZeroStatement struct {
	ACommits []commitment.Commitment
	BCommits []commitment.Commitment
	Map      BilinearMap
	N        int
}

// ZeroWitness opens the statement's commitments.
type ZeroWitness struct {
	A [][]curve.Scalar // a_1..a_m
	R []curve.Scalar
	B [][]curve.Scalar // b_0..b_{m-1}
	S []curve.Scalar
}

// ZeroProof is an argument that committed vectors satisfy a zero relation
// under a bilinear map.
type ZeroProof struct {
	A0Commit  commitment.Commitment
	BMCommit  commitment.Commitment
	Diagonals []commitment.Commitment // D_0..D_2m

	ABlinded []curve.Scalar
	BBlinded []curve.Scalar
	RBlinded curve.Scalar
	SBlinded curve.Scalar
	TBlinded curve.Scalar
}

// ProveZero proves the zero relation.
func ProveZero(rng io.Reader, ck *commitment.Key, st *ZeroStatement, w *ZeroWitness, t *transcript.Transcript) (*ZeroProof, error) {
	switch {
	case ck == nil:
		return nil, errNilKey
	case st == nil || st.Map == nil:
		return nil, errNilStatement
	case w == nil:
		return nil, errNilWitness
	case t == nil:
		return nil, errNilTranscript
	case rng == nil:
		return nil, errNilRand
	}
	m, n := len(st.ACommits), st.N
	if m < 1 || len(st.BCommits) != m {
		return nil, fmt.Errorf("zero argument: %d a-commitments and %d b-commitments", m, len(st.BCommits))
	}
	if err := checkMatrix("zero argument a", w.A, m, n); err != nil {
		return nil, err
	}
	if err := checkMatrix("zero argument b", w.B, m, n); err != nil {
		return nil, err
	}
	if len(w.R) != m || len(w.S) != m {
		return nil, fmt.Errorf("zero argument: randomness lengths %d and %d, want %d", len(w.R), len(w.S), m)
	}

	a0, err := vecops.Sample(rng, n)
	if err != nil {
		return nil, err
	}
	bm, err := vecops.Sample(rng, n)
	if err != nil {
		return nil, err
	}
	blind, err := vecops.Sample(rng, 2)
	if err != nil {
		return nil, err
	}
	r0, sm := blind[0], blind[1]

	a0Commit, err := commitment.Commit(ck, a0, r0)
	if err != nil {
		return nil, err
	}
	bmCommit, err := commitment.Commit(ck, bm, sm)
	if err != nil {
		return nil, err
	}

	// Extended matrices: a_0..a_m and b_0..b_m.
	a := append([][]curve.Scalar{a0}, w.A...)
	r := append([]curve.Scalar{r0}, w.R...)
	b := append(append([][]curve.Scalar(nil), w.B...), bm)
	s := append(append([]curve.Scalar(nil), w.S...), sm)

	diagonals, err := diagonalSums(st.Map, a, b)
	if err != nil {
		return nil, err
	}
	tk, err := vecops.Sample(rng, 2*m+1)
	if err != nil {
		return nil, err
	}
	tk[m+1] = curve.Zero()
	dCommits := make([]commitment.Commitment, 2*m+1)
	for k := range dCommits {
		c, err := commitment.Commit(ck, []curve.Scalar{diagonals[k]}, tk[k])
		if err != nil {
			return nil, err
		}
		dCommits[k] = c
	}

	x := zeroChallenge(t, ck, st, a0Commit, bmCommit, dCommits)
	powers := vecops.Powers(x, 2*m)

	// a~ = sum x^i a_i, b~ = sum x^(m-j) b_j
	aWeights := powers[:m+1]
	bWeights := vecops.Reverse(aWeights)
	rBlinded, err := vecops.Dot(aWeights, r)
	if err != nil {
		return nil, err
	}
	sBlinded, err := vecops.Dot(bWeights, s)
	if err != nil {
		return nil, err
	}
	tBlinded, err := vecops.Dot(powers, tk)
	if err != nil {
		return nil, err
	}

	return &ZeroProof{
		A0Commit:  a0Commit,
		BMCommit:  bmCommit,
		Diagonals: dCommits,
		ABlinded:  combine(aWeights, a, n),
		BBlinded:  combine(bWeights, b, n),
		RBlinded:  rBlinded,
		SBlinded:  sBlinded,
		TBlinded:  tBlinded,
	}, nil
}

// diagonalSums returns d_k = sum over i - j = k - m of a_i * b_j for
// k = 0..2m, where a and b have m+1 entries each.
func diagonalSums(bm BilinearMap, a, b [][]curve.Scalar) ([]curve.Scalar, error) {
	if len(a) != len(b) {
		return nil, &essentials.LengthError{Op: essentials.OpDiagonals, Left: len(a), Right: len(b)}
	}
	m := len(a) - 1
	d := make([]curve.Scalar, 2*m+1)
	for i := range a {
		for j := range b {
			v, err := bm.Map(a[i], b[j])
			if err != nil {
				return nil, err
			}
			k := i - j + m
			d[k] = d[k].Add(v)
		}
	}
	return d, nil
}

func zeroChallenge(t *transcript.Transcript, ck *commitment.Key, st *ZeroStatement, a0, bm commitment.Commitment, diagonals []commitment.Commitment) curve.Scalar {
	t.Absorb([]byte(zeroArgumentLabel))
	t.Absorb(absorbKey(wire.NewEncoder(), ck).Len(len(st.ACommits)).Len(st.N).Bytes())
	t.Absorb(wire.NewEncoder().Point(a0).Point(bm).Bytes())
	t.Absorb(wire.NewEncoder().Points(st.ACommits).Points(st.BCommits).Points(diagonals).Bytes())
	return t.ChallengeScalar()
}

// Verify checks the proof against st.
func (p *ZeroProof) Verify(ck *commitment.Key, st *ZeroStatement, t *transcript.Transcript) error {
	switch {
	case p == nil:
		return errNilProof
	case ck == nil:
		return errNilKey
	case st == nil || st.Map == nil:
		return errNilStatement
	case t == nil:
		return errNilTranscript
	}
	fail := essentials.NewVerificationError(ZeroArgumentName)
	m := len(st.ACommits)
	if m < 1 || len(st.BCommits) != m || len(p.Diagonals) != 2*m+1 {
		return fail
	}
	if len(p.ABlinded) != st.N || len(p.BBlinded) != st.N {
		return fail
	}
	// com(0; 0) is the identity.
	if !p.Diagonals[m+1].IsIdentity() {
		return fail
	}

	x := zeroChallenge(t, ck, st, p.A0Commit, p.BMCommit, p.Diagonals)
	powers := vecops.Powers(x, 2*m)

	aCombined, err := vecops.Dot(powers[1:m+1], st.ACommits)
	if err != nil {
		return err
	}
	right, err := commitment.Commit(ck, p.ABlinded, p.RBlinded)
	if err != nil {
		return err
	}
	if !p.A0Commit.Add(aCombined).Equal(right) {
		return fail
	}

	bCombined, err := vecops.Dot(vecops.Reverse(powers[1:m+1]), st.BCommits)
	if err != nil {
		return err
	}
	right, err = commitment.Commit(ck, p.BBlinded, p.SBlinded)
	if err != nil {
		return err
	}
	if !p.BMCommit.Add(bCombined).Equal(right) {
		return fail
	}

	left, err := vecops.Dot(powers, p.Diagonals)
	if err != nil {
		return err
	}
	aStarB, err := st.Map.Map(p.ABlinded, p.BBlinded)
	if err != nil {
		return err
	}
	right, err = commitment.Commit(ck, []curve.Scalar{aStarB}, p.TBlinded)
	if err != nil {
		return err
	}
	if !left.Equal(right) {
		return fail
	}
	return nil
}

func (p *ZeroProof) encode(e *wire.Encoder) {
	e.Point(p.A0Commit).Point(p.BMCommit).Points(p.Diagonals).
		Scalars(p.ABlinded).Scalars(p.BBlinded).
		Scalar(p.RBlinded).Scalar(p.SBlinded).Scalar(p.TBlinded)
}

func (p *ZeroProof) decode(d *wire.Decoder) {
	p.A0Commit = d.Point()
	p.BMCommit = d.Point()
	p.Diagonals = d.Points()
	p.ABlinded = d.Scalars()
	p.BBlinded = d.Scalars()
	p.RBlinded = d.Scalar()
	p.SBlinded = d.Scalar()
	p.TBlinded = d.Scalar()
}

// MarshalBinary returns the canonical encoding of the proof.
func (p *ZeroProof) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *ZeroProof) UnmarshalBinary(b []byte) error {
	var out ZeroProof
	if err := decodeFinish(b, out.decode); err != nil {
		return err
	}
	*p = out
	return nil
}
