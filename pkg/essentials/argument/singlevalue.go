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

// SingleValueProductName identifies single value product failures.
const SingleValueProductName = "Single Value Product Argument (5.3)"

const singleValueProductLabel = "single_value_product_argument"

// SingleValueProductStatement claims that ACommit opens to a vector of
// length N whose entries multiply to Product.
type SingleValueProductStatement struct {
	ACommit commitment.Commitment
	Product curve.Scalar
	N       int
}

// SingleValueProductWitness opens ACommit.
type SingleValueProductWitness struct {
	A []curve.Scalar
	R curve.Scalar
}

// SingleValueProductProof is an argument that a committed vector has a given
// product.
type SingleValueProductProof struct {
	DCommit     commitment.Commitment
	DeltaCommit commitment.Commitment
	DiffCommit  commitment.Commitment

	ABlinded []curve.Scalar
	BBlinded []curve.Scalar
	RBlinded curve.Scalar
	SBlinded curve.Scalar
}

// ProveSingleValueProduct proves prod(w.A) = st.Product. Vectors must have at
// least two entries.
func ProveSingleValueProduct(rng io.Reader, ck *commitment.Key, st *SingleValueProductStatement, w *SingleValueProductWitness, t *transcript.Transcript) (*SingleValueProductProof, error) {
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
	n := st.N
	if n < 2 {
		return nil, fmt.Errorf("single value product: vector length %d, need at least 2", n)
	}
	if len(w.A) != n {
		return nil, fmt.Errorf("single value product: witness length %d, want %d", len(w.A), n)
	}

	// b_i = a_1 * ... * a_i
	b := make([]curve.Scalar, n)
	b[0] = w.A[0]
	for i := 1; i < n; i++ {
		b[i] = b[i-1].Mul(w.A[i])
	}

	d, err := vecops.Sample(rng, n)
	if err != nil {
		return nil, err
	}
	// delta_1 = d_1, delta_n = 0, the rest random.
	delta, err := vecops.Sample(rng, n)
	if err != nil {
		return nil, err
	}
	delta[0] = d[0]
	delta[n-1] = curve.Zero()
	blind, err := vecops.Sample(rng, 3)
	if err != nil {
		return nil, err
	}
	rd, s1, sx := blind[0], blind[1], blind[2]

	dCommit, err := commitment.Commit(ck, d, rd)
	if err != nil {
		return nil, err
	}
	deltaProducts := make([]curve.Scalar, n-1)
	diffs := make([]curve.Scalar, n-1)
	for i := 0; i < n-1; i++ {
		deltaProducts[i] = delta[i].Mul(d[i+1]).Neg()
		diffs[i] = delta[i+1].Sub(w.A[i+1].Mul(delta[i])).Sub(b[i].Mul(d[i+1]))
	}
	deltaCommit, err := commitment.Commit(ck, deltaProducts, s1)
	if err != nil {
		return nil, err
	}
	diffCommit, err := commitment.Commit(ck, diffs, sx)
	if err != nil {
		return nil, err
	}

	x := singleValueChallenge(t, ck, st, dCommit, deltaCommit, diffCommit)

	aBlinded := make([]curve.Scalar, n)
	bBlinded := make([]curve.Scalar, n)
	for i := range aBlinded {
		aBlinded[i] = x.Mul(w.A[i]).Add(d[i])
		bBlinded[i] = x.Mul(b[i]).Add(delta[i])
	}

	return &SingleValueProductProof{
		DCommit:     dCommit,
		DeltaCommit: deltaCommit,
		DiffCommit:  diffCommit,
		ABlinded:    aBlinded,
		BBlinded:    bBlinded,
		RBlinded:    x.Mul(w.R).Add(rd),
		SBlinded:    x.Mul(sx).Add(s1),
	}, nil
}

func singleValueChallenge(t *transcript.Transcript, ck *commitment.Key, st *SingleValueProductStatement, d, delta, diff commitment.Commitment) curve.Scalar {
	t.Absorb([]byte(singleValueProductLabel))
	t.Absorb(absorbKey(wire.NewEncoder(), ck).Point(st.ACommit).Scalar(st.Product).Bytes())
	t.Absorb(wire.NewEncoder().Point(d).Point(delta).Point(diff).Bytes())
	return t.ChallengeScalar()
}

// Verify checks the proof against st.
func (p *SingleValueProductProof) Verify(ck *commitment.Key, st *SingleValueProductStatement, t *transcript.Transcript) error {
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
	fail := essentials.NewVerificationError(SingleValueProductName)
	n := st.N
	if n < 2 || len(p.ABlinded) != n || len(p.BBlinded) != n {
		return fail
	}
	if !p.BBlinded[0].Equal(p.ABlinded[0]) {
		return fail
	}

	x := singleValueChallenge(t, ck, st, p.DCommit, p.DeltaCommit, p.DiffCommit)

	if !p.BBlinded[n-1].Equal(x.Mul(st.Product)) {
		return fail
	}

	right, err := commitment.Commit(ck, p.ABlinded, p.RBlinded)
	if err != nil {
		return err
	}
	if !st.ACommit.Mul(x).Add(p.DCommit).Equal(right) {
		return fail
	}

	diffs := make([]curve.Scalar, n-1)
	for i := 0; i < n-1; i++ {
		diffs[i] = x.Mul(p.BBlinded[i+1]).Sub(p.BBlinded[i].Mul(p.ABlinded[i+1]))
	}
	right, err = commitment.Commit(ck, diffs, p.SBlinded)
	if err != nil {
		return err
	}
	if !p.DiffCommit.Mul(x).Add(p.DeltaCommit).Equal(right) {
		return fail
	}
	return nil
}

func (p *SingleValueProductProof) encode(e *wire.Encoder) {
	e.Point(p.DCommit).Point(p.DeltaCommit).Point(p.DiffCommit).
		Scalars(p.ABlinded).Scalars(p.BBlinded).
		Scalar(p.RBlinded).Scalar(p.SBlinded)
}

func (p *SingleValueProductProof) decode(d *wire.Decoder) {
	p.DCommit = d.Point()
	p.DeltaCommit = d.Point()
	p.DiffCommit = d.Point()
	p.ABlinded = d.Scalars()
	p.BBlinded = d.Scalars()
	p.RBlinded = d.Scalar()
	p.SBlinded = d.Scalar()
}

// MarshalBinary returns the canonical encoding of the proof.
func (p *SingleValueProductProof) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *SingleValueProductProof) UnmarshalBinary(b []byte) error {
	var out SingleValueProductProof
	if err := decodeFinish(b, out.decode); err != nil {
		return err
	}
	*p = out
	return nil
}
