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

const productLabel = "matrix_elements_product"

// ProductStatement claims that the M columns committed to in ACommits, each
// of length N, have entries multiplying to Product.
type ProductStatement struct {
	ACommits []commitment.Commitment
	Product  curve.Scalar
	M        int
	N        int
}

// Validate checks the statement's dimensions.
func (st *ProductStatement) Validate() error {
	if st == nil {
		return errNilStatement
	}
	if st.M < 1 || st.N < 2 || len(st.ACommits) != st.M {
		return fmt.Errorf("%w: %d commitments for %dx%d matrix", essentials.ErrInvalidProductStatement, len(st.ACommits), st.M, st.N)
	}
	return nil
}

// ProductWitness opens the column commitments.
type ProductWitness struct {
	A [][]curve.Scalar
	R []curve.Scalar
}

// ProductProof is an argument that the entries of a committed matrix have a
// given product. It commits to the row products b and chains a Hadamard
// argument for b with a single value product argument for prod(b).
type ProductProof struct {
	BCommit     commitment.Commitment
	Hadamard    HadamardProof
	SingleValue SingleValueProductProof
}

// ProveProduct proves the matrix elements product relation.
func ProveProduct(rng io.Reader, ck *commitment.Key, st *ProductStatement, w *ProductWitness, t *transcript.Transcript) (*ProductProof, error) {
	switch {
	case ck == nil:
		return nil, errNilKey
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
	if err := checkMatrix("product a", w.A, st.M, st.N); err != nil {
		return nil, err
	}
	if len(w.R) != st.M {
		return nil, fmt.Errorf("product: %d randomness values, want %d", len(w.R), st.M)
	}

	t.Absorb([]byte(productLabel))

	b := w.A[0]
	for i := 1; i < st.M; i++ {
		next, err := vecops.Hadamard(b, w.A[i])
		if err != nil {
			return nil, err
		}
		b = next
	}

	// With a single column b is a_1, so its commitment must reuse r_1.
	s := w.R[0]
	if st.M > 1 {
		var err error
		if s, err = curve.RandomScalar(rng); err != nil {
			return nil, err
		}
	}
	bCommit, err := commitment.Commit(ck, b, s)
	if err != nil {
		return nil, err
	}

	hadamard, err := ProveHadamard(rng, ck,
		&HadamardStatement{ACommits: st.ACommits, BCommit: bCommit, N: st.N},
		&HadamardWitness{A: w.A, R: w.R, B: b, S: s}, t)
	if err != nil {
		return nil, err
	}
	single, err := ProveSingleValueProduct(rng, ck,
		&SingleValueProductStatement{ACommit: bCommit, Product: st.Product, N: st.N},
		&SingleValueProductWitness{A: b, R: s}, t)
	if err != nil {
		return nil, err
	}

	return &ProductProof{BCommit: bCommit, Hadamard: *hadamard, SingleValue: *single}, nil
}

// Verify checks the proof against st.
func (p *ProductProof) Verify(ck *commitment.Key, st *ProductStatement, t *transcript.Transcript) error {
	switch {
	case p == nil:
		return errNilProof
	case ck == nil:
		return errNilKey
	case t == nil:
		return errNilTranscript
	}
	if err := st.Validate(); err != nil {
		return err
	}

	t.Absorb([]byte(productLabel))

	err := p.Hadamard.Verify(ck, &HadamardStatement{ACommits: st.ACommits, BCommit: p.BCommit, N: st.N}, t)
	if err != nil {
		return err
	}
	return p.SingleValue.Verify(ck, &SingleValueProductStatement{ACommit: p.BCommit, Product: st.Product, N: st.N}, t)
}

func (p *ProductProof) encode(e *wire.Encoder) {
	e.Point(p.BCommit)
	p.Hadamard.encode(e)
	p.SingleValue.encode(e)
}

func (p *ProductProof) decode(d *wire.Decoder) {
	p.BCommit = d.Point()
	p.Hadamard.decode(d)
	p.SingleValue.decode(d)
}

// MarshalBinary returns the canonical encoding of the proof.
func (p *ProductProof) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *ProductProof) UnmarshalBinary(b []byte) error {
	var out ProductProof
	if err := decodeFinish(b, out.decode); err != nil {
		return err
	}
	*p = out
	return nil
}
