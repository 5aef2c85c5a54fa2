package argument

import (
	"fmt"
	"io"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/commitment"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/vecops"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
)

// MultiExpName identifies multi-exponentiation failures.
const MultiExpName = "Multi Exponentiation"

const multiExpLabel = "multi-exponentiation"

// MultiExpStatement claims
//
//	Product = Enc(1; rho) + sum_i <a_i, Ciphers_i>
//
// where ACommits commit to the exponent vectors a_1..a_m and Ciphers holds m
// rows of n ciphertexts.
type MultiExpStatement struct {
	Ciphers  [][]elgamal.Ciphertext
	Product  elgamal.Ciphertext
	ACommits []commitment.Commitment
}

// MultiExpWitness holds the exponents, their commitment randomness and the
// re-encryption randomness rho.
type MultiExpWitness struct {
	A   [][]curve.Scalar
	R   []curve.Scalar
	Rho curve.Scalar
}

// MultiExpProof is an argument that a ciphertext is a re-encrypted
// multi-exponentiation of committed exponents.
type MultiExpProof struct {
	A0Commit commitment.Commitment
	BCommits []commitment.Commitment // 2m commitments, B_m = com(0; 0)
	E        []elgamal.Ciphertext    // 2m ciphertexts, E_m = Product

	ABlinded   []curve.Scalar
	RBlinded   curve.Scalar
	BBlinded   curve.Scalar
	SBlinded   curve.Scalar
	TauBlinded curve.Scalar
}

func (st *MultiExpStatement) dims() (m, n int, err error) {
	m = len(st.Ciphers)
	if m < 1 || len(st.ACommits) != m {
		return 0, 0, fmt.Errorf("multi-exponentiation: %d cipher rows and %d commitments", m, len(st.ACommits))
	}
	n = len(st.Ciphers[0])
	for i, row := range st.Ciphers {
		if len(row) != n {
			return 0, 0, fmt.Errorf("multi-exponentiation: row %d has %d ciphertexts, want %d", i, len(row), n)
		}
	}
	return m, n, nil
}

// ProveMultiExp proves the multi-exponentiation relation.
func ProveMultiExp(rng io.Reader, pp *Parameters, st *MultiExpStatement, w *MultiExpWitness, t *transcript.Transcript) (*MultiExpProof, error) {
	if err := pp.validate(); err != nil {
		return nil, err
	}
	switch {
	case st == nil:
		return nil, errNilStatement
	case w == nil:
		return nil, errNilWitness
	case t == nil:
		return nil, errNilTranscript
	case rng == nil:
		return nil, errNilRand
	}
	m, n, err := st.dims()
	if err != nil {
		return nil, err
	}
	if err := checkMatrix("multi-exponentiation a", w.A, m, n); err != nil {
		return nil, err
	}
	if len(w.R) != m {
		return nil, fmt.Errorf("multi-exponentiation: %d randomness values, want %d", len(w.R), m)
	}
	ck := pp.CommitKey

	a0, err := vecops.Sample(rng, n)
	if err != nil {
		return nil, err
	}
	r0, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	a0Commit, err := commitment.Commit(ck, a0, r0)
	if err != nil {
		return nil, err
	}

	// b_m = 0, s_m = 0 and tau_m = rho make E_m equal the product.
	diagonals := 2 * m
	b, err := vecops.Sample(rng, diagonals)
	if err != nil {
		return nil, err
	}
	s, err := vecops.Sample(rng, diagonals)
	if err != nil {
		return nil, err
	}
	tau, err := vecops.Sample(rng, diagonals)
	if err != nil {
		return nil, err
	}
	b[m], s[m], tau[m] = curve.Zero(), curve.Zero(), w.Rho

	a := append([][]curve.Scalar{a0}, w.A...)
	r := append([]curve.Scalar{r0}, w.R...)

	bCommits := make([]commitment.Commitment, diagonals)
	e := make([]elgamal.Ciphertext, diagonals)
	for k := 0; k < diagonals; k++ {
		c, err := commitment.Commit(ck, []curve.Scalar{b[k]}, s[k])
		if err != nil {
			return nil, err
		}
		bCommits[k] = c

		ek := elgamal.Encrypt(pp.Encryption, pp.PublicKey, pp.Generator.Mul(b[k]), tau[k])
		for i := 1; i <= m; i++ {
			j := k - m + i
			if j < 0 || j > m {
				continue
			}
			d, err := vecops.Dot(a[j], st.Ciphers[i-1])
			if err != nil {
				return nil, err
			}
			ek = ek.Add(d)
		}
		e[k] = ek
	}

	x := multiExpChallenge(t, pp, st, m, n, a0Commit, bCommits, e)
	powers := vecops.Powers(x, diagonals-1)

	aWeights := powers[:m+1]
	rBlinded, err := vecops.Dot(aWeights, r)
	if err != nil {
		return nil, err
	}
	bBlinded, err := vecops.Dot(powers, b)
	if err != nil {
		return nil, err
	}
	sBlinded, err := vecops.Dot(powers, s)
	if err != nil {
		return nil, err
	}
	tauBlinded, err := vecops.Dot(powers, tau)
	if err != nil {
		return nil, err
	}

	return &MultiExpProof{
		A0Commit:   a0Commit,
		BCommits:   bCommits,
		E:          e,
		ABlinded:   combine(aWeights, a, n),
		RBlinded:   rBlinded,
		BBlinded:   bBlinded,
		SBlinded:   sBlinded,
		TauBlinded: tauBlinded,
	}, nil
}

func multiExpChallenge(t *transcript.Transcript, pp *Parameters, st *MultiExpStatement, m, n int, a0 commitment.Commitment, bCommits []commitment.Commitment, e []elgamal.Ciphertext) curve.Scalar {
	pub := wire.NewEncoder().Label(multiExpLabel)
	pp.encodePublic(pub).Points(st.ACommits).Point(st.Product.C1).Point(st.Product.C2)
	encodeCipherMatrix(pub, st.Ciphers)
	t.Absorb(pub.Bytes())
	t.Absorb(wire.NewEncoder().Len(m).Len(n).Len(2*m - 1).Bytes())
	msgs := wire.NewEncoder().Point(a0).Points(bCommits)
	t.Absorb(elgamal.EncodeCiphertexts(msgs, e).Bytes())
	return t.ChallengeScalar()
}

// Verify checks the proof against st.
func (p *MultiExpProof) Verify(pp *Parameters, st *MultiExpStatement, t *transcript.Transcript) error {
	if p == nil {
		return errNilProof
	}
	if err := pp.validate(); err != nil {
		return err
	}
	switch {
	case st == nil:
		return errNilStatement
	case t == nil:
		return errNilTranscript
	}
	fail := essentials.NewVerificationError(MultiExpName)
	m, n, err := st.dims()
	if err != nil {
		return fail
	}
	if len(p.BCommits) != 2*m || len(p.E) != 2*m || len(p.ABlinded) != n {
		return fail
	}

	x := multiExpChallenge(t, pp, st, m, n, p.A0Commit, p.BCommits, p.E)
	powers := vecops.Powers(x, 2*m-1)

	if !p.BCommits[m].IsIdentity() {
		return fail
	}
	if !p.E[m].Equal(st.Product) {
		return fail
	}

	ck := pp.CommitKey
	left, err := vecops.Dot(powers[1:m+1], st.ACommits)
	if err != nil {
		return err
	}
	right, err := commitment.Commit(ck, p.ABlinded, p.RBlinded)
	if err != nil {
		return err
	}
	if !left.Add(p.A0Commit).Equal(right) {
		return fail
	}

	left, err = vecops.Dot(powers, p.BCommits)
	if err != nil {
		return err
	}
	right, err = commitment.Commit(ck, []curve.Scalar{p.BBlinded}, p.SBlinded)
	if err != nil {
		return err
	}
	if !left.Equal(right) {
		return fail
	}

	sumE, err := vecops.Dot(powers, p.E)
	if err != nil {
		return err
	}
	rhs := elgamal.Encrypt(pp.Encryption, pp.PublicKey, pp.Generator.Mul(p.BBlinded), p.TauBlinded)
	for i := 1; i <= m; i++ {
		exps := vecops.Scale(p.ABlinded, powers[m-i])
		d, err := vecops.Dot(exps, st.Ciphers[i-1])
		if err != nil {
			return err
		}
		rhs = rhs.Add(d)
	}
	if !sumE.Equal(rhs) {
		return fail
	}
	return nil
}

func (p *MultiExpProof) encode(e *wire.Encoder) {
	e.Point(p.A0Commit).Points(p.BCommits)
	elgamal.EncodeCiphertexts(e, p.E)
	e.Scalars(p.ABlinded).
		Scalar(p.RBlinded).Scalar(p.BBlinded).Scalar(p.SBlinded).Scalar(p.TauBlinded)
}

func (p *MultiExpProof) decode(d *wire.Decoder) {
	p.A0Commit = d.Point()
	p.BCommits = d.Points()
	p.E = elgamal.DecodeCiphertexts(d)
	p.ABlinded = d.Scalars()
	p.RBlinded = d.Scalar()
	p.BBlinded = d.Scalar()
	p.SBlinded = d.Scalar()
	p.TauBlinded = d.Scalar()
}

// MarshalBinary returns the canonical encoding of the proof.
func (p *MultiExpProof) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary decodes a proof produced by MarshalBinary.
func (p *MultiExpProof) UnmarshalBinary(b []byte) error {
	var out MultiExpProof
	if err := decodeFinish(b, out.decode); err != nil {
		return err
	}
	*p = out
	return nil
}
