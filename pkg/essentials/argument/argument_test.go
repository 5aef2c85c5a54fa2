package argument_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/argument"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/commitment"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/permutation"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var seed = []byte("argument_test")

func newTranscript() *transcript.Transcript { return transcript.New(seed) }

func scalars(t *testing.T, n int) []curve.Scalar {
	t.Helper()
	out := make([]curve.Scalar, n)
	for i := range out {
		s, err := curve.RandomScalar(rand.Reader)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func matrix(t *testing.T, m, n int) [][]curve.Scalar {
	t.Helper()
	out := make([][]curve.Scalar, m)
	for i := range out {
		out[i] = scalars(t, n)
	}
	return out
}

func commitKey(t *testing.T, n int) *commitment.Key {
	t.Helper()
	ck, err := commitment.Setup(rand.Reader, n)
	require.NoError(t, err)
	return ck
}

func commitAll(t *testing.T, ck *commitment.Key, vs [][]curve.Scalar, rs []curve.Scalar) []commitment.Commitment {
	t.Helper()
	out, err := commitment.CommitColumns(context.Background(), ck, vs, rs)
	require.NoError(t, err)
	return out
}

func product(v []curve.Scalar) curve.Scalar {
	p := curve.One()
	for _, x := range v {
		p = p.Mul(x)
	}
	return p
}

func requireVerificationError(t *testing.T, err error, name string) {
	t.Helper()
	var verr *essentials.VerificationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, name, verr.Proof)
}

func TestSingleValueProduct(t *testing.T) {
	const n = 6
	ck := commitKey(t, n)
	a := scalars(t, n)
	r := scalars(t, 1)[0]
	c, err := commitment.Commit(ck, a, r)
	require.NoError(t, err)

	st := &argument.SingleValueProductStatement{ACommit: c, Product: product(a), N: n}
	proof, err := argument.ProveSingleValueProduct(rand.Reader, ck, st, &argument.SingleValueProductWitness{A: a, R: r}, newTranscript())
	require.NoError(t, err)
	require.NoError(t, proof.Verify(ck, st, newTranscript()))

	raw, err := proof.MarshalBinary()
	require.NoError(t, err)
	var decoded argument.SingleValueProductProof
	require.NoError(t, decoded.UnmarshalBinary(raw))
	require.NoError(t, decoded.Verify(ck, st, newTranscript()))

	wrong := *st
	wrong.Product = product(a).Add(curve.One())
	requireVerificationError(t, proof.Verify(ck, &wrong, newTranscript()), argument.SingleValueProductName)
}

func TestSingleValueProductWrongWitness(t *testing.T) {
	const n = 4
	ck := commitKey(t, n)
	a := scalars(t, n)
	r := scalars(t, 1)[0]
	c, err := commitment.Commit(ck, a, r)
	require.NoError(t, err)

	// Claims a product the committed vector does not have.
	st := &argument.SingleValueProductStatement{ACommit: c, Product: scalars(t, 1)[0], N: n}
	proof, err := argument.ProveSingleValueProduct(rand.Reader, ck, st, &argument.SingleValueProductWitness{A: a, R: r}, newTranscript())
	require.NoError(t, err)
	requireVerificationError(t, proof.Verify(ck, st, newTranscript()), argument.SingleValueProductName)
}

func TestSingleValueProductTooShort(t *testing.T) {
	ck := commitKey(t, 2)
	a := scalars(t, 1)
	c, err := commitment.Commit(ck, a, curve.Zero())
	require.NoError(t, err)
	st := &argument.SingleValueProductStatement{ACommit: c, Product: a[0], N: 1}
	_, err = argument.ProveSingleValueProduct(rand.Reader, ck, st, &argument.SingleValueProductWitness{A: a}, newTranscript())
	require.Error(t, err)
}

func TestYMap(t *testing.T) {
	y := curve.NewScalar(3)
	ymap := argument.NewYMap(y, 2)
	a := []curve.Scalar{curve.NewScalar(1), curve.NewScalar(2)}
	b := []curve.Scalar{curve.NewScalar(5), curve.NewScalar(7)}

	// 1*5*3 + 2*7*9 = 141
	got, err := ymap.Map(a, b)
	require.NoError(t, err)
	require.True(t, got.Equal(curve.NewScalar(141)))

	_, err = ymap.Map(a, b[:1])
	var lerr *essentials.LengthError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, essentials.OpBilinearMap, lerr.Op)
}

// zeroInstance returns a witness with sum a_i * b_{i-1} = 0 by solving for
// the first entry of the last b vector.
func zeroInstance(t *testing.T, m, n int, ymap argument.YMap, y curve.Scalar) *argument.ZeroWitness {
	t.Helper()
	w := &argument.ZeroWitness{A: matrix(t, m, n), R: scalars(t, m), B: matrix(t, m, n), S: scalars(t, m)}
	last := make([]curve.Scalar, n)
	w.B[m-1] = last

	var acc curve.Scalar
	for i := 0; i < m-1; i++ {
		v, err := ymap.Map(w.A[i], w.B[i])
		require.NoError(t, err)
		acc = acc.Add(v)
	}
	// a_m[0] * last[0] * y = -acc
	last[0] = acc.Neg().Mul(w.A[m-1][0].Mul(y).Inverse())
	return w
}

func TestZeroArgument(t *testing.T) {
	const m, n = 3, 4
	ck := commitKey(t, n)
	y := scalars(t, 1)[0]
	ymap := argument.NewYMap(y, n)
	w := zeroInstance(t, m, n, ymap, y)

	st := &argument.ZeroStatement{
		ACommits: commitAll(t, ck, w.A, w.R),
		BCommits: commitAll(t, ck, w.B, w.S),
		Map:      ymap,
		N:        n,
	}
	proof, err := argument.ProveZero(rand.Reader, ck, st, w, newTranscript())
	require.NoError(t, err)
	require.NoError(t, proof.Verify(ck, st, newTranscript()))

	raw, err := proof.MarshalBinary()
	require.NoError(t, err)
	var decoded argument.ZeroProof
	require.NoError(t, decoded.UnmarshalBinary(raw))
	require.NoError(t, decoded.Verify(ck, st, newTranscript()))
}

func TestZeroArgumentNonZeroRelation(t *testing.T) {
	const m, n = 2, 3
	ck := commitKey(t, n)
	ymap := argument.NewYMap(scalars(t, 1)[0], n)
	w := &argument.ZeroWitness{A: matrix(t, m, n), R: scalars(t, m), B: matrix(t, m, n), S: scalars(t, m)}

	st := &argument.ZeroStatement{
		ACommits: commitAll(t, ck, w.A, w.R),
		BCommits: commitAll(t, ck, w.B, w.S),
		Map:      ymap,
		N:        n,
	}
	proof, err := argument.ProveZero(rand.Reader, ck, st, w, newTranscript())
	require.NoError(t, err)
	requireVerificationError(t, proof.Verify(ck, st, newTranscript()), argument.ZeroArgumentName)
}

func hadamardInstance(t *testing.T, ck *commitment.Key, m, n int) (*argument.HadamardStatement, *argument.HadamardWitness) {
	t.Helper()
	a := matrix(t, m, n)
	r := scalars(t, m)
	b := append([]curve.Scalar(nil), a[0]...)
	for i := 1; i < m; i++ {
		for j := range b {
			b[j] = b[j].Mul(a[i][j])
		}
	}
	s := scalars(t, 1)[0]
	if m == 1 {
		s = r[0]
	}
	bCommit, err := commitment.Commit(ck, b, s)
	require.NoError(t, err)
	return &argument.HadamardStatement{ACommits: commitAll(t, ck, a, r), BCommit: bCommit, N: n},
		&argument.HadamardWitness{A: a, R: r, B: b, S: s}
}

func TestHadamardProduct(t *testing.T) {
	for _, dims := range [][2]int{{1, 3}, {2, 3}, {4, 5}} {
		m, n := dims[0], dims[1]
		ck := commitKey(t, n)
		st, w := hadamardInstance(t, ck, m, n)

		proof, err := argument.ProveHadamard(rand.Reader, ck, st, w, newTranscript())
		require.NoError(t, err)
		require.NoError(t, proof.Verify(ck, st, newTranscript()), "m=%d n=%d", m, n)

		raw, err := proof.MarshalBinary()
		require.NoError(t, err)
		var decoded argument.HadamardProof
		require.NoError(t, decoded.UnmarshalBinary(raw))
		require.NoError(t, decoded.Verify(ck, st, newTranscript()))
	}
}

func TestHadamardProductWrongB(t *testing.T) {
	const m, n = 3, 4
	ck := commitKey(t, n)
	st, w := hadamardInstance(t, ck, m, n)

	w.B = scalars(t, n)
	bCommit, err := commitment.Commit(ck, w.B, w.S)
	require.NoError(t, err)
	st.BCommit = bCommit

	proof, err := argument.ProveHadamard(rand.Reader, ck, st, w, newTranscript())
	require.NoError(t, err)
	requireVerificationError(t, proof.Verify(ck, st, newTranscript()), argument.HadamardProductName)
}

func TestHadamardProductForgedPartials(t *testing.T) {
	const m, n = 3, 4
	ck := commitKey(t, n)
	st, w := hadamardInstance(t, ck, m, n)

	proof, err := argument.ProveHadamard(rand.Reader, ck, st, w, newTranscript())
	require.NoError(t, err)

	forged, err := commitment.Commit(ck, scalars(t, n), curve.One())
	require.NoError(t, err)
	proof.BCommits[1] = forged
	requireVerificationError(t, proof.Verify(ck, st, newTranscript()), argument.HadamardProductName)
}

func productInstance(t *testing.T, ck *commitment.Key, m, n int) (*argument.ProductStatement, *argument.ProductWitness) {
	t.Helper()
	a := matrix(t, m, n)
	r := scalars(t, m)
	p := curve.One()
	for _, col := range a {
		p = p.Mul(product(col))
	}
	return &argument.ProductStatement{ACommits: commitAll(t, ck, a, r), Product: p, M: m, N: n},
		&argument.ProductWitness{A: a, R: r}
}

func TestProductArgument(t *testing.T) {
	for _, dims := range [][2]int{{1, 2}, {3, 4}} {
		m, n := dims[0], dims[1]
		ck := commitKey(t, n)
		st, w := productInstance(t, ck, m, n)

		proof, err := argument.ProveProduct(rand.Reader, ck, st, w, newTranscript())
		require.NoError(t, err)
		require.NoError(t, proof.Verify(ck, st, newTranscript()), "m=%d n=%d", m, n)

		raw, err := proof.MarshalBinary()
		require.NoError(t, err)
		var decoded argument.ProductProof
		require.NoError(t, decoded.UnmarshalBinary(raw))
		require.NoError(t, decoded.Verify(ck, st, newTranscript()))
	}
}

func TestProductArgumentWrongProduct(t *testing.T) {
	const m, n = 2, 3
	ck := commitKey(t, n)
	st, w := productInstance(t, ck, m, n)
	st.Product = st.Product.Add(curve.One())

	proof, err := argument.ProveProduct(rand.Reader, ck, st, w, newTranscript())
	require.NoError(t, err)
	requireVerificationError(t, proof.Verify(ck, st, newTranscript()), argument.SingleValueProductName)
}

func TestProductArgumentInvalidStatement(t *testing.T) {
	const m, n = 2, 3
	ck := commitKey(t, n)
	st, w := productInstance(t, ck, m, n)
	st.M = 3

	_, err := argument.ProveProduct(rand.Reader, ck, st, w, newTranscript())
	require.ErrorIs(t, err, essentials.ErrInvalidProductStatement)

	var proof argument.ProductProof
	require.ErrorIs(t, proof.Verify(ck, st, newTranscript()), essentials.ErrInvalidProductStatement)
}

type cipherSetup struct {
	pp *argument.Parameters
	sk *elgamal.SecretKey
}

func newCipherSetup(t *testing.T, n int) cipherSetup {
	t.Helper()
	enc, err := elgamal.Setup(rand.Reader)
	require.NoError(t, err)
	pk, sk, err := elgamal.KeyGen(enc, rand.Reader)
	require.NoError(t, err)
	return cipherSetup{pp: argument.NewParameters(enc, pk, commitKey(t, n)), sk: sk}
}

func (cs cipherSetup) ciphers(t *testing.T, size int) ([]elgamal.Ciphertext, []curve.Point) {
	t.Helper()
	out := make([]elgamal.Ciphertext, size)
	msgs := make([]curve.Point, size)
	for i := range out {
		msg, err := curve.RandomPoint(rand.Reader)
		require.NoError(t, err)
		msgs[i] = msg
		out[i] = elgamal.Encrypt(cs.pp.Encryption, cs.pp.PublicKey, msg, scalars(t, 1)[0])
	}
	return out, msgs
}

func TestMultiExpArgument(t *testing.T) {
	const m, n = 3, 4
	cs := newCipherSetup(t, n)
	ck := cs.pp.CommitKey

	rows := make([][]elgamal.Ciphertext, m)
	for i := range rows {
		rows[i], _ = cs.ciphers(t, n)
	}
	a := matrix(t, m, n)
	r := scalars(t, m)
	rho := scalars(t, 1)[0]

	prod := elgamal.Encrypt(cs.pp.Encryption, cs.pp.PublicKey, curve.Identity(), rho)
	for i := range rows {
		for j := range rows[i] {
			prod = prod.Add(rows[i][j].Mul(a[i][j]))
		}
	}
	st := &argument.MultiExpStatement{Ciphers: rows, Product: prod, ACommits: commitAll(t, ck, a, r)}

	proof, err := argument.ProveMultiExp(rand.Reader, cs.pp, st, &argument.MultiExpWitness{A: a, R: r, Rho: rho}, newTranscript())
	require.NoError(t, err)
	require.NoError(t, proof.Verify(cs.pp, st, newTranscript()))

	raw, err := proof.MarshalBinary()
	require.NoError(t, err)
	var decoded argument.MultiExpProof
	require.NoError(t, decoded.UnmarshalBinary(raw))
	require.NoError(t, decoded.Verify(cs.pp, st, newTranscript()))

	bad, err := argument.ProveMultiExp(rand.Reader, cs.pp, st, &argument.MultiExpWitness{A: a, R: r, Rho: rho.Add(curve.One())}, newTranscript())
	require.NoError(t, err)
	requireVerificationError(t, bad.Verify(cs.pp, st, newTranscript()), argument.MultiExpName)
}

func proveShuffle(t *testing.T, cs cipherSetup, m, n int) (*argument.ShuffleStatement, *argument.ShuffleProof, []curve.Point) {
	t.Helper()
	input, msgs := cs.ciphers(t, m*n)
	perm, err := permutation.New(rand.Reader, m*n)
	require.NoError(t, err)
	shuffled, w, err := argument.Shuffle(rand.Reader, cs.pp, input, perm)
	require.NoError(t, err)

	st := &argument.ShuffleStatement{Input: input, Shuffled: shuffled, M: m, N: n}
	proof, err := argument.ProveShuffle(context.Background(), rand.Reader, cs.pp, st, w, newTranscript())
	require.NoError(t, err)
	return st, proof, msgs
}

func TestShuffleArgument(t *testing.T) {
	for _, dims := range [][2]int{{1, 2}, {2, 3}, {4, 5}} {
		m, n := dims[0], dims[1]
		cs := newCipherSetup(t, n)
		st, proof, msgs := proveShuffle(t, cs, m, n)
		require.NoError(t, proof.Verify(cs.pp, st, newTranscript()), "m=%d n=%d", m, n)

		// The plaintext multiset is preserved.
		seen := make(map[string]int)
		for _, msg := range msgs {
			seen[string(msg.Bytes())]++
		}
		for _, c := range st.Shuffled {
			seen[string(elgamal.Decrypt(cs.sk, c).Bytes())]--
		}
		for _, count := range seen {
			require.Zero(t, count)
		}
	}
}

func TestShuffleArgumentEncoding(t *testing.T) {
	cs := newCipherSetup(t, 3)
	st, proof, _ := proveShuffle(t, cs, 2, 3)

	raw, err := proof.MarshalBinary()
	require.NoError(t, err)
	var decoded argument.ShuffleProof
	require.NoError(t, decoded.UnmarshalBinary(raw))
	require.NoError(t, decoded.Verify(cs.pp, st, newTranscript()))

	require.ErrorIs(t, decoded.UnmarshalBinary(raw[:len(raw)-1]), essentials.ErrEncoding)
	require.ErrorIs(t, decoded.UnmarshalBinary(append(raw, 0)), essentials.ErrEncoding)
}

func TestShuffleArgumentTampered(t *testing.T) {
	cs := newCipherSetup(t, 3)
	st, proof, _ := proveShuffle(t, cs, 2, 3)

	tampered := *st
	tampered.Shuffled = append([]elgamal.Ciphertext(nil), st.Shuffled...)
	tampered.Shuffled[0], tampered.Shuffled[1] = tampered.Shuffled[1], tampered.Shuffled[0]
	require.ErrorIs(t, proof.Verify(cs.pp, &tampered, newTranscript()), essentials.ErrProofVerification)

	require.ErrorIs(t, proof.Verify(cs.pp, st, transcript.New([]byte("other"))), essentials.ErrProofVerification)
}

func TestShuffleArgumentNotAShuffle(t *testing.T) {
	const m, n = 2, 3
	cs := newCipherSetup(t, n)
	input, _ := cs.ciphers(t, m*n)
	perm, err := permutation.New(rand.Reader, m*n)
	require.NoError(t, err)
	shuffled, w, err := argument.Shuffle(rand.Reader, cs.pp, input, perm)
	require.NoError(t, err)

	// Replace one output with a fresh ciphertext.
	fresh, _ := cs.ciphers(t, 1)
	shuffled[2] = fresh[0]

	st := &argument.ShuffleStatement{Input: input, Shuffled: shuffled, M: m, N: n}
	proof, err := argument.ProveShuffle(context.Background(), rand.Reader, cs.pp, st, w, newTranscript())
	require.NoError(t, err)
	requireVerificationError(t, proof.Verify(cs.pp, st, newTranscript()), argument.MultiExpName)
}

func TestShuffleInvalidStatement(t *testing.T) {
	cs := newCipherSetup(t, 3)
	input, _ := cs.ciphers(t, 6)

	st := &argument.ShuffleStatement{Input: input, Shuffled: input[:5], M: 2, N: 3}
	require.ErrorIs(t, st.Validate(), essentials.ErrInvalidShuffleStatement)

	perm := permutation.Identity(6)
	_, err := argument.ProveShuffle(context.Background(), rand.Reader, cs.pp, st,
		&argument.ShuffleWitness{Permutation: perm, Rho: scalars(t, 6)}, newTranscript())
	require.ErrorIs(t, err, essentials.ErrInvalidShuffleStatement)

	var proof argument.ShuffleProof
	require.ErrorIs(t, proof.Verify(cs.pp, st, newTranscript()), essentials.ErrInvalidShuffleStatement)
}
