package elgamal_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
)

func scalar(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	return s
}

func point(t *testing.T) curve.Point {
	t.Helper()
	p, err := curve.RandomPoint(rand.Reader)
	require.NoError(t, err)
	return p
}

func TestEncryptDecrypt(t *testing.T) {
	pp, err := elgamal.Setup(rand.Reader)
	require.NoError(t, err)
	pk, sk, err := elgamal.KeyGen(pp, rand.Reader)
	require.NoError(t, err)

	m := point(t)
	c := elgamal.Encrypt(pp, pk, m, scalar(t))
	require.True(t, elgamal.Decrypt(sk, c).Equal(m))

	_, other, err := elgamal.KeyGen(pp, rand.Reader)
	require.NoError(t, err)
	require.False(t, elgamal.Decrypt(other, c).Equal(m))
}

func TestHomomorphism(t *testing.T) {
	pp := elgamal.DefaultParameters()
	pk, sk, err := elgamal.KeyGen(pp, rand.Reader)
	require.NoError(t, err)

	m1, m2 := point(t), point(t)
	r1, r2 := scalar(t), scalar(t)
	c1 := elgamal.Encrypt(pp, pk, m1, r1)
	c2 := elgamal.Encrypt(pp, pk, m2, r2)

	sum := c1.Add(c2)
	require.True(t, sum.Equal(elgamal.Encrypt(pp, pk, m1.Add(m2), r1.Add(r2))))
	require.True(t, elgamal.Decrypt(sk, sum).Equal(m1.Add(m2)))

	k := scalar(t)
	require.True(t, elgamal.Decrypt(sk, c1.Mul(k)).Equal(m1.Mul(k)))
}

func TestZeroCiphertextIsIdentity(t *testing.T) {
	pp := elgamal.DefaultParameters()
	pk, sk, err := elgamal.KeyGen(pp, rand.Reader)
	require.NoError(t, err)

	var zero elgamal.Ciphertext
	require.True(t, zero.Equal(elgamal.Encrypt(pp, pk, curve.Identity(), curve.Zero())))
	require.True(t, elgamal.Decrypt(sk, zero).IsIdentity())
}

func TestRerandomize(t *testing.T) {
	pp := elgamal.DefaultParameters()
	pk, sk, err := elgamal.KeyGen(pp, rand.Reader)
	require.NoError(t, err)

	m := point(t)
	c := elgamal.Encrypt(pp, pk, m, scalar(t))
	c2 := elgamal.Rerandomize(pp, pk, c, scalar(t))
	require.False(t, c.Equal(c2))
	require.True(t, elgamal.Decrypt(sk, c2).Equal(m))
}

func TestCiphertextEncoding(t *testing.T) {
	pp := elgamal.DefaultParameters()
	pk, _, err := elgamal.KeyGen(pp, rand.Reader)
	require.NoError(t, err)

	cs := make([]elgamal.Ciphertext, 3)
	for i := range cs {
		cs[i] = elgamal.Encrypt(pp, pk, point(t), scalar(t))
	}

	b := cs[0].Bytes()
	require.Len(t, b, elgamal.CiphertextSize)
	got, err := elgamal.CiphertextFromBytes(b)
	require.NoError(t, err)
	require.True(t, got.Equal(cs[0]))

	_, err = elgamal.CiphertextFromBytes(b[:10])
	require.ErrorIs(t, err, essentials.ErrEncoding)

	vec, err := elgamal.UnmarshalCiphertexts(elgamal.MarshalCiphertexts(cs))
	require.NoError(t, err)
	require.Len(t, vec, 3)
	for i := range cs {
		require.True(t, vec[i].Equal(cs[i]))
	}

	_, err = elgamal.UnmarshalCiphertexts([]byte{9, 0, 0, 0, 1})
	require.ErrorIs(t, err, essentials.ErrEncoding)
}

func TestUnmarshalCiphertextsRejectsOversizedCount(t *testing.T) {
	// Count 1000 with room for a single ciphertext.
	raw := append([]byte{0xe8, 0x03, 0, 0}, make([]byte, elgamal.CiphertextSize)...)
	_, err := elgamal.UnmarshalCiphertexts(raw)
	require.ErrorIs(t, err, essentials.ErrEncoding)
}
