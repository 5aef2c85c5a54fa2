package transcript_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
)

func TestSameInputsSameChallenges(t *testing.T) {
	a := transcript.New([]byte("Initialised with some input"))
	b := transcript.New([]byte("Initialised with some input"))

	a.Absorb([]byte("label"), []byte{1, 2, 3})
	b.Absorb([]byte("label"), []byte{1, 2, 3})

	require.True(t, a.ChallengeScalar().Equal(b.ChallengeScalar()))
	require.True(t, a.ChallengeScalar().Equal(b.ChallengeScalar()))
}

func TestChallengesDiverge(t *testing.T) {
	base := transcript.New([]byte("seed"))

	other := transcript.New([]byte("other seed"))
	require.False(t, base.Clone().ChallengeScalar().Equal(other.ChallengeScalar()))

	absorbed := base.Clone()
	absorbed.Absorb([]byte("x"))
	require.False(t, base.Clone().ChallengeScalar().Equal(absorbed.ChallengeScalar()))

	first := base.ChallengeScalar()
	second := base.ChallengeScalar()
	require.False(t, first.Equal(second))
}

func TestCloneIsIndependent(t *testing.T) {
	a := transcript.New([]byte("seed"))
	_ = a.ChallengeScalar()
	b := a.Clone()

	require.True(t, a.ChallengeScalar().Equal(b.ChallengeScalar()))

	a.Absorb([]byte("only a"))
	require.False(t, a.ChallengeScalar().Equal(b.ChallengeScalar()))
}

func TestReadIsDeterministic(t *testing.T) {
	a := transcript.New([]byte("seed"))
	b := transcript.New([]byte("seed"))
	bufA := make([]byte, 100)
	bufB := bytes.Repeat([]byte{0xff}, 100)
	_, _ = a.Read(bufA)
	_, _ = b.Read(bufB)
	require.Equal(t, bufA, bufB)
}
