package argument

import (
	"errors"
	"fmt"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/commitment"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/vecops"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
)

var (
	errNilKey        = errors.New("nil commitment key")
	errNilTranscript = errors.New("nil transcript")
	errNilRand       = errors.New("nil randomness source")
	errNilStatement  = errors.New("nil statement")
	errNilWitness    = errors.New("nil witness")
	errNilProof      = errors.New("nil proof")
)

// commitAll commits to each vector with the matching randomness.
func commitAll(ck *commitment.Key, vs [][]curve.Scalar, rs []curve.Scalar) ([]commitment.Commitment, error) {
	if len(vs) != len(rs) {
		return nil, &essentials.LengthError{Op: essentials.OpDotProduct, Left: len(vs), Right: len(rs)}
	}
	out := make([]commitment.Commitment, len(vs))
	for i := range vs {
		c, err := commitment.Commit(ck, vs[i], rs[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// checkMatrix reports an error unless vs has m rows of length n.
func checkMatrix(what string, vs [][]curve.Scalar, m, n int) error {
	if len(vs) != m {
		return fmt.Errorf("%s: got %d vectors, want %d", what, len(vs), m)
	}
	for i, v := range vs {
		if len(v) != n {
			return fmt.Errorf("%s: vector %d has length %d, want %d", what, i, len(v), n)
		}
	}
	return nil
}

// combine returns sum(weights[i] * vs[i]) for vectors of equal length n.
func combine(weights []curve.Scalar, vs [][]curve.Scalar, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i, v := range vs {
		for j := range out {
			out[j] = out[j].Add(v[j].Mul(weights[i]))
		}
	}
	return out
}

// negOnes returns the vector (-1, ..., -1).
func negOnes(n int) []curve.Scalar {
	return vecops.Repeat(curve.One().Neg(), n)
}

// absorbKey is the encoding of a commitment key inside transcripts.
func absorbKey(e *wire.Encoder, ck *commitment.Key) *wire.Encoder {
	return e.Points(ck.G).Point(ck.H)
}

// Proof types share one encoding entry point.
type encodable interface {
	encode(e *wire.Encoder)
}

func marshal(p encodable) []byte {
	e := wire.NewEncoder()
	p.encode(e)
	return e.Bytes()
}

func decodeFinish(b []byte, decode func(d *wire.Decoder)) error {
	d := wire.NewDecoder(b)
	decode(d)
	return d.Finish()
}
