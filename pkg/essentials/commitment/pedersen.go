// Package commitment implements Pedersen vector commitments.
//
// A commitment to x = (x_1..x_k) with randomness r under the key
// (G_1..G_n, H), k <= n, is
//
//	com(x; r) = r*H + x_1*G_1 + ... + x_k*G_k
//
// The scheme is perfectly hiding, computationally binding under the discrete
// logarithm assumption, and additively homomorphic:
// com(x; r) + com(y; s) = com(x + y; r + s).
package commitment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/internal/wire"
)

// Scheme is the name reported in CommitmentLengthError.
const Scheme = "Pedersen"

// Commitment is a group element. Commitments add and scale like points.
type Commitment = curve.Point

// Key is a Pedersen commitment key. Nobody may know a discrete logarithm
// relation between its points.
type Key struct {
	G []curve.Point
	H curve.Point
}

// NewKey builds a key from existing bases.
func NewKey(g []curve.Point, h curve.Point) *Key {
	return &Key{G: append([]curve.Point(nil), g...), H: h}
}

// Setup samples a key able to commit to up to n values. rng must be public
// randomness (or the output of a trusted setup) for the key to be binding.
func Setup(rng io.Reader, n int) (*Key, error) {
	if n < 1 {
		return nil, errors.New("commitment key length must be positive")
	}
	g := make([]curve.Point, n)
	for i := range g {
		p, err := curve.RandomPoint(rng)
		if err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
		g[i] = p
	}
	h, err := curve.RandomPoint(rng)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	return &Key{G: g, H: h}, nil
}

// SetupFromSeed derives a key deterministically by hashing seed onto the
// curve, so that no party knows the discrete logarithms of the bases.
func SetupFromSeed(seed []byte, n int) (*Key, error) {
	if n < 1 {
		return nil, errors.New("commitment key length must be positive")
	}
	derive := func(i uint32) (curve.Point, error) {
		msg := wire.NewEncoder().Label("pedersen-key").Blob(seed).Uint32(i).Bytes()
		return curve.HashToCurve(msg)
	}
	g := make([]curve.Point, n)
	for i := range g {
		p, err := derive(uint32(i))
		if err != nil {
			return nil, err
		}
		g[i] = p
	}
	h, err := derive(uint32(n))
	if err != nil {
		return nil, err
	}
	return &Key{G: g, H: h}, nil
}

// Len returns the maximum number of values the key commits to.
func (k *Key) Len() int {
	if k == nil {
		return 0
	}
	return len(k.G)
}

// Bytes returns the canonical encoding of the key.
func (k *Key) Bytes() []byte {
	return wire.NewEncoder().Points(k.G).Point(k.H).Bytes()
}

// KeyFromBytes decodes a key produced by Bytes.
func KeyFromBytes(b []byte) (*Key, error) {
	d := wire.NewDecoder(b)
	k := &Key{G: d.Points()}
	k.H = d.Point()
	if err := d.Finish(); err != nil {
		return nil, err
	}
	if len(k.G) == 0 {
		return nil, fmt.Errorf("%w: empty commitment key", essentials.ErrEncoding)
	}
	return k, nil
}

// Commit returns com(x; r). x may be shorter than the key.
func Commit(k *Key, x []curve.Scalar, r curve.Scalar) (Commitment, error) {
	if k == nil {
		return Commitment{}, errors.New("nil commitment key")
	}
	if len(x) > len(k.G) {
		return Commitment{}, &essentials.CommitmentLengthError{Scheme: Scheme, Values: len(x), Bases: len(k.G)}
	}
	acc := k.H.Mul(r)
	for i, xi := range x {
		acc = acc.Add(k.G[i].Mul(xi))
	}
	return acc, nil
}

// CommitColumns commits to each vector in columns with the matching
// randomness, computing the commitments concurrently.
func CommitColumns(ctx context.Context, k *Key, columns [][]curve.Scalar, rs []curve.Scalar) ([]Commitment, error) {
	if len(columns) != len(rs) {
		return nil, &essentials.LengthError{Op: essentials.OpDotProduct, Left: len(columns), Right: len(rs)}
	}
	out := make([]Commitment, len(columns))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range columns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := Commit(k, columns[i], rs[i])
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Open reports whether c is a commitment to x with randomness r.
func Open(k *Key, c Commitment, x []curve.Scalar, r curve.Scalar) (bool, error) {
	want, err := Commit(k, x, r)
	if err != nil {
		return false, err
	}
	return want.Equal(c), nil
}
