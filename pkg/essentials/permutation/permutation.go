// Package permutation implements permutations of {0, ..., n-1} and their
// application to vectors.
package permutation

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Permutation maps position i of an output vector to position p(i) of the
// input vector.
type Permutation struct {
	mapping []int
}

// Identity returns the identity permutation of the given size.
func Identity(size int) Permutation {
	m := make([]int, size)
	for i := range m {
		m[i] = i
	}
	return Permutation{mapping: m}
}

// New samples a uniform permutation with a Fisher-Yates shuffle. A nil rng
// uses crypto/rand.
func New(rng io.Reader, size int) (Permutation, error) {
	if size < 0 {
		return Permutation{}, errors.New("negative permutation size")
	}
	if rng == nil {
		rng = rand.Reader
	}
	p := Identity(size)
	for i := size - 1; i > 0; i-- {
		j, err := uniform(rng, uint64(i+1))
		if err != nil {
			return Permutation{}, fmt.Errorf("sample permutation: %w", err)
		}
		p.mapping[i], p.mapping[j] = p.mapping[j], p.mapping[i]
	}
	return p, nil
}

// uniform returns an unbiased value in [0, bound) by rejection sampling.
func uniform(rng io.Reader, bound uint64) (int, error) {
	limit := ^uint64(0) - ^uint64(0)%bound
	var buf [8]byte
	for {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return int(v % bound), nil
		}
	}
}

// FromMapping builds a permutation from an explicit mapping, rejecting
// anything that is not a bijection on {0, ..., len(mapping)-1}.
func FromMapping(mapping []int) (Permutation, error) {
	seen := make([]bool, len(mapping))
	for i, v := range mapping {
		if v < 0 || v >= len(mapping) {
			return Permutation{}, fmt.Errorf("permutation: index %d maps out of range to %d", i, v)
		}
		if seen[v] {
			return Permutation{}, fmt.Errorf("permutation: %d is hit twice", v)
		}
		seen[v] = true
	}
	return Permutation{mapping: append([]int(nil), mapping...)}, nil
}

// Size returns the number of permuted positions.
func (p Permutation) Size() int { return len(p.mapping) }

// At returns p(i).
func (p Permutation) At(i int) int { return p.mapping[i] }

// Mapping returns a copy of the underlying mapping.
func (p Permutation) Mapping() []int { return append([]int(nil), p.mapping...) }

// Inverse returns q with q(p(i)) = i.
func (p Permutation) Inverse() Permutation {
	inv := make([]int, len(p.mapping))
	for i, v := range p.mapping {
		inv[v] = i
	}
	return Permutation{mapping: inv}
}

// Apply returns out with out[i] = v[p(i)].
func Apply[T any](p Permutation, v []T) ([]T, error) {
	if len(v) != len(p.mapping) {
		return nil, fmt.Errorf("permutation of size %d applied to vector of length %d", len(p.mapping), len(v))
	}
	out := make([]T, len(v))
	for i, j := range p.mapping {
		out[i] = v[j]
	}
	return out, nil
}
