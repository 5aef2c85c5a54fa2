package curve

import (
	"golang.org/x/crypto/sha3"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
)

// ErrHashToCurve is returned when no nonce maps a message to a valid point.
// With 256 attempts this happens with probability about 2^-256.
var ErrHashToCurve = essentials.ErrHashToCurve

// HashToCurve maps msg to a group element whose discrete logarithm with
// respect to any other known point is unknown.
//
// It uses try-and-increment: for nonce = 0..255 the SHAKE128 output of
// nonce || msg is read as a y-parity byte followed by a 32-byte x coordinate,
// and the first coordinate on the curve is returned.
func HashToCurve(msg []byte) (Point, error) {
	var out [PointSize]byte
	for nonce := 0; nonce <= 255; nonce++ {
		h := sha3.NewShake128()
		_, _ = h.Write([]byte{byte(nonce)})
		_, _ = h.Write(msg)
		_, _ = h.Read(out[:])

		if p, ok := pointFromX(out[1:], out[0]&1 == 1); ok {
			return p, nil
		}
	}
	return Point{}, ErrHashToCurve
}
