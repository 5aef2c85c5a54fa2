// Package wire implements the canonical byte encoding shared by transcripts
// and proof serialization.
//
// Scalars are 32 bytes big-endian, points 33 bytes compressed, integers and
// vector lengths 4 bytes little-endian.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
)

// maxVectorLen bounds decoded vector lengths so that a hostile length prefix
// cannot trigger a huge allocation.
const maxVectorLen = 1 << 20

// Encoder appends values to a byte buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the encoded buffer.
func (e *Encoder) Bytes() []byte { return e.buf }

// Raw appends b without a length prefix.
func (e *Encoder) Raw(b []byte) *Encoder {
	e.buf = append(e.buf, b...)
	return e
}

// Label appends a domain separation label without a length prefix.
func (e *Encoder) Label(s string) *Encoder {
	e.buf = append(e.buf, s...)
	return e
}

// Uint32 appends v little-endian.
func (e *Encoder) Uint32(v uint32) *Encoder {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
	return e
}

// Len appends a vector length.
func (e *Encoder) Len(n int) *Encoder {
	return e.Uint32(uint32(n))
}

// Blob appends a length-prefixed byte string.
func (e *Encoder) Blob(b []byte) *Encoder {
	e.Len(len(b))
	e.buf = append(e.buf, b...)
	return e
}

func (e *Encoder) Scalar(s curve.Scalar) *Encoder {
	e.buf = append(e.buf, s.Bytes()...)
	return e
}

func (e *Encoder) Scalars(ss []curve.Scalar) *Encoder {
	e.Len(len(ss))
	for _, s := range ss {
		e.Scalar(s)
	}
	return e
}

func (e *Encoder) Point(p curve.Point) *Encoder {
	e.buf = append(e.buf, p.Bytes()...)
	return e
}

func (e *Encoder) Points(ps []curve.Point) *Encoder {
	e.Len(len(ps))
	for _, p := range ps {
		e.Point(p)
	}
	return e
}

// Decoder reads values written by Encoder. The first failure is sticky: later
// reads return zero values and Finish reports the error.
type Decoder struct {
	buf []byte
	err error
}

// NewDecoder returns a Decoder over b.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

func (d *Decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", essentials.ErrEncoding, fmt.Sprintf(format, args...))
	}
}

// Err returns the first decoding error.
func (d *Decoder) Err() error { return d.err }

// Finish returns the first decoding error, or an error if input remains.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if len(d.buf) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", essentials.ErrEncoding, len(d.buf))
	}
	return nil
}

// Next consumes n raw bytes.
func (d *Decoder) Next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.buf) < n {
		d.fail("need %d bytes, have %d", n, len(d.buf))
		return nil
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out
}

func (d *Decoder) Uint32() uint32 {
	b := d.Next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// Len reads a vector length, rejecting implausible values.
func (d *Decoder) Len() int {
	n := d.Uint32()
	if n > maxVectorLen {
		d.fail("vector length %d too large", n)
		return 0
	}
	return int(n)
}

// Count reads a vector length and checks that the remaining input can hold
// that many elements of elemSize bytes, so a hostile prefix cannot force a
// large allocation.
func (d *Decoder) Count(elemSize int) int {
	n := d.Len()
	if d.err != nil {
		return 0
	}
	if n > len(d.buf)/elemSize {
		d.fail("%d elements of %d bytes, have %d bytes", n, elemSize, len(d.buf))
		return 0
	}
	return n
}

func (d *Decoder) Blob() []byte {
	n := d.Len()
	b := d.Next(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (d *Decoder) Scalar() curve.Scalar {
	b := d.Next(curve.ScalarSize)
	if b == nil {
		return curve.Scalar{}
	}
	s, err := curve.ScalarFromBytes(b)
	if err != nil {
		d.fail("scalar: %v", err)
	}
	return s
}

func (d *Decoder) Scalars() []curve.Scalar {
	n := d.Count(curve.ScalarSize)
	if d.err != nil {
		return nil
	}
	out := make([]curve.Scalar, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, d.Scalar())
	}
	return out
}

func (d *Decoder) Point() curve.Point {
	b := d.Next(curve.PointSize)
	if b == nil {
		return curve.Point{}
	}
	p, err := curve.PointFromBytes(b)
	if err != nil {
		d.fail("point: %v", err)
	}
	return p
}

func (d *Decoder) Points() []curve.Point {
	n := d.Count(curve.PointSize)
	if d.err != nil {
		return nil
	}
	out := make([]curve.Point, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, d.Point())
	}
	return out
}
