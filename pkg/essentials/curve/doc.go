// Package curve provides the prime-order group used by every protocol in this
// module: the secp256k1 elliptic curve.
//
// # Key Types
//
//   - Scalar: an element of the scalar field (integers modulo the group order)
//   - Point: a group element; the zero value is the identity
//
// Both are small value types. They can be copied, compared with Equal and
// shared across goroutines without synchronization.
//
// # Common Operations
//
//	// Generate random scalar
//	x, err := curve.RandomScalar(rand.Reader)
//
//	// Multiply generator by scalar: Q = x * G
//	q := curve.MulGenerator(x)
//
//	// Map a message to a point with unknown discrete logarithm
//	h, err := curve.HashToCurve([]byte("message"))
//
// Scalar multiplication is variable time. Do not use this package where the
// timing of operations on secret scalars is observable by an adversary.
package curve
