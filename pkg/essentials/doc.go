// Package essentials is the root of a toolbox of cryptographic primitives and
// zero-knowledge protocols that can be used to build higher level protocols
// and schemes.
//
// The subpackages are layered:
//
//   - curve: the secp256k1 prime-order group (Scalar, Point, hash-to-curve)
//   - transcript: Fiat-Shamir challenge derivation
//   - commitment: Pedersen vector commitments
//   - elgamal: additively homomorphic ElGamal over the group
//   - permutation: uniformly random permutations
//   - zk: Schnorr identification and Chaum-Pedersen DLEQ proofs
//   - argument: the Bayer-Groth shuffle argument and its sub-arguments
//   - vuf: the FEDL verifiable unpredictable function
//   - mixnet: a multi-party verifiable shuffle over a Transport
//
// This package holds what they share: the error taxonomy, session
// identifiers, the Transport contract and configuration.
package essentials
