// Package zk provides sigma protocols made non-interactive with a
// Fiat-Shamir transcript:
//
//   - Schnorr identification: knowledge of sk with pk = sk*G.
//   - Chaum-Pedersen: equality of discrete logarithms, A = x*G and B = x*H.
//
// Prover and verifier must start from transcripts in the same state. The
// transcript is mutated by both calls, so a caller composing several proofs
// on one transcript gets them bound to each other.
//
// Proofs are plain values and can be copied freely. MarshalBinary and
// UnmarshalBinary give their canonical encoding.
package zk
