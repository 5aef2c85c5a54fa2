// Package argument implements the Bayer-Groth (EUROCRYPT 2012) zero-knowledge
// argument for the correctness of a shuffle of ElGamal ciphertexts, together
// with the sub-arguments it is composed from:
//
//   - single value product (section 5.3)
//   - zero argument over a bilinear map (section 5.2)
//   - Hadamard product (section 5.1)
//   - product of matrix elements (section 5)
//   - multi-exponentiation (section 4)
//   - shuffle (section 3)
//
// All arguments are made non-interactive with a transcript.Transcript. A
// prover and a verifier must hand in transcripts in the same state; each
// argument absorbs its public inputs and messages in a fixed order, so
// arguments composed on one transcript are bound to each other.
//
// Verification failures are reported as *essentials.VerificationError naming
// the argument. Proofs encode with MarshalBinary and decode with
// UnmarshalBinary; malformed input yields essentials.ErrEncoding.
package argument
