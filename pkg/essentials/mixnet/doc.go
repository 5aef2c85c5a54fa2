// Package mixnet runs a verifiable re-encryption mix among several parties.
//
// Parties take turns in round order. In round i party i shuffles and
// re-randomizes the current ciphertext list, proves the shuffle and
// broadcasts the result. Every other party verifies the proof before
// adopting the new list. If every proof verifies, no single party knows the
// overall permutation unless all of them collude. A party that receives an
// invalid proof aborts with a *RoundError.
package mixnet
