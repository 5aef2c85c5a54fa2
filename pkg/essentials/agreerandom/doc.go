// Package agreerandom lets two or more parties jointly generate a random
// value that none of them controls.
//
// Every party commits to a fresh random seed, broadcasts the commitment,
// then reveals the seed once all commitments are in. The output is the XOR
// of the revealed seeds, so it is uniform as long as one party is honest. A
// party that opens to a different seed, or sends a malformed message, makes
// the protocol abort.
//
// # Usage
//
//	out, err := agreerandom.MultiAgreeRandom(ctx, &agreerandom.Params{
//		Session:   sid,
//		Transport: tr,
//		Self:      self,
//		Parties:   n,
//	}, 256)
//
// AgreeSession wraps this to produce a fresh essentials.SessionID, which the
// mixnet package uses to seed per-run transcripts.
package agreerandom
