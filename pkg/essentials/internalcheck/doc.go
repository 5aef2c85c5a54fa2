// Package internalcheck holds static policy tests run over the library
// packages. It is not intended for external use.
//
// The tests load every package under pkg/essentials with
// golang.org/x/tools/go/packages and reject:
//
//   - == or != between byte slices or byte arrays (use crypto/subtle),
//   - %x formatting in fmt and log calls (secrets must not reach logs as hex),
//   - imports of math/rand outside tests (randomness comes from crypto/rand
//     or an injected io.Reader).
package internalcheck
