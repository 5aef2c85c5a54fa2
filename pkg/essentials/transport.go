package essentials

import "context"

// RoleID is a party's index in a multi-party protocol, from 0 to parties-1.
type RoleID uint32

// Transport moves protocol messages between parties.
//
// Implementations must be safe for concurrent use and must deliver the
// messages of each ordered pair of parties in the order they were sent.
// ReceiveAll returns exactly one message per requested role and fails on
// duplicate or unknown roles. Blocking calls return ctx.Err() when ctx ends.
type Transport interface {
	Send(ctx context.Context, to RoleID, msg []byte) error
	Receive(ctx context.Context, from RoleID) ([]byte, error)
	ReceiveAll(ctx context.Context, from []RoleID) (map[RoleID][]byte, error)
}
