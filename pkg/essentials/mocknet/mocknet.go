package mocknet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
)

// Net is a set of in-memory links between parties.
type Net struct {
	mu    sync.Mutex
	pipes map[link]*pipe
}

// New returns an empty network.
func New() *Net { return &Net{pipes: make(map[link]*pipe)} }

type link struct {
	from essentials.RoleID
	to   essentials.RoleID
}

func (n *Net) pipe(from, to essentials.RoleID) *pipe {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.pipes[link{from, to}]
	if p == nil {
		p = &pipe{ready: make(chan struct{}, 1)}
		n.pipes[link{from, to}] = p
	}
	return p
}

// pipe is a FIFO queue. ready holds a token whenever the queue may be
// non-empty.
type pipe struct {
	mu    sync.Mutex
	queue [][]byte
	ready chan struct{}
}

func (p *pipe) push(msg []byte) {
	p.mu.Lock()
	p.queue = append(p.queue, append([]byte(nil), msg...))
	p.mu.Unlock()
	p.signal()
}

func (p *pipe) signal() {
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

func (p *pipe) pop(ctx context.Context) ([]byte, error) {
	for {
		p.mu.Lock()
		if len(p.queue) > 0 {
			msg := p.queue[0]
			p.queue[0] = nil
			p.queue = p.queue[1:]
			more := len(p.queue) > 0
			p.mu.Unlock()
			if more {
				p.signal()
			}
			return msg, nil
		}
		p.mu.Unlock()

		select {
		case <-p.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Endpoint is one party's view of the network.
type Endpoint struct {
	net   *Net
	self  essentials.RoleID
	peers map[essentials.RoleID]struct{}
}

// Endpoint returns the endpoint of self, able to talk to peers. self is
// ignored if it appears in peers.
func (n *Net) Endpoint(self essentials.RoleID, peers []essentials.RoleID) *Endpoint {
	set := make(map[essentials.RoleID]struct{}, len(peers))
	for _, p := range peers {
		if p != self {
			set[p] = struct{}{}
		}
	}
	return &Endpoint{net: n, self: self, peers: set}
}

// Mesh returns fully connected endpoints for parties 0..parties-1.
func (n *Net) Mesh(parties int) []*Endpoint {
	roles := make([]essentials.RoleID, parties)
	for i := range roles {
		roles[i] = essentials.RoleID(i)
	}
	out := make([]*Endpoint, parties)
	for i := range out {
		out[i] = n.Endpoint(roles[i], roles)
	}
	return out
}

// Self returns the endpoint's role.
func (e *Endpoint) Self() essentials.RoleID { return e.self }

func (e *Endpoint) checkPeer(role essentials.RoleID) error {
	if role == e.self {
		return errors.New("mocknet: self addressed message")
	}
	if _, ok := e.peers[role]; !ok {
		return fmt.Errorf("mocknet: unknown peer %d", role)
	}
	return nil
}

// Send queues msg for to. It never blocks on the receiver.
func (e *Endpoint) Send(ctx context.Context, to essentials.RoleID, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.checkPeer(to); err != nil {
		return err
	}
	e.net.pipe(e.self, to).push(msg)
	return nil
}

// Receive returns the next message from from.
func (e *Endpoint) Receive(ctx context.Context, from essentials.RoleID) ([]byte, error) {
	if err := e.checkPeer(from); err != nil {
		return nil, err
	}
	return e.net.pipe(from, e.self).pop(ctx)
}

// ReceiveAll returns the next message from each role in from.
func (e *Endpoint) ReceiveAll(ctx context.Context, from []essentials.RoleID) (map[essentials.RoleID][]byte, error) {
	roles := slices.Clone(from)
	slices.Sort(roles)
	for i, role := range roles {
		if err := e.checkPeer(role); err != nil {
			return nil, err
		}
		if i > 0 && roles[i-1] == role {
			return nil, errors.New("mocknet: duplicate role")
		}
	}

	out := make(map[essentials.RoleID][]byte, len(roles))
	for _, role := range roles {
		msg, err := e.net.pipe(role, e.self).pop(ctx)
		if err != nil {
			return nil, err
		}
		out[role] = msg
	}
	return out, nil
}

var _ essentials.Transport = (*Endpoint)(nil)
