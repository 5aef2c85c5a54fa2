package essentials

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
)

// SessionID identifies one run of a protocol. It seeds the Fiat-Shamir
// transcript so that proofs produced for one session do not verify in another.
type SessionID []byte

// NewSessionID copies b into a SessionID.
func NewSessionID(b []byte) SessionID {
	if len(b) == 0 {
		return nil
	}
	out := make(SessionID, len(b))
	copy(out, b)
	return out
}

// RandomSessionID returns a fresh 32-byte session identifier.
func RandomSessionID() (SessionID, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return SessionID(buf), nil
}

// Clone creates a defensive copy of the SessionID.
func (s SessionID) Clone() SessionID {
	if len(s) == 0 {
		return nil
	}
	clone := make(SessionID, len(s))
	copy(clone, s)
	return clone
}

// IsEmpty returns true if the SessionID is nil or zero-length.
func (s SessionID) IsEmpty() bool {
	return len(s) == 0
}

// Bytes returns a copy of the identifier bytes.
func (s SessionID) Bytes() []byte {
	return []byte(s.Clone())
}

// Derive returns a child identifier bound to label and index, used to give
// each round of a multi-round protocol its own transcript. The encoding is
// u32 len(s) || s || label || u32 index, all little-endian, so distinct
// inputs never yield the same child.
func (s SessionID) Derive(label string, index uint32) (SessionID, error) {
	if s.IsEmpty() {
		return nil, errors.New("empty session ID")
	}
	out := make(SessionID, 0, 4+len(s)+len(label)+4)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(s)))
	out = append(out, s...)
	out = append(out, label...)
	out = binary.LittleEndian.AppendUint32(out, index)
	return out, nil
}
