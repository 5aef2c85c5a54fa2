// Package mocknet provides an in-memory essentials.Transport for tests, the
// command line tool and examples. Every party runs in the same process; a Net
// connects them with one ordered, unbounded queue per directed pair.
package mocknet
