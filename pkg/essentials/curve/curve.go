package curve

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	// Name is the standard name of the group.
	Name = "secp256k1"

	// ScalarSize is the length of an encoded Scalar.
	ScalarSize = 32

	// PointSize is the length of an encoded Point (SEC1 compressed).
	PointSize = 33

	// uniformSize is the number of random bytes reduced into one scalar;
	// twice the order length keeps the bias negligible.
	uniformSize = 64
)

// order is the group order n.
var order = new(big.Int).Set(btcec.S256().N)

// Order returns a copy of the group order.
func Order() *big.Int {
	return new(big.Int).Set(order)
}
