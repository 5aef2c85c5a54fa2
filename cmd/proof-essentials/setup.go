package main

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/argument"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/commitment"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/elgamal"
)

// deployment is the public setup shared by every party of a run, plus the
// decryption key the tool keeps for checking results.
type deployment struct {
	session essentials.SessionID
	params  *argument.Parameters
	sk      *elgamal.SecretKey
}

func newDeployment(c *essentials.Config) (*deployment, error) {
	label := c.SessionLabel
	if label == "" {
		label = uuid.NewString()
	}
	session := essentials.NewSessionID([]byte(label))

	ck, err := commitment.SetupFromSeed(session.Bytes(), c.Shuffle.Cols)
	if err != nil {
		return nil, fmt.Errorf("commitment key: %w", err)
	}
	enc := elgamal.DefaultParameters()
	pk, sk, err := elgamal.KeyGen(enc, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &deployment{
		session: session,
		params:  argument.NewParameters(enc, pk, ck),
		sk:      sk,
	}, nil
}

// encryptDeck encrypts the plaintexts i*G for i = 1..size.
func (d *deployment) encryptDeck(size int) ([]elgamal.Ciphertext, []curve.Point, error) {
	cards := make([]curve.Point, size)
	deck := make([]elgamal.Ciphertext, size)
	for i := range deck {
		r, err := curve.RandomScalar(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		cards[i] = curve.MulGenerator(curve.NewScalar(uint64(i + 1)))
		deck[i] = elgamal.Encrypt(d.params.Encryption, d.params.PublicKey, cards[i], r)
	}
	return deck, cards, nil
}

// sameMultiset reports whether cs decrypt to a permutation of cards.
func (d *deployment) sameMultiset(cs []elgamal.Ciphertext, cards []curve.Point) bool {
	if len(cs) != len(cards) {
		return false
	}
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[string(c.Bytes())]++
	}
	for _, c := range cs {
		key := string(elgamal.Decrypt(d.sk, c).Bytes())
		if counts[key] == 0 {
			return false
		}
		counts[key]--
	}
	return true
}
